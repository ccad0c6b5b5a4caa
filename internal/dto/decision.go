package dto

import (
	"time"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
)

// DecisionRequest records an approve or reject decision on an expense.
type DecisionRequest struct {
	Decision domain.Decision `json:"decision" binding:"required,decision"`
	Comment  *string         `json:"comment" binding:"omitempty,max=1000"`
}

// ResolutionResponse is the computed outcome of an expense.
type ResolutionResponse struct {
	Outcome       domain.ResolutionKind `json:"outcome"`
	NextApprovers []string              `json:"nextApprovers,omitempty"`
	RejectedBy    string                `json:"rejectedBy,omitempty"`
}

// ToResolutionResponse flattens a domain.Resolution.
func ToResolutionResponse(r domain.Resolution) ResolutionResponse {
	res := ResolutionResponse{Outcome: r.Kind()}
	switch r.Kind() {
	case domain.ResolutionPending:
		res.NextApprovers = r.NextApprovers()
	case domain.ResolutionRejected:
		res.RejectedBy = r.RejectedBy()
	}
	return res
}

// DecisionResponse is returned after a decision is recorded.
type DecisionResponse struct {
	ExpenseID  string             `json:"expenseID"`
	Resolution ResolutionResponse `json:"resolution"`
}

// ApprovalResponse is one ledger entry.
type ApprovalResponse struct {
	ApprovalID string          `json:"approvalID"`
	ApproverID string          `json:"approverID"`
	Decision   domain.Decision `json:"decision"`
	Comment    *string         `json:"comment,omitempty"`
	DecidedAt  time.Time       `json:"decidedAt"`
}

// ToListApprovalResponse converts ledger entries to DTOs.
func ToListApprovalResponse(entries []domain.ExpenseApproval) []ApprovalResponse {
	res := make([]ApprovalResponse, len(entries))
	for i, e := range entries {
		res[i] = ApprovalResponse{
			ApprovalID: e.ApprovalID,
			ApproverID: e.ApproverID,
			Decision:   e.Decision,
			Comment:    e.Comment,
			DecidedAt:  e.DecidedAt,
		}
	}
	return res
}

// ListApprovalsResponse wraps the ledger of an expense.
type ListApprovalsResponse struct {
	Approvals []ApprovalResponse `json:"approvals"`
}

package domain

import "time"

// Decision is one approver's verdict on an expense.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// IsValid reports whether the decision is approve or reject.
func (d Decision) IsValid() bool {
	return d == DecisionApproved || d == DecisionRejected
}

// ExpenseApproval is a ledger entry. There is at most one per (ExpenseID, ApproverID);
// a later decision by the same approver replaces the earlier one.
type ExpenseApproval struct {
	ApprovalID string    `json:"approvalID"`
	ExpenseID  string    `json:"expenseID"`
	ApproverID string    `json:"approverID"`
	Decision   Decision  `json:"decision"`
	Comment    *string   `json:"comment,omitempty"`
	DecidedAt  time.Time `json:"decidedAt"`
}

// AttemptReason explains why a decision attempt was not applied to the ledger.
type AttemptReason string

const (
	AttemptNotEligible AttemptReason = "not_eligible"
	AttemptNotPending  AttemptReason = "not_pending"
)

// DecisionAttempt is an audit record of a decision that was refused.
type DecisionAttempt struct {
	AttemptID     string        `json:"attemptID"`
	ExpenseID     string        `json:"expenseID"`
	ApproverID    string        `json:"approverID"`
	Decision      Decision      `json:"decision"`
	Comment       *string       `json:"comment,omitempty"`
	Reason        AttemptReason `json:"reason"`
	ExpenseStatus ExpenseStatus `json:"expenseStatus"`
	AttemptedAt   time.Time     `json:"attemptedAt"`
}

package dto

import (
	"time"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
)

// WorkflowStepRequest is one approver position of a new workflow.
type WorkflowStepRequest struct {
	StepNumber int    `json:"stepNumber" binding:"required,min=1"`
	ApproverID string `json:"approverID" binding:"required,uuid"`
	IsRequired bool   `json:"isRequired"`
}

// CreateWorkflowRequest defines the data needed to create an approval workflow.
type CreateWorkflowRequest struct {
	Name                   string                `json:"name" binding:"required,max=100"`
	IsManagerFirstApprover *bool                 `json:"isManagerFirstApprover"` // Defaults to true
	MinApprovalPercentage  *int                  `json:"minApprovalPercentage" binding:"omitempty,min=1,max=100"`
	SpecialApproverID      *string               `json:"specialApproverID" binding:"omitempty,uuid"`
	Steps                  []WorkflowStepRequest `json:"steps" binding:"dive"`
}

// WorkflowStepResponse is one configured step.
type WorkflowStepResponse struct {
	StepID     string `json:"stepID"`
	StepNumber int    `json:"stepNumber"`
	ApproverID string `json:"approverID"`
	IsRequired bool   `json:"isRequired"`
}

// WorkflowResponse defines the data returned for a workflow.
type WorkflowResponse struct {
	WorkflowID             string                 `json:"workflowID"`
	CompanyID              string                 `json:"companyID"`
	Name                   string                 `json:"name"`
	IsManagerFirstApprover bool                   `json:"isManagerFirstApprover"`
	MinApprovalPercentage  *int                   `json:"minApprovalPercentage,omitempty"`
	SpecialApproverID      *string                `json:"specialApproverID,omitempty"`
	Steps                  []WorkflowStepResponse `json:"steps"`
	CreatedAt              time.Time              `json:"createdAt"`
	CreatedBy              string                 `json:"createdBy"`
}

// ToWorkflowResponse converts a domain.ApprovalWorkflow to WorkflowResponse DTO
func ToWorkflowResponse(wf *domain.ApprovalWorkflow) WorkflowResponse {
	steps := wf.SortedSteps()
	res := WorkflowResponse{
		WorkflowID:             wf.WorkflowID,
		CompanyID:              wf.CompanyID,
		Name:                   wf.Name,
		IsManagerFirstApprover: wf.IsManagerFirstApprover,
		MinApprovalPercentage:  wf.MinApprovalPercentage,
		SpecialApproverID:      wf.SpecialApproverID,
		Steps:                  make([]WorkflowStepResponse, len(steps)),
		CreatedAt:              wf.CreatedAt,
		CreatedBy:              wf.CreatedBy,
	}
	for i, s := range steps {
		res.Steps[i] = WorkflowStepResponse{
			StepID:     s.StepID,
			StepNumber: s.StepNumber,
			ApproverID: s.ApproverID,
			IsRequired: s.IsRequired,
		}
	}
	return res
}

// ListWorkflowsResponse wraps the workflows of a company.
type ListWorkflowsResponse struct {
	Workflows []WorkflowResponse `json:"workflows"`
}

// ToListWorkflowsResponse converts workflows to DTOs.
func ToListWorkflowsResponse(workflows []domain.ApprovalWorkflow) ListWorkflowsResponse {
	res := ListWorkflowsResponse{Workflows: make([]WorkflowResponse, len(workflows))}
	for i := range workflows {
		res.Workflows[i] = ToWorkflowResponse(&workflows[i])
	}
	return res
}

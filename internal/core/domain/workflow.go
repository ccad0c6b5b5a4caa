package domain

import (
	"fmt"
	"sort"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
)

// WorkflowStep binds one approver to an ordered position of a workflow.
// Steps sharing a StepNumber form one parallel stage.
type WorkflowStep struct {
	StepID     string `json:"stepID"`
	WorkflowID string `json:"workflowID"`
	StepNumber int    `json:"stepNumber"` // >= 1, ascending
	ApproverID string `json:"approverID"` // FK -> users.user_id
	IsRequired bool   `json:"isRequired"` // Rejection is fatal regardless of threshold
}

// ApprovalWorkflow is a company-scoped set of approval rules bound to an expense at creation.
type ApprovalWorkflow struct {
	WorkflowID             string         `json:"workflowID"`
	CompanyID              string         `json:"companyID"`
	Name                   string         `json:"name"`
	IsManagerFirstApprover bool           `json:"isManagerFirstApprover"`
	MinApprovalPercentage  *int           `json:"minApprovalPercentage,omitempty"` // 1..100 when set
	SpecialApproverID      *string        `json:"specialApproverID,omitempty"`
	Steps                  []WorkflowStep `json:"steps"`
	AuditFields
}

// HasThreshold reports whether a minimum approval percentage is configured.
func (w ApprovalWorkflow) HasThreshold() bool {
	return w.MinApprovalPercentage != nil
}

// HasSpecialApprover reports whether an override approver is configured.
func (w ApprovalWorkflow) HasSpecialApprover() bool {
	return w.SpecialApproverID != nil && *w.SpecialApproverID != ""
}

// IsSpecialApprover reports whether userID is the configured override approver.
func (w ApprovalWorkflow) IsSpecialApprover(userID string) bool {
	return w.HasSpecialApprover() && *w.SpecialApproverID == userID
}

// SortedSteps returns a copy of the steps ordered by step number.
// Members of the same stage keep their configured order.
func (w ApprovalWorkflow) SortedSteps() []WorkflowStep {
	steps := make([]WorkflowStep, len(w.Steps))
	copy(steps, w.Steps)
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].StepNumber < steps[j].StepNumber
	})
	return steps
}

// Stages groups the sorted steps by step number.
func (w ApprovalWorkflow) Stages() [][]WorkflowStep {
	var stages [][]WorkflowStep
	for _, step := range w.SortedSteps() {
		n := len(stages)
		if n > 0 && stages[n-1][0].StepNumber == step.StepNumber {
			stages[n-1] = append(stages[n-1], step)
			continue
		}
		stages = append(stages, []WorkflowStep{step})
	}
	return stages
}

// StepFor returns the step bound to userID, if any.
func (w ApprovalWorkflow) StepFor(userID string) (WorkflowStep, bool) {
	for _, step := range w.Steps {
		if step.ApproverID == userID {
			return step, true
		}
	}
	return WorkflowStep{}, false
}

// HasStepApprover reports whether userID is bound to any configured step.
func (w ApprovalWorkflow) HasStepApprover(userID string) bool {
	_, ok := w.StepFor(userID)
	return ok
}

// ApproverIDs returns every user referenced by the workflow (steps and special approver), deduplicated.
func (w ApprovalWorkflow) ApproverIDs() []string {
	seen := make(map[string]bool)
	ids := make([]string, 0, len(w.Steps)+1)
	for _, step := range w.SortedSteps() {
		if !seen[step.ApproverID] {
			seen[step.ApproverID] = true
			ids = append(ids, step.ApproverID)
		}
	}
	if w.HasSpecialApprover() && !seen[*w.SpecialApproverID] {
		ids = append(ids, *w.SpecialApproverID)
	}
	return ids
}

// Validate checks that the workflow can be resolved. Failures wrap apperrors.ErrWorkflowMisconfigured.
func (w ApprovalWorkflow) Validate() error {
	if w.MinApprovalPercentage != nil {
		pct := *w.MinApprovalPercentage
		if pct < 1 || pct > 100 {
			return fmt.Errorf("%w: minimum approval percentage %d must be between 1 and 100", apperrors.ErrWorkflowMisconfigured, pct)
		}
	}

	seen := make(map[string]int, len(w.Steps))
	for _, step := range w.Steps {
		if step.StepNumber < 1 {
			return fmt.Errorf("%w: step number %d must be positive", apperrors.ErrWorkflowMisconfigured, step.StepNumber)
		}
		if step.ApproverID == "" {
			return fmt.Errorf("%w: step %d has no approver", apperrors.ErrWorkflowMisconfigured, step.StepNumber)
		}
		// One ledger entry per approver cannot satisfy two steps independently.
		if prev, dup := seen[step.ApproverID]; dup {
			return fmt.Errorf("%w: approver %s is bound to steps %d and %d", apperrors.ErrWorkflowMisconfigured, step.ApproverID, prev, step.StepNumber)
		}
		seen[step.ApproverID] = step.StepNumber
	}
	return nil
}

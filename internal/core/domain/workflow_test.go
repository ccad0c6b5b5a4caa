package domain_test

import (
	"testing"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApprovalWorkflow_Stages(t *testing.T) {
	wf := domain.ApprovalWorkflow{
		Steps: []domain.WorkflowStep{
			{StepNumber: 2, ApproverID: "c"},
			{StepNumber: 1, ApproverID: "a"},
			{StepNumber: 2, ApproverID: "d"},
			{StepNumber: 1, ApproverID: "b"},
			{StepNumber: 5, ApproverID: "e"},
		},
	}

	stages := wf.Stages()
	require.Len(t, stages, 3)
	assert.Equal(t, []string{"a", "b"}, approvers(stages[0]))
	assert.Equal(t, []string{"c", "d"}, approvers(stages[1]))
	assert.Equal(t, []string{"e"}, approvers(stages[2]))

	// The original slice is left untouched.
	assert.Equal(t, "c", wf.Steps[0].ApproverID)
}

func TestApprovalWorkflow_ApproverIDs(t *testing.T) {
	special := "s"
	wf := domain.ApprovalWorkflow{
		SpecialApproverID: &special,
		Steps: []domain.WorkflowStep{
			{StepNumber: 2, ApproverID: "b"},
			{StepNumber: 1, ApproverID: "a"},
		},
	}
	assert.Equal(t, []string{"a", "b", "s"}, wf.ApproverIDs())
	assert.True(t, wf.IsSpecialApprover("s"))
	assert.False(t, wf.IsSpecialApprover("a"))
	assert.True(t, wf.HasStepApprover("b"))
	assert.False(t, wf.HasStepApprover("s"))
}

func TestApprovalWorkflow_Validate(t *testing.T) {
	tests := []struct {
		name    string
		wf      domain.ApprovalWorkflow
		wantErr bool
		errMsg  string
	}{
		{
			name: "empty workflow is valid",
			wf:   domain.ApprovalWorkflow{},
		},
		{
			name: "parallel stage is valid",
			wf: domain.ApprovalWorkflow{
				MinApprovalPercentage: intPtr(60),
				Steps: []domain.WorkflowStep{
					{StepNumber: 1, ApproverID: "a", IsRequired: true},
					{StepNumber: 1, ApproverID: "b", IsRequired: true},
					{StepNumber: 2, ApproverID: "c"},
				},
			},
		},
		{
			name:    "percentage above 100",
			wf:      domain.ApprovalWorkflow{MinApprovalPercentage: intPtr(101)},
			wantErr: true,
			errMsg:  "between 1 and 100",
		},
		{
			name:    "percentage zero",
			wf:      domain.ApprovalWorkflow{MinApprovalPercentage: intPtr(0)},
			wantErr: true,
			errMsg:  "between 1 and 100",
		},
		{
			name: "step without approver",
			wf: domain.ApprovalWorkflow{
				Steps: []domain.WorkflowStep{{StepNumber: 1}},
			},
			wantErr: true,
			errMsg:  "has no approver",
		},
		{
			name: "non-positive step number",
			wf: domain.ApprovalWorkflow{
				Steps: []domain.WorkflowStep{{StepNumber: 0, ApproverID: "a"}},
			},
			wantErr: true,
			errMsg:  "must be positive",
		},
		{
			name: "approver bound twice",
			wf: domain.ApprovalWorkflow{
				Steps: []domain.WorkflowStep{
					{StepNumber: 1, ApproverID: "a", IsRequired: true},
					{StepNumber: 3, ApproverID: "a"},
				},
			},
			wantErr: true,
			errMsg:  "bound to steps 1 and 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.wf.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrWorkflowMisconfigured)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func approvers(steps []domain.WorkflowStep) []string {
	ids := make([]string, len(steps))
	for i, s := range steps {
		ids[i] = s.ApproverID
	}
	return ids
}

func intPtr(i int) *int {
	return &i
}

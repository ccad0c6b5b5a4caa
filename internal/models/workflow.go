package models

// ApprovalWorkflow is a row of the approval_workflows table. Steps live in workflow_steps.
type ApprovalWorkflow struct {
	WorkflowID             string  `db:"workflow_id"`
	CompanyID              string  `db:"company_id"`
	Name                   string  `db:"name"`
	IsManagerFirstApprover bool    `db:"is_manager_first_approver"`
	MinApprovalPercentage  *int32  `db:"min_approval_percentage"`
	SpecialApproverID      *string `db:"special_approver_id"`
	AuditFields
}

// WorkflowStep is a row of the workflow_steps table.
type WorkflowStep struct {
	StepID     string `db:"step_id"`
	WorkflowID string `db:"workflow_id"`
	StepNumber int32  `db:"step_number"`
	ApproverID string `db:"approver_id"`
	IsRequired bool   `db:"is_required"`
}

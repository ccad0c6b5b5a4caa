package mapping

import (
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/SscSPs/expense_approval_app/internal/models"
)

// ToModelWorkflow converts a domain workflow to its row. Steps are mapped separately.
func ToModelWorkflow(d domain.ApprovalWorkflow) models.ApprovalWorkflow {
	m := models.ApprovalWorkflow{
		WorkflowID:             d.WorkflowID,
		CompanyID:              d.CompanyID,
		Name:                   d.Name,
		IsManagerFirstApprover: d.IsManagerFirstApprover,
		SpecialApproverID:      d.SpecialApproverID,
		AuditFields:            ToModelAuditFields(d.AuditFields),
	}
	if d.MinApprovalPercentage != nil {
		pct := int32(*d.MinApprovalPercentage)
		m.MinApprovalPercentage = &pct
	}
	return m
}

// ToDomainWorkflow converts a workflow row and its step rows to a domain workflow.
func ToDomainWorkflow(m models.ApprovalWorkflow, steps []models.WorkflowStep) domain.ApprovalWorkflow {
	d := domain.ApprovalWorkflow{
		WorkflowID:             m.WorkflowID,
		CompanyID:              m.CompanyID,
		Name:                   m.Name,
		IsManagerFirstApprover: m.IsManagerFirstApprover,
		SpecialApproverID:      m.SpecialApproverID,
		Steps:                  make([]domain.WorkflowStep, len(steps)),
		AuditFields:            ToDomainAuditFields(m.AuditFields),
	}
	if m.MinApprovalPercentage != nil {
		pct := int(*m.MinApprovalPercentage)
		d.MinApprovalPercentage = &pct
	}
	for i, s := range steps {
		d.Steps[i] = ToDomainWorkflowStep(s)
	}
	return d
}

// ToModelWorkflowStep converts a domain WorkflowStep to a model WorkflowStep
func ToModelWorkflowStep(d domain.WorkflowStep) models.WorkflowStep {
	return models.WorkflowStep{
		StepID:     d.StepID,
		WorkflowID: d.WorkflowID,
		StepNumber: int32(d.StepNumber),
		ApproverID: d.ApproverID,
		IsRequired: d.IsRequired,
	}
}

// ToDomainWorkflowStep converts a model WorkflowStep to a domain WorkflowStep
func ToDomainWorkflowStep(m models.WorkflowStep) domain.WorkflowStep {
	return domain.WorkflowStep{
		StepID:     m.StepID,
		WorkflowID: m.WorkflowID,
		StepNumber: int(m.StepNumber),
		ApproverID: m.ApproverID,
		IsRequired: m.IsRequired,
	}
}

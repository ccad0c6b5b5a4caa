package mapping

import (
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/SscSPs/expense_approval_app/internal/models"
)

// ToModelExpense converts a domain Expense to a model Expense
func ToModelExpense(d domain.Expense) models.Expense {
	return models.Expense{
		ExpenseID:    d.ExpenseID,
		EmployeeID:   d.EmployeeID,
		CompanyID:    d.CompanyID,
		WorkflowID:   d.WorkflowID,
		Description:  d.Description,
		Amount:       d.Amount,
		CurrencyCode: d.CurrencyCode,
		Category:     d.Category,
		ExpenseDate:  d.ExpenseDate,
		Status:       string(d.Status),
		Version:      d.Version,
		SubmittedAt:  d.SubmittedAt,
		ResolvedAt:   d.ResolvedAt,
		ResolvedBy:   d.ResolvedBy,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExpense converts a model Expense to a domain Expense
func ToDomainExpense(m models.Expense) domain.Expense {
	return domain.Expense{
		ExpenseID:    m.ExpenseID,
		EmployeeID:   m.EmployeeID,
		CompanyID:    m.CompanyID,
		WorkflowID:   m.WorkflowID,
		Description:  m.Description,
		Amount:       m.Amount,
		CurrencyCode: m.CurrencyCode,
		Category:     m.Category,
		ExpenseDate:  m.ExpenseDate,
		Status:       domain.ExpenseStatus(m.Status),
		Version:      m.Version,
		SubmittedAt:  m.SubmittedAt,
		ResolvedAt:   m.ResolvedAt,
		ResolvedBy:   m.ResolvedBy,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainExpenseSlice converts a slice of model Expenses to a slice of domain Expenses
func ToDomainExpenseSlice(ms []models.Expense) []domain.Expense {
	ds := make([]domain.Expense, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExpense(m)
	}
	return ds
}

// ToDomainApproval converts a ledger row to a domain ExpenseApproval
func ToDomainApproval(m models.ExpenseApproval) domain.ExpenseApproval {
	return domain.ExpenseApproval{
		ApprovalID: m.ApprovalID,
		ExpenseID:  m.ExpenseID,
		ApproverID: m.ApproverID,
		Decision:   domain.Decision(m.Decision),
		Comment:    m.Comment,
		DecidedAt:  m.DecidedAt,
	}
}

// ToDomainApprovalSlice converts a slice of ledger rows
func ToDomainApprovalSlice(ms []models.ExpenseApproval) []domain.ExpenseApproval {
	ds := make([]domain.ExpenseApproval, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainApproval(m)
	}
	return ds
}

// ToDomainDecisionAttempt converts an audit row to a domain DecisionAttempt
func ToDomainDecisionAttempt(m models.DecisionAttempt) domain.DecisionAttempt {
	return domain.DecisionAttempt{
		AttemptID:     m.AttemptID,
		ExpenseID:     m.ExpenseID,
		ApproverID:    m.ApproverID,
		Decision:      domain.Decision(m.Decision),
		Comment:       m.Comment,
		Reason:        domain.AttemptReason(m.Reason),
		ExpenseStatus: domain.ExpenseStatus(m.ExpenseStatus),
		AttemptedAt:   m.AttemptedAt,
	}
}

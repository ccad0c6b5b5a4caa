package mapping_test

import (
	"testing"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/SscSPs/expense_approval_app/internal/utils/mapping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestExpenseMapping_KeepsAuditStampsApartFromVersion(t *testing.T) {
	created := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	resolved := created.Add(3 * time.Hour)
	approver := "finance"
	expense := domain.Expense{
		ExpenseID:    "e-1",
		EmployeeID:   "alice",
		CompanyID:    "c-1",
		WorkflowID:   "wf-1",
		Description:  "Taxi",
		Amount:       decimal.RequireFromString("18.40"),
		CurrencyCode: "EUR",
		Category:     "Travel",
		ExpenseDate:  created,
		Status:       domain.StatusApproved,
		Version:      4,
		ResolvedAt:   &resolved,
		AuditFields: domain.AuditFields{
			CreatedAt:     created,
			CreatedBy:     "alice",
			LastUpdatedAt: resolved,
			LastUpdatedBy: approver,
		},
	}

	row := mapping.ToModelExpense(expense)
	assert.Equal(t, "approved", row.Status)
	assert.Equal(t, int64(4), row.Version)
	assert.Equal(t, "alice", row.CreatedBy)
	assert.Equal(t, approver, row.LastUpdatedBy)

	back := mapping.ToDomainExpense(row)
	assert.Equal(t, expense.AuditFields, back.AuditFields)
	assert.True(t, expense.Amount.Equal(back.Amount))
	assert.Equal(t, domain.StatusApproved, back.Status)
}

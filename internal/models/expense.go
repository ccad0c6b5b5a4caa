package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a row of the expenses table.
type Expense struct {
	ExpenseID    string          `db:"expense_id"`
	EmployeeID   string          `db:"employee_id"`
	CompanyID    string          `db:"company_id"`
	WorkflowID   string          `db:"workflow_id"`
	Description  string          `db:"description"`
	Amount       decimal.Decimal `db:"amount"`
	CurrencyCode string          `db:"currency_code"`
	Category     string          `db:"category"`
	ExpenseDate  time.Time       `db:"expense_date"`
	Status       string          `db:"status"`
	Version      int64           `db:"version"`
	SubmittedAt  *time.Time      `db:"submitted_at"`
	ResolvedAt   *time.Time      `db:"resolved_at"`
	ResolvedBy   *string         `db:"resolved_by"`
	AuditFields
}

// ExpenseApproval is a row of the expense_approvals ledger.
type ExpenseApproval struct {
	ApprovalID string    `db:"approval_id"`
	ExpenseID  string    `db:"expense_id"`
	ApproverID string    `db:"approver_id"`
	Decision   string    `db:"decision"`
	Comment    *string   `db:"comment"`
	DecidedAt  time.Time `db:"decided_at"`
}

// DecisionAttempt is a row of the decision_attempts audit trail.
type DecisionAttempt struct {
	AttemptID     string    `db:"attempt_id"`
	ExpenseID     string    `db:"expense_id"`
	ApproverID    string    `db:"approver_id"`
	Decision      string    `db:"decision"`
	Comment       *string   `db:"comment"`
	Reason        string    `db:"reason"`
	ExpenseStatus string    `db:"expense_status"`
	AttemptedAt   time.Time `db:"attempted_at"`
}

package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ExpenseStatus is the lifecycle state of an expense.
type ExpenseStatus string

const (
	StatusDraft           ExpenseStatus = "draft"
	StatusPendingApproval ExpenseStatus = "pending_approval"
	StatusApproved        ExpenseStatus = "approved"
	StatusRejected        ExpenseStatus = "rejected"
)

// IsValid reports whether the status is a known value.
func (s ExpenseStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPendingApproval, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s ExpenseStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransitionTo enforces draft -> pending_approval -> {approved | rejected}.
func (s ExpenseStatus) CanTransitionTo(next ExpenseStatus) bool {
	switch s {
	case StatusDraft:
		return next == StatusPendingApproval
	case StatusPendingApproval:
		return next == StatusApproved || next == StatusRejected
	default:
		return false
	}
}

// Expense is the aggregate root of its approvals.
type Expense struct {
	ExpenseID    string          `json:"expenseID"`
	EmployeeID   string          `json:"employeeID"` // Owner, FK -> users.user_id
	CompanyID    string          `json:"companyID"`
	WorkflowID   string          `json:"workflowID"` // Immutable binding
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"` // ISO 4217, passed through untouched
	Category     string          `json:"category"`
	ExpenseDate  time.Time       `json:"expenseDate"`
	Status       ExpenseStatus   `json:"status"`
	Version      int64           `json:"version"` // Bumped on every status change and ledger write
	SubmittedAt  *time.Time      `json:"submittedAt,omitempty"`
	ResolvedAt   *time.Time      `json:"resolvedAt,omitempty"`
	ResolvedBy   *string         `json:"resolvedBy,omitempty"` // Approver whose decision rejected the expense
	AuditFields
}

// Validate checks the user-supplied fields of an expense.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}
	if !e.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if len(e.CurrencyCode) != 3 {
		return fmt.Errorf("%w: currency code %q must be a 3-letter ISO code", apperrors.ErrValidation, e.CurrencyCode)
	}
	if e.ExpenseDate.IsZero() {
		return fmt.Errorf("%w: expense date is required", apperrors.ErrValidation)
	}
	return nil
}

// StoredResolution derives the resolution recorded on a terminal expense.
// The second return value is false while the expense is not terminal.
func (e Expense) StoredResolution() (Resolution, bool) {
	switch e.Status {
	case StatusApproved:
		return Approved(), true
	case StatusRejected:
		by := ""
		if e.ResolvedBy != nil {
			by = *e.ResolvedBy
		}
		return Rejected(by), true
	}
	return Resolution{}, false
}

// StatusTransition describes a compare-and-set status change.
// The write only succeeds when the stored row still has From and ExpectedVersion.
type StatusTransition struct {
	ExpenseID       string
	From            ExpenseStatus
	To              ExpenseStatus
	ExpectedVersion int64
	ResolvedBy      *string
	ActorID         string
	At              time.Time
}

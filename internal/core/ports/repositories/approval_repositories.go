package repositories

import (
	"context"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
)

// ApprovalReader defines read operations for the approval ledger.
type ApprovalReader interface {
	// FindApprovalsByExpenseID retrieves the ledger of an expense ordered by decision time.
	FindApprovalsByExpenseID(ctx context.Context, expenseID string) ([]domain.ExpenseApproval, error)

	// FindDecisionAttemptsByExpenseID retrieves the refused decision attempts of an expense.
	FindDecisionAttemptsByExpenseID(ctx context.Context, expenseID string) ([]domain.DecisionAttempt, error)
}

// ApprovalWriter defines write operations for the approval ledger.
type ApprovalWriter interface {
	// UpsertApproval records the decision, replacing any earlier one by the same approver,
	// and bumps the expense version in the same transaction. It fails with
	// apperrors.ErrExpenseNotPending when the expense is no longer pending approval.
	// Returns the new expense version.
	UpsertApproval(ctx context.Context, entry domain.ExpenseApproval) (int64, error)

	// SaveDecisionAttempt appends a refused attempt to the audit trail.
	SaveDecisionAttempt(ctx context.Context, attempt domain.DecisionAttempt) error
}

// ApprovalRepositoryFacade combines all ledger-related repository interfaces
type ApprovalRepositoryFacade interface {
	ApprovalReader
	ApprovalWriter
}

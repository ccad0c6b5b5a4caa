package services

import (
	"context"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/SscSPs/expense_approval_app/internal/dto"
)

// ExpenseReaderSvc defines read operations for expenses.
type ExpenseReaderSvc interface {
	// GetExpense retrieves an expense visible to the principal's company.
	GetExpense(ctx context.Context, expenseID string, actor domain.Principal) (*domain.Expense, error)

	// ListMyExpenses retrieves the principal's own expenses, newest first.
	ListMyExpenses(ctx context.Context, actor domain.Principal, params dto.ListExpensesParams) ([]domain.Expense, *string, error)
}

// ExpenseWriterSvc defines write operations for expenses.
type ExpenseWriterSvc interface {
	// CreateExpense stores a new draft expense owned by the principal.
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, actor domain.Principal) (*domain.Expense, error)
}

// ExpenseStateSvc is the only way an expense status changes.
type ExpenseStateSvc interface {
	// Submit moves a draft to pending_approval and resolves it once, so workflows that
	// need nobody approve immediately.
	Submit(ctx context.Context, expenseID string, actor domain.Principal) (domain.Resolution, error)

	// Decide records the principal's decision and applies the resulting resolution.
	Decide(ctx context.Context, expenseID string, actor domain.Principal, decision domain.Decision, comment *string) (domain.Resolution, error)

	// CurrentResolution recomputes the resolution without writing anything.
	CurrentResolution(ctx context.Context, expenseID string, actor domain.Principal) (domain.Resolution, error)
}

// ApprovalInboxSvc answers approver-side queries.
type ApprovalInboxSvc interface {
	// ListApprovals returns the ledger of an expense.
	ListApprovals(ctx context.Context, expenseID string, actor domain.Principal) ([]domain.ExpenseApproval, error)

	// ListPendingForApprover returns the pending expenses the principal may decide on right now.
	ListPendingForApprover(ctx context.Context, actor domain.Principal) ([]PendingExpense, error)
}

// PendingExpense pairs an expense with its current resolution.
type PendingExpense struct {
	Expense    domain.Expense
	Resolution domain.Resolution
}

// ExpenseSvcFacade combines all expense-related service interfaces
type ExpenseSvcFacade interface {
	ExpenseReaderSvc
	ExpenseWriterSvc
	ExpenseStateSvc
	ApprovalInboxSvc
}

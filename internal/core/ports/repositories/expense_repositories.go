package repositories

import (
	"context"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
)

// ExpenseReader defines read operations for expenses.
type ExpenseReader interface {
	// FindExpenseByID retrieves a specific expense by its ID.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpensesByEmployee retrieves the employee's expenses, newest first.
	// Returns the page and a token for the next page, nil when there is none.
	ListExpensesByEmployee(ctx context.Context, employeeID string, limit int, nextToken *string) ([]domain.Expense, *string, error)

	// ListExpensesByStatus retrieves a company's expenses in the given status, oldest submission first.
	ListExpensesByStatus(ctx context.Context, companyID string, status domain.ExpenseStatus, limit int) ([]domain.Expense, error)
}

// ExpenseWriter defines write operations for expenses.
type ExpenseWriter interface {
	// SaveExpense persists a new expense.
	SaveExpense(ctx context.Context, expense domain.Expense) error

	// CompareAndSetExpenseStatus applies the transition only if the stored status and version
	// still match. It reports false, without error, when the expense moved on in the meantime.
	CompareAndSetExpenseStatus(ctx context.Context, transition domain.StatusTransition) (bool, error)
}

// ExpenseRepositoryFacade combines all expense-related repository interfaces
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}

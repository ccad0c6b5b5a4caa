package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_approval_app/internal/models"
	"github.com/SscSPs/expense_approval_app/internal/utils/mapping"
	"github.com/SscSPs/expense_approval_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxExpenseRepository struct {
	BaseRepository
}

func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxExpenseRepository implements portsrepo.ExpenseRepositoryFacade
var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

var FULL_EXPENSE_SELECT_QUERY = `
SELECT
	e.expense_id, e.employee_id, e.company_id, e.workflow_id, e.description,
	e.amount, e.currency_code, e.category, e.expense_date, e.status, e.version,
	e.submitted_at, e.resolved_at, e.resolved_by,
	e.created_at, e.created_by, e.last_updated_at, e.last_updated_by
FROM expenses e
`

func (r *PgxExpenseRepository) getExpenses(ctx context.Context, filterQuery string, args ...any) ([]domain.Expense, error) {
	rows, err := r.Pool.Query(ctx, FULL_EXPENSE_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query expenses", err)
	}
	defer rows.Close()
	modelExpenses, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Expense])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect expense rows", err)
	}
	return mapping.ToDomainExpenseSlice(modelExpenses), nil
}

func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	m := mapping.ToModelExpense(expense)
	query := `
		INSERT INTO expenses (
			expense_id, employee_id, company_id, workflow_id, description,
			amount, currency_code, category, expense_date, status, version,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ExpenseID, m.EmployeeID, m.CompanyID, m.WorkflowID, m.Description,
		m.Amount, m.CurrencyCode, m.Category, m.ExpenseDate, m.Status, m.Version,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		code, _ := pgErrorCode(err)
		switch code {
		case pgUniqueViolation:
			return apperrors.NewConflictError("expense ID " + expense.ExpenseID + " already exists")
		case pgForeignKeyViolation:
			return apperrors.NewValidationFailedError("employee, company or workflow of expense " + expense.ExpenseID + " does not exist")
		case pgCheckViolation:
			return apperrors.NewValidationFailedError("expense " + expense.ExpenseID + " has an out of range value")
		}
		return apperrors.NewAppError(500, "failed to save expense "+expense.ExpenseID, err)
	}
	return nil
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	expenses, err := r.getExpenses(ctx, `WHERE e.expense_id = $1`, expenseID)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, apperrors.NewNotFoundError("expense " + expenseID)
	}
	return &expenses[0], nil
}

func (r *PgxExpenseRepository) ListExpensesByEmployee(ctx context.Context, employeeID string, limit int, nextToken *string) ([]domain.Expense, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	var (
		expenses []domain.Expense
		err      error
	)
	// Fetch one extra row to know whether another page exists.
	if nextToken != nil && *nextToken != "" {
		cursorAt, cursorID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, decodeErr)
		}
		expenses, err = r.getExpenses(ctx, `
			WHERE e.employee_id = $1 AND (e.created_at, e.expense_id) < ($2, $3)
			ORDER BY e.created_at DESC, e.expense_id DESC
			LIMIT $4`, employeeID, cursorAt, cursorID, limit+1)
	} else {
		expenses, err = r.getExpenses(ctx, `
			WHERE e.employee_id = $1
			ORDER BY e.created_at DESC, e.expense_id DESC
			LIMIT $2`, employeeID, limit+1)
	}
	if err != nil {
		return nil, nil, err
	}

	if len(expenses) <= limit {
		return expenses, nil, nil
	}
	expenses = expenses[:limit]
	last := expenses[limit-1]
	token := pagination.EncodeToken(last.CreatedAt, last.ExpenseID)
	return expenses, &token, nil
}

func (r *PgxExpenseRepository) ListExpensesByStatus(ctx context.Context, companyID string, status domain.ExpenseStatus, limit int) ([]domain.Expense, error) {
	if limit <= 0 {
		limit = 100
	}
	return r.getExpenses(ctx, `
		WHERE e.company_id = $1 AND e.status = $2
		ORDER BY COALESCE(e.submitted_at, e.created_at), e.expense_id
		LIMIT $3`, companyID, string(status), limit)
}

// CompareAndSetExpenseStatus only touches the row while status and version are unchanged.
// Zero affected rows means another writer moved it first.
func (r *PgxExpenseRepository) CompareAndSetExpenseStatus(ctx context.Context, t domain.StatusTransition) (bool, error) {
	if !t.From.CanTransitionTo(t.To) {
		return false, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, t.From, t.To)
	}

	query := `
		UPDATE expenses
		SET status = $1::text,
			version = version + 1,
			submitted_at = CASE WHEN $1::text = 'pending_approval' THEN $2::timestamptz ELSE submitted_at END,
			resolved_at = CASE WHEN $1::text IN ('approved', 'rejected') THEN $2::timestamptz ELSE resolved_at END,
			resolved_by = COALESCE($3::uuid, resolved_by),
			last_updated_at = $2,
			last_updated_by = $4
		WHERE expense_id = $5 AND status = $6 AND version = $7;
	`
	result, err := r.Pool.Exec(ctx, query,
		string(t.To), t.At, t.ResolvedBy, t.ActorID,
		t.ExpenseID, string(t.From), t.ExpectedVersion,
	)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to update status of expense "+t.ExpenseID, err)
	}
	return result.RowsAffected() == 1, nil
}

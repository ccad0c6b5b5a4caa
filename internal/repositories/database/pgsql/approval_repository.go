package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_approval_app/internal/models"
	"github.com/SscSPs/expense_approval_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxApprovalRepository struct {
	BaseRepository
}

// newPgxApprovalRepository creates the repository for the approval ledger and the refused-attempt audit trail.
func newPgxApprovalRepository(pool *pgxpool.Pool) portsrepo.ApprovalRepositoryWithTx {
	return &PgxApprovalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxApprovalRepository implements portsrepo.ApprovalRepositoryWithTx
var _ portsrepo.ApprovalRepositoryWithTx = (*PgxApprovalRepository)(nil)

func (r *PgxApprovalRepository) FindApprovalsByExpenseID(ctx context.Context, expenseID string) ([]domain.ExpenseApproval, error) {
	query := `
		SELECT approval_id, expense_id, approver_id, decision, comment, decided_at
		FROM expense_approvals
		WHERE expense_id = $1
		ORDER BY decided_at, approver_id;
	`
	rows, err := r.Pool.Query(ctx, query, expenseID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query approvals of expense "+expenseID, err)
	}
	defer rows.Close()
	modelApprovals, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ExpenseApproval])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect approval rows", err)
	}
	return mapping.ToDomainApprovalSlice(modelApprovals), nil
}

func (r *PgxApprovalRepository) FindDecisionAttemptsByExpenseID(ctx context.Context, expenseID string) ([]domain.DecisionAttempt, error) {
	query := `
		SELECT attempt_id, expense_id, approver_id, decision, comment, reason, expense_status, attempted_at
		FROM decision_attempts
		WHERE expense_id = $1
		ORDER BY attempted_at, attempt_id;
	`
	rows, err := r.Pool.Query(ctx, query, expenseID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query decision attempts of expense "+expenseID, err)
	}
	defer rows.Close()
	modelAttempts, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.DecisionAttempt])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect decision attempt rows", err)
	}
	attempts := make([]domain.DecisionAttempt, len(modelAttempts))
	for i, m := range modelAttempts {
		attempts[i] = mapping.ToDomainDecisionAttempt(m)
	}
	return attempts, nil
}

// UpsertApproval locks the expense row, so a decision can never land on an expense
// another instance has just resolved.
func (r *PgxApprovalRepository) UpsertApproval(ctx context.Context, entry domain.ExpenseApproval) (int64, error) {
	var version int64
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		var status string
		err := tx.QueryRow(ctx, `SELECT status FROM expenses WHERE expense_id = $1 FOR UPDATE;`, entry.ExpenseID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFoundError("expense " + entry.ExpenseID)
			}
			return apperrors.NewAppError(500, "failed to lock expense "+entry.ExpenseID, err)
		}
		if domain.ExpenseStatus(status) != domain.StatusPendingApproval {
			return fmt.Errorf("%w: expense %s is %s", apperrors.ErrExpenseNotPending, entry.ExpenseID, status)
		}

		upsert := `
			INSERT INTO expense_approvals (approval_id, expense_id, approver_id, decision, comment, decided_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (expense_id, approver_id) DO UPDATE SET
				decision = EXCLUDED.decision,
				comment = EXCLUDED.comment,
				decided_at = EXCLUDED.decided_at;
		`
		if _, err := tx.Exec(ctx, upsert,
			entry.ApprovalID, entry.ExpenseID, entry.ApproverID,
			string(entry.Decision), entry.Comment, entry.DecidedAt,
		); err != nil {
			if code, _ := pgErrorCode(err); code == pgForeignKeyViolation {
				return apperrors.NewValidationFailedError("approver " + entry.ApproverID + " does not exist")
			}
			return apperrors.NewAppError(500, "failed to record decision on expense "+entry.ExpenseID, err)
		}

		bump := `
			UPDATE expenses
			SET version = version + 1, last_updated_at = $2, last_updated_by = $3
			WHERE expense_id = $1
			RETURNING version;
		`
		if err := tx.QueryRow(ctx, bump, entry.ExpenseID, entry.DecidedAt, entry.ApproverID).Scan(&version); err != nil {
			return apperrors.NewAppError(500, "failed to bump version of expense "+entry.ExpenseID, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return version, nil
}

func (r *PgxApprovalRepository) SaveDecisionAttempt(ctx context.Context, attempt domain.DecisionAttempt) error {
	query := `
		INSERT INTO decision_attempts (
			attempt_id, expense_id, approver_id, decision, comment, reason, expense_status, attempted_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		attempt.AttemptID, attempt.ExpenseID, attempt.ApproverID, string(attempt.Decision),
		attempt.Comment, string(attempt.Reason), string(attempt.ExpenseStatus), attempt.AttemptedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save decision attempt on expense "+attempt.ExpenseID, err)
	}
	return nil
}

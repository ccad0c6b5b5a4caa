package pgsql

import (
	"context"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_approval_app/internal/models"
	"github.com/SscSPs/expense_approval_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxWorkflowRepository struct {
	BaseRepository
}

// newPgxWorkflowRepository creates a new repository for approval workflows and their steps.
func newPgxWorkflowRepository(pool *pgxpool.Pool) portsrepo.WorkflowRepositoryWithTx {
	return &PgxWorkflowRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxWorkflowRepository implements portsrepo.WorkflowRepositoryWithTx
var _ portsrepo.WorkflowRepositoryWithTx = (*PgxWorkflowRepository)(nil)

var FULL_WORKFLOW_SELECT_QUERY = `
SELECT
	w.workflow_id, w.company_id, w.name, w.is_manager_first_approver,
	w.min_approval_percentage, w.special_approver_id,
	w.created_at, w.created_by, w.last_updated_at, w.last_updated_by
FROM approval_workflows w
`

func (r *PgxWorkflowRepository) getWorkflows(ctx context.Context, filterQuery string, args ...any) ([]domain.ApprovalWorkflow, error) {
	rows, err := r.Pool.Query(ctx, FULL_WORKFLOW_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query workflows", err)
	}
	defer rows.Close()
	modelWorkflows, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ApprovalWorkflow])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect workflow rows", err)
	}
	if len(modelWorkflows) == 0 {
		return []domain.ApprovalWorkflow{}, nil
	}

	ids := make([]string, len(modelWorkflows))
	for i, w := range modelWorkflows {
		ids[i] = w.WorkflowID
	}
	steps, err := r.getSteps(ctx, ids)
	if err != nil {
		return nil, err
	}

	workflows := make([]domain.ApprovalWorkflow, len(modelWorkflows))
	for i, w := range modelWorkflows {
		workflows[i] = mapping.ToDomainWorkflow(w, steps[w.WorkflowID])
	}
	return workflows, nil
}

// getSteps loads the steps of all given workflows, grouped by workflow and ordered by step number.
func (r *PgxWorkflowRepository) getSteps(ctx context.Context, workflowIDs []string) (map[string][]models.WorkflowStep, error) {
	query := `
		SELECT step_id, workflow_id, step_number, approver_id, is_required
		FROM workflow_steps
		WHERE workflow_id = ANY($1)
		ORDER BY workflow_id, step_number, step_id;
	`
	rows, err := r.Pool.Query(ctx, query, workflowIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query workflow steps", err)
	}
	defer rows.Close()
	modelSteps, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.WorkflowStep])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect workflow step rows", err)
	}
	grouped := make(map[string][]models.WorkflowStep, len(workflowIDs))
	for _, s := range modelSteps {
		grouped[s.WorkflowID] = append(grouped[s.WorkflowID], s)
	}
	return grouped, nil
}

func (r *PgxWorkflowRepository) FindWorkflowByID(ctx context.Context, workflowID string) (*domain.ApprovalWorkflow, error) {
	workflows, err := r.getWorkflows(ctx, `WHERE w.workflow_id = $1`, workflowID)
	if err != nil {
		return nil, err
	}
	if len(workflows) == 0 {
		return nil, apperrors.NewNotFoundError("workflow " + workflowID)
	}
	return &workflows[0], nil
}

func (r *PgxWorkflowRepository) ListWorkflowsByCompany(ctx context.Context, companyID string) ([]domain.ApprovalWorkflow, error) {
	return r.getWorkflows(ctx, `WHERE w.company_id = $1 ORDER BY w.name, w.workflow_id`, companyID)
}

func (r *PgxWorkflowRepository) SaveWorkflow(ctx context.Context, workflow domain.ApprovalWorkflow) error {
	m := mapping.ToModelWorkflow(workflow)
	return r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO approval_workflows (
				workflow_id, company_id, name, is_manager_first_approver,
				min_approval_percentage, special_approver_id,
				created_at, created_by, last_updated_at, last_updated_by
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
		`
		_, err := tx.Exec(ctx, query,
			m.WorkflowID, m.CompanyID, m.Name, m.IsManagerFirstApprover,
			m.MinApprovalPercentage, m.SpecialApproverID,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			return workflowWriteError(workflow.WorkflowID, err)
		}

		batch := &pgx.Batch{}
		for _, step := range workflow.Steps {
			s := mapping.ToModelWorkflowStep(step)
			batch.Queue(`
				INSERT INTO workflow_steps (step_id, workflow_id, step_number, approver_id, is_required)
				VALUES ($1, $2, $3, $4, $5);`,
				s.StepID, s.WorkflowID, s.StepNumber, s.ApproverID, s.IsRequired,
			)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return workflowWriteError(workflow.WorkflowID, err)
		}
		return nil
	})
}

func workflowWriteError(workflowID string, err error) error {
	code, constraint := pgErrorCode(err)
	switch code {
	case pgUniqueViolation:
		if constraint == "uq_workflow_steps_approver" {
			return apperrors.NewValidationFailedError("an approver appears twice in workflow " + workflowID)
		}
		return apperrors.NewConflictError("workflow ID " + workflowID + " already exists")
	case pgForeignKeyViolation:
		return apperrors.NewValidationFailedError("workflow " + workflowID + " references an unknown company or user")
	case pgCheckViolation:
		return apperrors.NewValidationFailedError("workflow " + workflowID + " has an out of range value")
	}
	return apperrors.NewAppError(500, "failed to save workflow "+workflowID, err)
}

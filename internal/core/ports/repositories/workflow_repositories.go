package repositories

import (
	"context"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
)

// WorkflowReader defines read operations for approval workflows.
type WorkflowReader interface {
	// FindWorkflowByID retrieves a workflow together with its steps, ordered by step number.
	FindWorkflowByID(ctx context.Context, workflowID string) (*domain.ApprovalWorkflow, error)

	// ListWorkflowsByCompany retrieves all workflows of a company, ordered by name.
	ListWorkflowsByCompany(ctx context.Context, companyID string) ([]domain.ApprovalWorkflow, error)
}

// WorkflowWriter defines write operations for approval workflows.
type WorkflowWriter interface {
	// SaveWorkflow persists a workflow and all of its steps atomically.
	SaveWorkflow(ctx context.Context, workflow domain.ApprovalWorkflow) error
}

// WorkflowRepositoryFacade combines all workflow-related repository interfaces
type WorkflowRepositoryFacade interface {
	WorkflowReader
	WorkflowWriter
}

package services

import (
	"context"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/SscSPs/expense_approval_app/internal/dto"
)

// WorkflowReaderSvc defines read operations for approval workflows.
type WorkflowReaderSvc interface {
	GetWorkflow(ctx context.Context, workflowID string, actor domain.Principal) (*domain.ApprovalWorkflow, error)
	ListWorkflows(ctx context.Context, actor domain.Principal) ([]domain.ApprovalWorkflow, error)
}

// WorkflowWriterSvc defines write operations for approval workflows.
type WorkflowWriterSvc interface {
	// CreateWorkflow validates and stores a workflow for the admin's company.
	CreateWorkflow(ctx context.Context, req dto.CreateWorkflowRequest, actor domain.Principal) (*domain.ApprovalWorkflow, error)
}

// WorkflowSvcFacade combines all workflow-related service interfaces
type WorkflowSvcFacade interface {
	WorkflowReaderSvc
	WorkflowWriterSvc
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_approval_app/internal/core/ports/services"
	"github.com/SscSPs/expense_approval_app/internal/dto"
	"github.com/google/uuid"
)

type workflowService struct {
	BaseService
	workflowRepo portsrepo.WorkflowRepositoryFacade
	userRepo     portsrepo.UserReader
	now          func() time.Time
}

// NewWorkflowService creates the workflow rule store service.
func NewWorkflowService(workflowRepo portsrepo.WorkflowRepositoryFacade, userRepo portsrepo.UserReader) portssvc.WorkflowSvcFacade {
	return &workflowService{
		workflowRepo: workflowRepo,
		userRepo:     userRepo,
		now:          time.Now,
	}
}

var _ portssvc.WorkflowSvcFacade = (*workflowService)(nil)

func (s *workflowService) CreateWorkflow(ctx context.Context, req dto.CreateWorkflowRequest, actor domain.Principal) (*domain.ApprovalWorkflow, error) {
	if err := s.AuthorizeAdmin(actor, "create workflows"); err != nil {
		s.LogWarn(ctx, "Non-admin tried to create a workflow", slog.String("user_id", actor.UserID))
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: workflow name is required", apperrors.ErrValidation)
	}

	now := s.now()
	wf := domain.ApprovalWorkflow{
		WorkflowID:             uuid.NewString(),
		CompanyID:              actor.CompanyID,
		Name:                   name,
		IsManagerFirstApprover: true,
		MinApprovalPercentage:  req.MinApprovalPercentage,
		SpecialApproverID:      req.SpecialApproverID,
		Steps:                  make([]domain.WorkflowStep, 0, len(req.Steps)),
		AuditFields:            domain.NewAuditFields(actor.UserID, now),
	}
	if req.IsManagerFirstApprover != nil {
		wf.IsManagerFirstApprover = *req.IsManagerFirstApprover
	}
	for _, step := range req.Steps {
		wf.Steps = append(wf.Steps, domain.WorkflowStep{
			StepID:     uuid.NewString(),
			WorkflowID: wf.WorkflowID,
			StepNumber: step.StepNumber,
			ApproverID: step.ApproverID,
			IsRequired: step.IsRequired,
		})
	}
	wf.Steps = wf.SortedSteps()

	if err := wf.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	for _, approverID := range wf.ApproverIDs() {
		if err := s.ensureCompanyMember(ctx, approverID, actor.CompanyID); err != nil {
			return nil, err
		}
	}

	if err := s.workflowRepo.SaveWorkflow(ctx, wf); err != nil {
		s.LogError(ctx, err, "Failed to save workflow", slog.String("workflow_id", wf.WorkflowID))
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	s.LogInfo(ctx, "Workflow created",
		slog.String("workflow_id", wf.WorkflowID),
		slog.String("name", wf.Name),
		slog.Int("steps", len(wf.Steps)))
	return &wf, nil
}

func (s *workflowService) ensureCompanyMember(ctx context.Context, userID, companyID string) error {
	u, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil || u.CompanyID != companyID {
		return fmt.Errorf("%w: approver %s is not a member of this company", apperrors.ErrValidation, userID)
	}
	return nil
}

func (s *workflowService) GetWorkflow(ctx context.Context, workflowID string, actor domain.Principal) (*domain.ApprovalWorkflow, error) {
	wf, err := s.workflowRepo.FindWorkflowByID(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow %s: %w", workflowID, err)
	}
	if err := s.AuthorizeCompany(actor, wf.CompanyID, "workflow "+workflowID); err != nil {
		return nil, err
	}
	return wf, nil
}

func (s *workflowService) ListWorkflows(ctx context.Context, actor domain.Principal) ([]domain.ApprovalWorkflow, error) {
	workflows, err := s.workflowRepo.ListWorkflowsByCompany(ctx, actor.CompanyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list workflows", slog.String("company_id", actor.CompanyID))
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}
	return workflows, nil
}

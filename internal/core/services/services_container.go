package services

import (
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_approval_app/internal/core/ports/services"
	"github.com/SscSPs/expense_approval_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Expense: NewExpenseService(repos,
			WithDecisionRetryLimit(cfg.DecisionRetryLimit),
			WithMaxHierarchyDepth(cfg.MaxHierarchyDepth),
		),
		Workflow:  NewWorkflowService(repos.WorkflowRepo, repos.UserRepo),
		Hierarchy: NewHierarchyService(repos.UserRepo, cfg.MaxHierarchyDepth),
	}
}

package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/SscSPs/expense_approval_app/internal/core/hierarchy"
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_approval_app/internal/core/ports/services"
)

type hierarchyService struct {
	BaseService
	userRepo portsrepo.UserReader
	maxDepth int
}

// NewHierarchyService resolves the manager forest through the user repository.
func NewHierarchyService(userRepo portsrepo.UserReader, maxDepth int) portssvc.HierarchySvc {
	if maxDepth <= 0 {
		maxDepth = hierarchy.DefaultMaxDepth
	}
	return &hierarchyService{userRepo: userRepo, maxDepth: maxDepth}
}

var _ portssvc.HierarchySvc = (*hierarchyService)(nil)

func (s *hierarchyService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	return u, nil
}

func (s *hierarchyService) ManagerOf(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.HasManager() {
		return nil, nil
	}
	return s.GetUser(ctx, *u.ManagerID)
}

func (s *hierarchyService) DirectReportsOf(ctx context.Context, managerID string) ([]domain.User, error) {
	reports, err := s.userRepo.FindDirectReports(ctx, managerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load direct reports")
		return nil, fmt.Errorf("failed to load direct reports of %s: %w", managerID, err)
	}
	return reports, nil
}

func (s *hierarchyService) IsManagerOf(ctx context.Context, candidateID, subjectID string) (bool, error) {
	return hierarchy.IsManagerOf(ctx, hierarchy.EdgeSourceFunc(s.userRepo.FindUserByID), candidateID, subjectID, s.maxDepth)
}

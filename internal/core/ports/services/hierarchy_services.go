package services

import (
	"context"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
)

// HierarchySvc answers questions about the manager forest.
type HierarchySvc interface {
	// ManagerOf returns the direct manager of the user, nil for a root.
	ManagerOf(ctx context.Context, userID string) (*domain.User, error)

	// DirectReportsOf returns the users whose manager is managerID.
	DirectReportsOf(ctx context.Context, managerID string) ([]domain.User, error)

	// IsManagerOf reports whether candidateID is anywhere above subjectID.
	IsManagerOf(ctx context.Context, candidateID, subjectID string) (bool, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}

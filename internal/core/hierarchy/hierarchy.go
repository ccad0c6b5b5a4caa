// Package hierarchy answers manager / direct-report questions over the
// manager-reference forest of a company's users.
package hierarchy

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
)

// DefaultMaxDepth bounds manager-chain walks when no depth is configured.
const DefaultMaxDepth = 50

// EdgeSource loads a single user record, including its manager reference.
// Implementations return apperrors.ErrNotFound for unknown users.
type EdgeSource interface {
	LoadEdge(ctx context.Context, userID string) (*domain.User, error)
}

// EdgeSourceFunc adapts a plain function to EdgeSource.
type EdgeSourceFunc func(ctx context.Context, userID string) (*domain.User, error)

// LoadEdge calls f.
func (f EdgeSourceFunc) LoadEdge(ctx context.Context, userID string) (*domain.User, error) {
	return f(ctx, userID)
}

// IsManagerOf reports whether candidateID appears anywhere on subjectID's manager chain.
// The walk stops after maxDepth hops and fails with apperrors.ErrHierarchyCycleDetected,
// so an accidental cycle can never loop forever.
func IsManagerOf(ctx context.Context, src EdgeSource, candidateID, subjectID string, maxDepth int) (bool, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	current, err := src.LoadEdge(ctx, subjectID)
	if err != nil {
		return false, fmt.Errorf("failed to load user %s: %w", subjectID, err)
	}

	for depth := 0; current.HasManager(); depth++ {
		if depth >= maxDepth {
			return false, fmt.Errorf("%w: chain above user %s exceeds %d levels", apperrors.ErrHierarchyCycleDetected, subjectID, maxDepth)
		}
		managerID := *current.ManagerID
		if managerID == candidateID {
			return true, nil
		}
		current, err = src.LoadEdge(ctx, managerID)
		if err != nil {
			return false, fmt.Errorf("failed to load manager %s: %w", managerID, err)
		}
	}
	return false, nil
}

// Snapshot is an in-memory arena of users keyed by id. It is the hierarchy view handed
// to the approval engine and is safe for concurrent reads once built.
type Snapshot struct {
	users map[string]domain.User
}

// NewSnapshot builds a snapshot from the given users. Later duplicates win.
func NewSnapshot(users ...domain.User) *Snapshot {
	s := &Snapshot{users: make(map[string]domain.User, len(users))}
	for _, u := range users {
		s.users[u.UserID] = u
	}
	return s
}

// User returns the user with the given id.
func (s *Snapshot) User(userID string) (*domain.User, bool) {
	u, ok := s.users[userID]
	if !ok {
		return nil, false
	}
	return &u, true
}

// ManagerOf returns the direct manager of userID, one hop.
// It returns false when the user is a root or the manager is not part of the snapshot.
func (s *Snapshot) ManagerOf(userID string) (*domain.User, bool) {
	u, ok := s.users[userID]
	if !ok || !u.HasManager() {
		return nil, false
	}
	return s.User(*u.ManagerID)
}

// DirectReportsOf returns every user whose manager is managerID, ordered by name then id.
func (s *Snapshot) DirectReportsOf(managerID string) []domain.User {
	var reports []domain.User
	for _, u := range s.users {
		if u.HasManager() && *u.ManagerID == managerID {
			reports = append(reports, u)
		}
	}
	SortUsers(reports)
	return reports
}

// LoadEdge implements EdgeSource.
func (s *Snapshot) LoadEdge(_ context.Context, userID string) (*domain.User, error) {
	u, ok := s.User(userID)
	if !ok {
		return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
	}
	return u, nil
}

// IsManagerOf is IsManagerOf over the snapshot.
func (s *Snapshot) IsManagerOf(candidateID, subjectID string, maxDepth int) (bool, error) {
	return IsManagerOf(context.Background(), s, candidateID, subjectID, maxDepth)
}

// SortUsers orders users by name, then id, for stable output.
func SortUsers(users []domain.User) {
	sort.Slice(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return users[i].UserID < users[j].UserID
	})
}

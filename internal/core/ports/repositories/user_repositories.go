package repositories

import (
	"context"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
)

// UserReader defines read operations for user data.
// FindUserByID doubles as the hierarchy edge loader: the returned user carries its manager reference.
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindDirectReports retrieves every user whose manager is managerID, ordered by name.
	FindDirectReports(ctx context.Context, managerID string) ([]domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser inserts or updates a user.
	SaveUser(ctx context.Context, user domain.User) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}

// CompanyRepositoryFacade covers the little company data the service needs.
type CompanyRepositoryFacade interface {
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
	SaveCompany(ctx context.Context, company domain.Company) error
}

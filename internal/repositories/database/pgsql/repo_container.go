package pgsql

import (
	portsrepo "github.com/SscSPs/expense_approval_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CompanyRepo:  newPgxCompanyRepository(dbPool),
		UserRepo:     newPgxUserRepository(dbPool),
		WorkflowRepo: newPgxWorkflowRepository(dbPool),
		ExpenseRepo:  newPgxExpenseRepository(dbPool),
		ApprovalRepo: newPgxApprovalRepository(dbPool),
	}
}

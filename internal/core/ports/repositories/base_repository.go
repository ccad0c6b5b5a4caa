package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager defines methods for transaction management.
// Only the postgres repositories implement it; services never see a transaction.
type TransactionManager interface {
	// Begin starts a new database transaction
	Begin(ctx context.Context) (pgx.Tx, error)

	// Commit commits a transaction
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback rolls back a transaction
	Rollback(ctx context.Context, tx pgx.Tx) error
}

// WorkflowRepositoryWithTx is the postgres workflow repository: steps are written in one transaction.
type WorkflowRepositoryWithTx interface {
	WorkflowRepositoryFacade
	TransactionManager
}

// ApprovalRepositoryWithTx is the postgres ledger repository: upserts lock the expense row first.
type ApprovalRepositoryWithTx interface {
	ApprovalRepositoryFacade
	TransactionManager
}

package persistence

import (
	"context"
)

// UnitOfWork defines an interface for coordinating transaction operations
// across multiple repositories to maintain data consistency.
// Repositories obtained with a context returned by Begin share its transaction;
// with any other context they run outside of one.
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// GetAccountRepository returns an account repository bound to the current transaction
	GetAccountRepository(ctx context.Context) AccountRepository

	// GetTransactionRepository returns a transaction repository bound to the current transaction
	GetTransactionRepository(ctx context.Context) TransactionRepository

	// GetPrizeRequestRepository returns a prize request repository bound to the current transaction
	GetPrizeRequestRepository(ctx context.Context) PrizeRequestRepository

	// GetGoalSubmissionRepository returns a goal submission repository bound to the current transaction
	GetGoalSubmissionRepository(ctx context.Context) GoalSubmissionRepository

	// GetClassRepository returns a class repository
	GetClassRepository(ctx context.Context) ClassRepository

	// GetPrizeRepository returns a prize repository
	GetPrizeRepository(ctx context.Context) PrizeRepository

	// GetGoalRepository returns a goal repository
	GetGoalRepository(ctx context.Context) GoalRepository
}

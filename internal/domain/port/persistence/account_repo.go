package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
)

// AccountRepository defines the methods to interact with account data.
// Balances are written only through UpdateBalance, which the ledger calls.
type AccountRepository interface {
	// Create stores a new account with a zero balance
	//
	// Possible errors:
	// - ErrDuplicateAccount: If the student already has an account in the class
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, account *entity.Account) error

	// GetByID retrieves an account by ID
	//
	// Possible errors:
	// - ErrAccountNotFound: If the account doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id string) (*entity.Account, error)

	// GetByIDForUpdate retrieves an account and locks its row until the
	// surrounding transaction ends. Must be called inside a unit of work.
	//
	// Possible errors:
	// - ErrAccountNotFound: If the account doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Account, error)

	// FindByUserAndClass retrieves the single account of a student in a class
	//
	// Possible errors:
	// - ErrAccountNotFound: If the student has no account in the class
	FindByUserAndClass(ctx context.Context, userID, classID string) (*entity.Account, error)

	// List returns accounts matching the filter, highest balance first
	List(ctx context.Context, filter entity.AccountFilter) ([]*entity.Account, error)

	// UpdateBalance persists the balance and transaction count of an account
	//
	// Possible errors:
	// - ErrAccountNotFound: If the account doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	UpdateBalance(ctx context.Context, id string, balance int64, transactionCount uint64, updatedAt time.Time) error

	// Summarize aggregates balances over the accounts of the given classes
	Summarize(ctx context.Context, classIDs []string) (entity.BalanceSummary, error)

	// CountDistinctStudents counts students holding an account in any of the classes
	CountDistinctStudents(ctx context.Context, classIDs []string) (int64, error)
}

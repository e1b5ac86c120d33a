package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
)

// TransactionRepository defines the methods to interact with ledger entries.
// Entries are append-only: there is no update or delete.
type TransactionRepository interface {
	// Create appends a ledger entry
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, transaction *entity.Transaction) error

	// GetByID retrieves a ledger entry
	//
	// Possible errors:
	// - ErrTransactionNotFound: If the entry doesn't exist
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)

	// List returns entries matching the filter, newest first
	List(ctx context.Context, filter entity.TransactionFilter) ([]*entity.Transaction, error)

	// SumSigned returns the signed sum and entry count of an account's ledger
	SumSigned(ctx context.Context, accountID string) (sum int64, count int64, err error)

	// SumByType sums entry amounts of one type for a student, optionally within a class
	SumByType(ctx context.Context, userID, classID string, txType entity.TransactionType) (int64, error)

	// CountForClasses counts entries booked on accounts of the given classes
	CountForClasses(ctx context.Context, classIDs []string) (int64, error)

	// CountCreatedBySince counts entries authored by actorID at or after since
	CountCreatedBySince(ctx context.Context, actorID string, since time.Time) (int64, error)
}

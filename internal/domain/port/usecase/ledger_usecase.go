package usecase

import (
	"context"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
)

// RecordTransactionRequest describes one balance change
type RecordTransactionRequest struct {
	AccountID string
	Type      entity.TransactionType
	Amount    int64
	Reason    string
	Notes     string
	CreatedBy string

	// Precondition runs against the locked account before the entry is built.
	// Returning an error aborts the change.
	Precondition func(account *entity.Account) error

	// Companion runs inside the same store transaction as the ledger write,
	// after the precondition. Its writes commit or roll back with the entry.
	Companion func(ctx context.Context, account *entity.Account) error
}

// LedgerUseCase is the only path that mutates account balances
type LedgerUseCase interface {
	// RecordTransaction atomically appends a ledger entry and updates the balance.
	// Calls against the same account are applied one at a time.
	RecordTransaction(ctx context.Context, req RecordTransactionRequest) (*entity.Transaction, error)

	// ListTransactions returns ledger history, newest first
	ListTransactions(ctx context.Context, filter entity.TransactionFilter) ([]*entity.Transaction, error)

	// Reconcile compares an account's balance with the signed sum of its ledger
	Reconcile(ctx context.Context, accountID string) (*entity.Reconciliation, error)
}

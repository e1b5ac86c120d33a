package entity

import (
	"time"

	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
)

// Account holds a student's balance within one class
type Account struct {
	ID               string   // Unique identifier for the account
	UserID           string   // Student owning the account
	ClassID          string   // Class the balance belongs to
	Currency         Currency // Cosmetic unit label
	balance          int64    // Mutated only through ApplyTransaction
	TransactionCount uint64   // Number of ledger entries booked on this account
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewAccount creates an empty account for a (student, class) pair
func NewAccount(id, userID, classID string, currency Currency, now time.Time) (*Account, error) {
	if id == "" || userID == "" || classID == "" {
		return nil, errs.ErrInvalidID
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	if !IsValidCurrency(string(currency)) {
		return nil, errs.ErrInvalidCurrency
	}

	return &Account{
		ID:        id,
		UserID:    userID,
		ClassID:   classID,
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// RestoreAccount rebuilds an account from stored state
func RestoreAccount(id, userID, classID string, currency Currency, balance int64, txCount uint64, createdAt, updatedAt time.Time) *Account {
	return &Account{
		ID:               id,
		UserID:           userID,
		ClassID:          classID,
		Currency:         currency,
		balance:          balance,
		TransactionCount: txCount,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}
}

// Balance returns the current balance
func (a *Account) Balance() int64 {
	return a.balance
}

// CanAfford checks if the account has enough balance for a debit
func (a *Account) CanAfford(amount int64) bool {
	return a.balance >= amount
}

// ApplyTransaction moves the balance to the entry's balanceAfter.
// The entry must have been built from this account's current balance.
func (a *Account) ApplyTransaction(tx *Transaction) error {
	if tx.AccountID != a.ID || tx.BalanceBefore != a.balance || !tx.IsConsistent() {
		return errs.ErrConcurrentUpdate
	}
	a.balance = tx.BalanceAfter
	a.TransactionCount++
	a.UpdatedAt = tx.CreatedAt
	return nil
}

// AccountFilter narrows account listings
type AccountFilter struct {
	UserID   string
	ClassID  string
	ClassIDs []string
}

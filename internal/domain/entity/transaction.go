package entity

import (
	"fmt"
	"time"

	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
)

// TransactionType represents the kind of ledger entry
type TransactionType string

// Transaction types
const (
	TypeDeposit         TransactionType = "deposit"
	TypeWithdrawal      TransactionType = "withdrawal"
	TypePrizeRedemption TransactionType = "prize-redemption"
	TypeAdjustment      TransactionType = "adjustment"
)

// CreditTypes are the types that increase a balance
var CreditTypes = []TransactionType{TypeDeposit, TypeAdjustment}

// DebitTypes are the types that decrease a balance
var DebitTypes = []TransactionType{TypeWithdrawal, TypePrizeRedemption}

// IsValidTransactionType checks if the given string is a valid transaction type
func IsValidTransactionType(t string) bool {
	switch TransactionType(t) {
	case TypeDeposit, TypeWithdrawal, TypePrizeRedemption, TypeAdjustment:
		return true
	}
	return false
}

// IsCredit reports whether entries of this type increase the balance
func (t TransactionType) IsCredit() bool {
	return t == TypeDeposit || t == TypeAdjustment
}

// Sign returns +1 for credits and -1 for debits
func (t TransactionType) Sign() int64 {
	if t.IsCredit() {
		return 1
	}
	return -1
}

// Signed returns the amount with the sign convention of the type applied
func (t TransactionType) Signed(amount int64) int64 {
	return t.Sign() * amount
}

// Transaction is an immutable ledger entry
type Transaction struct {
	ID            string          // Unique identifier for the ledger entry
	AccountID     string          // Account whose balance this entry changed
	UserID        string          // Denormalized owner of the account
	Type          TransactionType // Credit or debit kind
	Amount        int64           // Always positive; direction comes from Type
	BalanceBefore int64           // Account balance read under lock
	BalanceAfter  int64           // Account balance written in the same unit
	Reason        string
	Notes         string
	CreatedBy     string // Acting teacher, student or "system"
	CreatedAt     time.Time
}

// NewTransaction builds the ledger entry for applying amount to a balance
func NewTransaction(
	id string,
	account *Account,
	txType TransactionType,
	amount int64,
	reason, notes, createdBy string,
	now time.Time,
) (*Transaction, error) {
	if !IsValidTransactionType(string(txType)) {
		return nil, fmt.Errorf("%w: %q", errs.ErrInvalidType, txType)
	}
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}

	after, err := AddAmounts(account.Balance(), txType.Signed(amount))
	if err != nil {
		return nil, err
	}

	return &Transaction{
		ID:            id,
		AccountID:     account.ID,
		UserID:        account.UserID,
		Type:          txType,
		Amount:        amount,
		BalanceBefore: account.Balance(),
		BalanceAfter:  after,
		Reason:        reason,
		Notes:         notes,
		CreatedBy:     createdBy,
		CreatedAt:     now,
	}, nil
}

// SignedAmount returns the balance delta this entry represents
func (t *Transaction) SignedAmount() int64 {
	return t.Type.Signed(t.Amount)
}

// IsConsistent checks balanceAfter = balanceBefore ± amount
func (t *Transaction) IsConsistent() bool {
	return t.BalanceAfter-t.BalanceBefore == t.SignedAmount()
}

// TransactionFilter narrows transaction history queries
type TransactionFilter struct {
	AccountID string
	UserID    string
	ClassID   string
	Type      TransactionType
	CreatedBy string
	Since     *time.Time
	Limit     int
}

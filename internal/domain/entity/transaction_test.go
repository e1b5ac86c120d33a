package entity

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
)

func TestTransactionType_SignConvention(t *testing.T) {
	tests := []struct {
		txType TransactionType
		credit bool
		signed int64
	}{
		{TypeDeposit, true, 50},
		{TypeAdjustment, true, 50},
		{TypeWithdrawal, false, -50},
		{TypePrizeRedemption, false, -50},
	}

	for _, tt := range tests {
		t.Run(string(tt.txType), func(t *testing.T) {
			assert.True(t, IsValidTransactionType(string(tt.txType)))
			assert.Equal(t, tt.credit, tt.txType.IsCredit())
			assert.Equal(t, tt.signed, tt.txType.Signed(50))
		})
	}

	assert.False(t, IsValidTransactionType("refund"))
	assert.False(t, IsValidTransactionType(""))
}

func TestNewTransaction(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	account := RestoreAccount("acc-1", "stu-1", "cls-1", CurrencyStarCredits, 500, 3, now, now)

	t.Run("debit computes balance after", func(t *testing.T) {
		tx, err := NewTransaction("tx-1", account, TypePrizeRedemption, 200, "Prize request: Pizza", "", "stu-1", now)
		require.NoError(t, err)
		assert.Equal(t, int64(500), tx.BalanceBefore)
		assert.Equal(t, int64(300), tx.BalanceAfter)
		assert.Equal(t, "stu-1", tx.UserID)
		assert.True(t, tx.IsConsistent())
	})

	t.Run("debit may go negative", func(t *testing.T) {
		tx, err := NewTransaction("tx-2", account, TypeWithdrawal, 600, "", "", "t-1", now)
		require.NoError(t, err)
		assert.Equal(t, int64(-100), tx.BalanceAfter)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		for _, amount := range []int64{0, -1} {
			_, err := NewTransaction("tx", account, TypeDeposit, amount, "", "", "t-1", now)
			assert.ErrorIs(t, err, errs.ErrInvalidAmount)
			assert.ErrorIs(t, err, errs.ErrValidation)
		}
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewTransaction("tx", account, TransactionType("bonus"), 10, "", "", "t-1", now)
		assert.ErrorIs(t, err, errs.ErrInvalidType)
	})

	t.Run("rejects overflow", func(t *testing.T) {
		rich := RestoreAccount("acc-2", "stu-1", "cls-1", CurrencyStarCredits, math.MaxInt64-1, 0, now, now)
		_, err := NewTransaction("tx", rich, TypeDeposit, 2, "", "", "t-1", now)
		assert.ErrorIs(t, err, errs.ErrAmountOverflow)
	})
}

func TestAccount_ApplyTransaction(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	account, err := NewAccount("acc-1", "stu-1", "cls-1", "", now)
	require.NoError(t, err)
	assert.Equal(t, CurrencyStarCredits, account.Currency)

	deposit, err := NewTransaction("tx-1", account, TypeDeposit, 75, "", "", "t-1", now.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, account.ApplyTransaction(deposit))
	assert.Equal(t, int64(75), account.Balance())
	assert.Equal(t, uint64(1), account.TransactionCount)
	assert.Equal(t, deposit.CreatedAt, account.UpdatedAt)

	// Applying the same entry twice means it was built from a stale balance
	assert.ErrorIs(t, account.ApplyTransaction(deposit), errs.ErrConcurrentUpdate)
	assert.Equal(t, int64(75), account.Balance())
}

func TestNewAccount_Validation(t *testing.T) {
	now := time.Now()

	_, err := NewAccount("", "stu", "cls", CurrencyEarthPoints, now)
	assert.ErrorIs(t, err, errs.ErrInvalidID)

	_, err = NewAccount("id", "stu", "cls", Currency("gold"), now)
	assert.ErrorIs(t, err, errs.ErrInvalidCurrency)
}

func TestAddAmounts(t *testing.T) {
	sum, err := AddAmounts(10, -15)
	require.NoError(t, err)
	assert.Equal(t, int64(-5), sum)

	_, err = AddAmounts(math.MinInt64, -1)
	assert.ErrorIs(t, err, errs.ErrAmountOverflow)
}

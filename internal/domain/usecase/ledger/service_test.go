package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/database"
	timeprovider "github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/time"
)

func newTestService(t *testing.T) (*Service, *database.TestDatabase) {
	t.Helper()

	db := database.NewTestDatabase(t)
	svc := NewService(db.UoW, timeprovider.NewRealTimeProvider(), db.Logger)
	t.Cleanup(svc.Shutdown)
	return svc, db
}

func record(t *testing.T, svc *Service, accountID string, txType entity.TransactionType, amount int64) *entity.Transaction {
	t.Helper()

	tx, err := svc.RecordTransaction(context.Background(), usecase.RecordTransactionRequest{
		AccountID: accountID,
		Type:      txType,
		Amount:    amount,
		CreatedBy: "teacher-1",
	})
	require.NoError(t, err)
	return tx
}

func TestService_RecordTransaction(t *testing.T) {
	svc, db := newTestService(t)
	class := db.CreateClass(t, "teacher-1")
	account := db.CreateAccount(t, "student-1", class.ID)

	t.Run("Credits and debits follow the type sign", func(t *testing.T) {
		deposit := record(t, svc, account.ID, entity.TypeDeposit, 100)
		assert.Equal(t, int64(0), deposit.BalanceBefore)
		assert.Equal(t, int64(100), deposit.BalanceAfter)
		assert.Equal(t, "student-1", deposit.UserID)

		adjustment := record(t, svc, account.ID, entity.TypeAdjustment, 5)
		assert.Equal(t, int64(105), adjustment.BalanceAfter)

		withdrawal := record(t, svc, account.ID, entity.TypeWithdrawal, 30)
		assert.Equal(t, int64(105), withdrawal.BalanceBefore)
		assert.Equal(t, int64(75), withdrawal.BalanceAfter)

		redemption := record(t, svc, account.ID, entity.TypePrizeRedemption, 25)
		assert.Equal(t, int64(50), redemption.BalanceAfter)

		assert.Equal(t, int64(50), db.Balance(t, account.ID))
	})

	t.Run("Debits may take the balance below zero", func(t *testing.T) {
		other := db.CreateAccount(t, "student-2", class.ID)
		tx := record(t, svc, other.ID, entity.TypeWithdrawal, 10)
		assert.Equal(t, int64(-10), tx.BalanceAfter)
	})

	t.Run("Missing creator is recorded as system", func(t *testing.T) {
		tx, err := svc.RecordTransaction(context.Background(), usecase.RecordTransactionRequest{
			AccountID: account.ID,
			Type:      entity.TypeDeposit,
			Amount:    1,
		})
		require.NoError(t, err)
		assert.Equal(t, entity.SystemActorID, tx.CreatedBy)
	})

	t.Run("Validation failures", func(t *testing.T) {
		tests := []struct {
			name string
			req  usecase.RecordTransactionRequest
			want error
		}{
			{"zero amount", usecase.RecordTransactionRequest{AccountID: account.ID, Type: entity.TypeDeposit, Amount: 0}, errs.ErrInvalidAmount},
			{"negative amount", usecase.RecordTransactionRequest{AccountID: account.ID, Type: entity.TypeDeposit, Amount: -5}, errs.ErrInvalidAmount},
			{"unknown type", usecase.RecordTransactionRequest{AccountID: account.ID, Type: "bonus", Amount: 5}, errs.ErrInvalidType},
			{"empty account", usecase.RecordTransactionRequest{Type: entity.TypeDeposit, Amount: 5}, errs.ErrInvalidID},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				before := db.Balance(t, account.ID)

				tx, err := svc.RecordTransaction(context.Background(), tt.req)

				assert.ErrorIs(t, err, tt.want)
				assert.ErrorIs(t, err, errs.ErrValidation)
				assert.Nil(t, tx)
				assert.Equal(t, before, db.Balance(t, account.ID))
			})
		}
	})

	t.Run("Unknown account", func(t *testing.T) {
		_, err := svc.RecordTransaction(context.Background(), usecase.RecordTransactionRequest{
			AccountID: "does-not-exist",
			Type:      entity.TypeDeposit,
			Amount:    5,
		})
		assert.ErrorIs(t, err, errs.ErrAccountNotFound)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestService_RecordTransaction_Hooks(t *testing.T) {
	svc, db := newTestService(t)
	class := db.CreateClass(t, "teacher-1")
	account := db.CreateAccount(t, "student-1", class.ID)
	record(t, svc, account.ID, entity.TypeDeposit, 40)

	t.Run("Precondition sees the locked balance and can abort", func(t *testing.T) {
		var seen int64
		_, err := svc.RecordTransaction(context.Background(), usecase.RecordTransactionRequest{
			AccountID: account.ID,
			Type:      entity.TypePrizeRedemption,
			Amount:    50,
			Precondition: func(a *entity.Account) error {
				seen = a.Balance()
				if !a.CanAfford(50) {
					return errs.NewInsufficientFundsError(a.ID, 50, a.Balance())
				}
				return nil
			},
		})

		assert.Equal(t, int64(40), seen)
		assert.ErrorIs(t, err, errs.ErrInsufficientFunds)
		assert.Equal(t, int64(40), db.Balance(t, account.ID))
	})

	t.Run("Companion failure rolls back its own writes and the entry", func(t *testing.T) {
		prize := db.CreatePrize(t, "Sticker", 10)
		var requestID string

		_, err := svc.RecordTransaction(context.Background(), usecase.RecordTransactionRequest{
			AccountID: account.ID,
			Type:      entity.TypePrizeRedemption,
			Amount:    10,
			Companion: func(ctx context.Context, a *entity.Account) error {
				request, err := entity.NewPrizeRequest("req-1", a.UserID, a.ClassID, prize, nil, "", a.UpdatedAt)
				if err != nil {
					return err
				}
				requestID = request.ID
				if err := db.UoW.GetPrizeRequestRepository(ctx).Create(ctx, request); err != nil {
					return err
				}
				return errors.New("boom")
			},
		})

		assert.EqualError(t, err, "boom")
		assert.Equal(t, int64(40), db.Balance(t, account.ID))

		_, err = db.PrizeRequests().GetByID(context.Background(), requestID)
		assert.ErrorIs(t, err, errs.ErrRequestNotFound)

		history, err := svc.ListTransactions(context.Background(), entity.TransactionFilter{AccountID: account.ID})
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})
}

func TestService_ConcurrentWritesSerialize(t *testing.T) {
	svc, db := newTestService(t)
	class := db.CreateClass(t, "teacher-1")
	account := db.CreateAccount(t, "student-1", class.ID)

	const workers = 40
	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			txType := entity.TypeDeposit
			if i%4 == 0 {
				txType = entity.TypeWithdrawal
			}
			_, err := svc.RecordTransaction(context.Background(), usecase.RecordTransactionRequest{
				AccountID: account.ID,
				Type:      txType,
				Amount:    10,
				CreatedBy: "teacher-1",
			})
			errCh <- err
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	// 30 deposits, 10 withdrawals
	assert.Equal(t, int64(200), db.Balance(t, account.ID))

	history, err := svc.ListTransactions(context.Background(), entity.TransactionFilter{AccountID: account.ID, Limit: 500})
	require.NoError(t, err)
	require.Len(t, history, workers)

	var signed int64
	for _, tx := range history {
		assert.True(t, tx.IsConsistent())
		signed += tx.SignedAmount()
	}
	assert.Equal(t, int64(200), signed)

	reconciliation, err := svc.Reconcile(context.Background(), account.ID)
	require.NoError(t, err)
	assert.True(t, reconciliation.Consistent)
	assert.Equal(t, int64(200), reconciliation.LedgerSum)
	assert.Equal(t, int64(workers), reconciliation.TransactionCount)
}

func TestService_Reconcile(t *testing.T) {
	svc, db := newTestService(t)
	class := db.CreateClass(t, "teacher-1")
	account := db.CreateAccount(t, "student-1", class.ID)

	t.Run("Empty account is consistent", func(t *testing.T) {
		result, err := svc.Reconcile(context.Background(), account.ID)
		require.NoError(t, err)
		assert.True(t, result.Consistent)
		assert.Zero(t, result.Balance)
		assert.Zero(t, result.TransactionCount)
	})

	t.Run("Tampered balance is reported", func(t *testing.T) {
		record(t, svc, account.ID, entity.TypeDeposit, 70)
		require.NoError(t, db.DB.Exec("UPDATE accounts SET balance = 71 WHERE id = ?", account.ID).Error)

		result, err := svc.Reconcile(context.Background(), account.ID)
		require.NoError(t, err)
		assert.False(t, result.Consistent)
		assert.Equal(t, int64(71), result.Balance)
		assert.Equal(t, int64(70), result.LedgerSum)
	})

	t.Run("Unknown account", func(t *testing.T) {
		_, err := svc.Reconcile(context.Background(), "nope")
		assert.ErrorIs(t, err, errs.ErrAccountNotFound)
	})
}

func TestService_ListTransactions(t *testing.T) {
	svc, db := newTestService(t)
	classA := db.CreateClass(t, "teacher-1")
	classB := db.CreateClass(t, "teacher-2")
	a := db.CreateAccount(t, "student-1", classA.ID)
	b := db.CreateAccount(t, "student-1", classB.ID)

	record(t, svc, a.ID, entity.TypeDeposit, 10)
	record(t, svc, a.ID, entity.TypeWithdrawal, 3)
	record(t, svc, b.ID, entity.TypeDeposit, 7)

	byUser, err := svc.ListTransactions(context.Background(), entity.TransactionFilter{UserID: "student-1"})
	require.NoError(t, err)
	assert.Len(t, byUser, 3)

	byClass, err := svc.ListTransactions(context.Background(), entity.TransactionFilter{ClassID: classB.ID})
	require.NoError(t, err)
	require.Len(t, byClass, 1)
	assert.Equal(t, int64(7), byClass[0].Amount)

	deposits, err := svc.ListTransactions(context.Background(), entity.TransactionFilter{AccountID: a.ID, Type: entity.TypeDeposit})
	require.NoError(t, err)
	assert.Len(t, deposits, 1)

	_, err = svc.ListTransactions(context.Background(), entity.TransactionFilter{Type: "bogus"})
	assert.ErrorIs(t, err, errs.ErrInvalidType)
}

func TestService_Shutdown(t *testing.T) {
	db := database.NewTestDatabase(t)
	svc := NewService(db.UoW, timeprovider.NewRealTimeProvider(), db.Logger)
	class := db.CreateClass(t, "teacher-1")
	account := db.CreateAccount(t, "student-1", class.ID)

	svc.Shutdown()

	_, err := svc.RecordTransaction(context.Background(), usecase.RecordTransactionRequest{
		AccountID: account.ID,
		Type:      entity.TypeDeposit,
		Amount:    5,
	})
	assert.ErrorIs(t, err, errs.ErrShuttingDown)
	assert.ErrorIs(t, err, errs.ErrPersistence)
}

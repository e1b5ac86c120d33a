package prize

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/token-economy/internal/domain/usecase/ledger"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/database"
	timeprovider "github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/time"
)

type fixture struct {
	db      *database.TestDatabase
	ledger  *ledger.Service
	service *Service
	class   *entity.Class
	account *entity.Account
	teacher entity.Actor
}

// newFixture prepares a class owned by teacher-1 and student-1's account holding balance
func newFixture(t *testing.T, balance int64) *fixture {
	t.Helper()

	db := database.NewTestDatabase(t)
	tp := timeprovider.NewRealTimeProvider()
	ledgerService := ledger.NewService(db.UoW, tp, db.Logger)
	t.Cleanup(ledgerService.Shutdown)

	f := &fixture{
		db:      db,
		ledger:  ledgerService,
		service: NewService(db.UoW, ledgerService, tp, db.Logger),
		class:   db.CreateClass(t, "teacher-1"),
		teacher: entity.Actor{ID: "teacher-1", Role: entity.RoleTeacher},
	}
	f.account = db.CreateAccount(t, "student-1", f.class.ID)
	if balance > 0 {
		_, err := ledgerService.RecordTransaction(context.Background(), usecase.RecordTransactionRequest{
			AccountID: f.account.ID,
			Type:      entity.TypeDeposit,
			Amount:    balance,
		})
		require.NoError(t, err)
	}
	return f
}

func (f *fixture) request(t *testing.T, prize *entity.Prize, custom *int64) (*entity.PrizeRequest, error) {
	t.Helper()
	return f.service.RequestPrize(context.Background(), usecase.RequestPrizeRequest{
		StudentID:    "student-1",
		PrizeID:      prize.ID,
		ClassID:      f.class.ID,
		Reason:       "I read five books",
		CustomAmount: custom,
	})
}

func (f *fixture) history(t *testing.T) []*entity.Transaction {
	t.Helper()
	history, err := f.ledger.ListTransactions(context.Background(), entity.TransactionFilter{AccountID: f.account.ID})
	require.NoError(t, err)
	return history
}

func (f *fixture) assertReconciled(t *testing.T) {
	t.Helper()
	result, err := f.ledger.Reconcile(context.Background(), f.account.ID)
	require.NoError(t, err)
	assert.True(t, result.Consistent)
}

func amount(v int64) *int64 { return &v }

func TestRequestPrize(t *testing.T) {
	t.Run("Debits the cost at request time", func(t *testing.T) {
		f := newFixture(t, 500)
		prize := f.db.CreatePrize(t, "Homework pass", 200)

		request, err := f.request(t, prize, nil)

		require.NoError(t, err)
		assert.Equal(t, entity.StatusPending, request.Status)
		assert.Equal(t, int64(200), request.PrizeCost)
		assert.Nil(t, request.CustomAmount)
		assert.Equal(t, int64(300), f.db.Balance(t, f.account.ID))

		stored, err := f.db.PrizeRequests().GetByID(context.Background(), request.ID)
		require.NoError(t, err)
		assert.Equal(t, "Homework pass", stored.PrizeName)

		history := f.history(t)
		require.Len(t, history, 2)
		assert.Equal(t, entity.TypePrizeRedemption, history[0].Type)
		assert.Equal(t, "Prize request: Homework pass", history[0].Reason)
		assert.Equal(t, "student-1", history[0].CreatedBy)
		f.assertReconciled(t)
	})

	t.Run("Insufficient funds leaves no request and no entry", func(t *testing.T) {
		f := newFixture(t, 50)
		prize := f.db.CreatePrize(t, "Pizza party", 200)

		request, err := f.request(t, prize, nil)

		assert.ErrorIs(t, err, errs.ErrInsufficientFunds)
		assert.Nil(t, request)
		assert.Equal(t, int64(50), f.db.Balance(t, f.account.ID))
		assert.Len(t, f.history(t), 1)

		pending, err := f.service.ListPrizeRequests(context.Background(), entity.PrizeRequestFilter{StudentID: "student-1"})
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("Crowdfunded prizes need a contribution of at least two", func(t *testing.T) {
		f := newFixture(t, 10)
		prize := f.db.CreatePrize(t, "Class garden", 0)

		_, err := f.request(t, prize, amount(1))
		assert.ErrorIs(t, err, errs.ErrCustomAmountTooLow)
		assert.ErrorIs(t, err, errs.ErrValidation)

		_, err = f.request(t, prize, nil)
		assert.ErrorIs(t, err, errs.ErrCustomAmountTooLow)

		request, err := f.request(t, prize, amount(2))
		require.NoError(t, err)
		assert.Equal(t, int64(2), request.EffectiveAmount())
		assert.Equal(t, int64(8), f.db.Balance(t, f.account.ID))
		assert.Equal(t, "Prize request: Class garden (Crowdfunded)", f.history(t)[0].Reason)
	})

	t.Run("Custom amount is ignored for priced prizes", func(t *testing.T) {
		f := newFixture(t, 100)
		prize := f.db.CreatePrize(t, "Sticker", 5)

		request, err := f.request(t, prize, amount(50))
		require.NoError(t, err)
		assert.Nil(t, request.CustomAmount)
		assert.Equal(t, int64(95), f.db.Balance(t, f.account.ID))
	})

	t.Run("Lookup failures", func(t *testing.T) {
		f := newFixture(t, 100)
		prize := f.db.CreatePrize(t, "Sticker", 5)
		hidden := &entity.Prize{ID: "hidden", Name: "Retired", Cost: 5, Available: false, CreatedAt: time.Now()}
		require.NoError(t, f.db.Prizes().Create(context.Background(), hidden))

		_, err := f.request(t, &entity.Prize{ID: "missing"}, nil)
		assert.ErrorIs(t, err, errs.ErrPrizeNotFound)

		_, err = f.request(t, hidden, nil)
		assert.ErrorIs(t, err, errs.ErrPrizeUnavailable)

		_, err = f.service.RequestPrize(context.Background(), usecase.RequestPrizeRequest{
			StudentID: "student-9",
			PrizeID:   prize.ID,
			ClassID:   f.class.ID,
		})
		assert.ErrorIs(t, err, errs.ErrAccountNotFound)

		_, err = f.service.RequestPrize(context.Background(), usecase.RequestPrizeRequest{StudentID: "student-1", PrizeID: prize.ID})
		assert.ErrorIs(t, err, errs.ErrInvalidID)

		assert.Equal(t, int64(100), f.db.Balance(t, f.account.ID))
	})
}

func TestDenyPrizeRequest(t *testing.T) {
	t.Run("Refund restores the balance exactly once", func(t *testing.T) {
		f := newFixture(t, 500)
		prize := f.db.CreatePrize(t, "Homework pass", 200)
		request, err := f.request(t, prize, nil)
		require.NoError(t, err)
		require.Equal(t, int64(300), f.db.Balance(t, f.account.ID))

		denied, err := f.service.DenyPrizeRequest(context.Background(), f.teacher, request.ID, "not enough effort")

		require.NoError(t, err)
		assert.Equal(t, entity.StatusDenied, denied.Status)
		assert.Equal(t, "teacher-1", denied.ReviewedBy)
		assert.Equal(t, "not enough effort", denied.ReviewNotes)
		require.NotNil(t, denied.ReviewedAt)
		assert.Equal(t, int64(500), f.db.Balance(t, f.account.ID))

		history := f.history(t)
		require.Len(t, history, 3)
		assert.Equal(t, entity.TypeDeposit, history[0].Type)
		assert.Equal(t, int64(200), history[0].Amount)
		assert.Contains(t, history[0].Reason, "denied")
		assert.Equal(t, "teacher-1", history[0].CreatedBy)

		_, err = f.service.DenyPrizeRequest(context.Background(), f.teacher, request.ID, "again")
		assert.ErrorIs(t, err, errs.ErrInvalidState)
		assert.ErrorIs(t, err, errs.ErrRequestNotPending)
		assert.Equal(t, int64(500), f.db.Balance(t, f.account.ID))
		assert.Len(t, f.history(t), 3)
		f.assertReconciled(t)
	})

	t.Run("Crowdfunded refund returns the contribution", func(t *testing.T) {
		f := newFixture(t, 40)
		prize := f.db.CreatePrize(t, "Class garden", 0)
		request, err := f.request(t, prize, amount(15))
		require.NoError(t, err)

		_, err = f.service.DenyPrizeRequest(context.Background(), f.teacher, request.ID, "garden is full")
		require.NoError(t, err)
		assert.Equal(t, int64(40), f.db.Balance(t, f.account.ID))
	})

	t.Run("Notes are mandatory", func(t *testing.T) {
		f := newFixture(t, 100)
		request, err := f.request(t, f.db.CreatePrize(t, "Sticker", 5), nil)
		require.NoError(t, err)

		_, err = f.service.DenyPrizeRequest(context.Background(), f.teacher, request.ID, "   ")
		assert.ErrorIs(t, err, errs.ErrMissingNotes)

		stored, err := f.db.PrizeRequests().GetByID(context.Background(), request.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusPending, stored.Status)
	})

	t.Run("Only the class owner may deny", func(t *testing.T) {
		f := newFixture(t, 100)
		request, err := f.request(t, f.db.CreatePrize(t, "Sticker", 5), nil)
		require.NoError(t, err)

		_, err = f.service.DenyPrizeRequest(context.Background(), entity.Actor{ID: "teacher-2", Role: entity.RoleTeacher}, request.ID, "no")
		assert.ErrorIs(t, err, errs.ErrNotClassOwner)

		_, err = f.service.DenyPrizeRequest(context.Background(), entity.Actor{ID: "student-1", Role: entity.RoleStudent}, request.ID, "no")
		assert.ErrorIs(t, err, errs.ErrForbidden)
		assert.Equal(t, int64(95), f.db.Balance(t, f.account.ID))
	})

	t.Run("Concurrent denials refund once", func(t *testing.T) {
		f := newFixture(t, 100)
		request, err := f.request(t, f.db.CreatePrize(t, "Sticker", 30), nil)
		require.NoError(t, err)

		const attempts = 5
		var wg sync.WaitGroup
		results := make(chan error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.service.DenyPrizeRequest(context.Background(), f.teacher, request.ID, "duplicate click")
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		succeeded := 0
		for err := range results {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, errs.ErrInvalidState)
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, int64(100), f.db.Balance(t, f.account.ID))
		f.assertReconciled(t)
	})
}

func TestApprovePrizeRequest(t *testing.T) {
	f := newFixture(t, 100)
	request, err := f.request(t, f.db.CreatePrize(t, "Sticker", 30), nil)
	require.NoError(t, err)

	_, err = f.service.ApprovePrizeRequest(context.Background(), entity.Actor{ID: "teacher-2", Role: entity.RoleTeacher}, request.ID, "")
	assert.ErrorIs(t, err, errs.ErrNotClassOwner)

	approved, err := f.service.ApprovePrizeRequest(context.Background(), f.teacher, request.ID, " enjoy ")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, approved.Status)
	assert.Equal(t, "enjoy", approved.ReviewNotes)
	assert.Equal(t, int64(70), f.db.Balance(t, f.account.ID))
	assert.Len(t, f.history(t), 2)

	_, err = f.service.ApprovePrizeRequest(context.Background(), f.teacher, request.ID, "")
	assert.ErrorIs(t, err, errs.ErrInvalidState)

	_, err = f.service.DenyPrizeRequest(context.Background(), f.teacher, request.ID, "changed my mind")
	assert.ErrorIs(t, err, errs.ErrInvalidState)
	assert.Equal(t, int64(70), f.db.Balance(t, f.account.ID))

	_, err = f.service.ApprovePrizeRequest(context.Background(), f.teacher, "missing", "")
	assert.ErrorIs(t, err, errs.ErrRequestNotFound)

	f.assertReconciled(t)
}

func TestListPrizeRequests(t *testing.T) {
	f := newFixture(t, 100)
	first, err := f.request(t, f.db.CreatePrize(t, "Sticker", 10), nil)
	require.NoError(t, err)
	second, err := f.request(t, f.db.CreatePrize(t, "Pencil", 10), nil)
	require.NoError(t, err)
	_, err = f.request(t, f.db.CreatePrize(t, "Eraser", 10), nil)
	require.NoError(t, err)

	_, err = f.service.ApprovePrizeRequest(context.Background(), f.teacher, first.ID, "")
	require.NoError(t, err)
	_, err = f.service.DenyPrizeRequest(context.Background(), f.teacher, second.ID, "out of stock")
	require.NoError(t, err)

	pending, err := f.service.ListPrizeRequests(context.Background(), entity.PrizeRequestFilter{Status: entity.StatusPending, ClassID: f.class.ID})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Eraser", pending[0].PrizeName)

	reviewed, err := f.service.ListRecentlyReviewed(context.Background(), entity.PrizeRequestFilter{ClassIDs: []string{f.class.ID}, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, reviewed, 2)

	_, err = f.service.ListPrizeRequests(context.Background(), entity.PrizeRequestFilter{Status: "lost"})
	assert.ErrorIs(t, err, errs.ErrInvalidStatus)
}

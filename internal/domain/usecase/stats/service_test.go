package stats

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
	"github.com/amirhossein-jamali/token-economy/internal/domain/usecase/prize"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/database"
	timeprovider "github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/time"
	coremocks "github.com/amirhossein-jamali/token-economy/mocks/port/core"
)

func TestAverage(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		count     int64
		wantFloor int64
		wantExact string
	}{
		{"empty set", 0, 0, 0, "0.00"},
		{"whole", 300, 3, 100, "100.00"},
		{"fraction floors", 100, 3, 33, "33.33"},
		{"half", 5, 2, 2, "2.50"},
		{"negative floors down", -7, 2, -4, "-3.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			floor, exact := Average(tt.total, tt.count)
			assert.Equal(t, tt.wantFloor, floor)
			assert.Equal(t, tt.wantExact, exact)
		})
	}
}

type fixture struct {
	db      *database.TestDatabase
	ledger  *ledger.Service
	prizes  *prize.Service
	service *Service
	teacher entity.Actor

	mu  sync.Mutex
	now time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := database.NewTestDatabase(t)
	wallClock := timeprovider.NewRealTimeProvider()
	ledgerService := ledger.NewService(db.UoW, wallClock, db.Logger)
	t.Cleanup(ledgerService.Shutdown)

	f := &fixture{
		db:      db,
		ledger:  ledgerService,
		prizes:  prize.NewService(db.UoW, ledgerService, wallClock, db.Logger),
		teacher: entity.Actor{ID: "teacher-1", Role: entity.RoleTeacher},
		now:     time.Now(),
	}

	clock := coremocks.NewMockTimeProvider(t)
	clock.EXPECT().Now().RunAndReturn(func() time.Time {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.now
	}).Maybe()
	f.service = NewService(db.UoW, clock, db.Logger)
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func (f *fixture) credit(t *testing.T, account *entity.Account, amount int64, createdBy string) {
	t.Helper()
	_, err := f.ledger.RecordTransaction(context.Background(), usecase.RecordTransactionRequest{
		AccountID: account.ID,
		Type:      entity.TypeDeposit,
		Amount:    amount,
		CreatedBy: createdBy,
	})
	require.NoError(t, err)
}

func (f *fixture) requestPrize(t *testing.T, studentID, classID string, p *entity.Prize) *entity.PrizeRequest {
	t.Helper()
	request, err := f.prizes.RequestPrize(context.Background(), usecase.RequestPrizeRequest{
		StudentID: studentID,
		PrizeID:   p.ID,
		ClassID:   classID,
	})
	require.NoError(t, err)
	return request
}

func TestGetDashboardStats(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty teacher averages to zero", func(t *testing.T) {
		f := newFixture(t)
		f.db.CreateClass(t, "teacher-1")

		stats, err := f.service.GetDashboardStats(ctx, "teacher-1", "")
		require.NoError(t, err)
		assert.Zero(t, stats.TotalStudents)
		assert.Zero(t, stats.TotalFunds)
		assert.Zero(t, stats.AverageBalance)
		assert.Equal(t, "0.00", stats.AverageExact)
		assert.Zero(t, stats.TotalTransactions)

		stats, err = f.service.GetDashboardStats(ctx, "nobody", "")
		require.NoError(t, err)
		assert.Zero(t, stats.AverageBalance)
	})

	t.Run("Aggregates the teacher's classes", func(t *testing.T) {
		f := newFixture(t)
		math := f.db.CreateClass(t, "teacher-1")
		art := f.db.CreateClass(t, "teacher-1")
		foreign := f.db.CreateClass(t, "teacher-2")

		s1 := f.db.CreateAccount(t, "s1", math.ID)
		s2 := f.db.CreateAccount(t, "s2", math.ID)
		s1art := f.db.CreateAccount(t, "s1", art.ID)
		other := f.db.CreateAccount(t, "s9", foreign.ID)
		f.credit(t, s1, 100, "teacher-1")
		f.credit(t, s2, 50, "teacher-1")
		f.credit(t, s1art, 51, "teacher-1")
		f.credit(t, other, 1000, "teacher-2")

		sticker := f.db.CreatePrize(t, "Sticker", 10)
		approved := f.requestPrize(t, "s1", math.ID, sticker)
		f.requestPrize(t, "s2", math.ID, sticker)
		f.requestPrize(t, "s9", foreign.ID, sticker)
		_, err := f.prizes.ApprovePrizeRequest(ctx, f.teacher, approved.ID, "")
		require.NoError(t, err)

		stats, err := f.service.GetDashboardStats(ctx, "teacher-1", "")
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.TotalStudents)
		assert.Equal(t, int64(181), stats.TotalFunds)
		assert.Equal(t, int64(60), stats.AverageBalance)
		assert.Equal(t, "60.33", stats.AverageExact)
		assert.Equal(t, int64(1), stats.PendingRequests)
		assert.Equal(t, int64(1), stats.ApprovedToday)
		assert.Equal(t, int64(5), stats.TotalTransactions)

		byClass, err := f.service.GetDashboardStats(ctx, "teacher-1", art.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), byClass.TotalStudents)
		assert.Equal(t, int64(51), byClass.TotalFunds)
		assert.Zero(t, byClass.PendingRequests)

		f.advance(25 * time.Hour)
		later, err := f.service.GetDashboardStats(ctx, "teacher-1", "")
		require.NoError(t, err)
		assert.Zero(t, later.ApprovedToday)

		_, err = f.service.GetDashboardStats(ctx, "teacher-1", foreign.ID)
		assert.ErrorIs(t, err, errs.ErrNotClassOwner)
	})
}

func TestGetStudentStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	math := f.db.CreateClass(t, "teacher-1")
	art := f.db.CreateClass(t, "teacher-1")

	mathAccount := f.db.CreateAccount(t, "s1", math.ID)
	artAccount, err := entity.NewAccount("art-s1", "s1", art.ID, entity.CurrencyEarthPoints, time.Now())
	require.NoError(t, err)
	require.NoError(t, f.db.Accounts().Create(ctx, artAccount))

	f.credit(t, mathAccount, 500, "teacher-1")
	f.credit(t, artAccount, 40, "teacher-1")
	sticker := f.db.CreatePrize(t, "Sticker", 200)
	denied := f.requestPrize(t, "s1", math.ID, sticker)
	f.requestPrize(t, "s1", math.ID, sticker)
	_, err = f.prizes.DenyPrizeRequest(ctx, f.teacher, denied.ID, "try again later")
	require.NoError(t, err)

	t.Run("One class", func(t *testing.T) {
		stats, err := f.service.GetStudentStats(ctx, "s1", math.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(300), stats.CurrentBalance)
		assert.Equal(t, entity.DefaultCurrency, stats.Currency)
		// the refund is a deposit too
		assert.Equal(t, int64(700), stats.TotalEarned)
		assert.Equal(t, int64(400), stats.TotalSpent)
		assert.Equal(t, int64(1), stats.PendingRequests)
	})

	t.Run("All classes", func(t *testing.T) {
		stats, err := f.service.GetStudentStats(ctx, "s1", "")
		require.NoError(t, err)
		assert.Equal(t, int64(340), stats.CurrentBalance)
		assert.Equal(t, int64(740), stats.TotalEarned)
		assert.Equal(t, int64(1), stats.PendingRequests)
	})

	t.Run("Student without accounts", func(t *testing.T) {
		stats, err := f.service.GetStudentStats(ctx, "s7", "")
		require.NoError(t, err)
		assert.Zero(t, stats.CurrentBalance)
		assert.Equal(t, entity.DefaultCurrency, stats.Currency)

		_, err = f.service.GetStudentStats(ctx, "s7", math.ID)
		assert.ErrorIs(t, err, errs.ErrAccountNotFound)

		_, err = f.service.GetStudentStats(ctx, "", "")
		assert.ErrorIs(t, err, errs.ErrInvalidID)
	})
}

func TestGetClassStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	class := f.db.CreateClass(t, "teacher-1")
	a := f.db.CreateAccount(t, "s1", class.ID)
	f.db.CreateAccount(t, "s2", class.ID)
	f.credit(t, a, 9, "teacher-1")

	stats, err := f.service.GetClassStats(ctx, f.teacher, class.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.StudentCount)
	assert.Equal(t, int64(9), stats.TotalFunds)
	assert.Equal(t, int64(4), stats.AverageBalance)
	assert.Equal(t, "4.50", stats.AverageExact)
	assert.Equal(t, int64(1), stats.TransactionCount)

	_, err = f.service.GetClassStats(ctx, entity.Actor{ID: "teacher-2", Role: entity.RoleTeacher}, class.ID)
	assert.ErrorIs(t, err, errs.ErrForbidden)
	_, err = f.service.GetClassStats(ctx, f.teacher, "missing")
	assert.ErrorIs(t, err, errs.ErrClassNotFound)
}

func TestGetTeacherOverview(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	math := f.db.CreateClass(t, "teacher-1")
	art := f.db.CreateClass(t, "teacher-1")
	a := f.db.CreateAccount(t, "s1", math.ID)
	b := f.db.CreateAccount(t, "s1", art.ID)
	c := f.db.CreateAccount(t, "s2", art.ID)
	f.credit(t, a, 10, "teacher-1")
	f.credit(t, b, 10, "teacher-1")
	f.credit(t, c, 10, "teacher-2")

	overview, err := f.service.GetTeacherOverview(ctx, "teacher-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), overview.ClassCount)
	assert.Equal(t, int64(2), overview.TotalStudents)
	assert.Zero(t, overview.PendingRequests)
	assert.Equal(t, int64(2), overview.RecentTransactions)

	f.advance(48 * time.Hour)
	overview, err = f.service.GetTeacherOverview(ctx, "teacher-1")
	require.NoError(t, err)
	assert.Zero(t, overview.RecentTransactions)
}

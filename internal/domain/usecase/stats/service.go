package stats

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/token-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/token-economy/internal/domain/usecase/policy"
)

// RecentWindow is how far back "today" figures look
const RecentWindow = 24 * time.Hour

// Service derives read-only aggregates from accounts, the ledger and prize requests
type Service struct {
	uow          persistence.UnitOfWork
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

var _ usecase.StatsUseCase = (*Service)(nil)

// NewService creates a new statistics service
func NewService(uow persistence.UnitOfWork, timeProvider coreport.TimeProvider, logger coreport.Logger) *Service {
	return &Service{
		uow:          uow,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Average divides total by count exactly and returns the floored integer and a two-decimal rendering.
// An empty set averages to zero.
func Average(total, count int64) (int64, string) {
	if count <= 0 {
		return 0, decimal.Zero.StringFixed(2)
	}
	avg := decimal.NewFromInt(total).Div(decimal.NewFromInt(count))
	return avg.Floor().IntPart(), avg.Truncate(2).StringFixed(2)
}

// GetDashboardStats aggregates all classes of a teacher, or one of them when classID is set
func (s *Service) GetDashboardStats(ctx context.Context, teacherID, classID string) (*entity.DashboardStats, error) {
	classIDs, err := policy.TeacherClassIDs(ctx, s.uow.GetClassRepository(ctx), teacherID, classID)
	if err != nil {
		return nil, err
	}

	summary, err := s.uow.GetAccountRepository(ctx).Summarize(ctx, classIDs)
	if err != nil {
		return nil, err
	}
	requests := s.uow.GetPrizeRequestRepository(ctx)
	pending, err := requests.CountPending(ctx, classIDs, "")
	if err != nil {
		return nil, err
	}
	approved, err := requests.CountApprovedSince(ctx, classIDs, s.timeProvider.Now().Add(-RecentWindow))
	if err != nil {
		return nil, err
	}
	transactions, err := s.uow.GetTransactionRepository(ctx).CountForClasses(ctx, classIDs)
	if err != nil {
		return nil, err
	}

	average, exact := Average(summary.TotalBalance, summary.AccountCount)
	stats := &entity.DashboardStats{
		TotalStudents:     summary.StudentCount,
		TotalFunds:        summary.TotalBalance,
		AverageBalance:    average,
		AverageExact:      exact,
		PendingRequests:   pending,
		ApprovedToday:     approved,
		TotalTransactions: transactions,
	}

	s.logger.Debug("Dashboard stats computed", map[string]any{
		"teacher_id": teacherID,
		"class_id":   classID,
		"classes":    len(classIDs),
		"students":   stats.TotalStudents,
	})
	return stats, nil
}

// GetStudentStats aggregates a student's account in one class, or all their accounts when classID is empty
func (s *Service) GetStudentStats(ctx context.Context, studentID, classID string) (*entity.StudentStats, error) {
	if studentID == "" {
		return nil, errs.ErrInvalidID
	}

	filter := entity.AccountFilter{UserID: studentID, ClassID: classID}
	accounts, err := s.uow.GetAccountRepository(ctx).List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if classID != "" && len(accounts) == 0 {
		return nil, errs.ErrAccountNotFound
	}

	stats := &entity.StudentStats{Currency: entity.DefaultCurrency}
	classIDs := make([]string, 0, len(accounts))
	for i, account := range accounts {
		if i == 0 {
			stats.Currency = account.Currency
		}
		stats.CurrentBalance += account.Balance()
		classIDs = append(classIDs, account.ClassID)
	}

	transactions := s.uow.GetTransactionRepository(ctx)
	if stats.TotalEarned, err = transactions.SumByType(ctx, studentID, classID, entity.TypeDeposit); err != nil {
		return nil, err
	}
	if stats.TotalSpent, err = transactions.SumByType(ctx, studentID, classID, entity.TypePrizeRedemption); err != nil {
		return nil, err
	}
	if stats.PendingRequests, err = s.uow.GetPrizeRequestRepository(ctx).CountPending(ctx, classIDs, studentID); err != nil {
		return nil, err
	}
	return stats, nil
}

// GetClassStats aggregates one class owned by actor
func (s *Service) GetClassStats(ctx context.Context, actor entity.Actor, classID string) (*entity.ClassStats, error) {
	if _, err := policy.RequireClassOwner(ctx, s.uow.GetClassRepository(ctx), actor, classID); err != nil {
		return nil, err
	}
	classIDs := []string{classID}

	summary, err := s.uow.GetAccountRepository(ctx).Summarize(ctx, classIDs)
	if err != nil {
		return nil, err
	}
	transactions, err := s.uow.GetTransactionRepository(ctx).CountForClasses(ctx, classIDs)
	if err != nil {
		return nil, err
	}
	pending, err := s.uow.GetPrizeRequestRepository(ctx).CountPending(ctx, classIDs, "")
	if err != nil {
		return nil, err
	}

	average, exact := Average(summary.TotalBalance, summary.AccountCount)
	return &entity.ClassStats{
		StudentCount:     summary.StudentCount,
		TotalFunds:       summary.TotalBalance,
		AverageBalance:   average,
		AverageExact:     exact,
		TransactionCount: transactions,
		PendingRequests:  pending,
	}, nil
}

// GetTeacherOverview summarizes a teacher's classes and their own ledger activity over the last day
func (s *Service) GetTeacherOverview(ctx context.Context, teacherID string) (*entity.TeacherOverview, error) {
	classIDs, err := policy.TeacherClassIDs(ctx, s.uow.GetClassRepository(ctx), teacherID, "")
	if err != nil {
		return nil, err
	}

	students, err := s.uow.GetAccountRepository(ctx).CountDistinctStudents(ctx, classIDs)
	if err != nil {
		return nil, err
	}
	pending, err := s.uow.GetPrizeRequestRepository(ctx).CountPending(ctx, classIDs, "")
	if err != nil {
		return nil, err
	}
	recent, err := s.uow.GetTransactionRepository(ctx).CountCreatedBySince(ctx, teacherID, s.timeProvider.Now().Add(-RecentWindow))
	if err != nil {
		return nil, err
	}

	return &entity.TeacherOverview{
		ClassCount:         int64(len(classIDs)),
		TotalStudents:      students,
		PendingRequests:    pending,
		RecentTransactions: recent,
	}, nil
}

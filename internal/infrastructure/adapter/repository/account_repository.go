package repository

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/token-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccountRepository implements AccountRepository interface using GORM
type AccountRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewAccountRepository creates a new AccountRepository instance
func NewAccountRepository(db *gorm.DB, logger coreport.Logger) *AccountRepository {
	return &AccountRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func accountToModel(account *entity.Account) model.Account {
	return model.Account{
		ID:               account.ID,
		UserID:           account.UserID,
		ClassID:          account.ClassID,
		Currency:         string(account.Currency),
		Balance:          account.Balance(),
		TransactionCount: account.TransactionCount,
		CreatedAt:        utc(account.CreatedAt),
		UpdatedAt:        utc(account.UpdatedAt),
	}
}

func accountToEntity(m *model.Account) *entity.Account {
	return entity.RestoreAccount(
		m.ID, m.UserID, m.ClassID, entity.Currency(m.Currency),
		m.Balance, m.TransactionCount, m.CreatedAt, m.UpdatedAt,
	)
}

// Create stores a new account
func (r *AccountRepository) Create(ctx context.Context, account *entity.Account) error {
	m := accountToModel(account)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if !r.errorClassifier.IsDuplicateKeyError(err) {
			logFailure(r.logger, r.errorClassifier, "create account", err, map[string]any{"account_id": account.ID})
		}
		return r.errorClassifier.Translate(err, nil, errs.ErrDuplicateAccount)
	}

	r.logger.Debug("Account created", map[string]any{
		"account_id": account.ID,
		"user_id":    account.UserID,
		"class_id":   account.ClassID,
	})
	return nil
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	var m model.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, r.errorClassifier.Translate(err, errs.ErrAccountNotFound, nil)
	}
	return accountToEntity(&m), nil
}

// GetByIDForUpdate retrieves an account holding a row lock.
// SQLite has no row locks; the database-wide write lock of its transaction serves instead.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Account, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var m model.Account
	if err := query.Where("id = ?", id).First(&m).Error; err != nil {
		return nil, r.errorClassifier.Translate(err, errs.ErrAccountNotFound, nil)
	}
	return accountToEntity(&m), nil
}

// FindByUserAndClass retrieves the account of a student in a class
func (r *AccountRepository) FindByUserAndClass(ctx context.Context, userID, classID string) (*entity.Account, error) {
	var m model.Account
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND class_id = ?", userID, classID).
		First(&m).Error
	if err != nil {
		return nil, r.errorClassifier.Translate(err, errs.ErrAccountNotFound, nil)
	}
	return accountToEntity(&m), nil
}

// List returns accounts matching the filter, highest balance first
func (r *AccountRepository) List(ctx context.Context, filter entity.AccountFilter) ([]*entity.Account, error) {
	query := r.db.WithContext(ctx).Model(&model.Account{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.ClassID != "" {
		query = query.Where("class_id = ?", filter.ClassID)
	}
	if filter.ClassIDs != nil {
		if len(filter.ClassIDs) == 0 {
			return []*entity.Account{}, nil
		}
		query = query.Where("class_id IN ?", filter.ClassIDs)
	}

	var models []model.Account
	if err := query.Order("balance DESC").Order("created_at ASC").Find(&models).Error; err != nil {
		logFailure(r.logger, r.errorClassifier, "list accounts", err, nil)
		return nil, r.errorClassifier.Translate(err, nil, nil)
	}

	accounts := make([]*entity.Account, 0, len(models))
	for i := range models {
		accounts = append(accounts, accountToEntity(&models[i]))
	}
	return accounts, nil
}

// UpdateBalance persists the balance and transaction count of an account
func (r *AccountRepository) UpdateBalance(ctx context.Context, id string, balance int64, transactionCount uint64, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"balance":           balance,
			"transaction_count": transactionCount,
			"updated_at":        utc(updatedAt),
		})

	if result.Error != nil {
		logFailure(r.logger, r.errorClassifier, "update balance", result.Error, map[string]any{"account_id": id})
		return r.errorClassifier.Translate(result.Error, nil, nil)
	}
	if result.RowsAffected == 0 {
		return errs.ErrAccountNotFound
	}
	return nil
}

// Summarize aggregates balances over the accounts of the given classes
func (r *AccountRepository) Summarize(ctx context.Context, classIDs []string) (entity.BalanceSummary, error) {
	var summary entity.BalanceSummary
	if len(classIDs) == 0 {
		return summary, nil
	}

	var row struct {
		AccountCount int64
		StudentCount int64
		TotalBalance int64
	}
	err := r.db.WithContext(ctx).Model(&model.Account{}).
		Select("COUNT(*) AS account_count, COUNT(DISTINCT user_id) AS student_count, COALESCE(SUM(balance), 0) AS total_balance").
		Where("class_id IN ?", classIDs).
		Scan(&row).Error
	if err != nil {
		logFailure(r.logger, r.errorClassifier, "summarize accounts", err, nil)
		return summary, r.errorClassifier.Translate(err, nil, nil)
	}

	summary.AccountCount = row.AccountCount
	summary.StudentCount = row.StudentCount
	summary.TotalBalance = row.TotalBalance
	return summary, nil
}

// CountDistinctStudents counts students holding an account in any of the classes
func (r *AccountRepository) CountDistinctStudents(ctx context.Context, classIDs []string) (int64, error) {
	summary, err := r.Summarize(ctx, classIDs)
	if err != nil {
		return 0, err
	}
	return summary.StudentCount, nil
}

package repository

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/token-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// signedAmountSQL applies the credit/debit convention inside the store
const signedAmountSQL = "CASE WHEN type IN ('deposit', 'adjustment') THEN amount ELSE -amount END"

// TransactionRepository implements TransactionRepository interface using GORM
type TransactionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// entityToModel converts a transaction entity to a database model
func (r *TransactionRepository) entityToModel(tx *entity.Transaction) model.Transaction {
	return model.Transaction{
		ID:            tx.ID,
		AccountID:     tx.AccountID,
		UserID:        tx.UserID,
		Type:          string(tx.Type),
		Amount:        tx.Amount,
		BalanceBefore: tx.BalanceBefore,
		BalanceAfter:  tx.BalanceAfter,
		Reason:        tx.Reason,
		Notes:         tx.Notes,
		CreatedBy:     tx.CreatedBy,
		CreatedAt:     utc(tx.CreatedAt),
	}
}

// modelToEntity converts a transaction model to an entity
func (r *TransactionRepository) modelToEntity(m *model.Transaction) *entity.Transaction {
	return &entity.Transaction{
		ID:            m.ID,
		AccountID:     m.AccountID,
		UserID:        m.UserID,
		Type:          entity.TransactionType(m.Type),
		Amount:        m.Amount,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		Reason:        m.Reason,
		Notes:         m.Notes,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}

// Create appends a ledger entry
func (r *TransactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	m := r.entityToModel(tx)
	if err := r.db.WithContext(ctx).Omit("Account").Create(&m).Error; err != nil {
		logFailure(r.logger, r.errorClassifier, "create transaction", err, map[string]any{
			"transaction_id": tx.ID,
			"account_id":     tx.AccountID,
		})
		return r.errorClassifier.Translate(err, nil, nil)
	}

	r.logger.Debug("Transaction created", map[string]any{
		"transaction_id": tx.ID,
		"account_id":     tx.AccountID,
		"type":           tx.Type,
		"amount":         tx.Amount,
	})
	return nil
}

// GetByID retrieves a ledger entry
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	var m model.Transaction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, r.errorClassifier.Translate(err, errs.ErrTransactionNotFound, nil)
	}
	return r.modelToEntity(&m), nil
}

// List returns entries matching the filter, newest first
func (r *TransactionRepository) List(ctx context.Context, filter entity.TransactionFilter) ([]*entity.Transaction, error) {
	query := r.db.WithContext(ctx).Model(&model.Transaction{})
	if filter.AccountID != "" {
		query = query.Where("transactions.account_id = ?", filter.AccountID)
	}
	if filter.UserID != "" {
		query = query.Where("transactions.user_id = ?", filter.UserID)
	}
	if filter.ClassID != "" {
		query = query.Joins("JOIN accounts ON accounts.id = transactions.account_id").
			Where("accounts.class_id = ?", filter.ClassID)
	}
	if filter.Type != "" {
		query = query.Where("transactions.type = ?", string(filter.Type))
	}
	if filter.CreatedBy != "" {
		query = query.Where("transactions.created_by = ?", filter.CreatedBy)
	}
	if filter.Since != nil {
		query = query.Where("transactions.created_at >= ?", utc(*filter.Since))
	}

	var models []model.Transaction
	err := query.
		Order("transactions.created_at DESC").
		Limit(defaultLimit(filter.Limit)).
		Find(&models).Error
	if err != nil {
		logFailure(r.logger, r.errorClassifier, "list transactions", err, nil)
		return nil, r.errorClassifier.Translate(err, nil, nil)
	}

	transactions := make([]*entity.Transaction, 0, len(models))
	for i := range models {
		transactions = append(transactions, r.modelToEntity(&models[i]))
	}
	return transactions, nil
}

// SumSigned returns the signed sum and entry count of an account's ledger
func (r *TransactionRepository) SumSigned(ctx context.Context, accountID string) (int64, int64, error) {
	var row struct {
		Total int64
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("COALESCE(SUM("+signedAmountSQL+"), 0) AS total, COUNT(*) AS count").
		Where("account_id = ?", accountID).
		Scan(&row).Error
	if err != nil {
		logFailure(r.logger, r.errorClassifier, "sum ledger", err, map[string]any{"account_id": accountID})
		return 0, 0, r.errorClassifier.Translate(err, nil, nil)
	}
	return row.Total, row.Count, nil
}

// SumByType sums entry amounts of one type for a student, optionally within a class
func (r *TransactionRepository) SumByType(ctx context.Context, userID, classID string, txType entity.TransactionType) (int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("COALESCE(SUM(transactions.amount), 0)").
		Where("transactions.user_id = ? AND transactions.type = ?", userID, string(txType))
	if classID != "" {
		query = query.Joins("JOIN accounts ON accounts.id = transactions.account_id").
			Where("accounts.class_id = ?", classID)
	}

	var total int64
	if err := query.Scan(&total).Error; err != nil {
		logFailure(r.logger, r.errorClassifier, "sum by type", err, map[string]any{"user_id": userID})
		return 0, r.errorClassifier.Translate(err, nil, nil)
	}
	return total, nil
}

// CountForClasses counts entries booked on accounts of the given classes
func (r *TransactionRepository) CountForClasses(ctx context.Context, classIDs []string) (int64, error) {
	if len(classIDs) == 0 {
		return 0, nil
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("accounts.class_id IN ?", classIDs).
		Count(&count).Error
	if err != nil {
		logFailure(r.logger, r.errorClassifier, "count transactions", err, nil)
		return 0, r.errorClassifier.Translate(err, nil, nil)
	}
	return count, nil
}

// CountCreatedBySince counts entries authored by actorID at or after since
func (r *TransactionRepository) CountCreatedBySince(ctx context.Context, actorID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("created_by = ? AND created_at >= ?", actorID, utc(since)).
		Count(&count).Error
	if err != nil {
		logFailure(r.logger, r.errorClassifier, "count recent transactions", err, map[string]any{"actor_id": actorID})
		return 0, r.errorClassifier.Translate(err, nil, nil)
	}
	return count, nil
}

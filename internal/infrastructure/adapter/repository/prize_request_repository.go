package repository

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/token-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// PrizeRequestRepository implements PrizeRequestRepository interface using GORM
type PrizeRequestRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewPrizeRequestRepository creates a new PrizeRequestRepository instance
func NewPrizeRequestRepository(db *gorm.DB, logger coreport.Logger) *PrizeRequestRepository {
	return &PrizeRequestRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func prizeRequestToModel(r *entity.PrizeRequest) model.PrizeRequest {
	return model.PrizeRequest{
		ID:           r.ID,
		StudentID:    r.StudentID,
		PrizeID:      r.PrizeID,
		ClassID:      r.ClassID,
		PrizeName:    r.PrizeName,
		PrizeCost:    r.PrizeCost,
		CustomAmount: r.CustomAmount,
		Reason:       r.Reason,
		Status:       string(r.Status),
		RequestedAt:  utc(r.RequestedAt),
		ReviewedAt:   utcPtr(r.ReviewedAt),
		ReviewedBy:   r.ReviewedBy,
		ReviewNotes:  r.ReviewNotes,
	}
}

func prizeRequestToEntity(m *model.PrizeRequest) *entity.PrizeRequest {
	return &entity.PrizeRequest{
		ID:           m.ID,
		StudentID:    m.StudentID,
		PrizeID:      m.PrizeID,
		ClassID:      m.ClassID,
		PrizeName:    m.PrizeName,
		PrizeCost:    m.PrizeCost,
		CustomAmount: m.CustomAmount,
		Reason:       m.Reason,
		Status:       entity.ReviewStatus(m.Status),
		RequestedAt:  m.RequestedAt,
		ReviewedAt:   m.ReviewedAt,
		ReviewedBy:   m.ReviewedBy,
		ReviewNotes:  m.ReviewNotes,
	}
}

// Create stores a new prize request
func (r *PrizeRequestRepository) Create(ctx context.Context, request *entity.PrizeRequest) error {
	m := prizeRequestToModel(request)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		logFailure(r.logger, r.errorClassifier, "create prize request", err, map[string]any{"request_id": request.ID})
		return r.errorClassifier.Translate(err, nil, nil)
	}
	return nil
}

// GetByID retrieves a prize request
func (r *PrizeRequestRepository) GetByID(ctx context.Context, id string) (*entity.PrizeRequest, error) {
	var m model.PrizeRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, r.errorClassifier.Translate(err, errs.ErrRequestNotFound, nil)
	}
	return prizeRequestToEntity(&m), nil
}

// TransitionFromPending applies stamp only if the request is still pending
func (r *PrizeRequestRepository) TransitionFromPending(ctx context.Context, id string, stamp persistence.ReviewStamp) (bool, error) {
	reviewedAt := utc(stamp.ReviewedAt)
	result := r.db.WithContext(ctx).Model(&model.PrizeRequest{}).
		Where("id = ? AND status = ?", id, string(entity.StatusPending)).
		Updates(map[string]any{
			"status":       string(stamp.Status),
			"reviewed_by":  stamp.ReviewedBy,
			"reviewed_at":  reviewedAt,
			"review_notes": stamp.Notes,
		})
	if result.Error != nil {
		logFailure(r.logger, r.errorClassifier, "transition prize request", result.Error, map[string]any{"request_id": id})
		return false, r.errorClassifier.Translate(result.Error, nil, nil)
	}
	return result.RowsAffected == 1, nil
}

func (r *PrizeRequestRepository) filtered(ctx context.Context, filter entity.PrizeRequestFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.PrizeRequest{})
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.StudentID != "" {
		query = query.Where("student_id = ?", filter.StudentID)
	}
	if filter.ClassID != "" {
		query = query.Where("class_id = ?", filter.ClassID)
	}
	if filter.ClassIDs != nil {
		query = query.Where("class_id IN ?", filter.ClassIDs)
	}
	if filter.PrizeID != "" {
		query = query.Where("prize_id = ?", filter.PrizeID)
	}
	return query.Limit(defaultLimit(filter.Limit))
}

func (r *PrizeRequestRepository) find(query *gorm.DB, operation string) ([]*entity.PrizeRequest, error) {
	var models []model.PrizeRequest
	if err := query.Find(&models).Error; err != nil {
		logFailure(r.logger, r.errorClassifier, operation, err, nil)
		return nil, r.errorClassifier.Translate(err, nil, nil)
	}

	requests := make([]*entity.PrizeRequest, 0, len(models))
	for i := range models {
		requests = append(requests, prizeRequestToEntity(&models[i]))
	}
	return requests, nil
}

// List returns requests matching the filter, newest first
func (r *PrizeRequestRepository) List(ctx context.Context, filter entity.PrizeRequestFilter) ([]*entity.PrizeRequest, error) {
	return r.find(r.filtered(ctx, filter).Order("requested_at DESC"), "list prize requests")
}

// ListReviewed returns terminal requests, most recently reviewed first
func (r *PrizeRequestRepository) ListReviewed(ctx context.Context, filter entity.PrizeRequestFilter) ([]*entity.PrizeRequest, error) {
	query := r.filtered(ctx, filter).
		Where("status IN ?", []string{string(entity.StatusApproved), string(entity.StatusDenied)}).
		Order("reviewed_at DESC")
	return r.find(query, "list reviewed prize requests")
}

// CountPending counts pending requests in the classes, optionally for one student
func (r *PrizeRequestRepository) CountPending(ctx context.Context, classIDs []string, studentID string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&model.PrizeRequest{}).
		Where("status = ?", string(entity.StatusPending))
	if classIDs != nil {
		if len(classIDs) == 0 {
			return 0, nil
		}
		query = query.Where("class_id IN ?", classIDs)
	}
	if studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		logFailure(r.logger, r.errorClassifier, "count pending prize requests", err, nil)
		return 0, r.errorClassifier.Translate(err, nil, nil)
	}
	return count, nil
}

// CountApprovedSince counts requests approved at or after since
func (r *PrizeRequestRepository) CountApprovedSince(ctx context.Context, classIDs []string, since time.Time) (int64, error) {
	if len(classIDs) == 0 {
		return 0, nil
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&model.PrizeRequest{}).
		Where("status = ? AND reviewed_at >= ?", string(entity.StatusApproved), utc(since)).
		Where("class_id IN ?", classIDs).
		Count(&count).Error
	if err != nil {
		logFailure(r.logger, r.errorClassifier, "count approved prize requests", err, nil)
		return 0, r.errorClassifier.Translate(err, nil, nil)
	}
	return count, nil
}

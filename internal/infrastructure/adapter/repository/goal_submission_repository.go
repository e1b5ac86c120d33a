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

// GoalSubmissionRepository implements GoalSubmissionRepository interface using GORM
type GoalSubmissionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewGoalSubmissionRepository creates a new GoalSubmissionRepository instance
func NewGoalSubmissionRepository(db *gorm.DB, logger coreport.Logger) *GoalSubmissionRepository {
	return &GoalSubmissionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func goalSubmissionToModel(s *entity.GoalSubmission) model.GoalSubmission {
	return model.GoalSubmission{
		ID:          s.ID,
		StudentID:   s.StudentID,
		GoalID:      s.GoalID,
		ClassID:     s.ClassID,
		GoalTitle:   s.GoalTitle,
		Description: s.Description,
		Points:      s.Points,
		Status:      string(s.Status),
		ReviewedBy:  s.ReviewedBy,
		ReviewedAt:  utcPtr(s.ReviewedAt),
		CreatedAt:   utc(s.CreatedAt),
		UpdatedAt:   utc(s.UpdatedAt),
	}
}

func goalSubmissionToEntity(m *model.GoalSubmission) *entity.GoalSubmission {
	return &entity.GoalSubmission{
		ID:          m.ID,
		StudentID:   m.StudentID,
		GoalID:      m.GoalID,
		ClassID:     m.ClassID,
		GoalTitle:   m.GoalTitle,
		Description: m.Description,
		Points:      m.Points,
		Status:      entity.ReviewStatus(m.Status),
		ReviewedBy:  m.ReviewedBy,
		ReviewedAt:  m.ReviewedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// Create stores a new submission
func (r *GoalSubmissionRepository) Create(ctx context.Context, submission *entity.GoalSubmission) error {
	m := goalSubmissionToModel(submission)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		logFailure(r.logger, r.errorClassifier, "create goal submission", err, map[string]any{"submission_id": submission.ID})
		return r.errorClassifier.Translate(err, nil, nil)
	}
	return nil
}

// GetByID retrieves a submission
func (r *GoalSubmissionRepository) GetByID(ctx context.Context, id string) (*entity.GoalSubmission, error) {
	var m model.GoalSubmission
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, r.errorClassifier.Translate(err, errs.ErrSubmissionNotFound, nil)
	}
	return goalSubmissionToEntity(&m), nil
}

// UpdatePending changes description and points of a pending submission
func (r *GoalSubmissionRepository) UpdatePending(ctx context.Context, id, description string, points int64, updatedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.GoalSubmission{}).
		Where("id = ? AND status = ?", id, string(entity.StatusPending)).
		Updates(map[string]any{
			"description": description,
			"points":      points,
			"updated_at":  utc(updatedAt),
		})
	if result.Error != nil {
		logFailure(r.logger, r.errorClassifier, "update goal submission", result.Error, map[string]any{"submission_id": id})
		return false, r.errorClassifier.Translate(result.Error, nil, nil)
	}
	return result.RowsAffected == 1, nil
}

// TransitionFromPending moves a pending submission to a terminal status
func (r *GoalSubmissionRepository) TransitionFromPending(ctx context.Context, id string, stamp persistence.ReviewStamp, points int64) (bool, error) {
	reviewedAt := utc(stamp.ReviewedAt)
	result := r.db.WithContext(ctx).Model(&model.GoalSubmission{}).
		Where("id = ? AND status = ?", id, string(entity.StatusPending)).
		Updates(map[string]any{
			"status":      string(stamp.Status),
			"points":      points,
			"reviewed_by": stamp.ReviewedBy,
			"reviewed_at": reviewedAt,
			"updated_at":  reviewedAt,
		})
	if result.Error != nil {
		logFailure(r.logger, r.errorClassifier, "transition goal submission", result.Error, map[string]any{"submission_id": id})
		return false, r.errorClassifier.Translate(result.Error, nil, nil)
	}
	return result.RowsAffected == 1, nil
}

// Delete removes a submission
func (r *GoalSubmissionRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.GoalSubmission{})
	if result.Error != nil {
		logFailure(r.logger, r.errorClassifier, "delete goal submission", result.Error, map[string]any{"submission_id": id})
		return r.errorClassifier.Translate(result.Error, nil, nil)
	}
	if result.RowsAffected == 0 {
		return errs.ErrSubmissionNotFound
	}
	return nil
}

// DeletePending removes a submission only while it is still pending.
// Returns false when it has been reviewed or no longer exists.
func (r *GoalSubmissionRepository) DeletePending(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, string(entity.StatusPending)).
		Delete(&model.GoalSubmission{})
	if result.Error != nil {
		logFailure(r.logger, r.errorClassifier, "delete pending goal submission", result.Error, map[string]any{"submission_id": id})
		return false, r.errorClassifier.Translate(result.Error, nil, nil)
	}
	return result.RowsAffected == 1, nil
}

func (r *GoalSubmissionRepository) find(query *gorm.DB, operation string) ([]*entity.GoalSubmission, error) {
	var models []model.GoalSubmission
	if err := query.Find(&models).Error; err != nil {
		logFailure(r.logger, r.errorClassifier, operation, err, nil)
		return nil, r.errorClassifier.Translate(err, nil, nil)
	}

	submissions := make([]*entity.GoalSubmission, 0, len(models))
	for i := range models {
		submissions = append(submissions, goalSubmissionToEntity(&models[i]))
	}
	return submissions, nil
}

// List returns submissions matching the filter, newest first
func (r *GoalSubmissionRepository) List(ctx context.Context, filter entity.GoalSubmissionFilter) ([]*entity.GoalSubmission, error) {
	query := r.db.WithContext(ctx).Model(&model.GoalSubmission{})
	if filter.StudentID != "" {
		query = query.Where("student_id = ?", filter.StudentID)
	}
	if filter.ClassID != "" {
		query = query.Where("class_id = ?", filter.ClassID)
	}
	if filter.ClassIDs != nil {
		query = query.Where("class_id IN ?", filter.ClassIDs)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	return r.find(query.Order("created_at DESC").Limit(defaultLimit(filter.Limit)), "list goal submissions")
}

// FindPendingForStudentBetween returns pending submissions created in [from, to)
func (r *GoalSubmissionRepository) FindPendingForStudentBetween(ctx context.Context, studentID string, from, to time.Time) ([]*entity.GoalSubmission, error) {
	query := r.db.WithContext(ctx).Model(&model.GoalSubmission{}).
		Where("student_id = ? AND status = ?", studentID, string(entity.StatusPending)).
		Where("created_at >= ? AND created_at < ?", utc(from), utc(to)).
		Order("created_at ASC")
	return r.find(query, "find pending goal submissions")
}

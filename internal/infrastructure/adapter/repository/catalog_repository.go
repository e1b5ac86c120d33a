package repository

import (
	"context"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/token-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// CatalogRepository serves classes, prizes and goals. Catalog editing lives
// outside this service; Create exists for seeding and tests.
type CatalogRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewCatalogRepository creates a new CatalogRepository instance
func NewCatalogRepository(db *gorm.DB, logger coreport.Logger) *CatalogRepository {
	return &CatalogRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// Classes returns the class view of the catalog
func (r *CatalogRepository) Classes() *ClassRepository { return &ClassRepository{r} }

// Prizes returns the prize view of the catalog
func (r *CatalogRepository) Prizes() *PrizeRepository { return &PrizeRepository{r} }

// Goals returns the goal view of the catalog
func (r *CatalogRepository) Goals() *GoalRepository { return &GoalRepository{r} }

func (r *CatalogRepository) create(ctx context.Context, value any, operation string) error {
	if err := r.db.WithContext(ctx).Create(value).Error; err != nil {
		logFailure(r.logger, r.errorClassifier, operation, err, nil)
		return r.errorClassifier.Translate(err, nil, nil)
	}
	return nil
}

// ClassRepository implements ClassRepository interface using GORM
type ClassRepository struct{ *CatalogRepository }

// Create stores a class
func (r *ClassRepository) Create(ctx context.Context, class *entity.Class) error {
	return r.create(ctx, &model.Class{
		ID:        class.ID,
		Name:      class.Name,
		TeacherID: class.TeacherID,
		CreatedAt: utc(class.CreatedAt),
	}, "create class")
}

// GetByID retrieves a class
func (r *ClassRepository) GetByID(ctx context.Context, id string) (*entity.Class, error) {
	var m model.Class
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, r.errorClassifier.Translate(err, errs.ErrClassNotFound, nil)
	}
	return &entity.Class{ID: m.ID, Name: m.Name, TeacherID: m.TeacherID, CreatedAt: m.CreatedAt}, nil
}

// ListByTeacher returns the classes a teacher owns
func (r *ClassRepository) ListByTeacher(ctx context.Context, teacherID string) ([]*entity.Class, error) {
	var models []model.Class
	if err := r.db.WithContext(ctx).Where("teacher_id = ?", teacherID).Order("created_at ASC").Find(&models).Error; err != nil {
		logFailure(r.logger, r.errorClassifier, "list classes", err, map[string]any{"teacher_id": teacherID})
		return nil, r.errorClassifier.Translate(err, nil, nil)
	}

	classes := make([]*entity.Class, 0, len(models))
	for _, m := range models {
		classes = append(classes, &entity.Class{ID: m.ID, Name: m.Name, TeacherID: m.TeacherID, CreatedAt: m.CreatedAt})
	}
	return classes, nil
}

// PrizeRepository implements PrizeRepository interface using GORM
type PrizeRepository struct{ *CatalogRepository }

// Create stores a prize
func (r *PrizeRepository) Create(ctx context.Context, prize *entity.Prize) error {
	return r.create(ctx, &model.Prize{
		ID:          prize.ID,
		Name:        prize.Name,
		Description: prize.Description,
		Cost:        prize.Cost,
		Available:   prize.Available,
		CreatedBy:   prize.CreatedBy,
		CreatedAt:   utc(prize.CreatedAt),
	}, "create prize")
}

// GetByID retrieves a prize
func (r *PrizeRepository) GetByID(ctx context.Context, id string) (*entity.Prize, error) {
	var m model.Prize
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, r.errorClassifier.Translate(err, errs.ErrPrizeNotFound, nil)
	}
	return &entity.Prize{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Cost:        m.Cost,
		Available:   m.Available,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}, nil
}

// GoalRepository implements GoalRepository interface using GORM
type GoalRepository struct{ *CatalogRepository }

// Create stores a goal
func (r *GoalRepository) Create(ctx context.Context, goal *entity.Goal) error {
	return r.create(ctx, &model.Goal{
		ID:          goal.ID,
		Title:       goal.Title,
		Description: goal.Description,
		Points:      goal.Points,
		ClassIDs:    model.JoinIDs(goal.ClassIDs),
		CreatedBy:   goal.CreatedBy,
		CreatedAt:   utc(goal.CreatedAt),
	}, "create goal")
}

// GetByID retrieves a goal
func (r *GoalRepository) GetByID(ctx context.Context, id string) (*entity.Goal, error) {
	var m model.Goal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, r.errorClassifier.Translate(err, errs.ErrGoalNotFound, nil)
	}
	return &entity.Goal{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Points:      m.Points,
		ClassIDs:    model.SplitIDs(m.ClassIDs),
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}, nil
}

package persistence

import (
	"context"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
)

// ClassRepository provides class lookups
type ClassRepository interface {
	Create(ctx context.Context, class *entity.Class) error
	GetByID(ctx context.Context, id string) (*entity.Class, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]*entity.Class, error)
}

// PrizeRepository provides prize catalog lookups
type PrizeRepository interface {
	Create(ctx context.Context, prize *entity.Prize) error
	GetByID(ctx context.Context, id string) (*entity.Prize, error)
}

// GoalRepository provides goal catalog lookups
type GoalRepository interface {
	Create(ctx context.Context, goal *entity.Goal) error
	GetByID(ctx context.Context, id string) (*entity.Goal, error)
}

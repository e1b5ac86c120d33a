package usecase

import (
	"context"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
)

// StatsUseCase derives read-only aggregates from the ledger and workflow tables
type StatsUseCase interface {
	GetDashboardStats(ctx context.Context, teacherID, classID string) (*entity.DashboardStats, error)
	GetStudentStats(ctx context.Context, studentID, classID string) (*entity.StudentStats, error)
	GetClassStats(ctx context.Context, actor entity.Actor, classID string) (*entity.ClassStats, error)
	GetTeacherOverview(ctx context.Context, teacherID string) (*entity.TeacherOverview, error)
}

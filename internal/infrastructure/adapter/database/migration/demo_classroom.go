package migration

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/token-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/usecase"
)

// Demo classroom identifiers
const (
	DemoTeacherID = "demo-teacher"
	DemoClassID   = "5b0f1c3e-6a1d-4b8e-9d0a-3c2f7e9a1b01"
)

// Demo students and the balances their accounts open with
var demoStudents = []struct {
	ID      string
	Balance int64
}{
	{"demo-student-1", 500},
	{"demo-student-2", 250},
	{"demo-student-3", 0},
}

var demoPrizes = []entity.Prize{
	{ID: "8c2d4e6f-1a3b-4c5d-8e9f-0a1b2c3d4e01", Name: "Homework pass", Cost: 200, Available: true},
	{ID: "8c2d4e6f-1a3b-4c5d-8e9f-0a1b2c3d4e02", Name: "Class pizza party", Cost: 0, Available: true},
}

var demoGoals = []entity.Goal{
	{ID: "3e4f5a6b-7c8d-4e9f-a0b1-c2d3e4f5a601", Title: "Read for 20 minutes", Points: 10},
	{ID: "3e4f5a6b-7c8d-4e9f-a0b1-c2d3e4f5a602", Title: "Help a classmate", Points: 15, ClassIDs: []string{DemoClassID}},
}

// CreateDemoClassroom creates a teacher's class with prizes, goals and funded
// student accounts. It does nothing when the demo class already exists.
func CreateDemoClassroom(
	ctx context.Context,
	uow persistence.UnitOfWork,
	accounts usecase.AccountUseCase,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) error {
	classes := uow.GetClassRepository(ctx)
	if _, err := classes.GetByID(ctx, DemoClassID); err == nil {
		logger.Debug("Demo classroom already present", map[string]any{"class_id": DemoClassID})
		return nil
	} else if !errors.Is(err, errs.ErrClassNotFound) {
		return err
	}

	now := timeProvider.Now()
	if err := classes.Create(ctx, &entity.Class{
		ID:        DemoClassID,
		Name:      "Demo class",
		TeacherID: DemoTeacherID,
		CreatedAt: now,
	}); err != nil {
		return err
	}

	for _, prize := range demoPrizes {
		prize.CreatedBy = DemoTeacherID
		prize.CreatedAt = now
		if err := uow.GetPrizeRepository(ctx).Create(ctx, &prize); err != nil {
			return err
		}
	}

	for _, goal := range demoGoals {
		goal.CreatedBy = DemoTeacherID
		goal.CreatedAt = now
		if err := uow.GetGoalRepository(ctx).Create(ctx, &goal); err != nil {
			return err
		}
	}

	for _, student := range demoStudents {
		if _, err := accounts.OpenAccount(ctx, entity.SystemActor(), usecase.OpenAccountRequest{
			StudentID:      student.ID,
			ClassID:        DemoClassID,
			OpeningBalance: student.Balance,
		}); err != nil {
			return err
		}
	}

	logger.Info("Demo classroom created", map[string]any{
		"class_id": DemoClassID,
		"teacher":  DemoTeacherID,
		"students": len(demoStudents),
	})
	return nil
}

package usecase

import (
	"context"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
)

// GoalSubmissionItem is one claimed goal within a submission batch
type GoalSubmissionItem struct {
	GoalID      string
	ClassID     string
	Description string
}

// ReviewSubmissionRequest is a teacher's decision on a submission
type ReviewSubmissionRequest struct {
	Status entity.ReviewStatus
	Points *int64
}

// EditSubmissionRequest is the student-editable part of a submission
type EditSubmissionRequest struct {
	Description string
}

// GoalUseCase implements the goal submission workflow
type GoalUseCase interface {
	SubmitGoals(ctx context.Context, studentID string, items []GoalSubmissionItem) ([]*entity.GoalSubmission, error)
	ReviewSubmission(ctx context.Context, actor entity.Actor, submissionID string, req ReviewSubmissionRequest) (*entity.GoalSubmission, error)
	EditSubmission(ctx context.Context, actor entity.Actor, submissionID string, req EditSubmissionRequest) (*entity.GoalSubmission, error)
	DeleteSubmission(ctx context.Context, actor entity.Actor, submissionID string) error
	FindPendingSubmissionsForStudentToday(ctx context.Context, studentID string) ([]*entity.GoalSubmission, error)
	ListSubmissions(ctx context.Context, filter entity.GoalSubmissionFilter) ([]*entity.GoalSubmission, error)
}

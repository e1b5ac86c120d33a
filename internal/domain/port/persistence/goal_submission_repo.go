package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
)

// GoalSubmissionRepository defines the methods to interact with goal submissions
type GoalSubmissionRepository interface {
	Create(ctx context.Context, submission *entity.GoalSubmission) error

	// GetByID retrieves a submission
	//
	// Possible errors:
	// - ErrSubmissionNotFound: If the submission doesn't exist
	GetByID(ctx context.Context, id string) (*entity.GoalSubmission, error)

	// UpdatePending changes description and points of a submission that is still pending.
	// Returns false when the submission has already been reviewed.
	UpdatePending(ctx context.Context, id, description string, points int64, updatedAt time.Time) (bool, error)

	// TransitionFromPending moves a pending submission to a terminal status,
	// writing points at the same time. Returns false when it was not pending.
	TransitionFromPending(ctx context.Context, id string, stamp ReviewStamp, points int64) (bool, error)

	Delete(ctx context.Context, id string) error

	// DeletePending removes a submission only while it is pending.
	// Returns false when it has already been reviewed.
	DeletePending(ctx context.Context, id string) (bool, error)

	List(ctx context.Context, filter entity.GoalSubmissionFilter) ([]*entity.GoalSubmission, error)

	// FindPendingForStudentBetween returns pending submissions created in [from, to)
	FindPendingForStudentBetween(ctx context.Context, studentID string, from, to time.Time) ([]*entity.GoalSubmission, error)
}

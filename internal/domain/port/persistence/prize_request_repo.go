package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
)

// ReviewStamp carries the reviewer fields written on a status transition
type ReviewStamp struct {
	Status     entity.ReviewStatus
	ReviewedBy string
	ReviewedAt time.Time
	Notes      string
}

// PrizeRequestRepository defines the methods to interact with prize requests
type PrizeRequestRepository interface {
	Create(ctx context.Context, request *entity.PrizeRequest) error

	// GetByID retrieves a request
	//
	// Possible errors:
	// - ErrRequestNotFound: If the request doesn't exist
	GetByID(ctx context.Context, id string) (*entity.PrizeRequest, error)

	// TransitionFromPending applies stamp only if the request is still pending.
	// Returns false when another review got there first.
	TransitionFromPending(ctx context.Context, id string, stamp ReviewStamp) (bool, error)

	List(ctx context.Context, filter entity.PrizeRequestFilter) ([]*entity.PrizeRequest, error)

	// ListReviewed returns terminal requests, most recently reviewed first
	ListReviewed(ctx context.Context, filter entity.PrizeRequestFilter) ([]*entity.PrizeRequest, error)

	// CountPending counts pending requests in the classes, optionally for one student
	CountPending(ctx context.Context, classIDs []string, studentID string) (int64, error)

	// CountApprovedSince counts requests approved at or after since
	CountApprovedSince(ctx context.Context, classIDs []string, since time.Time) (int64, error)
}

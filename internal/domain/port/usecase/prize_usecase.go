package usecase

import (
	"context"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
)

// RequestPrizeRequest is a student's redemption request
type RequestPrizeRequest struct {
	StudentID    string
	PrizeID      string
	ClassID      string
	Reason       string
	CustomAmount *int64
}

// PrizeUseCase implements the escrow redemption workflow
type PrizeUseCase interface {
	RequestPrize(ctx context.Context, req RequestPrizeRequest) (*entity.PrizeRequest, error)
	ApprovePrizeRequest(ctx context.Context, actor entity.Actor, requestID, notes string) (*entity.PrizeRequest, error)
	DenyPrizeRequest(ctx context.Context, actor entity.Actor, requestID, notes string) (*entity.PrizeRequest, error)
	ListPrizeRequests(ctx context.Context, filter entity.PrizeRequestFilter) ([]*entity.PrizeRequest, error)
	ListRecentlyReviewed(ctx context.Context, filter entity.PrizeRequestFilter) ([]*entity.PrizeRequest, error)
}

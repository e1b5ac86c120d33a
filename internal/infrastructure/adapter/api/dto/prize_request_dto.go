package dto

import (
	"time"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
)

// CreatePrizeRequest represents a student's redemption request
type CreatePrizeRequest struct {
	PrizeID      string `json:"prizeId" binding:"required"`
	ClassID      string `json:"classId" binding:"required"`
	Reason       string `json:"reason"`
	CustomAmount *int64 `json:"customAmount"`
}

// ReviewPrizeRequest carries the teacher's notes on approve or deny
type ReviewPrizeRequest struct {
	Notes string `json:"notes"`
}

// PrizeRequestResponse represents a prize request
type PrizeRequestResponse struct {
	ID           string     `json:"id"`
	StudentID    string     `json:"studentId"`
	PrizeID      string     `json:"prizeId"`
	ClassID      string     `json:"classId"`
	PrizeName    string     `json:"prizeName"`
	PrizeCost    int64      `json:"prizeCost"`
	CustomAmount *int64     `json:"customAmount,omitempty"`
	Amount       int64      `json:"amount"`
	Reason       string     `json:"reason,omitempty"`
	Status       string     `json:"status"`
	RequestedAt  time.Time  `json:"requestedAt"`
	ReviewedAt   *time.Time `json:"reviewedAt,omitempty"`
	ReviewedBy   string     `json:"reviewedBy,omitempty"`
	ReviewNotes  string     `json:"reviewNotes,omitempty"`
}

// NewPrizeRequestResponse maps a prize request to its API shape
func NewPrizeRequestResponse(r *entity.PrizeRequest) PrizeRequestResponse {
	return PrizeRequestResponse{
		ID:           r.ID,
		StudentID:    r.StudentID,
		PrizeID:      r.PrizeID,
		ClassID:      r.ClassID,
		PrizeName:    r.PrizeName,
		PrizeCost:    r.PrizeCost,
		CustomAmount: r.CustomAmount,
		Amount:       r.EffectiveAmount(),
		Reason:       r.Reason,
		Status:       string(r.Status),
		RequestedAt:  r.RequestedAt,
		ReviewedAt:   r.ReviewedAt,
		ReviewedBy:   r.ReviewedBy,
		ReviewNotes:  r.ReviewNotes,
	}
}

// NewPrizeRequestResponses maps a list of prize requests
func NewPrizeRequestResponses(requests []*entity.PrizeRequest) []PrizeRequestResponse {
	out := make([]PrizeRequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, NewPrizeRequestResponse(r))
	}
	return out
}

package entity

import (
	"fmt"
	"time"

	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
)

// MinCrowdfundedContribution is the smallest amount accepted for a zero-cost prize
const MinCrowdfundedContribution = 2

// PrizeRequest is a student's escrowed claim against a catalog prize
type PrizeRequest struct {
	ID           string
	StudentID    string
	PrizeID      string
	ClassID      string
	PrizeName    string // Snapshot used in ledger reasons
	PrizeCost    int64  // Snapshot of the catalog price at request time
	CustomAmount *int64 // Contribution for crowdfunded prizes
	Reason       string
	Status       ReviewStatus
	RequestedAt  time.Time
	ReviewedAt   *time.Time
	ReviewedBy   string
	ReviewNotes  string
}

// EffectiveCost resolves what a request for prize debits
func EffectiveCost(prize *Prize, customAmount *int64) (int64, error) {
	if !prize.IsCrowdfunded() {
		return prize.Cost, nil
	}
	if customAmount == nil || *customAmount < MinCrowdfundedContribution {
		return 0, errs.ErrCustomAmountTooLow
	}
	return *customAmount, nil
}

// NewPrizeRequest snapshots the prize onto a pending request
func NewPrizeRequest(id, studentID, classID string, prize *Prize, customAmount *int64, reason string, now time.Time) (*PrizeRequest, error) {
	if id == "" || studentID == "" || classID == "" {
		return nil, errs.ErrInvalidID
	}
	if _, err := EffectiveCost(prize, customAmount); err != nil {
		return nil, err
	}

	var custom *int64
	if prize.IsCrowdfunded() {
		v := *customAmount
		custom = &v
	}

	return &PrizeRequest{
		ID:           id,
		StudentID:    studentID,
		PrizeID:      prize.ID,
		ClassID:      classID,
		PrizeName:    prize.Name,
		PrizeCost:    prize.Cost,
		CustomAmount: custom,
		Reason:       reason,
		Status:       StatusPending,
		RequestedAt:  now,
	}, nil
}

// EffectiveAmount is the amount debited at request time and refunded on denial
func (r *PrizeRequest) EffectiveAmount() int64 {
	if r.CustomAmount != nil {
		return *r.CustomAmount
	}
	return r.PrizeCost
}

// IsCrowdfunded reports whether the request carries a custom contribution
func (r *PrizeRequest) IsCrowdfunded() bool {
	return r.CustomAmount != nil
}

// RedemptionReason is the ledger reason for the escrow debit
func (r *PrizeRequest) RedemptionReason() string {
	if r.IsCrowdfunded() {
		return fmt.Sprintf("Prize request: %s (Crowdfunded)", r.PrizeName)
	}
	return fmt.Sprintf("Prize request: %s", r.PrizeName)
}

// RefundReason is the ledger reason for the compensating deposit
func (r *PrizeRequest) RefundReason() string {
	return fmt.Sprintf("Prize request denied: %s", r.PrizeName)
}

// PrizeRequestFilter narrows prize request listings
type PrizeRequestFilter struct {
	Status    ReviewStatus
	StudentID string
	ClassID   string
	ClassIDs  []string
	PrizeID   string
	Limit     int
}

package usecase

import (
	"context"
)

// AwardBulkRequest credits the same amount to several students
type AwardBulkRequest struct {
	TeacherID  string
	StudentIDs []string
	Amount     int64
	Reason     string
	ClassID    string
}

// AwardBulkResult reports the entries created by a bulk award
type AwardBulkResult struct {
	TransactionCount int      `json:"transactionCount"`
	TransactionIDs   []string `json:"transactionIds"`
}

// AwardUseCase implements the bulk award workflow
type AwardUseCase interface {
	AwardBulk(ctx context.Context, req AwardBulkRequest) (*AwardBulkResult, error)
}

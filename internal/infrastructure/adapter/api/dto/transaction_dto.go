package dto

import (
	"time"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
)

// TransactionRequest represents the API request for recording a ledger entry
type TransactionRequest struct {
	AccountID string `json:"accountId" binding:"required"`
	Type      string `json:"type" binding:"required"`
	Amount    int64  `json:"amount"`
	Reason    string `json:"reason"`
	Notes     string `json:"notes"`
}

// TransactionResponse represents a ledger entry
type TransactionResponse struct {
	ID            string    `json:"id"`
	AccountID     string    `json:"accountId"`
	UserID        string    `json:"userId"`
	Type          string    `json:"type"`
	Amount        int64     `json:"amount"`
	BalanceBefore int64     `json:"balanceBefore"`
	BalanceAfter  int64     `json:"balanceAfter"`
	Reason        string    `json:"reason"`
	Notes         string    `json:"notes,omitempty"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewTransactionResponse maps a ledger entry to its API shape
func NewTransactionResponse(tx *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            tx.ID,
		AccountID:     tx.AccountID,
		UserID:        tx.UserID,
		Type:          string(tx.Type),
		Amount:        tx.Amount,
		BalanceBefore: tx.BalanceBefore,
		BalanceAfter:  tx.BalanceAfter,
		Reason:        tx.Reason,
		Notes:         tx.Notes,
		CreatedBy:     tx.CreatedBy,
		CreatedAt:     tx.CreatedAt,
	}
}

// NewTransactionResponses maps a list of ledger entries
func NewTransactionResponses(txs []*entity.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, NewTransactionResponse(tx))
	}
	return out
}

// BulkAwardRequest represents the API request for crediting several students at once
type BulkAwardRequest struct {
	StudentIDs []string `json:"studentIds" binding:"required"`
	Amount     int64    `json:"amount"`
	Reason     string   `json:"reason"`
	ClassID    string   `json:"classId"`
}

// BulkAwardResponse reports the ledger entries created by a bulk award
type BulkAwardResponse struct {
	TransactionCount int      `json:"transactionCount"`
	TransactionIDs   []string `json:"transactionIds"`
}

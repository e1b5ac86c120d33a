package dto

import (
	"time"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
)

// OpenAccountRequest represents the API request for opening a student account
type OpenAccountRequest struct {
	StudentID      string `json:"studentId" binding:"required"`
	ClassID        string `json:"classId" binding:"required"`
	Currency       string `json:"currency"`
	OpeningBalance int64  `json:"openingBalance"`
}

// AccountResponse represents an account with its balance
type AccountResponse struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	ClassID          string    `json:"classId"`
	Balance          int64     `json:"balance"`
	Formatted        string    `json:"formattedBalance"`
	Currency         string    `json:"currency"`
	CurrencyName     string    `json:"currencyName"`
	TransactionCount uint64    `json:"transactionCount"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// NewAccountResponse maps an account to its API shape
func NewAccountResponse(account *entity.Account) AccountResponse {
	return AccountResponse{
		ID:               account.ID,
		UserID:           account.UserID,
		ClassID:          account.ClassID,
		Balance:          account.Balance(),
		Formatted:        account.Currency.Format(account.Balance()),
		Currency:         string(account.Currency),
		CurrencyName:     account.Currency.DisplayName(),
		TransactionCount: account.TransactionCount,
		CreatedAt:        account.CreatedAt,
		UpdatedAt:        account.UpdatedAt,
	}
}

// NewAccountResponses maps a list of accounts
func NewAccountResponses(accounts []*entity.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, NewAccountResponse(account))
	}
	return out
}

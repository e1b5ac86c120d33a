package ledger

import (
	"fmt"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/usecase"
)

// TransactionValidator checks ledger requests before they reach the queue
type TransactionValidator struct{}

// NewTransactionValidator creates a new TransactionValidator
func NewTransactionValidator() *TransactionValidator {
	return &TransactionValidator{}
}

// ValidateRecord validates all request fields
func (v *TransactionValidator) ValidateRecord(req usecase.RecordTransactionRequest) error {
	if req.AccountID == "" {
		return fmt.Errorf("%w: account id", errs.ErrInvalidID)
	}

	if !entity.IsValidTransactionType(string(req.Type)) {
		return fmt.Errorf("%w: %q", errs.ErrInvalidType, req.Type)
	}

	return entity.ValidateAmount(req.Amount)
}

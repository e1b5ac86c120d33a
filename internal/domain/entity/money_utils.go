package entity

import (
	"math"

	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
)

// ValidateAmount checks that a ledger amount is a positive integer
func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return errs.ErrInvalidAmount
	}
	return nil
}

// ValidatePoints checks a goal point value, which may be zero
func ValidatePoints(points int64) error {
	if points < 0 {
		return errs.ErrInvalidPoints
	}
	return nil
}

// AddAmounts adds two balances and reports overflow instead of wrapping
func AddAmounts(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, errs.ErrAmountOverflow
	}
	return a + b, nil
}

package entity

import (
	"fmt"
	"strings"
)

// Currency is the cosmetic unit label attached to an account
type Currency string

// Supported currencies
const (
	CurrencyStarCredits Currency = "star-credits"
	CurrencyEarthPoints Currency = "earth-points"
)

// DefaultCurrency is used when an account is opened without one
const DefaultCurrency = CurrencyStarCredits

// IsValidCurrency checks if the currency is one of the supported labels
func IsValidCurrency(currency string) bool {
	switch Currency(currency) {
	case CurrencyStarCredits, CurrencyEarthPoints:
		return true
	}
	return false
}

// DisplayName returns the human readable name of the currency
func (c Currency) DisplayName() string {
	switch c {
	case CurrencyStarCredits:
		return "Star Credits"
	case CurrencyEarthPoints:
		return "Earth Points"
	default:
		return string(c)
	}
}

// Symbol returns the short suffix used when formatting amounts
func (c Currency) Symbol() string {
	switch c {
	case CurrencyStarCredits:
		return "SC"
	case CurrencyEarthPoints:
		return "EP"
	default:
		return strings.ToUpper(string(c))
	}
}

// Format renders an amount with the currency symbol, e.g. "1,250 SC"
func (c Currency) Format(amount int64) string {
	return fmt.Sprintf("%s %s", groupThousands(amount), c.Symbol())
}

func groupThousands(amount int64) string {
	negative := amount < 0
	digits := fmt.Sprintf("%d", amount)
	if negative {
		digits = digits[1:]
	}

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	if negative {
		return "-" + b.String()
	}
	return b.String()
}

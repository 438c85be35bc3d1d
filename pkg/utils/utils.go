package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the number of decimal places kept for money amounts
const CurrencyPlaces = 2

// RoundCurrency rounds an amount to two decimal places
func RoundCurrency(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(CurrencyPlaces)
}

// FormatCurrency renders an amount as dollars with two decimals, e.g. "$40.00"
func FormatCurrency(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(CurrencyPlaces)
}

// ClampZero returns amount, or zero when amount is negative
func ClampZero(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// ParseAmount parses a user-entered amount string.
// Surrounding whitespace and a leading "$" are ignored; the result is rounded to cents.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return decimal.Zero, false
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}

	return RoundCurrency(amount), true
}

// IsPositiveAmount reports whether amount is strictly greater than zero after rounding to cents
func IsPositiveAmount(amount decimal.Decimal) bool {
	return RoundCurrency(amount).IsPositive()
}

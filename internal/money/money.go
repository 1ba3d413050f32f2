// Package money converts between decimal dollar amounts and integer cents.
//
// All arithmetic goes through shopspring/decimal so no binary floating point
// ever touches a stored amount.
package money

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/diewo77/paytrack/internal/validation"
)

const (
	// maxInputLen bounds textual amounts; the largest valid amount
	// ("92233720368547758.07") is 20 characters.
	maxInputLen = 64
	// maxIntDigits is the number of integer digits of MaxDollars.
	maxIntDigits = 17
)

var (
	hundred = decimal.NewFromInt(100)
	// MaxDollars is the largest amount that fits in int64 cents.
	MaxDollars = decimal.New(math.MaxInt64, -2)
)

// DollarsToCents scales amount by 100 and truncates toward zero.
// It fails with validation.ErrInvalidAmount unless 0 < amount <= MaxDollars.
//
// The magnitude is checked from the coefficient length and exponent before
// any rescale, so inputs such as 1e5000000 or 1e-5000000 stay cheap.
func DollarsToCents(amount decimal.Decimal) (int64, error) {
	if err := validation.RequirePositive(amount); err != nil {
		return 0, err
	}
	intDigits := int64(len(amount.Coefficient().String())) + int64(amount.Exponent())
	if intDigits > maxIntDigits {
		return 0, errOutOfRange
	}
	if intDigits <= -2 {
		// below one cent
		return 0, nil
	}
	if amount.GreaterThan(MaxDollars) {
		return 0, errOutOfRange
	}
	return amount.Mul(hundred).Truncate(0).IntPart(), nil
}

var errOutOfRange = fmt.Errorf("%w: amount exceeds %s", validation.ErrInvalidAmount, MaxDollars.StringFixed(2))

// CentsToDollars is the display conversion; it never loses information.
func CentsToDollars(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// FormatCents renders cents as a dollar string with two decimals, e.g. "60.00".
func FormatCents(cents int64) string {
	return CentsToDollars(cents).StringFixed(2)
}

// ParseDollars reads a decimal dollar amount from user input.
// Blank input is treated as a missing amount.
func ParseDollars(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: amount is required", validation.ErrInvalidAmount)
	}
	if len(s) > maxInputLen {
		return decimal.Decimal{}, fmt.Errorf("%w: amount is longer than %d characters", validation.ErrInvalidAmount, maxInputLen)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q is not a decimal amount", validation.ErrInvalidAmount, s)
	}
	return d, nil
}

// FromNullable unwraps an optional amount decoded from JSON or SQL.
func FromNullable(nd decimal.NullDecimal) (decimal.Decimal, error) {
	if !nd.Valid {
		return decimal.Decimal{}, fmt.Errorf("%w: amount is required", validation.ErrInvalidAmount)
	}
	return nd.Decimal, nil
}

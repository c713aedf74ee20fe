package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when user input is not a positive amount.
var ErrInvalidAmount = errors.New("invalid amount (e.g. 1250.50)")

var (
	hundred = decimal.NewFromInt(100)
	// maxCents keeps the rounded value inside int64.
	maxCents = decimal.NewFromInt(1<<63 - 1)
)

// maxExponent bounds non-zero input: 1e19 is already past maxCents.
const maxExponent = 18

// ParseCents converts a user-entered decimal string into minor units.
// Both "1250.50" and "1250,50" are accepted. The result is rounded to the
// nearest cent. ok is false for empty, non-numeric or out-of-range input;
// the sign is left to the caller to validate.
func ParseCents(input string) (cents int64, ok bool) {
	clean := strings.TrimSpace(input)
	if clean == "" {
		return 0, false
	}

	clean = strings.Replace(clean, ",", ".", 1)

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, false
	}

	// Scaling by a large exponent is expensive, so settle those first.
	switch exp := d.Exponent(); {
	case d.IsZero():
		return 0, true
	case exp > maxExponent:
		return 0, false
	case int(exp)+numDigits(d) < -2:
		// |d| < 0.001
		return 0, true
	}

	d = d.Mul(hundred).Round(0)
	if d.Abs().GreaterThan(maxCents) {
		return 0, false
	}

	return d.IntPart(), true
}

func numDigits(d decimal.Decimal) int {
	c := d.Coefficient()

	return len(c.Abs(c).String())
}

// ParsePositiveCents is ParseCents for form fields: anything that is not a
// strictly positive amount yields ErrInvalidAmount.
func ParsePositiveCents(input string) (int64, error) {
	cents, ok := ParseCents(input)
	if !ok || cents <= 0 {
		return 0, ErrInvalidAmount
	}

	return cents, nil
}

// Major renders cents in major units with exactly two decimals and a "."
// separator, independent of any display locale.
func Major(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

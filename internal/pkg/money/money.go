// internal/pkg/money/money.go
package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxAmount is the largest accepted price, $999,999.99. Line and order
// totals stay far inside int64 at any realistic quantity.
const MaxAmount int64 = 99_999_999

// Format renders an amount in cents as $<units>.<cents>
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// Decimal renders an amount in cents without the currency symbol
func Decimal(cents int64) string {
	return strings.TrimPrefix(Format(cents), "$")
}

// FromFloat converts a decimal price to cents
func FromFloat(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// Parse converts a form price such as "9.99" to cents
func Parse(value string) (int64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", value, err)
	}
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid price %q", value)
	}
	if f > float64(MaxAmount)/100 {
		return 0, fmt.Errorf("price %q exceeds %s", value, Format(MaxAmount))
	}
	return FromFloat(f), nil
}

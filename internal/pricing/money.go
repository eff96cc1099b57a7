package pricing

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Round2 rounds a monetary amount to 2 decimals (half away from zero).
// Fixed-decimal rounding avoids the float drift of toFixed-style helpers.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Round4 rounds to 4 decimals, used for stored markup percentages.
func Round4(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(4).Float64()
	return f
}

// RoundCents maps an amount to whole cents. Price-history aggregation keys
// on this value so that 10.0000000001 and 10.00 count as the same price.
func RoundCents(v float64) int64 {
	return decimal.NewFromFloat(v).Round(2).Shift(2).IntPart()
}

// CentsToAmount converts whole cents back to a float amount.
func CentsToAmount(cents int64) float64 {
	f, _ := decimal.New(cents, -2).Float64()
	return f
}

// FormatAmount renders an amount without trailing zeros. Values are first
// rounded to 12 decimals so float artifacts (3.3000000000000003) do not
// leak into the output, then trimmed.
func FormatAmount(v float64) string {
	return decimal.NewFromFloat(v).Round(12).String()
}

// ParseAmount parses a decimal amount, accepting the comma separator used
// in French locales. Invalid input yields 0.
func ParseAmount(s string) float64 {
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			s = s[:i] + "." + s[i+1:]
			break
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

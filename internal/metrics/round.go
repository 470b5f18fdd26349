package metrics

import (
	"github.com/shopspring/decimal"
)

const roundingPlaces = 2

var (
	hundred       = decimal.NewFromInt(100)
	daysPerMonth  = decimal.RequireFromString("30.44")
	weeksPerMonth = decimal.RequireFromString("4.33")
	monthsPerYear = decimal.NewFromInt(12)
)

// round applies the two decimal rounding used by every metric
func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(roundingPlaces)
}

// percentOf returns part / whole * 100 rounded, zero when whole is zero
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return round(part.Div(whole).Mul(hundred))
}

// ratio returns the rounded percentage of two counts
func ratio(part, whole int) decimal.Decimal {
	return percentOf(decimal.NewFromInt(int64(part)), decimal.NewFromInt(int64(whole)))
}

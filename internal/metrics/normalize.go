package metrics

import (
	"github.com/flexprice/subscription-analytics/internal/types"
	"github.com/shopspring/decimal"
)

// NormalizedAmount is a billing amount converted to its monthly equivalent
type NormalizedAmount struct {
	OriginalAmount          decimal.Decimal       `json:"original_amount"`
	OriginalInterval        types.BillingInterval `json:"original_interval"`
	OriginalIntervalCount   int64                 `json:"original_interval_count"`
	NormalizedMonthlyAmount decimal.Decimal       `json:"normalized_monthly_amount"`
}

// Normalize converts an amount billed every intervalCount intervals into a monthly amount.
// A day is 1/30.44 of a month and a week 1/4.33 of a month. An interval count below one
// is treated as one. Unknown intervals fail with ErrUnsupportedInterval.
func Normalize(amount decimal.Decimal, interval types.BillingInterval, intervalCount int64) (*NormalizedAmount, error) {
	if err := interval.Validate(); err != nil {
		return nil, err
	}

	if intervalCount < 1 {
		intervalCount = 1
	}
	count := decimal.NewFromInt(intervalCount)

	var monthly decimal.Decimal
	switch interval {
	case types.BillingIntervalDay:
		monthly = amount.Div(count).Mul(daysPerMonth)
	case types.BillingIntervalWeek:
		monthly = amount.Div(count).Mul(weeksPerMonth)
	case types.BillingIntervalMonth:
		monthly = amount.Div(count)
	case types.BillingIntervalYear:
		monthly = amount.Div(count.Mul(monthsPerYear))
	}

	return &NormalizedAmount{
		OriginalAmount:          amount,
		OriginalInterval:        interval,
		OriginalIntervalCount:   intervalCount,
		NormalizedMonthlyAmount: round(monthly),
	}, nil
}

package metrics

import (
	"testing"

	ierr "github.com/flexprice/subscription-analytics/internal/errors"
	"github.com/flexprice/subscription-analytics/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name          string
		amount        string
		interval      types.BillingInterval
		intervalCount int64
		want          string
	}{
		{name: "daily", amount: "100", interval: types.BillingIntervalDay, intervalCount: 1, want: "3044"},
		{name: "weekly", amount: "100", interval: types.BillingIntervalWeek, intervalCount: 1, want: "433"},
		{name: "monthly", amount: "49.99", interval: types.BillingIntervalMonth, intervalCount: 1, want: "49.99"},
		{name: "quarterly", amount: "600", interval: types.BillingIntervalMonth, intervalCount: 3, want: "200"},
		{name: "yearly", amount: "1200", interval: types.BillingIntervalYear, intervalCount: 1, want: "100"},
		{name: "every two years", amount: "1200", interval: types.BillingIntervalYear, intervalCount: 2, want: "50"},
		{name: "every three days rounds half away from zero", amount: "100", interval: types.BillingIntervalDay, intervalCount: 3, want: "1014.67"},
		{name: "fortnightly", amount: "10", interval: types.BillingIntervalWeek, intervalCount: 2, want: "21.65"},
		{name: "missing interval count counts as one", amount: "30", interval: types.BillingIntervalMonth, intervalCount: 0, want: "30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(decimal.RequireFromString(tt.amount), tt.interval, tt.intervalCount)
			require.NoError(t, err)
			assertDecimal(t, tt.want, got.NormalizedMonthlyAmount)
			assertDecimal(t, tt.amount, got.OriginalAmount)
			assert.Equal(t, tt.interval, got.OriginalInterval)
		})
	}
}

func TestNormalize_UnsupportedInterval(t *testing.T) {
	for _, interval := range []types.BillingInterval{"hour", "", "Month"} {
		t.Run(string(interval), func(t *testing.T) {
			got, err := Normalize(decimal.NewFromInt(100), interval, 1)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, ierr.IsUnsupportedInterval(err))
		})
	}
}

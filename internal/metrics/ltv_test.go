package metrics

import (
	"fmt"
	"testing"

	ierr "github.com/flexprice/subscription-analytics/internal/errors"
	"github.com/flexprice/subscription-analytics/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cohort builds customers created createdDaysAgo with one monthly subscription each,
// the first churned of them canceled canceledDaysAgo
func cohort(customers, churned, createdDaysAgo, canceledDaysAgo int, unitAmount int64) []*testutil.SubscriptionBuilder {
	builders := make([]*testutil.SubscriptionBuilder, 0, customers)
	for i := 0; i < customers; i++ {
		b := testutil.NewSubscription(fmt.Sprintf("sub_%d", i)).
			WithCustomer(fmt.Sprintf("cus_%d", i)).
			CreatedAt(daysAgo(createdDaysAgo)).
			WithMonthlyItem("usd", unitAmount, 1)
		if i < churned {
			b.CanceledAt(daysAgo(canceledDaysAgo))
		}
		builders = append(builders, b)
	}
	return builders
}

func TestCalculateLTV(t *testing.T) {
	tests := []struct {
		name             string
		builders         []*testutil.SubscriptionBuilder
		params           LTVParams
		wantLTV          string
		wantARPU         string
		wantMonthlyChurn string
		wantMonths       string
		wantCapped       bool
	}{
		{
			name:             "arpu over monthly churn",
			builders:         cohort(5, 1, 60, 5, 2000),
			wantLTV:          "100",
			wantARPU:         "20",
			wantMonthlyChurn: "20",
			wantMonths:       "5",
		},
		{
			name:             "churn over a longer period is scaled to a month",
			builders:         cohort(5, 1, 90, 45, 2000),
			params:           LTVParams{ChurnPeriodDays: 60},
			wantLTV:          "200",
			wantARPU:         "20",
			wantMonthlyChurn: "10",
			wantMonths:       "10",
		},
		{
			name:             "zero churn is capped",
			builders:         cohort(3, 0, 60, 0, 2000),
			wantLTV:          "1000000",
			wantARPU:         "20",
			wantMonthlyChurn: "0",
			wantMonths:       "10000",
			wantCapped:       true,
		},
		{
			name:             "lifetime value above the ceiling is capped",
			builders:         cohort(2, 1, 60, 5, 100_000_000),
			wantLTV:          "1000000",
			wantARPU:         "1000000",
			wantMonthlyChurn: "50",
			wantMonths:       "2",
			wantCapped:       true,
		},
		{
			name:             "months to churn above the ceiling is capped",
			builders:         cohort(1, 1, 500_000, 399_000, 2000),
			params:           LTVParams{ChurnPeriodDays: 400_000},
			wantLTV:          "0",
			wantARPU:         "0",
			wantMonthlyChurn: "0.01",
			wantMonths:       "10000",
			wantCapped:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newTestCalculator().CalculateLTV(testutil.Snapshot(tt.builders...), tt.params)
			require.NoError(t, err)
			assertDecimal(t, tt.wantLTV, got.LTV)
			assertDecimal(t, tt.wantARPU, got.ARPU)
			assertDecimal(t, tt.wantMonthlyChurn, got.MonthlyChurnRate)
			assertDecimal(t, tt.wantMonths, got.MonthsToChurn)
			assert.Equal(t, tt.wantCapped, got.Capped)
			require.NotNil(t, got.ARPUCalculation)
			require.NotNil(t, got.ChurnCalculation)
			assert.True(t, got.ChurnRate.Equal(got.ChurnCalculation.ChurnRate))
			assert.True(t, got.ARPU.Equal(got.ARPUCalculation.ARPU))
		})
	}
}

func TestCalculateLTV_Defaults(t *testing.T) {
	got, err := newTestCalculator().CalculateLTV(testutil.Snapshot(cohort(2, 0, 60, 0, 1000)...), LTVParams{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPeriodDays, got.ChurnPeriodDays)
	assert.Equal(t, DefaultPeriodDays, got.ChurnCalculation.Period.Days)
	assert.Equal(t, "usd", got.Currency)
	assertDecimal(t, "100", got.RetentionRate)
}

func TestCalculateLTV_Errors(t *testing.T) {
	_, err := newTestCalculator().CalculateLTV(nil, LTVParams{})
	require.Error(t, err)
	assert.True(t, ierr.IsNoDataProvided(err))

	_, err = newTestCalculator().CalculateLTV(testutil.Snapshot(cohort(1, 0, 60, 0, 1000)...), LTVParams{ChurnPeriodDays: -30})
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

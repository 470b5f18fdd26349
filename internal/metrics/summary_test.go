package metrics

import (
	"testing"

	ierr "github.com/flexprice/subscription-analytics/internal/errors"
	"github.com/flexprice/subscription-analytics/internal/testutil"
	"github.com/flexprice/subscription-analytics/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	ctx := testutil.SetupContext()
	calc := newTestCalculator()
	snapshot := testutil.RoundTripSnapshot(testNow)

	got, err := calc.Summarize(ctx, snapshot, SummaryParams{})
	require.NoError(t, err)
	assert.Equal(t, "usd", got.Currency)

	assertDecimal(t, "40", got.MRR.TotalMRR)
	assertDecimal(t, "20", got.ARPU.ARPU)
	assertDecimal(t, "25", got.Churn.ChurnRate)
	assert.Equal(t, types.ChurnCalculationMethodTraditional, got.Churn.CalculationMethod)
	assert.Equal(t, 2, got.ActiveSubscribers.ActiveSubscriptions)
	assert.True(t, got.Expansion.Heuristic)

	// 25% churn over 30 days, ARPU 20
	assertDecimal(t, "80", got.LTV.LTV)
	assertDecimal(t, "4", got.LTV.MonthsToChurn)

	mrr, err := calc.CalculateMRR(snapshot, MRRParams{})
	require.NoError(t, err)
	assert.Equal(t, mrr, got.MRR)

	ltv, err := calc.CalculateLTV(snapshot, LTVParams{})
	require.NoError(t, err)
	assert.Equal(t, ltv, got.LTV)
}

func TestSummarize_PeriodAppliesToEveryWindow(t *testing.T) {
	ctx := testutil.SetupContext()
	snapshot := testutil.RoundTripSnapshot(testNow)

	got, err := newTestCalculator().Summarize(ctx, snapshot, SummaryParams{PeriodDays: 90, Currency: "USD"})
	require.NoError(t, err)
	assert.Equal(t, 90, got.Churn.Period.Days)
	assert.Equal(t, 90, got.Expansion.Period.Days)
	assert.Equal(t, 90, got.LTV.ChurnPeriodDays)
	assert.Equal(t, 90, got.ActiveSubscribers.Growth.PeriodDays)
	assert.Equal(t, "usd", got.Currency)
	assert.Equal(t, "usd", got.MRR.Currency)
}

func TestSummarize_Errors(t *testing.T) {
	ctx := testutil.SetupContext()
	calc := newTestCalculator()

	_, err := calc.Summarize(ctx, nil, SummaryParams{})
	require.Error(t, err)
	assert.True(t, ierr.IsNoDataProvided(err))

	_, err = calc.Summarize(ctx, testutil.RoundTripSnapshot(testNow), SummaryParams{PeriodDays: -5})
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))

	snapshot := testutil.Snapshot(
		testutil.NewSubscription("sub_bad").
			WithItem(testutil.RecurringItem("price_hourly", "usd", 100, types.BillingInterval("hour"), 1, 1)),
	)
	got, err := calc.Summarize(ctx, snapshot, SummaryParams{})
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, ierr.IsUnsupportedInterval(err))
}

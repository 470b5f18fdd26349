package metrics

import (
	"testing"

	"github.com/flexprice/subscription-analytics/internal/domain/subscription"
	ierr "github.com/flexprice/subscription-analytics/internal/errors"
	"github.com/flexprice/subscription-analytics/internal/testutil"
	"github.com/flexprice/subscription-analytics/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateMRR(t *testing.T) {
	tests := []struct {
		name      string
		snapshot  subscription.Snapshot
		params    MRRParams
		wantTotal string
		wantCount int
	}{
		{
			name: "single monthly subscription",
			snapshot: testutil.Snapshot(
				testutil.NewSubscription("sub_1").WithCustomer("cus_1").WithMonthlyItem("usd", 2000, 1),
			),
			wantTotal: "20",
			wantCount: 1,
		},
		{
			name: "yearly subscription is spread over twelve months",
			snapshot: testutil.Snapshot(
				testutil.NewSubscription("sub_1").WithCustomer("cus_1").
					WithItem(testutil.RecurringItem("price_year", "usd", 24000, types.BillingIntervalYear, 1, 1)),
			),
			wantTotal: "20",
			wantCount: 1,
		},
		{
			name: "multiple items and quantities",
			snapshot: testutil.Snapshot(
				testutil.NewSubscription("sub_1").WithCustomer("cus_1").
					WithMonthlyItem("usd", 1000, 2).
					WithMonthlyItem("usd", 500, 1),
			),
			wantTotal: "25",
			wantCount: 1,
		},
		{
			name: "trialing subscriptions are excluded by default",
			snapshot: testutil.Snapshot(
				testutil.NewSubscription("sub_1").WithStatus(types.SubscriptionStatusTrialing).WithMonthlyItem("usd", 2000, 1),
			),
			wantTotal: "0",
			wantCount: 0,
		},
		{
			name: "trialing subscriptions are included on request",
			snapshot: testutil.Snapshot(
				testutil.NewSubscription("sub_1").WithStatus(types.SubscriptionStatusTrialing).WithMonthlyItem("usd", 2000, 1),
			),
			params:    MRRParams{IncludeTrialSubscriptions: true},
			wantTotal: "20",
			wantCount: 1,
		},
		{
			name: "past due subscriptions count as active",
			snapshot: testutil.Snapshot(
				testutil.NewSubscription("sub_1").WithStatus(types.SubscriptionStatusPastDue).WithMonthlyItem("usd", 2000, 1),
			),
			wantTotal: "20",
			wantCount: 1,
		},
		{
			name: "items without unit amount or recurring price contribute nothing",
			snapshot: testutil.Snapshot(
				testutil.NewSubscription("sub_1").
					WithItem(testutil.OneTimeItem("price_setup", "usd", 5000)).
					WithItem(subscription.LineItem{Price: subscription.Price{
						Currency:  "usd",
						Recurring: &subscription.Recurring{Interval: types.BillingIntervalMonth, IntervalCount: 1},
					}}).
					WithMonthlyItem("usd", 1000, 1),
				testutil.NewSubscription("sub_2"),
			),
			wantTotal: "10",
			wantCount: 2,
		},
		{
			name: "nothing active is not an error",
			snapshot: testutil.Snapshot(
				testutil.NewSubscription("sub_1").CanceledAt(daysAgo(2)).WithMonthlyItem("usd", 2000, 1),
			),
			wantTotal: "0",
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newTestCalculator().CalculateMRR(tt.snapshot, tt.params)
			require.NoError(t, err)
			assertDecimal(t, tt.wantTotal, got.TotalMRR)
			assert.Equal(t, tt.wantCount, got.SubscriptionCount)
			assert.Len(t, got.Breakdown, tt.wantCount)
			assert.NotNil(t, got.Breakdown)
		})
	}
}

func TestCalculateMRR_RoundTrip(t *testing.T) {
	calc := newTestCalculator()
	snapshot := testutil.RoundTripSnapshot(testNow)

	withoutTrials, err := calc.CalculateMRR(snapshot, MRRParams{})
	require.NoError(t, err)
	assertDecimal(t, "40", withoutTrials.TotalMRR)
	assertDecimal(t, "480", withoutTrials.ARR)
	assert.Equal(t, 2, withoutTrials.SubscriptionCount)
	assert.Equal(t, "usd", withoutTrials.Currency)

	withTrials, err := calc.CalculateMRR(snapshot, MRRParams{IncludeTrialSubscriptions: true})
	require.NoError(t, err)
	assertDecimal(t, "50", withTrials.TotalMRR)
	assert.Equal(t, 3, withTrials.SubscriptionCount)
}

func TestCalculateMRR_Breakdown(t *testing.T) {
	snapshot := testutil.Snapshot(
		testutil.NewSubscription("sub_month").WithCustomer("cus_1").WithMonthlyItem("usd", 2000, 1),
		testutil.NewSubscription("sub_quarter").WithCustomer("cus_2").
			WithItem(testutil.RecurringItem("price_q", "usd", 9000, types.BillingIntervalMonth, 3, 1)),
		testutil.NewSubscription("sub_setup").WithCustomer("cus_3").
			WithItem(testutil.OneTimeItem("price_setup", "usd", 9000)),
	)

	got, err := newTestCalculator().CalculateMRR(snapshot, MRRParams{})
	require.NoError(t, err)
	require.Len(t, got.Breakdown, 3)

	byID := lo.KeyBy(got.Breakdown, func(b SubscriptionMRR) string { return b.SubscriptionID })
	assertDecimal(t, "20", byID["sub_month"].MRR)
	assert.Equal(t, "month", byID["sub_month"].BillingInterval)
	assert.Equal(t, "cus_1", byID["sub_month"].CustomerID)
	assertDecimal(t, "30", byID["sub_quarter"].MRR)
	assert.Equal(t, "3 months", byID["sub_quarter"].BillingInterval)
	assertDecimal(t, "0", byID["sub_setup"].MRR)
	assert.Equal(t, "none", byID["sub_setup"].BillingInterval)
	assertDecimal(t, "50", got.TotalMRR)
}

func TestCalculateMRR_CurrencyFilter(t *testing.T) {
	snapshot := testutil.Snapshot(
		testutil.NewSubscription("sub_usd").WithCustomer("cus_1").WithMonthlyItem("usd", 2000, 1),
		testutil.NewSubscription("sub_eur").WithCustomer("cus_2").WithMonthlyItem("eur", 3000, 1),
		testutil.NewSubscription("sub_eur_upper").WithCustomer("cus_3").WithMonthlyItem("EUR", 1000, 1),
	)

	got, err := newTestCalculator().CalculateMRR(snapshot, MRRParams{Currency: "EUR"})
	require.NoError(t, err)
	assertDecimal(t, "40", got.TotalMRR)
	assert.Equal(t, 2, got.SubscriptionCount)
	assert.Equal(t, "eur", got.Currency)
	assert.ElementsMatch(t, []string{"sub_eur", "sub_eur_upper"}, lo.Map(got.Breakdown, func(b SubscriptionMRR, _ int) string {
		return b.SubscriptionID
	}))
}

func TestCalculateMRR_Errors(t *testing.T) {
	calc := newTestCalculator()

	t.Run("empty snapshot", func(t *testing.T) {
		_, err := calc.CalculateMRR(subscription.Snapshot{}, MRRParams{})
		require.Error(t, err)
		assert.True(t, ierr.IsNoDataProvided(err))

		_, err = calc.CalculateMRR(nil, MRRParams{})
		assert.True(t, ierr.IsNoDataProvided(err))
	})

	t.Run("unsupported interval fails the calculation", func(t *testing.T) {
		snapshot := testutil.Snapshot(
			testutil.NewSubscription("sub_ok").WithMonthlyItem("usd", 2000, 1),
			testutil.NewSubscription("sub_bad").
				WithItem(testutil.RecurringItem("price_hourly", "usd", 100, types.BillingInterval("hour"), 1, 1)),
		)
		got, err := calc.CalculateMRR(snapshot, MRRParams{})
		require.Error(t, err)
		assert.Nil(t, got)
		assert.True(t, ierr.IsUnsupportedInterval(err))
	})
}

func TestCalculateMRR_Idempotent(t *testing.T) {
	calc := newTestCalculator()
	snapshot := testutil.RoundTripSnapshot(testNow)

	first, err := calc.CalculateMRR(snapshot, MRRParams{IncludeTrialSubscriptions: true})
	require.NoError(t, err)
	second, err := calc.CalculateMRR(snapshot, MRRParams{IncludeTrialSubscriptions: true})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

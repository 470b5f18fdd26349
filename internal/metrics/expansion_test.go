package metrics

import (
	"testing"

	ierr "github.com/flexprice/subscription-analytics/internal/errors"
	"github.com/flexprice/subscription-analytics/internal/testutil"
	"github.com/flexprice/subscription-analytics/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeMRRExpansion(t *testing.T) {
	tests := []struct {
		name               string
		builders           []*testutil.SubscriptionBuilder
		wantExpansion      string
		wantStarting       string
		wantRate           string
		wantAverage        string
		wantUpgrades       int
		wantQuantity       int
		wantCustomerEvents int
	}{
		{
			name: "new high value subscription counts as an upgrade",
			builders: []*testutil.SubscriptionBuilder{
				testutil.NewSubscription("sub_new").WithCustomer("cus_1").CreatedAt(daysAgo(5)).
					WithMonthlyItem("usd", 10000, 1),
				testutil.NewSubscription("sub_old").WithCustomer("cus_2").CreatedAt(daysAgo(100)).
					WithMonthlyItem("usd", 3000, 1),
			},
			wantExpansion:      "40",
			wantStarting:       "130",
			wantRate:           "30.77",
			wantAverage:        "40",
			wantUpgrades:       1,
			wantCustomerEvents: 1,
		},
		{
			name: "prior value is estimated from the current value",
			builders: []*testutil.SubscriptionBuilder{
				testutil.NewSubscription("sub_new").WithCustomer("cus_1").CreatedAt(daysAgo(5)).
					WithMonthlyItem("usd", 5100, 1),
			},
			wantExpansion:      "20.4",
			wantStarting:       "51",
			wantRate:           "40",
			wantAverage:        "20.4",
			wantUpgrades:       1,
			wantCustomerEvents: 1,
		},
		{
			name: "value at the threshold is not an upgrade",
			builders: []*testutil.SubscriptionBuilder{
				testutil.NewSubscription("sub_new").WithCustomer("cus_1").CreatedAt(daysAgo(5)).
					WithMonthlyItem("usd", 5000, 1),
			},
			wantExpansion: "0",
			wantStarting:  "50",
			wantRate:      "0",
			wantAverage:   "0",
		},
		{
			name: "subscriptions created before the period are not upgrades",
			builders: []*testutil.SubscriptionBuilder{
				testutil.NewSubscription("sub_old").WithCustomer("cus_1").CreatedAt(daysAgo(45)).
					WithMonthlyItem("usd", 10000, 1),
			},
			wantExpansion: "0",
			wantStarting:  "100",
			wantRate:      "0",
			wantAverage:   "0",
		},
		{
			name: "multi seat items count as quantity increases",
			builders: []*testutil.SubscriptionBuilder{
				testutil.NewSubscription("sub_seats").WithCustomer("cus_1").CreatedAt(daysAgo(100)).
					WithMonthlyItem("usd", 1000, 3),
			},
			wantExpansion:      "20",
			wantStarting:       "30",
			wantRate:           "66.67",
			wantAverage:        "20",
			wantQuantity:       1,
			wantCustomerEvents: 1,
		},
		{
			name: "a new multi seat subscription is both an upgrade and a quantity increase",
			builders: []*testutil.SubscriptionBuilder{
				testutil.NewSubscription("sub_new").WithCustomer("cus_1").CreatedAt(daysAgo(5)).
					WithMonthlyItem("usd", 3000, 3),
			},
			wantExpansion:      "96",
			wantStarting:       "90",
			wantRate:           "106.67",
			wantAverage:        "48",
			wantUpgrades:       1,
			wantQuantity:       1,
			wantCustomerEvents: 2,
		},
		{
			name: "trials and canceled subscriptions are ignored",
			builders: []*testutil.SubscriptionBuilder{
				testutil.NewSubscription("sub_trial").WithCustomer("cus_1").CreatedAt(daysAgo(5)).
					WithStatus(types.SubscriptionStatusTrialing).
					WithMonthlyItem("usd", 10000, 2),
				testutil.NewSubscription("sub_gone").WithCustomer("cus_2").CreatedAt(daysAgo(5)).
					CanceledAt(daysAgo(1)).
					WithMonthlyItem("usd", 10000, 2),
			},
			wantExpansion: "0",
			wantStarting:  "0",
			wantRate:      "0",
			wantAverage:   "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newTestCalculator().AnalyzeMRRExpansion(testutil.Snapshot(tt.builders...), ExpansionParams{})
			require.NoError(t, err)
			assertDecimal(t, tt.wantExpansion, got.ExpansionMRR, "expansion")
			assertDecimal(t, tt.wantStarting, got.StartingMRR, "starting")
			assertDecimal(t, tt.wantRate, got.ExpansionRate, "rate")
			assertDecimal(t, tt.wantAverage, got.AverageExpansionPerUpgrade, "average")
			assert.Equal(t, tt.wantUpgrades, got.UpgradeCount)
			assert.Equal(t, tt.wantQuantity, got.QuantityIncreaseCount)
			assert.Equal(t, tt.wantUpgrades+tt.wantQuantity, got.TotalUpgrades)
			assert.Len(t, got.Events, got.TotalUpgrades)
			assert.True(t, got.Heuristic)
			if tt.wantCustomerEvents > 0 {
				require.Len(t, got.CustomerBreakdown, 1)
				assert.Equal(t, tt.wantCustomerEvents, got.CustomerBreakdown[0].Events)
				assertDecimal(t, tt.wantExpansion, got.CustomerBreakdown[0].ExpansionMRR)
			} else {
				assert.Empty(t, got.CustomerBreakdown)
			}
		})
	}
}

func TestAnalyzeMRRExpansion_Events(t *testing.T) {
	snapshot := testutil.Snapshot(
		testutil.NewSubscription("sub_new").WithCustomer("cus_1").CreatedAt(daysAgo(5)).
			WithItem(testutil.RecurringItem("price_team", "usd", 3000, types.BillingIntervalMonth, 1, 3)),
		testutil.NewSubscription("sub_yearly").WithCustomer("cus_2").CreatedAt(daysAgo(200)).
			WithItem(testutil.RecurringItem("price_annual", "usd", 12000, types.BillingIntervalYear, 1, 5)),
	)

	got, err := newTestCalculator().AnalyzeMRRExpansion(snapshot, ExpansionParams{PeriodDays: 14})
	require.NoError(t, err)
	require.Len(t, got.Events, 3)

	upgrade := got.Events[0]
	assert.Equal(t, types.ExpansionTypeUpgrade, upgrade.Type)
	assert.Equal(t, "sub_new", upgrade.SubscriptionID)
	assertDecimal(t, "54", upgrade.PreviousMRR)
	assertDecimal(t, "90", upgrade.CurrentMRR)
	assertDecimal(t, "36", upgrade.ExpansionMRR)

	seats := got.Events[1]
	assert.Equal(t, types.ExpansionTypeQuantityIncrease, seats.Type)
	assert.Equal(t, "price_team", seats.PriceID)
	assert.Equal(t, int64(3), seats.Quantity)
	assertDecimal(t, "30", seats.PreviousMRR)
	assertDecimal(t, "60", seats.ExpansionMRR)

	annual := got.Events[2]
	assert.Equal(t, "sub_yearly", annual.SubscriptionID)
	assertDecimal(t, "10", annual.PreviousMRR)
	assertDecimal(t, "50", annual.CurrentMRR)
	assertDecimal(t, "40", annual.ExpansionMRR)

	assert.Equal(t, []string{"cus_1", "cus_2"}, []string{
		got.CustomerBreakdown[0].CustomerID,
		got.CustomerBreakdown[1].CustomerID,
	})
	assert.Equal(t, 14, got.Period.Days)
	assertDecimal(t, "136", got.ExpansionMRR)
	assertDecimal(t, "140", got.StartingMRR)
}

func TestAnalyzeMRRExpansion_Errors(t *testing.T) {
	calc := newTestCalculator()

	_, err := calc.AnalyzeMRRExpansion(nil, ExpansionParams{})
	require.Error(t, err)
	assert.True(t, ierr.IsNoDataProvided(err))

	snapshot := testutil.Snapshot(
		testutil.NewSubscription("sub_bad").
			WithItem(testutil.RecurringItem("price_hourly", "usd", 100, types.BillingInterval("hour"), 1, 2)),
	)
	_, err = calc.AnalyzeMRRExpansion(snapshot, ExpansionParams{})
	require.Error(t, err)
	assert.True(t, ierr.IsUnsupportedInterval(err))
}

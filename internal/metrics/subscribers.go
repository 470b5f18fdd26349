package metrics

import (
	"sort"

	"github.com/flexprice/subscription-analytics/internal/domain/subscription"
	"github.com/flexprice/subscription-analytics/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type SubscriberParams struct {
	IncludeTrialSubscriptions bool   `json:"include_trial_subscriptions"`
	Currency                  string `json:"currency,omitempty"`
	GrowthPeriodDays          int    `json:"growth_period_days"`
}

type StatusCount struct {
	Status types.SubscriptionStatus `json:"status"`
	Count  int                      `json:"count"`
}

// SubscriberGrowth compares active subscriptions created inside the growth window
// with those created before it
type SubscriberGrowth struct {
	PeriodDays            int             `json:"period_days"`
	NewSubscriptions      int             `json:"new_subscriptions"`
	ExistingSubscriptions int             `json:"existing_subscriptions"`
	GrowthRate            decimal.Decimal `json:"growth_rate"`
}

type SubscriberResult struct {
	TotalSubscriptions        int              `json:"total_subscriptions"`
	ActiveSubscriptions       int              `json:"active_subscriptions"`
	UniqueCustomers           int              `json:"unique_customers"`
	Currency                  string           `json:"currency"`
	IncludeTrialSubscriptions bool             `json:"include_trial_subscriptions"`
	StatusBreakdown           []StatusCount    `json:"status_breakdown"`
	Growth                    SubscriberGrowth `json:"growth"`
	PlanBreakdown             []PlanCount      `json:"plan_breakdown"`
}

// AnalyzeActiveSubscribers counts active subscriptions and customers, breaks the whole
// snapshot down by status and measures growth over the growth window.
// Growth from zero existing subscriptions is reported as 0.
func (c *Calculator) AnalyzeActiveSubscribers(snapshot subscription.Snapshot, params SubscriberParams) (*SubscriberResult, error) {
	if err := requireData(snapshot); err != nil {
		return nil, err
	}

	growthDays, err := resolveDays(params.GrowthPeriodDays, "growth_period_days")
	if err != nil {
		return nil, err
	}

	active := FilterActive(snapshot, params.IncludeTrialSubscriptions, params.Currency)

	cutoff := c.period(growthDays).Start
	newSubs := lo.CountBy(active, func(sub *subscription.Subscription) bool {
		return !sub.CreatedAt().Before(cutoff)
	})
	existingSubs := len(active) - newSubs

	return &SubscriberResult{
		TotalSubscriptions:        len(lo.Compact(snapshot)),
		ActiveSubscriptions:       len(active),
		UniqueCustomers:           len(UniqueCustomers(active)),
		Currency:                  reportedCurrency(params.Currency),
		IncludeTrialSubscriptions: params.IncludeTrialSubscriptions,
		StatusBreakdown:           statusBreakdown(snapshot),
		Growth: SubscriberGrowth{
			PeriodDays:            growthDays,
			NewSubscriptions:      newSubs,
			ExistingSubscriptions: existingSubs,
			GrowthRate:            ratio(newSubs, existingSubs),
		},
		PlanBreakdown: planBreakdown(active),
	}, nil
}

// statusBreakdown counts every subscription by status, most common first
func statusBreakdown(snapshot subscription.Snapshot) []StatusCount {
	counts := lo.CountValuesBy(lo.Compact(snapshot), func(sub *subscription.Subscription) types.SubscriptionStatus {
		return sub.Status
	})

	breakdown := make([]StatusCount, 0, len(counts))
	for status, count := range counts {
		breakdown = append(breakdown, StatusCount{Status: status, Count: count})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Count != breakdown[j].Count {
			return breakdown[i].Count > breakdown[j].Count
		}
		return breakdown[i].Status < breakdown[j].Status
	})
	return breakdown
}

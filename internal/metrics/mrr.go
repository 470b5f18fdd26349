package metrics

import (
	"github.com/flexprice/subscription-analytics/internal/domain/subscription"
	"github.com/flexprice/subscription-analytics/internal/types"
	"github.com/shopspring/decimal"
)

type MRRParams struct {
	IncludeTrialSubscriptions bool   `json:"include_trial_subscriptions"`
	Currency                  string `json:"currency,omitempty"`
}

// SubscriptionMRR is the monthly value of one included subscription
type SubscriptionMRR struct {
	SubscriptionID  string                   `json:"subscription_id"`
	CustomerID      string                   `json:"customer_id,omitempty"`
	Status          types.SubscriptionStatus `json:"status"`
	MRR             decimal.Decimal          `json:"mrr"`
	BillingInterval string                   `json:"billing_interval"`
}

type MRRResult struct {
	TotalMRR                  decimal.Decimal   `json:"total_mrr"`
	ARR                       decimal.Decimal   `json:"arr"`
	SubscriptionCount         int               `json:"subscription_count"`
	Currency                  string            `json:"currency"`
	IncludeTrialSubscriptions bool              `json:"include_trial_subscriptions"`
	Breakdown                 []SubscriptionMRR `json:"breakdown"`
}

// CalculateMRR sums the normalized monthly value of every active subscription
// matching the currency filter.
func (c *Calculator) CalculateMRR(snapshot subscription.Snapshot, params MRRParams) (*MRRResult, error) {
	if err := requireData(snapshot); err != nil {
		return nil, err
	}

	included := FilterActive(snapshot, params.IncludeTrialSubscriptions, params.Currency)

	total := decimal.Zero
	breakdown := make([]SubscriptionMRR, 0, len(included))
	for _, sub := range included {
		mrr, err := CalculateSubscriptionMRR(sub)
		if err != nil {
			return nil, err
		}
		total = total.Add(mrr)
		breakdown = append(breakdown, SubscriptionMRR{
			SubscriptionID:  sub.ID,
			CustomerID:      sub.Customer,
			Status:          sub.Status,
			MRR:             mrr,
			BillingInterval: billingIntervalLabel(sub),
		})
	}

	total = round(total)
	return &MRRResult{
		TotalMRR:                  total,
		ARR:                       round(total.Mul(monthsPerYear)),
		SubscriptionCount:         len(included),
		Currency:                  reportedCurrency(params.Currency),
		IncludeTrialSubscriptions: params.IncludeTrialSubscriptions,
		Breakdown:                 breakdown,
	}, nil
}

// CalculateSubscriptionMRR returns the monthly value of all line items of a subscription.
// Items without a unit amount or a recurring descriptor contribute nothing.
func CalculateSubscriptionMRR(sub *subscription.Subscription) (decimal.Decimal, error) {
	total := decimal.Zero
	for i := range sub.Items {
		item := &sub.Items[i]
		mrr, err := CalculateItemMRR(item, item.EffectiveQuantity())
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(mrr)
	}
	return round(total), nil
}

// CalculateItemMRR returns the monthly value of a line item billed at quantity
func CalculateItemMRR(item *subscription.LineItem, quantity int64) (decimal.Decimal, error) {
	if !item.IsBillable() {
		return decimal.Zero, nil
	}

	normalized, err := Normalize(
		item.MajorUnitAmount(quantity),
		item.Price.Recurring.Interval,
		item.Price.Recurring.EffectiveIntervalCount(),
	)
	if err != nil {
		return decimal.Zero, err
	}
	return normalized.NormalizedMonthlyAmount, nil
}

// billingIntervalLabel describes the cadence of the first recurring item
func billingIntervalLabel(sub *subscription.Subscription) string {
	for _, item := range sub.Items {
		if item.Price.Recurring != nil {
			return item.Price.Recurring.Interval.Label(item.Price.Recurring.EffectiveIntervalCount())
		}
	}
	return "none"
}

package metrics

import (
	"sort"
	"time"

	"github.com/flexprice/subscription-analytics/internal/domain/subscription"
	"github.com/flexprice/subscription-analytics/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type ChurnParams struct {
	PeriodDays int    `json:"period_days"`
	Currency   string `json:"currency,omitempty"`
}

type ChurnedSubscription struct {
	SubscriptionID string            `json:"subscription_id"`
	CustomerID     string            `json:"customer_id,omitempty"`
	CanceledAt     time.Time         `json:"canceled_at"`
	Reason         types.ChurnReason `json:"reason"`
}

type ReasonCount struct {
	Reason types.ChurnReason `json:"reason"`
	Count  int               `json:"count"`
}

type ChurnResult struct {
	ChurnRate            decimal.Decimal              `json:"churn_rate"`
	RetentionRate        decimal.Decimal              `json:"retention_rate"`
	CalculationMethod    types.ChurnCalculationMethod `json:"calculation_method"`
	Period               Period                       `json:"period"`
	CustomersAtStart     int                          `json:"customers_at_start"`
	NewCustomers         int                          `json:"new_customers"`
	ChurnedCustomers     int                          `json:"churned_customers"`
	ChurnedNewCustomers  int                          `json:"churned_new_customers"`
	Currency             string                       `json:"currency"`
	ChurnedSubscriptions []ChurnedSubscription        `json:"churned_subscriptions"`
	ReasonBreakdown      []ReasonCount                `json:"reason_breakdown"`
	PlanBreakdown        []PlanCount                  `json:"plan_breakdown"`
}

// CalculateChurnRate measures the share of customers lost during the period.
//
// Customers are placed in the start cohort or the acquired cohort by the creation
// time of each of their subscriptions, one subscription at a time. A customer whose
// subscriptions straddle the period start therefore lands in both cohorts.
//
// With a start cohort the rate is churned / customers at start. Without one it falls
// back to churned new customers / new customers, and to 0 when nobody was acquired either.
func (c *Calculator) CalculateChurnRate(snapshot subscription.Snapshot, params ChurnParams) (*ChurnResult, error) {
	if err := requireData(snapshot); err != nil {
		return nil, err
	}

	days, err := resolveDays(params.PeriodDays, "period_days")
	if err != nil {
		return nil, err
	}
	period := c.period(days)

	scoped := FilterByCurrency(snapshot, params.Currency)

	atStart := make(map[string]struct{})
	acquired := make(map[string]struct{})
	churnedCustomers := make([]string, 0)
	churnedSubs := make(subscription.Snapshot, 0)
	churned := make([]ChurnedSubscription, 0)

	for _, sub := range scoped {
		created := sub.CreatedAt()
		if sub.HasCustomer() {
			switch {
			case created.Before(period.Start):
				atStart[sub.Customer] = struct{}{}
			case !created.After(period.End):
				acquired[sub.Customer] = struct{}{}
			}
		}

		canceledAt := sub.CanceledAtTime()
		if sub.Status != types.SubscriptionStatusCanceled || canceledAt == nil || !period.Contains(*canceledAt) {
			continue
		}

		churnedSubs = append(churnedSubs, sub)
		churned = append(churned, ChurnedSubscription{
			SubscriptionID: sub.ID,
			CustomerID:     sub.Customer,
			CanceledAt:     *canceledAt,
			Reason:         churnReason(sub),
		})
		if sub.HasCustomer() {
			churnedCustomers = append(churnedCustomers, sub.Customer)
		}
	}

	churnedCustomers = lo.Uniq(churnedCustomers)
	churnedNew := lo.CountBy(churnedCustomers, func(customer string) bool {
		_, ok := acquired[customer]
		return ok
	})

	result := &ChurnResult{
		Period:               period,
		CustomersAtStart:     len(atStart),
		NewCustomers:         len(acquired),
		ChurnedCustomers:     len(churnedCustomers),
		ChurnedNewCustomers:  churnedNew,
		Currency:             reportedCurrency(params.Currency),
		ChurnedSubscriptions: churned,
		ReasonBreakdown:      reasonBreakdown(churned),
		PlanBreakdown:        planBreakdown(churnedSubs),
	}

	switch {
	case result.CustomersAtStart > 0:
		result.CalculationMethod = types.ChurnCalculationMethodTraditional
		result.ChurnRate = ratio(result.ChurnedCustomers, result.CustomersAtStart)
	case result.NewCustomers > 0:
		result.CalculationMethod = types.ChurnCalculationMethodNewBusiness
		result.ChurnRate = ratio(result.ChurnedNewCustomers, result.NewCustomers)
	default:
		result.CalculationMethod = types.ChurnCalculationMethodNoCustomers
		result.ChurnRate = decimal.Zero
	}
	result.RetentionRate = round(hundred.Sub(result.ChurnRate))

	return result, nil
}

func churnReason(sub *subscription.Subscription) types.ChurnReason {
	switch {
	case sub.CancelAtPeriodEnd:
		return types.ChurnReasonScheduledCancellation
	case sub.CanceledAt != nil:
		return types.ChurnReasonImmediateCancellation
	default:
		return types.ChurnReasonUnknown
	}
}

func reasonBreakdown(churned []ChurnedSubscription) []ReasonCount {
	counts := lo.CountValuesBy(churned, func(c ChurnedSubscription) types.ChurnReason {
		return c.Reason
	})

	breakdown := make([]ReasonCount, 0, len(counts))
	for reason, count := range counts {
		breakdown = append(breakdown, ReasonCount{Reason: reason, Count: count})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Count != breakdown[j].Count {
			return breakdown[i].Count > breakdown[j].Count
		}
		return breakdown[i].Reason < breakdown[j].Reason
	})
	return breakdown
}

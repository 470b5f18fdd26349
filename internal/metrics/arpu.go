package metrics

import (
	"github.com/flexprice/subscription-analytics/internal/domain/subscription"
	"github.com/shopspring/decimal"
)

type ARPUParams struct {
	IncludeTrialSubscriptions bool   `json:"include_trial_subscriptions"`
	Currency                  string `json:"currency,omitempty"`
}

type ARPUResult struct {
	ARPU              decimal.Decimal `json:"arpu"`
	TotalMRR          decimal.Decimal `json:"total_mrr"`
	UniqueCustomers   int             `json:"unique_customers"`
	SubscriptionCount int             `json:"subscription_count"`
	Currency          string          `json:"currency"`
	MRR               *MRRResult      `json:"mrr_calculation"`
}

// CalculateARPU divides MRR by the number of distinct customers holding the
// subscriptions MRR was computed over. No customers means an ARPU of 0.
func (c *Calculator) CalculateARPU(snapshot subscription.Snapshot, params ARPUParams) (*ARPUResult, error) {
	mrr, err := c.CalculateMRR(snapshot, MRRParams(params))
	if err != nil {
		return nil, err
	}

	customers := len(UniqueCustomers(FilterActive(snapshot, params.IncludeTrialSubscriptions, params.Currency)))

	arpu := decimal.Zero
	if customers > 0 {
		arpu = round(mrr.TotalMRR.Div(decimal.NewFromInt(int64(customers))))
	}

	return &ARPUResult{
		ARPU:              arpu,
		TotalMRR:          mrr.TotalMRR,
		UniqueCustomers:   customers,
		SubscriptionCount: mrr.SubscriptionCount,
		Currency:          mrr.Currency,
		MRR:               mrr,
	}, nil
}

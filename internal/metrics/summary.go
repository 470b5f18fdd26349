package metrics

import (
	"context"

	"github.com/flexprice/subscription-analytics/internal/domain/subscription"
	"github.com/sourcegraph/conc/pool"
)

type SummaryParams struct {
	IncludeTrialSubscriptions bool   `json:"include_trial_subscriptions"`
	Currency                  string `json:"currency,omitempty"`
	// PeriodDays drives the churn, expansion and growth windows
	PeriodDays int `json:"period_days"`
}

type SummaryResult struct {
	Currency          string            `json:"currency"`
	MRR               *MRRResult        `json:"mrr"`
	ARPU              *ARPUResult       `json:"arpu"`
	Churn             *ChurnResult      `json:"churn"`
	LTV               *LTVResult        `json:"ltv"`
	Expansion         *ExpansionResult  `json:"expansion"`
	ActiveSubscribers *SubscriberResult `json:"active_subscribers"`
}

// Summarize runs every metric over the same snapshot concurrently.
// The first failing metric fails the summary.
func (c *Calculator) Summarize(ctx context.Context, snapshot subscription.Snapshot, params SummaryParams) (*SummaryResult, error) {
	if err := requireData(snapshot); err != nil {
		return nil, err
	}

	days, err := resolveDays(params.PeriodDays, "period_days")
	if err != nil {
		return nil, err
	}

	result := &SummaryResult{Currency: reportedCurrency(params.Currency)}

	p := pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()

	p.Go(func(ctx context.Context) (err error) {
		result.MRR, err = c.CalculateMRR(snapshot, MRRParams{
			IncludeTrialSubscriptions: params.IncludeTrialSubscriptions,
			Currency:                  params.Currency,
		})
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		result.ARPU, err = c.CalculateARPU(snapshot, ARPUParams{
			IncludeTrialSubscriptions: params.IncludeTrialSubscriptions,
			Currency:                  params.Currency,
		})
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		result.Churn, err = c.CalculateChurnRate(snapshot, ChurnParams{
			PeriodDays: days,
			Currency:   params.Currency,
		})
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		result.LTV, err = c.CalculateLTV(snapshot, LTVParams{
			IncludeTrialSubscriptions: params.IncludeTrialSubscriptions,
			ChurnPeriodDays:           days,
			Currency:                  params.Currency,
		})
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		result.Expansion, err = c.AnalyzeMRRExpansion(snapshot, ExpansionParams{
			PeriodDays: days,
			Currency:   params.Currency,
		})
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		result.ActiveSubscribers, err = c.AnalyzeActiveSubscribers(snapshot, SubscriberParams{
			IncludeTrialSubscriptions: params.IncludeTrialSubscriptions,
			Currency:                  params.Currency,
			GrowthPeriodDays:          days,
		})
		return err
	})

	if err := p.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

package metrics

import (
	"github.com/flexprice/subscription-analytics/internal/domain/subscription"
	"github.com/shopspring/decimal"
)

var (
	// MaxLTV stands in for an unbounded lifetime value when nobody churns
	MaxLTV = decimal.NewFromInt(1_000_000)
	// MaxMonthsToChurn stands in for an unbounded customer lifetime
	MaxMonthsToChurn = decimal.NewFromInt(10_000)

	daysPerChurnMonth = decimal.NewFromInt(30)
)

type LTVParams struct {
	IncludeTrialSubscriptions bool   `json:"include_trial_subscriptions"`
	ChurnPeriodDays           int    `json:"churn_period_days"`
	Currency                  string `json:"currency,omitempty"`
}

type LTVResult struct {
	LTV              decimal.Decimal `json:"ltv"`
	ARPU             decimal.Decimal `json:"arpu"`
	ChurnRate        decimal.Decimal `json:"churn_rate"`
	RetentionRate    decimal.Decimal `json:"retention_rate"`
	MonthlyChurnRate decimal.Decimal `json:"monthly_churn_rate"`
	MonthsToChurn    decimal.Decimal `json:"months_to_churn"`
	ChurnPeriodDays  int             `json:"churn_period_days"`
	// Capped is set when LTV or months to churn hit their ceilings
	Capped           bool         `json:"capped"`
	Currency         string       `json:"currency"`
	ARPUCalculation  *ARPUResult  `json:"arpu_calculation"`
	ChurnCalculation *ChurnResult `json:"churn_calculation"`
}

// CalculateLTV combines ARPU and churn over the same snapshot:
// LTV = ARPU / monthly churn, where the churn rate measured over the churn period is
// scaled to a 30 day month. Zero churn or oversized results are capped at MaxLTV and
// MaxMonthsToChurn.
func (c *Calculator) CalculateLTV(snapshot subscription.Snapshot, params LTVParams) (*LTVResult, error) {
	days, err := resolveDays(params.ChurnPeriodDays, "churn_period_days")
	if err != nil {
		return nil, err
	}

	arpu, err := c.CalculateARPU(snapshot, ARPUParams{
		IncludeTrialSubscriptions: params.IncludeTrialSubscriptions,
		Currency:                  params.Currency,
	})
	if err != nil {
		return nil, err
	}

	churn, err := c.CalculateChurnRate(snapshot, ChurnParams{
		PeriodDays: days,
		Currency:   params.Currency,
	})
	if err != nil {
		return nil, err
	}

	monthlyChurn := churn.ChurnRate.Div(hundred).
		Mul(daysPerChurnMonth).
		Div(decimal.NewFromInt(int64(days)))

	result := &LTVResult{
		ARPU:             arpu.ARPU,
		ChurnRate:        churn.ChurnRate,
		RetentionRate:    churn.RetentionRate,
		MonthlyChurnRate: round(monthlyChurn.Mul(hundred)),
		ChurnPeriodDays:  days,
		Currency:         arpu.Currency,
		ARPUCalculation:  arpu,
		ChurnCalculation: churn,
	}

	if !monthlyChurn.IsPositive() {
		result.LTV = MaxLTV
		result.MonthsToChurn = MaxMonthsToChurn
		result.Capped = true
		return result, nil
	}

	result.LTV = round(arpu.ARPU.Div(monthlyChurn))
	result.MonthsToChurn = round(decimal.NewFromInt(1).Div(monthlyChurn))

	if result.LTV.GreaterThan(MaxLTV) {
		result.LTV = MaxLTV
		result.Capped = true
	}
	if result.MonthsToChurn.GreaterThan(MaxMonthsToChurn) {
		result.MonthsToChurn = MaxMonthsToChurn
		result.Capped = true
	}

	return result, nil
}

package dto

import (
	"time"

	"github.com/flexprice/subscription-analytics/internal/domain/subscription"
	ierr "github.com/flexprice/subscription-analytics/internal/errors"
	"github.com/flexprice/subscription-analytics/internal/metrics"
	"github.com/flexprice/subscription-analytics/internal/types"
	"github.com/go-playground/validator/v10"
)

// SnapshotRequest carries the subscriptions a metric is calculated over and the
// options shared by every metric endpoint
type SnapshotRequest struct {
	// Source is where subscriptions come from, request (default) or stripe
	Source types.SnapshotSource `json:"source,omitempty" validate:"omitempty,oneof=request stripe" example:"request"`
	// Subscriptions is the snapshot when Source is request
	Subscriptions subscription.Snapshot `json:"subscriptions,omitempty"`
	// Refresh bypasses the snapshot cache for the stripe source
	Refresh bool `json:"refresh,omitempty"`
	// Currency restricts the calculation to subscriptions with an item in this currency
	Currency string `json:"currency,omitempty" validate:"omitempty,len=3" example:"usd"`
	// IncludeExplanation asks for a plain-language explanation of the result
	IncludeExplanation bool `json:"include_explanation,omitempty"`
}

// GetSource returns the requested source with the default applied
func (r *SnapshotRequest) GetSource() types.SnapshotSource {
	if r.Source == "" {
		return types.SnapshotSourceRequest
	}
	return r.Source
}

type MRRRequest struct {
	SnapshotRequest
	IncludeTrialSubscriptions bool `json:"include_trial_subscriptions"`
}

func (r *MRRRequest) Validate() error {
	return validateRequest(r)
}

func (r *MRRRequest) ToParams() metrics.MRRParams {
	return metrics.MRRParams{
		IncludeTrialSubscriptions: r.IncludeTrialSubscriptions,
		Currency:                  r.Currency,
	}
}

type ARPURequest struct {
	SnapshotRequest
	IncludeTrialSubscriptions bool `json:"include_trial_subscriptions"`
}

func (r *ARPURequest) Validate() error {
	return validateRequest(r)
}

func (r *ARPURequest) ToParams() metrics.ARPUParams {
	return metrics.ARPUParams{
		IncludeTrialSubscriptions: r.IncludeTrialSubscriptions,
		Currency:                  r.Currency,
	}
}

type ChurnRateRequest struct {
	SnapshotRequest
	PeriodDays int `json:"period_days" validate:"gte=0" example:"30"`
}

func (r *ChurnRateRequest) Validate() error {
	return validateRequest(r)
}

func (r *ChurnRateRequest) ToParams() metrics.ChurnParams {
	return metrics.ChurnParams{
		PeriodDays: r.PeriodDays,
		Currency:   r.Currency,
	}
}

type LTVRequest struct {
	SnapshotRequest
	IncludeTrialSubscriptions bool `json:"include_trial_subscriptions"`
	ChurnPeriodDays           int  `json:"churn_period_days" validate:"gte=0" example:"30"`
}

func (r *LTVRequest) Validate() error {
	return validateRequest(r)
}

func (r *LTVRequest) ToParams() metrics.LTVParams {
	return metrics.LTVParams{
		IncludeTrialSubscriptions: r.IncludeTrialSubscriptions,
		ChurnPeriodDays:           r.ChurnPeriodDays,
		Currency:                  r.Currency,
	}
}

type MRRExpansionRequest struct {
	SnapshotRequest
	PeriodDays int `json:"period_days" validate:"gte=0" example:"30"`
}

func (r *MRRExpansionRequest) Validate() error {
	return validateRequest(r)
}

func (r *MRRExpansionRequest) ToParams() metrics.ExpansionParams {
	return metrics.ExpansionParams{
		PeriodDays: r.PeriodDays,
		Currency:   r.Currency,
	}
}

type ActiveSubscribersRequest struct {
	SnapshotRequest
	IncludeTrialSubscriptions bool `json:"include_trial_subscriptions"`
	GrowthPeriodDays          int  `json:"growth_period_days" validate:"gte=0" example:"30"`
}

func (r *ActiveSubscribersRequest) Validate() error {
	return validateRequest(r)
}

func (r *ActiveSubscribersRequest) ToParams() metrics.SubscriberParams {
	return metrics.SubscriberParams{
		IncludeTrialSubscriptions: r.IncludeTrialSubscriptions,
		Currency:                  r.Currency,
		GrowthPeriodDays:          r.GrowthPeriodDays,
	}
}

type SummaryRequest struct {
	SnapshotRequest
	IncludeTrialSubscriptions bool `json:"include_trial_subscriptions"`
	PeriodDays                int  `json:"period_days" validate:"gte=0" example:"30"`
}

func (r *SummaryRequest) Validate() error {
	return validateRequest(r)
}

func (r *SummaryRequest) ToParams() metrics.SummaryParams {
	return metrics.SummaryParams{
		IncludeTrialSubscriptions: r.IncludeTrialSubscriptions,
		Currency:                  r.Currency,
		PeriodDays:                r.PeriodDays,
	}
}

// MetricResponse wraps a calculation result
type MetricResponse[T any] struct {
	CalculationID string               `json:"calculation_id" example:"calc_01HQ8Z3M6W3Y5C8VJQ2N4K7P9R"`
	Metric        types.MetricType     `json:"metric" example:"mrr"`
	Source        types.SnapshotSource `json:"source" example:"request"`
	CalculatedAt  time.Time            `json:"calculated_at" example:"2024-03-20T15:04:05Z"`
	Result        T                    `json:"result"`
	Explanation   string               `json:"explanation,omitempty"`
}

// NewMetricResponse assigns a fresh calculation id to result
func NewMetricResponse[T any](metric types.MetricType, source types.SnapshotSource, calculatedAt time.Time, result T) *MetricResponse[T] {
	return &MetricResponse[T]{
		CalculationID: types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CALCULATION),
		Metric:        metric,
		Source:        source,
		CalculatedAt:  calculatedAt,
		Result:        result,
	}
}

type MRRResponse = MetricResponse[*metrics.MRRResult]
type ARPUResponse = MetricResponse[*metrics.ARPUResult]
type ChurnRateResponse = MetricResponse[*metrics.ChurnResult]
type LTVResponse = MetricResponse[*metrics.LTVResult]
type MRRExpansionResponse = MetricResponse[*metrics.ExpansionResult]
type ActiveSubscribersResponse = MetricResponse[*metrics.SubscriberResult]
type SummaryResponse = MetricResponse[*metrics.SummaryResult]

func validateRequest(req interface{}) error {
	if err := validator.New().Struct(req); err != nil {
		details := make(map[string]any)
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			for _, fieldErr := range validateErrs {
				details[fieldErr.Field()] = fieldErr.Error()
			}
		}
		return ierr.WithError(err).
			WithHint("Request validation failed").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}

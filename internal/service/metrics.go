package service

import (
	"context"
	"time"

	"github.com/flexprice/subscription-analytics/internal/api/dto"
	"github.com/flexprice/subscription-analytics/internal/domain/subscription"
	"github.com/flexprice/subscription-analytics/internal/interfaces"
	"github.com/flexprice/subscription-analytics/internal/types"
)

type MetricsService = interfaces.MetricsService

type metricsService struct {
	ServiceParams
	snapshots SnapshotService
}

func NewMetricsService(params ServiceParams, snapshots SnapshotService) MetricsService {
	return &metricsService{
		ServiceParams: params,
		snapshots:     snapshots,
	}
}

func (s *metricsService) GetMRR(ctx context.Context, req *dto.MRRRequest) (*dto.MRRResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	snapshot, err := s.snapshots.Resolve(ctx, &req.SnapshotRequest)
	if err != nil {
		return nil, err
	}

	result, err := s.Calculator.CalculateMRR(snapshot, req.ToParams())
	if err != nil {
		return nil, err
	}

	return respond(ctx, s, &req.SnapshotRequest, types.MetricTypeMRR, snapshot, result), nil
}

func (s *metricsService) GetARPU(ctx context.Context, req *dto.ARPURequest) (*dto.ARPUResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	snapshot, err := s.snapshots.Resolve(ctx, &req.SnapshotRequest)
	if err != nil {
		return nil, err
	}

	result, err := s.Calculator.CalculateARPU(snapshot, req.ToParams())
	if err != nil {
		return nil, err
	}

	return respond(ctx, s, &req.SnapshotRequest, types.MetricTypeARPU, snapshot, result), nil
}

func (s *metricsService) GetChurnRate(ctx context.Context, req *dto.ChurnRateRequest) (*dto.ChurnRateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	snapshot, err := s.snapshots.Resolve(ctx, &req.SnapshotRequest)
	if err != nil {
		return nil, err
	}

	result, err := s.Calculator.CalculateChurnRate(snapshot, req.ToParams())
	if err != nil {
		return nil, err
	}

	return respond(ctx, s, &req.SnapshotRequest, types.MetricTypeChurnRate, snapshot, result), nil
}

func (s *metricsService) GetLTV(ctx context.Context, req *dto.LTVRequest) (*dto.LTVResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	snapshot, err := s.snapshots.Resolve(ctx, &req.SnapshotRequest)
	if err != nil {
		return nil, err
	}

	result, err := s.Calculator.CalculateLTV(snapshot, req.ToParams())
	if err != nil {
		return nil, err
	}

	return respond(ctx, s, &req.SnapshotRequest, types.MetricTypeLTV, snapshot, result), nil
}

func (s *metricsService) GetMRRExpansion(ctx context.Context, req *dto.MRRExpansionRequest) (*dto.MRRExpansionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	snapshot, err := s.snapshots.Resolve(ctx, &req.SnapshotRequest)
	if err != nil {
		return nil, err
	}

	result, err := s.Calculator.AnalyzeMRRExpansion(snapshot, req.ToParams())
	if err != nil {
		return nil, err
	}

	return respond(ctx, s, &req.SnapshotRequest, types.MetricTypeMRRExpansion, snapshot, result), nil
}

func (s *metricsService) GetActiveSubscribers(ctx context.Context, req *dto.ActiveSubscribersRequest) (*dto.ActiveSubscribersResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	snapshot, err := s.snapshots.Resolve(ctx, &req.SnapshotRequest)
	if err != nil {
		return nil, err
	}

	result, err := s.Calculator.AnalyzeActiveSubscribers(snapshot, req.ToParams())
	if err != nil {
		return nil, err
	}

	return respond(ctx, s, &req.SnapshotRequest, types.MetricTypeActiveSubscribers, snapshot, result), nil
}

func (s *metricsService) GetSummary(ctx context.Context, req *dto.SummaryRequest) (*dto.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	snapshot, err := s.snapshots.Resolve(ctx, &req.SnapshotRequest)
	if err != nil {
		return nil, err
	}

	result, err := s.Calculator.Summarize(ctx, snapshot, req.ToParams())
	if err != nil {
		return nil, err
	}

	return respond(ctx, s, &req.SnapshotRequest, types.MetricTypeSummary, snapshot, result), nil
}

// respond wraps result and attaches an explanation when one was asked for.
// A failed explanation is logged and the numeric result is returned without it.
func respond[T any](
	ctx context.Context,
	s *metricsService,
	req *dto.SnapshotRequest,
	metric types.MetricType,
	snapshot subscription.Snapshot,
	result T,
) *dto.MetricResponse[T] {
	start := time.Now()
	resp := dto.NewMetricResponse(metric, req.GetSource(), s.Calculator.Now(), result)

	if req.IncludeExplanation && s.Explainer != nil && s.Explainer.Enabled() {
		explanation, err := s.Explainer.Explain(ctx, metric, result)
		if err != nil {
			s.Logger.Warnw("failed to explain metric",
				"metric", metric,
				"calculation_id", resp.CalculationID,
				"request_id", types.GetRequestID(ctx),
				"error", err,
			)
		} else {
			resp.Explanation = explanation
		}
	}

	s.Logger.Infow("calculated metric",
		"metric", metric,
		"calculation_id", resp.CalculationID,
		"request_id", types.GetRequestID(ctx),
		"source", resp.Source,
		"currency", req.Currency,
		"subscriptions", len(snapshot),
		"explained", resp.Explanation != "",
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return resp
}

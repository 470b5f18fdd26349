package interfaces

import (
	"context"

	"github.com/flexprice/subscription-analytics/internal/api/dto"
	"github.com/flexprice/subscription-analytics/internal/domain/subscription"
)

// SnapshotService resolves the subscription snapshot a request is calculated over
type SnapshotService interface {
	Resolve(ctx context.Context, req *dto.SnapshotRequest) (subscription.Snapshot, error)
	// Invalidate drops every cached snapshot
	Invalidate(ctx context.Context)
}

// MetricsService defines the interface for metric calculations
type MetricsService interface {
	GetMRR(ctx context.Context, req *dto.MRRRequest) (*dto.MRRResponse, error)
	GetARPU(ctx context.Context, req *dto.ARPURequest) (*dto.ARPUResponse, error)
	GetChurnRate(ctx context.Context, req *dto.ChurnRateRequest) (*dto.ChurnRateResponse, error)
	GetLTV(ctx context.Context, req *dto.LTVRequest) (*dto.LTVResponse, error)
	GetMRRExpansion(ctx context.Context, req *dto.MRRExpansionRequest) (*dto.MRRExpansionResponse, error)
	GetActiveSubscribers(ctx context.Context, req *dto.ActiveSubscribersRequest) (*dto.ActiveSubscribersResponse, error)
	GetSummary(ctx context.Context, req *dto.SummaryRequest) (*dto.SummaryResponse, error)
}

package service

import (
	"context"

	"github.com/flexprice/subscription-analytics/internal/api/dto"
	"github.com/flexprice/subscription-analytics/internal/cache"
	"github.com/flexprice/subscription-analytics/internal/domain/subscription"
	ierr "github.com/flexprice/subscription-analytics/internal/errors"
	"github.com/flexprice/subscription-analytics/internal/interfaces"
	"github.com/flexprice/subscription-analytics/internal/sentry"
	"github.com/flexprice/subscription-analytics/internal/types"
	"github.com/flexprice/subscription-analytics/internal/validator"
)

type SnapshotService = interfaces.SnapshotService

type snapshotService struct {
	ServiceParams
}

func NewSnapshotService(params ServiceParams) SnapshotService {
	return &snapshotService{
		ServiceParams: params,
	}
}

// Resolve returns the validated snapshot for req. Provider snapshots are cached
// per source and currency unless req.Refresh is set.
func (s *snapshotService) Resolve(ctx context.Context, req *dto.SnapshotRequest) (subscription.Snapshot, error) {
	switch req.GetSource() {
	case types.SnapshotSourceRequest:
		if err := validator.ValidateSnapshot(req.Subscriptions); err != nil {
			return nil, err
		}
		return req.Subscriptions, nil

	case types.SnapshotSourceStripe:
		return s.resolveFromSource(ctx, req)

	default:
		return nil, ierr.NewErrorf("unknown snapshot source %s", req.Source).
			WithHintf("Unknown snapshot source %q", string(req.Source)).
			Mark(ierr.ErrValidation)
	}
}

func (s *snapshotService) resolveFromSource(ctx context.Context, req *dto.SnapshotRequest) (subscription.Snapshot, error) {
	if s.Source == nil {
		return nil, ierr.NewErrorf("snapshot source %s is not configured", req.GetSource()).
			WithHintf("The %s source is not configured on this server", req.GetSource()).
			Mark(ierr.ErrInvalidOperation)
	}

	currency := types.NormalizeCurrency(req.Currency)
	key := cache.GenerateKey(cache.PrefixSnapshot, s.Source.Name(), currency)

	if !req.Refresh {
		if cached, found := s.Cache.Get(ctx, key); found {
			if snapshot, ok := cached.(subscription.Snapshot); ok {
				s.Logger.Debugw("snapshot cache hit",
					"source", s.Source.Name(),
					"currency", currency,
					"subscriptions", len(snapshot),
				)
				return snapshot, nil
			}
		}
	}

	span, spanCtx := s.Sentry.StartSourceSpan(ctx, s.Source.Name(), map[string]interface{}{
		"currency": currency,
		"refresh":  req.Refresh,
	})
	snapshot, err := s.Source.ListSubscriptions(spanCtx, &subscription.ListFilter{Currency: currency})
	sentry.FinishSpan(span, err)
	if err != nil {
		s.Logger.Errorw("failed to list subscriptions",
			"source", s.Source.Name(),
			"currency", currency,
			"error", err,
		)
		s.Sentry.CaptureException(err)
		return nil, err
	}

	if err := validator.ValidateSnapshot(snapshot); err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, key, snapshot, s.Config.Cache.TTL)
	return snapshot, nil
}

// Invalidate drops every cached provider snapshot
func (s *snapshotService) Invalidate(ctx context.Context) {
	s.Cache.DeleteByPrefix(ctx, cache.PrefixSnapshot)
}

package stripe

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/flexprice/subscription-analytics/internal/config"
	"github.com/flexprice/subscription-analytics/internal/domain/subscription"
	ierr "github.com/flexprice/subscription-analytics/internal/errors"
	"github.com/flexprice/subscription-analytics/internal/logger"
	"github.com/flexprice/subscription-analytics/internal/metrics"
	"github.com/stripe/stripe-go/v82"
	"golang.org/x/time/rate"
)

const (
	SourceName = "stripe"

	defaultPageSize    int64 = 100
	maxRetryElapsed          = 30 * time.Second
	initialRetryDelay        = 250 * time.Millisecond
)

// SubscriptionSource reads a full subscription snapshot from Stripe.
// Pages are fetched one at a time, paced by a rate limiter and retried with
// exponential backoff on rate limiting and server errors.
type SubscriptionSource struct {
	lister     SubscriptionLister
	limiter    *rate.Limiter
	pageSize   int64
	maxRetries uint64
	logger     *logger.Logger
}

var _ subscription.Source = (*SubscriptionSource)(nil)

// NewSubscriptionSource builds a source backed by the Stripe API
func NewSubscriptionSource(cfg *config.Configuration, logger *logger.Logger) (*SubscriptionSource, error) {
	client, err := NewStripeClient(cfg)
	if err != nil {
		return nil, err
	}
	return NewSubscriptionSourceWithLister(client.V1Subscriptions, cfg.Stripe, logger), nil
}

// NewSubscriptionSourceWithLister builds a source on top of any lister
func NewSubscriptionSourceWithLister(lister SubscriptionLister, cfg config.StripeConfig, logger *logger.Logger) *SubscriptionSource {
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = defaultPageSize
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &SubscriptionSource{
		lister:     lister,
		limiter:    rate.NewLimiter(limit, 1),
		pageSize:   pageSize,
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}
}

func (s *SubscriptionSource) Name() string {
	return SourceName
}

// ListSubscriptions pages through every subscription regardless of status and
// keeps the ones with an item in filter.Currency
func (s *SubscriptionSource) ListSubscriptions(ctx context.Context, filter *subscription.ListFilter) (subscription.Snapshot, error) {
	if filter == nil {
		filter = &subscription.ListFilter{}
	}

	start := time.Now()
	snapshot := make(subscription.Snapshot, 0)
	startingAfter := ""
	pages := 0

	for {
		page, err := s.fetchPage(ctx, startingAfter)
		if err != nil {
			return nil, err
		}
		pages++

		for _, item := range page {
			snapshot = append(snapshot, ToSubscription(item))
		}

		if int64(len(page)) < s.pageSize {
			break
		}
		startingAfter = page[len(page)-1].ID
	}

	filtered := metrics.FilterByCurrency(snapshot, filter.Currency)

	s.logger.Infow("listed subscriptions from stripe",
		"pages", pages,
		"subscriptions", len(snapshot),
		"matching_currency", len(filtered),
		"currency", filter.Currency,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return filtered, nil
}

// fetchPage reads a single page after startingAfter
func (s *SubscriptionSource) fetchPage(ctx context.Context, startingAfter string) ([]*stripe.Subscription, error) {
	var page []*stripe.Subscription

	operation := func() error {
		if err := s.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		params := &stripe.SubscriptionListParams{
			Status: stripe.String("all"),
		}
		params.Limit = stripe.Int64(s.pageSize)
		params.Single = true
		if startingAfter != "" {
			params.StartingAfter = stripe.String(startingAfter)
		}

		page = page[:0]
		for sub, err := range s.lister.List(ctx, params) {
			if err != nil {
				if isRetryable(err) {
					return err
				}
				return backoff.Permanent(err)
			}
			page = append(page, sub)
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		s.logger.Warnw("retrying stripe subscription page",
			"error", err,
			"starting_after", startingAfter,
			"wait_ms", wait.Milliseconds(),
		)
	}

	if err := backoff.RetryNotify(operation, s.newBackOff(ctx), notify); err != nil {
		s.logger.Errorw("failed to list subscriptions from stripe",
			"error", err,
			"starting_after", startingAfter,
		)
		return nil, ierr.WithError(err).
			WithHint("Could not fetch subscriptions from Stripe").
			WithReportableDetails(map[string]interface{}{
				"starting_after": startingAfter,
			}).
			Mark(ierr.ErrHTTPClient)
	}

	return page, nil
}

func (s *SubscriptionSource) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initialRetryDelay
	b.MaxElapsedTime = maxRetryElapsed
	return backoff.WithContext(backoff.WithMaxRetries(b, s.maxRetries), ctx)
}

// isRetryable reports whether Stripe asked us to slow down or failed on its side
func isRetryable(err error) bool {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return false
	}
	return stripeErr.HTTPStatusCode == http.StatusTooManyRequests ||
		stripeErr.HTTPStatusCode >= http.StatusInternalServerError
}

package testutil

import (
	"context"
	"sync"

	"github.com/flexprice/subscription-analytics/internal/domain/subscription"
	"github.com/flexprice/subscription-analytics/internal/types"
	"github.com/samber/lo"
)

// InMemorySubscriptionSource implements subscription.Source over a fixed snapshot
type InMemorySubscriptionSource struct {
	mu       sync.RWMutex
	snapshot subscription.Snapshot
	err      error
	calls    int
}

func NewInMemorySubscriptionSource(snapshot subscription.Snapshot) *InMemorySubscriptionSource {
	return &InMemorySubscriptionSource{snapshot: snapshot}
}

func (s *InMemorySubscriptionSource) Name() string {
	return "inmemory"
}

func (s *InMemorySubscriptionSource) ListSubscriptions(ctx context.Context, filter *subscription.ListFilter) (subscription.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if s.err != nil {
		return nil, s.err
	}
	if filter != nil && filter.Currency != "" {
		return lo.Filter(s.snapshot, func(sub *subscription.Subscription, _ int) bool {
			return lo.SomeBy(sub.Items, func(item subscription.LineItem) bool {
				return types.IsMatchingCurrency(item.Price.Currency, filter.Currency)
			})
		}), nil
	}
	return append(subscription.Snapshot{}, s.snapshot...), nil
}

// SetSnapshot replaces what the source returns
func (s *InMemorySubscriptionSource) SetSnapshot(snapshot subscription.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot
}

// SetError makes every following call fail with err
func (s *InMemorySubscriptionSource) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Calls returns how many times the source was listed
func (s *InMemorySubscriptionSource) Calls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls
}

package subscription

import (
	"context"
)

// ListFilter narrows what a Source returns
type ListFilter struct {
	// Currency keeps only subscriptions with at least one item in this currency, empty keeps all
	Currency string
}

// Source supplies subscription snapshots. Implementations may fetch
// in batches, paginate or serve from a cache; calculators do not care.
type Source interface {
	// Name identifies the source in logs and cache keys
	Name() string
	// ListSubscriptions returns every subscription visible to the source
	ListSubscriptions(ctx context.Context, filter *ListFilter) (Snapshot, error)
}

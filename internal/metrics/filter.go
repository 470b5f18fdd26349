package metrics

import (
	"github.com/flexprice/subscription-analytics/internal/domain/subscription"
	"github.com/flexprice/subscription-analytics/internal/types"
	"github.com/samber/lo"
)

// IsActive reports whether a subscription counts as active.
// active and past_due always do, trialing only when includeTrials is set.
func IsActive(sub *subscription.Subscription, includeTrials bool) bool {
	if sub == nil {
		return false
	}
	return lo.Contains(types.ActiveSubscriptionStatuses(includeTrials), sub.Status)
}

// MatchesCurrency reports whether at least one line item is priced in currency.
// An empty currency matches everything. Subscriptions are never split by currency.
func MatchesCurrency(sub *subscription.Subscription, currency string) bool {
	if sub == nil {
		return false
	}
	if currency == "" {
		return true
	}
	return lo.SomeBy(sub.Items, func(item subscription.LineItem) bool {
		return types.IsMatchingCurrency(item.Price.Currency, currency)
	})
}

// FilterByCurrency keeps the subscriptions matching currency
func FilterByCurrency(snapshot subscription.Snapshot, currency string) subscription.Snapshot {
	return lo.Filter(snapshot, func(sub *subscription.Subscription, _ int) bool {
		return MatchesCurrency(sub, currency)
	})
}

// FilterActive keeps the active subscriptions matching currency
func FilterActive(snapshot subscription.Snapshot, includeTrials bool, currency string) subscription.Snapshot {
	return lo.Filter(snapshot, func(sub *subscription.Subscription, _ int) bool {
		return IsActive(sub, includeTrials) && MatchesCurrency(sub, currency)
	})
}

// UniqueCustomers returns the distinct customer ids in snapshot order, skipping
// subscriptions without a customer
func UniqueCustomers(snapshot subscription.Snapshot) []string {
	ids := lo.FilterMap(snapshot, func(sub *subscription.Subscription, _ int) (string, bool) {
		if sub == nil || !sub.HasCustomer() {
			return "", false
		}
		return sub.Customer, true
	})
	return lo.Uniq(ids)
}

// reportedCurrency echoes the filter currency or falls back to the default
func reportedCurrency(currency string) string {
	if currency == "" {
		return types.DefaultCurrency
	}
	return types.NormalizeCurrency(currency)
}

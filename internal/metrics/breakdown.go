package metrics

import (
	"sort"

	"github.com/flexprice/subscription-analytics/internal/domain/subscription"
)

// PlanCount is the number of line items referencing a price
type PlanCount struct {
	PriceID string `json:"price_id"`
	Count   int    `json:"count"`
}

// planBreakdown counts line items by price id, most used first
func planBreakdown(subs subscription.Snapshot) []PlanCount {
	counts := make(map[string]int)
	for _, sub := range subs {
		for i := range sub.Items {
			counts[sub.Items[i].PlanKey()]++
		}
	}

	breakdown := make([]PlanCount, 0, len(counts))
	for priceID, count := range counts {
		breakdown = append(breakdown, PlanCount{PriceID: priceID, Count: count})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Count != breakdown[j].Count {
			return breakdown[i].Count > breakdown[j].Count
		}
		return breakdown[i].PriceID < breakdown[j].PriceID
	})
	return breakdown
}

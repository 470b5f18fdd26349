package metrics

import (
	"sort"

	"github.com/flexprice/subscription-analytics/internal/domain/subscription"
	"github.com/flexprice/subscription-analytics/internal/types"
	"github.com/shopspring/decimal"
)

// Expansion estimation constants. There is no subscription change log to read
// prior values from, so prior MRR is inferred from the current state.
var (
	// UpgradeThreshold is the monthly value above which a subscription created in the
	// period is assumed to be an upgrade
	UpgradeThreshold = decimal.NewFromInt(50)
	// UpgradePriorFactor estimates the pre-upgrade MRR as a share of the current MRR
	UpgradePriorFactor = decimal.RequireFromString("0.6")
	// UpgradePriorFloor is the lowest pre-upgrade MRR the estimate may produce
	UpgradePriorFloor = decimal.NewFromInt(20)
)

type ExpansionParams struct {
	PeriodDays int    `json:"period_days"`
	Currency   string `json:"currency,omitempty"`
}

type ExpansionEvent struct {
	SubscriptionID string              `json:"subscription_id"`
	CustomerID     string              `json:"customer_id,omitempty"`
	Type           types.ExpansionType `json:"type"`
	PriceID        string              `json:"price_id,omitempty"`
	Quantity       int64               `json:"quantity,omitempty"`
	PreviousMRR    decimal.Decimal     `json:"previous_mrr"`
	CurrentMRR     decimal.Decimal     `json:"current_mrr"`
	ExpansionMRR   decimal.Decimal     `json:"expansion_mrr"`
}

type CustomerExpansion struct {
	CustomerID   string          `json:"customer_id"`
	ExpansionMRR decimal.Decimal `json:"expansion_mrr"`
	Events       int             `json:"events"`
}

type ExpansionResult struct {
	ExpansionMRR               decimal.Decimal     `json:"expansion_mrr"`
	StartingMRR                decimal.Decimal     `json:"starting_mrr"`
	ExpansionRate              decimal.Decimal     `json:"expansion_rate"`
	AverageExpansionPerUpgrade decimal.Decimal     `json:"average_expansion_per_upgrade"`
	TotalUpgrades              int                 `json:"total_upgrades"`
	UpgradeCount               int                 `json:"upgrade_count"`
	QuantityIncreaseCount      int                 `json:"quantity_increase_count"`
	CustomersWithExpansion     int                 `json:"customers_with_expansion"`
	Period                     Period              `json:"period"`
	Currency                   string              `json:"currency"`
	Events                     []ExpansionEvent    `json:"events"`
	CustomerBreakdown          []CustomerExpansion `json:"customer_breakdown"`
	// Heuristic is always true: figures are estimates, not ledger values
	Heuristic bool `json:"heuristic"`
}

// AnalyzeMRRExpansion estimates expansion MRR from the current snapshot.
//
// An active subscription created in the period worth more than UpgradeThreshold a
// month counts as an upgrade from max(current * UpgradePriorFactor, UpgradePriorFloor).
// Every billable line item with quantity above one counts as a quantity increase from
// quantity one. The result is a best-effort estimate.
func (c *Calculator) AnalyzeMRRExpansion(snapshot subscription.Snapshot, params ExpansionParams) (*ExpansionResult, error) {
	if err := requireData(snapshot); err != nil {
		return nil, err
	}

	days, err := resolveDays(params.PeriodDays, "period_days")
	if err != nil {
		return nil, err
	}
	period := c.period(days)

	active := FilterActive(snapshot, false, params.Currency)

	startingMRR := decimal.Zero
	events := make([]ExpansionEvent, 0)
	for _, sub := range active {
		current, err := CalculateSubscriptionMRR(sub)
		if err != nil {
			return nil, err
		}
		startingMRR = startingMRR.Add(current)

		if period.Contains(sub.CreatedAt()) && current.GreaterThan(UpgradeThreshold) {
			previous := round(decimal.Max(current.Mul(UpgradePriorFactor), UpgradePriorFloor))
			events = append(events, ExpansionEvent{
				SubscriptionID: sub.ID,
				CustomerID:     sub.Customer,
				Type:           types.ExpansionTypeUpgrade,
				PreviousMRR:    previous,
				CurrentMRR:     current,
				ExpansionMRR:   round(current.Sub(previous)),
			})
		}

		quantityEvents, err := quantityIncreases(sub)
		if err != nil {
			return nil, err
		}
		events = append(events, quantityEvents...)
	}

	expansionMRR := decimal.Zero
	upgrades := 0
	for _, event := range events {
		expansionMRR = expansionMRR.Add(event.ExpansionMRR)
		if event.Type == types.ExpansionTypeUpgrade {
			upgrades++
		}
	}
	expansionMRR = round(expansionMRR)
	startingMRR = round(startingMRR)

	averagePerUpgrade := decimal.Zero
	if len(events) > 0 {
		averagePerUpgrade = round(expansionMRR.Div(decimal.NewFromInt(int64(len(events)))))
	}

	customers := customerExpansion(events)

	return &ExpansionResult{
		ExpansionMRR:               expansionMRR,
		StartingMRR:                startingMRR,
		ExpansionRate:              percentOf(expansionMRR, startingMRR),
		AverageExpansionPerUpgrade: averagePerUpgrade,
		TotalUpgrades:              len(events),
		UpgradeCount:               upgrades,
		QuantityIncreaseCount:      len(events) - upgrades,
		CustomersWithExpansion:     len(customers),
		Period:                     period,
		Currency:                   reportedCurrency(params.Currency),
		Events:                     events,
		CustomerBreakdown:          customers,
		Heuristic:                  true,
	}, nil
}

// quantityIncreases records the value above quantity one of every multi-seat item
func quantityIncreases(sub *subscription.Subscription) ([]ExpansionEvent, error) {
	var events []ExpansionEvent
	for i := range sub.Items {
		item := &sub.Items[i]
		if item.Quantity <= 1 || !item.IsBillable() {
			continue
		}

		current, err := CalculateItemMRR(item, item.Quantity)
		if err != nil {
			return nil, err
		}
		previous, err := CalculateItemMRR(item, 1)
		if err != nil {
			return nil, err
		}

		events = append(events, ExpansionEvent{
			SubscriptionID: sub.ID,
			CustomerID:     sub.Customer,
			Type:           types.ExpansionTypeQuantityIncrease,
			PriceID:        item.Price.ID,
			Quantity:       item.Quantity,
			PreviousMRR:    previous,
			CurrentMRR:     current,
			ExpansionMRR:   round(current.Sub(previous)),
		})
	}
	return events, nil
}

// customerExpansion groups events by customer, largest expansion first
func customerExpansion(events []ExpansionEvent) []CustomerExpansion {
	byCustomer := make(map[string]*CustomerExpansion)
	for _, event := range events {
		if event.CustomerID == "" {
			continue
		}
		entry, ok := byCustomer[event.CustomerID]
		if !ok {
			entry = &CustomerExpansion{CustomerID: event.CustomerID, ExpansionMRR: decimal.Zero}
			byCustomer[event.CustomerID] = entry
		}
		entry.ExpansionMRR = entry.ExpansionMRR.Add(event.ExpansionMRR)
		entry.Events++
	}

	breakdown := make([]CustomerExpansion, 0, len(byCustomer))
	for _, entry := range byCustomer {
		breakdown = append(breakdown, *entry)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if !breakdown[i].ExpansionMRR.Equal(breakdown[j].ExpansionMRR) {
			return breakdown[i].ExpansionMRR.GreaterThan(breakdown[j].ExpansionMRR)
		}
		return breakdown[i].CustomerID < breakdown[j].CustomerID
	})
	return breakdown
}

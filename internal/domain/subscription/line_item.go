package subscription

import (
	"github.com/flexprice/subscription-analytics/internal/types"
	"github.com/shopspring/decimal"
)

// LineItem is one priced entry of a subscription
type LineItem struct {
	ID    string `json:"id,omitempty"`
	Price Price  `json:"price"`
	// Quantity of the price, zero means it was not supplied and counts as one
	Quantity int64 `json:"quantity" validate:"gte=0"`
}

// Price describes what a line item costs per unit
type Price struct {
	ID string `json:"id,omitempty"`
	// UnitAmount is in minor currency units. Nil for prices without a flat unit amount.
	UnitAmount *int64     `json:"unit_amount,omitempty" validate:"omitempty,gte=0"`
	Currency   string     `json:"currency,omitempty"`
	Recurring  *Recurring `json:"recurring,omitempty"`
}

// Recurring is the billing cadence of a price
type Recurring struct {
	Interval types.BillingInterval `json:"interval"`
	// IntervalCount zero means it was not supplied and counts as one
	IntervalCount int64 `json:"interval_count" validate:"gte=0"`
}

// EffectiveQuantity returns the quantity with the provider default applied
func (li *LineItem) EffectiveQuantity() int64 {
	if li.Quantity <= 0 {
		return 1
	}
	return li.Quantity
}

// IsBillable reports whether the item can contribute recurring revenue
func (li *LineItem) IsBillable() bool {
	return li.Price.UnitAmount != nil && li.Price.Recurring != nil
}

// PlanKey groups line items by price for plan breakdowns
func (li *LineItem) PlanKey() string {
	if li.Price.ID == "" {
		return "unknown"
	}
	return li.Price.ID
}

// MajorUnitAmount converts unit amount times quantity from minor to major units
func (li *LineItem) MajorUnitAmount(quantity int64) decimal.Decimal {
	if li.Price.UnitAmount == nil {
		return decimal.Zero
	}
	return decimal.NewFromInt(*li.Price.UnitAmount).
		Mul(decimal.NewFromInt(quantity)).
		Div(decimal.NewFromInt(100))
}

// EffectiveIntervalCount returns the interval count with the provider default applied
func (r *Recurring) EffectiveIntervalCount() int64 {
	if r.IntervalCount <= 0 {
		return 1
	}
	return r.IntervalCount
}

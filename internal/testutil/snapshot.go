package testutil

import (
	"time"

	"github.com/flexprice/subscription-analytics/internal/domain/subscription"
	"github.com/flexprice/subscription-analytics/internal/types"
	"github.com/samber/lo"
)

// SubscriptionBuilder builds subscription records for tests
type SubscriptionBuilder struct {
	sub *subscription.Subscription
}

// NewSubscription starts an active subscription with no items created at the epoch
func NewSubscription(id string) *SubscriptionBuilder {
	return &SubscriptionBuilder{
		sub: &subscription.Subscription{
			ID:     id,
			Status: types.SubscriptionStatusActive,
			Items:  []subscription.LineItem{},
		},
	}
}

func (b *SubscriptionBuilder) WithStatus(status types.SubscriptionStatus) *SubscriptionBuilder {
	b.sub.Status = status
	return b
}

func (b *SubscriptionBuilder) WithCustomer(customer string) *SubscriptionBuilder {
	b.sub.Customer = customer
	return b
}

func (b *SubscriptionBuilder) CreatedAt(t time.Time) *SubscriptionBuilder {
	b.sub.Created = t.Unix()
	return b
}

// CanceledAt marks the subscription canceled at t
func (b *SubscriptionBuilder) CanceledAt(t time.Time) *SubscriptionBuilder {
	b.sub.Status = types.SubscriptionStatusCanceled
	b.sub.CanceledAt = lo.ToPtr(t.Unix())
	return b
}

// AtPeriodEnd flags the cancellation as scheduled for the end of the period
func (b *SubscriptionBuilder) AtPeriodEnd() *SubscriptionBuilder {
	b.sub.CancelAtPeriodEnd = true
	return b
}

func (b *SubscriptionBuilder) WithItem(item subscription.LineItem) *SubscriptionBuilder {
	b.sub.Items = append(b.sub.Items, item)
	return b
}

// WithMonthlyItem adds a monthly price of unitAmount minor units
func (b *SubscriptionBuilder) WithMonthlyItem(currency string, unitAmount int64, quantity int64) *SubscriptionBuilder {
	return b.WithItem(RecurringItem("", currency, unitAmount, types.BillingIntervalMonth, 1, quantity))
}

func (b *SubscriptionBuilder) Build() *subscription.Subscription {
	return b.sub
}

// RecurringItem builds a line item with a recurring price
func RecurringItem(priceID, currency string, unitAmount int64, interval types.BillingInterval, intervalCount, quantity int64) subscription.LineItem {
	return subscription.LineItem{
		Price: subscription.Price{
			ID:         priceID,
			UnitAmount: lo.ToPtr(unitAmount),
			Currency:   currency,
			Recurring: &subscription.Recurring{
				Interval:      interval,
				IntervalCount: intervalCount,
			},
		},
		Quantity: quantity,
	}
}

// OneTimeItem builds a line item without a recurring descriptor
func OneTimeItem(priceID, currency string, unitAmount int64) subscription.LineItem {
	return subscription.LineItem{
		Price: subscription.Price{
			ID:         priceID,
			UnitAmount: lo.ToPtr(unitAmount),
			Currency:   currency,
		},
		Quantity: 1,
	}
}

// Snapshot collects builders into a snapshot
func Snapshot(builders ...*SubscriptionBuilder) subscription.Snapshot {
	return lo.Map(builders, func(b *SubscriptionBuilder, _ int) *subscription.Subscription {
		return b.Build()
	})
}

// RoundTripSnapshot is an active monthly, an active yearly, a trialing and a
// canceled subscription, all in usd
func RoundTripSnapshot(now time.Time) subscription.Snapshot {
	created := now.AddDate(0, -6, 0)
	return Snapshot(
		NewSubscription("sub_monthly").WithCustomer("cus_1").CreatedAt(created).
			WithMonthlyItem("usd", 2000, 1),
		NewSubscription("sub_yearly").WithCustomer("cus_2").CreatedAt(created).
			WithItem(RecurringItem("price_yearly", "usd", 24000, types.BillingIntervalYear, 1, 1)),
		NewSubscription("sub_trial").WithCustomer("cus_3").CreatedAt(created).
			WithStatus(types.SubscriptionStatusTrialing).
			WithMonthlyItem("usd", 1000, 1),
		NewSubscription("sub_canceled").WithCustomer("cus_4").CreatedAt(created).
			CanceledAt(now.AddDate(0, 0, -3)).
			WithMonthlyItem("usd", 1500, 1),
	)
}

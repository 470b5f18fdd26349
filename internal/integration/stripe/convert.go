package stripe

import (
	"github.com/flexprice/subscription-analytics/internal/domain/subscription"
	"github.com/flexprice/subscription-analytics/internal/types"
	"github.com/stripe/stripe-go/v82"
)

// ToSubscription maps a Stripe subscription onto the snapshot record.
// Tiered prices carry no flat unit amount and map to a nil UnitAmount.
func ToSubscription(s *stripe.Subscription) *subscription.Subscription {
	if s == nil {
		return nil
	}

	sub := &subscription.Subscription{
		ID:                s.ID,
		Status:            types.SubscriptionStatus(s.Status),
		Created:           s.Created,
		CancelAtPeriodEnd: s.CancelAtPeriodEnd,
		Items:             []subscription.LineItem{},
	}
	if s.Customer != nil {
		sub.Customer = s.Customer.ID
	}
	if s.CanceledAt > 0 {
		canceledAt := s.CanceledAt
		sub.CanceledAt = &canceledAt
	}

	if s.Items == nil {
		return sub
	}
	for _, item := range s.Items.Data {
		if item == nil {
			continue
		}
		sub.Items = append(sub.Items, toLineItem(item))
	}
	return sub
}

func toLineItem(item *stripe.SubscriptionItem) subscription.LineItem {
	li := subscription.LineItem{
		ID:       item.ID,
		Quantity: item.Quantity,
	}

	price := item.Price
	if price == nil {
		return li
	}

	li.Price = subscription.Price{
		ID:       price.ID,
		Currency: string(price.Currency),
	}
	if price.BillingScheme != stripe.PriceBillingSchemeTiered {
		unitAmount := price.UnitAmount
		li.Price.UnitAmount = &unitAmount
	}
	if price.Recurring != nil {
		li.Price.Recurring = &subscription.Recurring{
			Interval:      types.BillingInterval(price.Recurring.Interval),
			IntervalCount: price.Recurring.IntervalCount,
		}
	}
	return li
}

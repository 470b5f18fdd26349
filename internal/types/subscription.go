package types

import (
	ierr "github.com/flexprice/subscription-analytics/internal/errors"
	"github.com/samber/lo"
)

// SubscriptionStatus is the status of a subscription as reported by the billing provider
// https://stripe.com/docs/api/subscriptions/object#subscription_object-status
type SubscriptionStatus string

const (
	SubscriptionStatusActive            SubscriptionStatus = "active"
	SubscriptionStatusPastDue           SubscriptionStatus = "past_due"
	SubscriptionStatusUnpaid            SubscriptionStatus = "unpaid"
	SubscriptionStatusCanceled          SubscriptionStatus = "canceled"
	SubscriptionStatusIncomplete        SubscriptionStatus = "incomplete"
	SubscriptionStatusIncompleteExpired SubscriptionStatus = "incomplete_expired"
	SubscriptionStatusTrialing          SubscriptionStatus = "trialing"
	SubscriptionStatusPaused            SubscriptionStatus = "paused"
)

// SubscriptionStatuses lists every status in the order reports display them
var SubscriptionStatuses = []SubscriptionStatus{
	SubscriptionStatusActive,
	SubscriptionStatusPastDue,
	SubscriptionStatusUnpaid,
	SubscriptionStatusCanceled,
	SubscriptionStatusIncomplete,
	SubscriptionStatusIncompleteExpired,
	SubscriptionStatusTrialing,
	SubscriptionStatusPaused,
}

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) Validate() error {
	if !lo.Contains(SubscriptionStatuses, s) {
		return ierr.NewError("invalid subscription status").
			WithHint("Invalid subscription status").
			WithReportableDetails(map[string]any{
				"status":         s,
				"allowed_status": SubscriptionStatuses,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ActiveSubscriptionStatuses returns the statuses that count towards recurring revenue.
// Trialing subscriptions are only included when asked for.
func ActiveSubscriptionStatuses(includeTrials bool) []SubscriptionStatus {
	statuses := []SubscriptionStatus{
		SubscriptionStatusActive,
		SubscriptionStatusPastDue,
	}
	if includeTrials {
		statuses = append(statuses, SubscriptionStatusTrialing)
	}
	return statuses
}

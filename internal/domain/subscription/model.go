package subscription

import (
	"encoding/json"
	"time"

	"github.com/flexprice/subscription-analytics/internal/types"
)

// Subscription is a billing provider subscription as supplied in a snapshot.
// Records are read-only for the duration of a calculation.
type Subscription struct {
	// ID is the provider identifier, unique within a snapshot
	ID string `json:"id" validate:"required"`

	// Status is the provider status of the subscription
	Status types.SubscriptionStatus `json:"status" validate:"required"`

	// Customer is the provider customer identifier. A customer may hold
	// several subscriptions and the field may be empty.
	Customer string `json:"customer,omitempty"`

	// Created is the creation instant in seconds since epoch
	Created int64 `json:"created" validate:"gte=0"`

	// CanceledAt is the cancellation instant in seconds since epoch
	CanceledAt *int64 `json:"canceled_at,omitempty" validate:"omitempty,gte=0"`

	// CancelAtPeriodEnd is set when the cancellation was scheduled for the end of the period
	CancelAtPeriodEnd bool `json:"cancel_at_period_end"`

	Items []LineItem `json:"items" validate:"dive"`
}

// Snapshot is the in-memory set of subscriptions a calculation runs over
type Snapshot []*Subscription

// CreatedAt returns the creation instant in UTC
func (s *Subscription) CreatedAt() time.Time {
	return time.Unix(s.Created, 0).UTC()
}

// CanceledAtTime returns the cancellation instant in UTC, nil when not canceled
func (s *Subscription) CanceledAtTime() *time.Time {
	if s.CanceledAt == nil {
		return nil
	}
	t := time.Unix(*s.CanceledAt, 0).UTC()
	return &t
}

// HasCustomer reports whether the subscription carries a customer identifier
func (s *Subscription) HasCustomer() bool {
	return s.Customer != ""
}

// subscriptionJSON mirrors Subscription with the fields that have more than one wire shape
type subscriptionJSON struct {
	ID                string                   `json:"id"`
	Status            types.SubscriptionStatus `json:"status"`
	Customer          json.RawMessage          `json:"customer,omitempty"`
	Created           int64                    `json:"created"`
	CanceledAt        *int64                   `json:"canceled_at,omitempty"`
	CancelAtPeriodEnd bool                     `json:"cancel_at_period_end"`
	Items             json.RawMessage          `json:"items,omitempty"`
}

// UnmarshalJSON accepts the flat shape as well as the Stripe API shape where
// items is a list object ({"data": [...]}) and customer may be expanded.
func (s *Subscription) UnmarshalJSON(data []byte) error {
	var raw subscriptionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	customer, err := decodeCustomer(raw.Customer)
	if err != nil {
		return err
	}

	items, err := decodeItems(raw.Items)
	if err != nil {
		return err
	}

	*s = Subscription{
		ID:                raw.ID,
		Status:            raw.Status,
		Customer:          customer,
		Created:           raw.Created,
		CanceledAt:        raw.CanceledAt,
		CancelAtPeriodEnd: raw.CancelAtPeriodEnd,
		Items:             items,
	}
	return nil
}

func decodeCustomer(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id, nil
	}

	var expanded struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &expanded); err != nil {
		return "", err
	}
	return expanded.ID, nil
}

func decodeItems(raw json.RawMessage) ([]LineItem, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []LineItem{}, nil
	}

	var items []LineItem
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}

	var list struct {
		Data []LineItem `json:"data"`
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	if list.Data == nil {
		return []LineItem{}, nil
	}
	return list.Data, nil
}

package stripe

import (
	"context"

	"github.com/flexprice/subscription-analytics/internal/config"
	ierr "github.com/flexprice/subscription-analytics/internal/errors"
	"github.com/stripe/stripe-go/v82"
)

// SubscriptionLister lists subscriptions page by page. *stripe.Client satisfies it
// through its V1Subscriptions service.
type SubscriptionLister interface {
	List(ctx context.Context, params *stripe.SubscriptionListParams) stripe.Seq2[*stripe.Subscription, error]
}

// NewStripeClient returns a Stripe API client for the configured secret key
func NewStripeClient(cfg *config.Configuration) (*stripe.Client, error) {
	if !cfg.Stripe.Enabled() {
		return nil, ierr.NewError("stripe secret key is not configured").
			WithHint("Set stripe.secret_key to read subscriptions from Stripe").
			Mark(ierr.ErrInvalidOperation)
	}
	return stripe.NewClient(cfg.Stripe.SecretKey, nil), nil
}

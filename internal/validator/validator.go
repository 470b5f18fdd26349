package validator

import (
	"fmt"

	"github.com/flexprice/subscription-analytics/internal/domain/subscription"
	ierr "github.com/flexprice/subscription-analytics/internal/errors"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func NewValidator() *validator.Validate {
	validate = validator.New()
	return validate
}

func GetValidator() *validator.Validate {
	return validate
}

func ValidateRequest(req interface{}) error {
	if validate == nil {
		return ierr.NewError("validator not initialized").
			WithHint("Validator must be initialized before using it").
			Mark(ierr.ErrSystem)
	}

	if err := validate.Struct(req); err != nil {
		details := make(map[string]any)
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			for _, err := range validateErrs {
				details[err.Field()] = err.Error()
			}
		}
		return ierr.WithError(err).
			WithHint("Request validation failed").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ValidateSnapshot rejects malformed subscription records before they reach a calculator.
// Missing unit amounts, recurring descriptors and customers are allowed; an empty
// snapshot fails with ErrNoDataProvided and an unknown interval with ErrUnsupportedInterval.
func ValidateSnapshot(snapshot subscription.Snapshot) error {
	if len(snapshot) == 0 {
		return ierr.NewError("subscription snapshot is empty").
			WithHint("No subscription data provided. Supply at least one subscription").
			Mark(ierr.ErrNoDataProvided)
	}

	seen := make(map[string]int, len(snapshot))
	for i, sub := range snapshot {
		if sub == nil {
			return ierr.NewErrorf("subscription at index %d is null", i).
				WithHint("Subscription records must not be null").
				WithReportableDetails(map[string]any{"index": i}).
				Mark(ierr.ErrValidation)
		}

		if err := ValidateRequest(sub); err != nil {
			return ierr.WithError(err).
				WithMessage(fmt.Sprintf("subscription at index %d", i)).
				WithReportableDetails(map[string]any{
					"index":           i,
					"subscription_id": sub.ID,
				}).
				Mark(ierr.ErrValidation)
		}

		if err := sub.Status.Validate(); err != nil {
			return ierr.WithError(err).
				WithReportableDetails(map[string]any{
					"index":           i,
					"subscription_id": sub.ID,
				}).
				Mark(ierr.ErrValidation)
		}

		if prev, ok := seen[sub.ID]; ok {
			return ierr.NewErrorf("duplicate subscription id %s", sub.ID).
				WithHint("Subscription ids must be unique within a snapshot").
				WithReportableDetails(map[string]any{
					"subscription_id": sub.ID,
					"first_index":     prev,
					"duplicate_index": i,
				}).
				Mark(ierr.ErrValidation)
		}
		seen[sub.ID] = i

		for j, item := range sub.Items {
			if item.Price.Recurring == nil {
				continue
			}
			if err := item.Price.Recurring.Interval.Validate(); err != nil {
				return ierr.WithError(err).
					WithReportableDetails(map[string]any{
						"subscription_id": sub.ID,
						"item_index":      j,
					}).
					Mark(ierr.ErrUnsupportedInterval)
			}
		}
	}

	return nil
}

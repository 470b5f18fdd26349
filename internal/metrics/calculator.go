package metrics

import (
	"time"

	"github.com/flexprice/subscription-analytics/internal/domain/subscription"
	ierr "github.com/flexprice/subscription-analytics/internal/errors"
)

// DefaultPeriodDays is used when a period or growth window is not given
const DefaultPeriodDays = 30

// Calculator runs metric calculations against a snapshot.
// It is immutable once built and safe for concurrent use.
type Calculator struct {
	now func() time.Time
}

// Option configures a Calculator
type Option func(*Calculator)

// WithClock sets the function used to read the current time
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) {
		if now != nil {
			c.now = now
		}
	}
}

// WithNow pins the current time, used to reproduce a report
func WithNow(t time.Time) Option {
	return WithClock(func() time.Time { return t })
}

func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Now returns the instant calculations treat as the end of every period
func (c *Calculator) Now() time.Time {
	return c.now().UTC()
}

// Period is a closed time window ending at the calculator's now
type Period struct {
	Days  int       `json:"days"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies within [Start, End]
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

func (c *Calculator) period(days int) Period {
	end := c.Now()
	return Period{
		Days:  days,
		Start: end.AddDate(0, 0, -days),
		End:   end,
	}
}

// resolveDays applies the default to a zero window and rejects negative ones
func resolveDays(days int, field string) (int, error) {
	if days == 0 {
		return DefaultPeriodDays, nil
	}
	if days < 0 {
		return 0, ierr.NewErrorf("%s must be positive", field).
			WithHintf("%s must be a positive number of days", field).
			WithReportableDetails(map[string]any{field: days}).
			Mark(ierr.ErrValidation)
	}
	return days, nil
}

func requireData(snapshot subscription.Snapshot) error {
	if len(snapshot) == 0 {
		return ierr.NewError("subscription snapshot is empty").
			WithHint("No subscription data provided. Supply at least one subscription").
			Mark(ierr.ErrNoDataProvided)
	}
	return nil
}

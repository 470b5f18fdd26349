package types

import (
	"fmt"

	ierr "github.com/flexprice/subscription-analytics/internal/errors"
	"github.com/samber/lo"
)

// BillingInterval is the recurring interval of a price ex day, week, month, year
type BillingInterval string

const (
	BillingIntervalDay   BillingInterval = "day"
	BillingIntervalWeek  BillingInterval = "week"
	BillingIntervalMonth BillingInterval = "month"
	BillingIntervalYear  BillingInterval = "year"
)

var BillingIntervals = []BillingInterval{
	BillingIntervalDay,
	BillingIntervalWeek,
	BillingIntervalMonth,
	BillingIntervalYear,
}

func (i BillingInterval) String() string {
	return string(i)
}

// Validate fails with ErrUnsupportedInterval for anything outside day, week, month and year
func (i BillingInterval) Validate() error {
	if !lo.Contains(BillingIntervals, i) {
		return ierr.NewError("unsupported billing interval").
			WithHintf("Unsupported billing interval %q", string(i)).
			WithReportableDetails(map[string]any{
				"interval":          i,
				"allowed_intervals": BillingIntervals,
			}).
			Mark(ierr.ErrUnsupportedInterval)
	}
	return nil
}

// Label renders the interval with its count ex "month", "3 months"
func (i BillingInterval) Label(count int64) string {
	if count <= 1 {
		return string(i)
	}
	return fmt.Sprintf("%d %ss", count, i)
}

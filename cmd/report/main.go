package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/flexprice/subscription-analytics/internal/domain/subscription"
	ierr "github.com/flexprice/subscription-analytics/internal/errors"
	"github.com/flexprice/subscription-analytics/internal/metrics"
	"github.com/flexprice/subscription-analytics/internal/validator"
	jsoniter "github.com/json-iterator/go"
	"github.com/k0kubun/pp"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type options struct {
	file          string
	currency      string
	includeTrials bool
	periodDays    int
	jsonOutput    bool
}

func main() {
	var opts options
	flag.StringVar(&opts.file, "file", "", "Path to a JSON subscription snapshot, - for stdin (required)")
	flag.StringVar(&opts.currency, "currency", "", "Only count subscriptions with an item in this currency")
	flag.BoolVar(&opts.includeTrials, "trials", false, "Count trialing subscriptions as active")
	flag.IntVar(&opts.periodDays, "period", 30, "Churn, expansion and growth window in days")
	flag.BoolVar(&opts.jsonOutput, "json", false, "Print the summary as JSON")
	flag.Parse()

	if opts.file == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "report failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	snapshot, err := readSnapshot(opts.file)
	if err != nil {
		return err
	}

	validator.NewValidator()
	if err := validator.ValidateSnapshot(snapshot); err != nil {
		return err
	}

	summary, err := metrics.NewCalculator().Summarize(ctx, snapshot, metrics.SummaryParams{
		IncludeTrialSubscriptions: opts.includeTrials,
		Currency:                  opts.currency,
		PeriodDays:                opts.periodDays,
	})
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	pp.ColoringEnabled = false
	_, err = pp.Fprintln(out, summary)
	return err
}

func readSnapshot(path string) (subscription.Snapshot, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Could not read snapshot file %s", path).
			Mark(ierr.ErrValidation)
	}

	return parseSnapshot(data)
}

// parseSnapshot accepts a bare array of subscriptions or a Stripe list object
func parseSnapshot(data []byte) (subscription.Snapshot, error) {
	trimmed := strings.TrimSpace(string(data))

	var snapshot subscription.Snapshot
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &snapshot); err != nil {
			return nil, invalidSnapshot(err)
		}
		return snapshot, nil
	}

	var list struct {
		Data subscription.Snapshot `json:"data"`
	}
	if err := json.Unmarshal([]byte(trimmed), &list); err != nil {
		return nil, invalidSnapshot(err)
	}
	return list.Data, nil
}

func invalidSnapshot(err error) error {
	return ierr.WithError(err).
		WithHint("Snapshot must be a JSON array of subscriptions or an object with a data array").
		Mark(ierr.ErrValidation)
}

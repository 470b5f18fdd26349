package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	ierr "github.com/flexprice/subscription-analytics/internal/errors"
	"github.com/flexprice/subscription-analytics/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flatSnapshot = `[
	{"id": "sub_1", "status": "active", "customer": "cus_1", "created": 1700000000,
	 "items": [{"price": {"id": "price_m", "unit_amount": 2000, "currency": "usd",
	   "recurring": {"interval": "month", "interval_count": 1}}, "quantity": 1}]},
	{"id": "sub_2", "status": "active", "customer": "cus_2", "created": 1700000000,
	 "items": [{"price": {"id": "price_y", "unit_amount": 24000, "currency": "usd",
	   "recurring": {"interval": "year", "interval_count": 1}}, "quantity": 1}]}
]`

const stripeListSnapshot = `{"object": "list", "data": [
	{"id": "sub_1", "status": "active", "customer": {"id": "cus_1"}, "created": 1700000000,
	 "items": {"object": "list", "data": [{"price": {"id": "price_m", "unit_amount": 2000,
	   "currency": "usd", "recurring": {"interval": "month", "interval_count": 1}}, "quantity": 2}]}}
]}`

func TestParseSnapshot(t *testing.T) {
	snapshot, err := parseSnapshot([]byte(flatSnapshot))
	require.NoError(t, err)
	require.Len(t, snapshot, 2)
	assert.Equal(t, "cus_2", snapshot[1].Customer)

	snapshot, err = parseSnapshot([]byte(stripeListSnapshot))
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "cus_1", snapshot[0].Customer)
	assert.Equal(t, int64(2), snapshot[0].Items[0].Quantity)

	_, err = parseSnapshot([]byte("not json"))
	assert.True(t, ierr.IsValidation(err))
}

func TestRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(flatSnapshot), 0o600))

	var out bytes.Buffer
	err := run(context.Background(), options{file: path, periodDays: 30, jsonOutput: true}, &out)
	require.NoError(t, err)

	var summary metrics.SummaryResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Equal(t, "40", summary.MRR.TotalMRR.String())
	assert.Equal(t, 2, summary.MRR.SubscriptionCount)

	out.Reset()
	err = run(context.Background(), options{file: path, periodDays: 30}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "TotalMRR")
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()

	err := run(context.Background(), options{file: filepath.Join(dir, "missing.json")}, &bytes.Buffer{})
	assert.True(t, ierr.IsValidation(err))

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("[]"), 0o600))
	err = run(context.Background(), options{file: empty}, &bytes.Buffer{})
	assert.True(t, ierr.IsNoDataProvided(err))

	negative := filepath.Join(dir, "snapshot.json")
	require.NoError(t, os.WriteFile(negative, []byte(flatSnapshot), 0o600))
	err = run(context.Background(), options{file: negative, periodDays: -1}, &bytes.Buffer{})
	assert.True(t, ierr.IsValidation(err))
}

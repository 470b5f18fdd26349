package explainer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/flexprice/subscription-analytics/internal/config"
	ierr "github.com/flexprice/subscription-analytics/internal/errors"
	"github.com/flexprice/subscription-analytics/internal/httpclient"
	"github.com/flexprice/subscription-analytics/internal/logger"
	"github.com/flexprice/subscription-analytics/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string, enabled bool) *Client {
	cfg := config.GetDefaultConfig()
	cfg.Explainer.Enabled = enabled
	cfg.Explainer.BaseURL = baseURL
	cfg.Explainer.APIKey = "sk-test"
	cfg.Explainer.Model = "test-model"

	httpClient := httpclient.NewDefaultClient(httpclient.ClientConfig{
		Timeout:      time.Second,
		MaxRetries:   2,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
	}, logger.NewNoopLogger())
	return NewClientWithHTTP(cfg, httpClient, logger.NewNoopLogger())
}

func TestExplain(t *testing.T) {
	var captured chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  MRR is 40.00 usd.  "}}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL+"/v1/", true)
	got, err := client.Explain(context.Background(), types.MetricTypeMRR, map[string]interface{}{"total_mrr": "40"})
	require.NoError(t, err)
	assert.Equal(t, "MRR is 40.00 usd.", got)

	assert.Equal(t, "test-model", captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Contains(t, captured.Messages[1].Content, "Metric: mrr")
	assert.Contains(t, captured.Messages[1].Content, `"total_mrr": "40"`)
}

func TestExplain_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer server.Close()

	got, err := newTestClient(server.URL, true).Explain(context.Background(), types.MetricTypeChurnRate, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestExplain_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "client error", status: http.StatusUnauthorized, body: `{"error":"bad key"}`},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`},
		{name: "malformed body", status: http.StatusOK, body: `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			got, err := newTestClient(server.URL, true).Explain(context.Background(), types.MetricTypeLTV, struct{}{})
			require.Error(t, err)
			assert.Empty(t, got)
			assert.True(t, ierr.IsHTTPClient(err))
		})
	}
}

func TestExplain_Disabled(t *testing.T) {
	client := newTestClient("http://127.0.0.1:0", false)
	assert.False(t, client.Enabled())

	got, err := client.Explain(context.Background(), types.MetricTypeMRR, struct{}{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

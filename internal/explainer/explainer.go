// Package explainer turns a structured metric result into a short plain-language
// narrative using an OpenAI-compatible chat completions endpoint.
package explainer

import (
	"context"
	"strings"

	"github.com/flexprice/subscription-analytics/internal/config"
	ierr "github.com/flexprice/subscription-analytics/internal/errors"
	"github.com/flexprice/subscription-analytics/internal/httpclient"
	"github.com/flexprice/subscription-analytics/internal/logger"
	"github.com/flexprice/subscription-analytics/internal/types"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const systemPrompt = "You are a subscription analytics assistant. " +
	"Explain the metric result you are given to a business audience in at most four sentences. " +
	"Quote the figures exactly as given, including the currency, and mention when a value is capped or estimated. " +
	"Do not invent numbers."

// Explainer describes metric results in prose
type Explainer interface {
	Enabled() bool
	Explain(ctx context.Context, metric types.MetricType, result interface{}) (string, error)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Client calls the configured chat completions endpoint
type Client struct {
	http   httpclient.Client
	cfg    config.ExplainerConfig
	logger *logger.Logger
}

var _ Explainer = (*Client)(nil)

func NewClient(cfg *config.Configuration, logger *logger.Logger) *Client {
	return NewClientWithHTTP(cfg, httpclient.NewDefaultClient(httpclient.ClientConfig{
		Timeout:    cfg.Explainer.Timeout,
		MaxRetries: cfg.Explainer.MaxRetries,
	}, logger), logger)
}

// NewClientWithHTTP builds a client on top of an existing http client
func NewClientWithHTTP(cfg *config.Configuration, httpClient httpclient.Client, logger *logger.Logger) *Client {
	return &Client{
		http:   httpClient,
		cfg:    cfg.Explainer,
		logger: logger,
	}
}

func (c *Client) Enabled() bool {
	return c.cfg.Enabled
}

// Explain returns the model's narrative for result. A disabled explainer returns
// an empty string and no error.
func (c *Client) Explain(ctx context.Context, metric types.MetricType, result interface{}) (string, error) {
	if !c.Enabled() {
		return "", nil
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Metric result could not be serialized").
			Mark(ierr.ErrSystem)
	}

	body, err := json.Marshal(chatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Metric: " + string(metric) + "\nResult:\n" + string(payload)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Explanation request could not be serialized").
			Mark(ierr.ErrSystem)
	}

	headers := map[string]string{}
	if c.cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + c.cfg.APIKey
	}

	resp, err := c.http.Send(ctx, &httpclient.Request{
		Method:  "POST",
		URL:     strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions",
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		c.logger.Warnw("explanation request failed",
			"metric", metric,
			"model", c.cfg.Model,
			"error", err,
		)
		return "", err
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(resp.Body, &completion); err != nil {
		return "", ierr.WithError(err).
			WithHint("Explanation response could not be parsed").
			Mark(ierr.ErrHTTPClient)
	}
	if len(completion.Choices) == 0 {
		return "", ierr.NewError("explanation response has no choices").
			WithHint("The explanation service returned an empty answer").
			Mark(ierr.ErrHTTPClient)
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

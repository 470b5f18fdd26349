package testutil

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/flexprice/subscription-analytics/internal/httpclient"
)

// MockHTTPClient implements httpclient.Client with canned responses per URL
type MockHTTPClient struct {
	mu       sync.RWMutex
	routes   map[string]MockResponse
	requests []*httpclient.Request
}

// MockResponse represents a mock HTTP response
type MockResponse struct {
	StatusCode int
	Body       []byte
	Headers    map[string]string
}

// NewMockHTTPClient creates a new mock HTTP client
func NewMockHTTPClient() *MockHTTPClient {
	return &MockHTTPClient{
		routes: make(map[string]MockResponse),
	}
}

// RegisterResponse registers a mock response for a given URL
func (m *MockHTTPClient) RegisterResponse(url string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[url] = resp
}

// RegisterChatCompletion answers url with a single chat completion choice
func (m *MockHTTPClient) RegisterChatCompletion(url, content string) {
	m.RegisterResponse(url, MockResponse{
		StatusCode: http.StatusOK,
		Body:       []byte(`{"choices":[{"message":{"role":"assistant","content":` + quote(content) + `}}]}`),
		Headers:    map[string]string{"Content-Type": "application/json"},
	})
}

// Send implements the httpclient.Client interface
func (m *MockHTTPClient) Send(_ context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	resp, ok := m.routes[req.URL]
	m.mu.Unlock()

	if !ok {
		return nil, httpclient.NewError(http.StatusNotFound, []byte("no mock registered for "+req.URL))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, httpclient.NewError(resp.StatusCode, resp.Body)
	}

	return &httpclient.Response{
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
		Headers:    resp.Headers,
	}, nil
}

// Requests returns every request sent so far
func (m *MockHTTPClient) Requests() []*httpclient.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*httpclient.Request{}, m.requests...)
}

func quote(s string) string {
	return strconv.Quote(s)
}

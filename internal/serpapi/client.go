// Package serpapi queries the SerpAPI Google engine for Duke-related web
// results and distills the raw response into a compact structure the
// composer model can ground its answers in.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/corpix/uarand"

	apperrors "github.com/dukebot/dukebot-go/internal/errors"
	"github.com/dukebot/dukebot-go/internal/logger"
	"github.com/dukebot/dukebot-go/internal/metrics"
)

const (
	searchBaseURL = "https://serpapi.com/search.json"

	// resultCount is the num parameter sent to the engine.
	resultCount = "10"
)

// Client is a SerpAPI search client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logger.Logger
	metrics    *metrics.Metrics
}

// Option customizes a Client.
type Option func(*Client)

// WithTransport replaces the underlying HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.httpClient.Transport = rt }
}

// WithBaseURL overrides the search endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// NewClient creates a SerpAPI client. m may be nil.
func NewClient(apiKey string, timeout time.Duration, log *logger.Logger, m *metrics.Metrics, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL: searchBaseURL,
		apiKey:  apiKey,
		logger:  log.WithModule("serpapi"),
		metrics: m,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// searchURL builds the SerpAPI request URL for a query.
func (c *Client) searchURL(query string) string {
	return c.baseURL + "?q=" + url.QueryEscape(query) +
		"&engine=google&num=" + resultCount +
		"&api_key=" + url.QueryEscape(c.apiKey)
}

// Search runs a Google search and returns the parsed raw response.
func (c *Client) Search(ctx context.Context, query string) (*RawResponse, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record("transport_error", start)
		c.logger.WithError(err).Warn("search request failed")
		return nil, apperrors.NewAPIError(c.baseURL, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.record(fmt.Sprintf("%d", resp.StatusCode), start)
		return nil, apperrors.NewAPIError(c.baseURL, resp.StatusCode,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.record("read_error", start)
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var raw RawResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		c.record("parse_error", start)
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	c.record("200", start)
	c.logger.WithFields(map[string]any{
		"query":       query,
		"organic":     len(raw.OrganicResults),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("search completed")

	return &raw, nil
}

// FetchPage fetches an arbitrary page for content extraction.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", uarand.GetRandom())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewAPIError(pageURL, 0, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, apperrors.NewAPIError(pageURL, resp.StatusCode,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	return resp.Body, nil
}

func (c *Client) record(status string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordUpstreamRequest("serpapi", status, time.Since(start).Seconds())
}

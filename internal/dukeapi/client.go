// Package dukeapi wraps the Duke public data APIs: the calendar feed, the
// curriculum streamer, and the people directory. All calls are synchronous
// GETs with a bounded timeout; upstream failures surface as typed errors for
// the tool layer to stringify.
package dukeapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/corpix/uarand"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/dukebot/dukebot-go/internal/errors"
	"github.com/dukebot/dukebot-go/internal/logger"
	"github.com/dukebot/dukebot-go/internal/metrics"
)

// Client is an HTTP client for the Duke upstream APIs.
// Identical in-flight GETs are deduplicated with singleflight so a burst of
// the same question does not hammer the upstream.
type Client struct {
	httpClient  *http.Client
	accessToken string
	logger      *logger.Logger
	metrics     *metrics.Metrics
	group       singleflight.Group
}

// Option customizes a Client.
type Option func(*Client)

// WithTransport replaces the underlying HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.httpClient.Transport = rt }
}

// NewClient creates a Duke API client. accessToken is the streamer.oit.duke.edu
// access token; calendar requests do not use it. m may be nil.
func NewClient(accessToken string, timeout time.Duration, log *logger.Logger, m *metrics.Metrics, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		accessToken: accessToken,
		logger:      log.WithModule("dukeapi"),
		metrics:     m,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches a URL and returns the response body.
// endpoint is the metric label for the upstream ("events", "curriculum", ...).
// Non-200 responses return an *errors.APIError carrying the status code.
func (c *Client) Get(ctx context.Context, rawURL, endpoint string) ([]byte, error) {
	result, err, shared := c.group.Do(rawURL, func() (any, error) {
		return c.get(ctx, rawURL, endpoint)
	})
	if shared && c.metrics != nil {
		c.metrics.RecordSingleflightDedup(endpoint)
	}
	if err != nil {
		return nil, err
	}
	body, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected singleflight result type %T", result)
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, rawURL, endpoint string) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", uarand.GetRandom())
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(endpoint, "transport_error", start)
		c.logger.WithError(err).WithField("endpoint", endpoint).Warn("upstream request failed")
		return nil, apperrors.NewAPIError(rawURL, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.record(endpoint, fmt.Sprintf("%d", resp.StatusCode), start)
		c.logger.WithFields(map[string]any{
			"endpoint": endpoint,
			"status":   resp.StatusCode,
		}).Warn("upstream returned non-200")
		statusErr := fmt.Errorf("unexpected status %d", resp.StatusCode)
		if resp.StatusCode == http.StatusNotFound {
			statusErr = apperrors.ErrNotFound
		}
		return nil, apperrors.NewAPIError(rawURL, resp.StatusCode, statusErr)
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			c.record(endpoint, "decode_error", start)
			return nil, fmt.Errorf("failed to decompress gzip: %w", err)
		}
		defer func() { _ = gzipReader.Close() }()
		reader = gzipReader
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		c.record(endpoint, "read_error", start)
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.record(endpoint, "200", start)
	c.logger.WithFields(map[string]any{
		"endpoint":    endpoint,
		"bytes":       len(body),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("upstream request completed")

	return body, nil
}

func (c *Client) record(endpoint, status string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordUpstreamRequest(endpoint, status, time.Since(start).Seconds())
}

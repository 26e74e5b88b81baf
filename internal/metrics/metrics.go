package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Upstream API metrics
	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamDurationSeconds *prometheus.HistogramVec

	// Chat metrics
	ChatRequestsTotal   *prometheus.CounterVec
	ChatDurationSeconds prometheus.Histogram

	// Tool metrics
	ToolCallsTotal      *prometheus.CounterVec
	ToolDurationSeconds *prometheus.HistogramVec

	// LLM metrics
	LLMRequestsTotal   *prometheus.CounterVec
	LLMDurationSeconds *prometheus.HistogramVec
	LLMTokensTotal     *prometheus.CounterVec

	// Filter resolution metrics
	FilterResolutionsTotal *prometheus.CounterVec

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec

	// Singleflight metrics
	SingleflightDedupTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		// Upstream API metrics
		UpstreamRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dukebot_upstream_requests_total",
				Help: "Total number of upstream API requests by endpoint and status",
			},
			[]string{"endpoint", "status"}, // status: success, error, timeout, not_found
		),

		UpstreamDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dukebot_upstream_duration_seconds",
				Help:    "Upstream API request duration in seconds by endpoint",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15}, // Matches 15s timeout
			},
			[]string{"endpoint"}, // endpoint: events, curriculum, people, serpapi
		),

		// Chat metrics
		ChatRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dukebot_chat_requests_total",
				Help: "Total number of chat requests by status",
			},
			[]string{"status"}, // status: success, error
		),

		ChatDurationSeconds: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dukebot_chat_duration_seconds",
				Help:    "End-to-end chat request duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80}, // Route + tool + compose chain
			},
		),

		// Tool metrics
		ToolCallsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dukebot_tool_calls_total",
				Help: "Total number of tool invocations by tool and status",
			},
			[]string{"tool", "status"}, // tool: duke_events, duke_curriculum, ...
		),

		ToolDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dukebot_tool_duration_seconds",
				Help:    "Tool invocation duration in seconds by tool",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 40},
			},
			[]string{"tool"},
		),

		// LLM metrics
		LLMRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dukebot_llm_requests_total",
				Help: "Total number of LLM requests by provider, role and status",
			},
			[]string{"provider", "role", "status"}, // role: router, selector, composer
		),

		LLMDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dukebot_llm_duration_seconds",
				Help:    "LLM request duration in seconds by provider and role",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
			},
			[]string{"provider", "role"},
		),

		LLMTokensTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dukebot_llm_tokens_total",
				Help: "Total LLM tokens consumed by provider and direction",
			},
			[]string{"provider", "direction"}, // direction: input, output
		),

		// Filter resolution metrics
		FilterResolutionsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dukebot_filter_resolutions_total",
				Help: "Total number of event filter resolutions by outcome",
			},
			[]string{"outcome"}, // outcome: resolved, empty, error
		),

		// HTTP metrics
		HTTPErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dukebot_http_errors_total",
				Help: "Total HTTP errors by type and module",
			},
			[]string{"error_type", "module"}, // error_type: timeout, bad_request, internal, etc.
		),

		// Singleflight metrics
		SingleflightDedupTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dukebot_singleflight_dedup_total",
				Help: "Total number of deduplicated requests (requests that waited instead of executing)",
			},
			[]string{"endpoint"},
		),
	}

	return m
}

// RecordUpstreamRequest records an upstream API request with status
func (m *Metrics) RecordUpstreamRequest(endpoint, status string, duration float64) {
	m.UpstreamRequestsTotal.WithLabelValues(endpoint, status).Inc()
	m.UpstreamDurationSeconds.WithLabelValues(endpoint).Observe(duration)
}

// RecordChat records a chat request
func (m *Metrics) RecordChat(status string, duration float64) {
	m.ChatRequestsTotal.WithLabelValues(status).Inc()
	m.ChatDurationSeconds.Observe(duration)
}

// RecordToolCall records a tool invocation
func (m *Metrics) RecordToolCall(tool, status string, duration float64) {
	m.ToolCallsTotal.WithLabelValues(tool, status).Inc()
	m.ToolDurationSeconds.WithLabelValues(tool).Observe(duration)
}

// RecordLLMRequest records an LLM request
func (m *Metrics) RecordLLMRequest(provider, role, status string, duration float64) {
	m.LLMRequestsTotal.WithLabelValues(provider, role, status).Inc()
	m.LLMDurationSeconds.WithLabelValues(provider, role).Observe(duration)
}

// RecordLLMTokens records LLM token usage
func (m *Metrics) RecordLLMTokens(provider string, input, output int64) {
	if input > 0 {
		m.LLMTokensTotal.WithLabelValues(provider, "input").Add(float64(input))
	}
	if output > 0 {
		m.LLMTokensTotal.WithLabelValues(provider, "output").Add(float64(output))
	}
}

// RecordFilterResolution records an event filter resolution outcome
func (m *Metrics) RecordFilterResolution(outcome string) {
	m.FilterResolutionsTotal.WithLabelValues(outcome).Inc()
}

// RecordHTTPError records HTTP error metrics
func (m *Metrics) RecordHTTPError(errorType, module string) {
	m.HTTPErrorsTotal.WithLabelValues(errorType, module).Inc()
}

// RecordSingleflightDedup records a deduplicated request
func (m *Metrics) RecordSingleflightDedup(endpoint string) {
	m.SingleflightDedupTotal.WithLabelValues(endpoint).Inc()
}

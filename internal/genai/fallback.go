// Package genai provides integration with LLM APIs (Gemini, Groq, and Cerebras).
// This file contains the fallback wrappers for cross-provider failover.
package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukebot/dukebot-go/internal/metrics"
)

// Metric role labels for LLM requests.
const (
	roleRouter   = "router"
	roleSelector = "selector"
	roleComposer = "composer"
)

// FallbackToolRouter wraps a primary and fallback ToolRouter.
// It implements three-layer failure handling:
// 1. Model retry with backoff (same provider)
// 2. Provider fallback (primary -> fallback provider)
// 3. Error return (the caller decides what to tell the user)
type FallbackToolRouter struct {
	primary     ToolRouter
	fallback    ToolRouter
	retryConfig RetryConfig
	metrics     *metrics.Metrics
}

// NewFallbackToolRouter creates a new fallback-enabled tool router.
// If fallback is nil, only retry logic is applied to the primary provider.
// m may be nil when metrics collection is disabled.
func NewFallbackToolRouter(primary, fallback ToolRouter, cfg RetryConfig, m *metrics.Metrics) *FallbackToolRouter {
	return &FallbackToolRouter{
		primary:     primary,
		fallback:    fallback,
		retryConfig: cfg,
		metrics:     m,
	}
}

// Route tries the primary router first with retry, then falls back if needed.
func (f *FallbackToolRouter) Route(ctx context.Context, query string, history []Message) (*RouteResult, error) {
	if f == nil || f.primary == nil {
		return nil, errors.New("tool router not configured")
	}

	start := time.Now()
	provider := f.primary.Provider()

	result, err := f.routeWithRetry(ctx, f.primary, query, history)
	if err == nil {
		f.recordSuccess(provider, roleRouter, start)
		return result, nil
	}

	action := ClassifyError(err)
	slog.WarnContext(ctx, "primary tool router failed",
		"provider", provider,
		"error", err,
		"action", action,
		"duration", time.Since(start))

	if action == ActionFail || f.fallback == nil {
		f.recordError(provider, roleRouter, err)
		return nil, err
	}

	slog.InfoContext(ctx, "falling back to secondary provider",
		"from", provider,
		"to", f.fallback.Provider())

	fallbackStart := time.Now()
	fallbackProvider := f.fallback.Provider()

	result, err = f.routeWithRetry(ctx, f.fallback, query, history)
	if err == nil {
		f.recordSuccess(fallbackProvider, roleRouter, fallbackStart)
		return result, nil
	}

	f.recordError(fallbackProvider, roleRouter, err)
	slog.ErrorContext(ctx, "all tool routers failed",
		"primary", provider,
		"fallback", fallbackProvider,
		"error", err)

	return nil, fmt.Errorf("all providers failed: %w", err)
}

// routeWithRetry attempts routing with retry logic.
func (f *FallbackToolRouter) routeWithRetry(ctx context.Context, router ToolRouter, query string, history []Message) (*RouteResult, error) {
	var lastErr error

	for attempt := range f.retryConfig.MaxAttempts {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		result, err := router.Route(ctx, query, history)
		if err == nil {
			return result, nil
		}

		lastErr = err
		action := ClassifyError(err)

		if action != ActionRetry {
			return nil, err
		}

		if attempt == f.retryConfig.MaxAttempts-1 {
			break
		}

		backoff := CalculateBackoff(attempt+1, f.retryConfig.InitialDelay, f.retryConfig.MaxDelay)

		if !HasSufficientBudget(ctx, backoff) {
			return nil, fmt.Errorf("timeout during retry: %w", lastErr)
		}

		slog.DebugContext(ctx, "retrying tool routing",
			"provider", router.Provider(),
			"attempt", attempt+1,
			"backoff", backoff,
			"error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, lastErr
}

// IsEnabled returns true if at least one router is enabled.
func (f *FallbackToolRouter) IsEnabled() bool {
	if f == nil {
		return false
	}
	return (f.primary != nil && f.primary.IsEnabled()) ||
		(f.fallback != nil && f.fallback.IsEnabled())
}

// Provider returns the primary provider type.
func (f *FallbackToolRouter) Provider() Provider {
	if f == nil || f.primary == nil {
		return ""
	}
	return f.primary.Provider()
}

// Close closes both routers.
func (f *FallbackToolRouter) Close() error {
	if f == nil {
		return nil
	}
	return closeBoth(f.primary, f.fallback)
}

func (f *FallbackToolRouter) recordSuccess(provider Provider, role string, start time.Time) {
	if f.metrics == nil {
		return
	}
	f.metrics.RecordLLMRequest(string(provider), role, "success", time.Since(start).Seconds())
}

func (f *FallbackToolRouter) recordError(provider Provider, role string, err error) {
	if f.metrics == nil {
		return
	}
	f.metrics.RecordLLMRequest(string(provider), role, classifyErrorType(err), 0)
}

// FallbackFilterSelector wraps a primary and fallback FilterSelector.
type FallbackFilterSelector struct {
	primary     FilterSelector
	fallback    FilterSelector
	retryConfig RetryConfig
	metrics     *metrics.Metrics
}

// NewFallbackFilterSelector creates a new fallback-enabled filter selector.
func NewFallbackFilterSelector(primary, fallback FilterSelector, cfg RetryConfig, m *metrics.Metrics) *FallbackFilterSelector {
	return &FallbackFilterSelector{
		primary:     primary,
		fallback:    fallback,
		retryConfig: cfg,
		metrics:     m,
	}
}

// SelectFilters tries the primary selector first with retry, then falls back
// if needed.
func (f *FallbackFilterSelector) SelectFilters(ctx context.Context, prompt string, candidateGroups, candidateCategories []string) (*Selection, error) {
	if f == nil || f.primary == nil {
		return nil, errors.New("filter selector not configured")
	}

	start := time.Now()
	provider := f.primary.Provider()

	result, err := f.selectWithRetry(ctx, f.primary, prompt, candidateGroups, candidateCategories)
	if err == nil {
		f.record(provider, "success", start)
		return result, nil
	}

	action := ClassifyError(err)
	slog.WarnContext(ctx, "primary filter selector failed",
		"provider", provider,
		"error", err,
		"action", action,
		"duration", time.Since(start))

	if action == ActionFail || f.fallback == nil {
		f.record(provider, classifyErrorType(err), start)
		return nil, err
	}

	slog.InfoContext(ctx, "falling back to secondary selector",
		"from", provider,
		"to", f.fallback.Provider())

	fallbackStart := time.Now()
	fallbackProvider := f.fallback.Provider()

	result, err = f.selectWithRetry(ctx, f.fallback, prompt, candidateGroups, candidateCategories)
	if err == nil {
		f.record(fallbackProvider, "success", fallbackStart)
		return result, nil
	}

	f.record(fallbackProvider, classifyErrorType(err), fallbackStart)
	slog.ErrorContext(ctx, "all filter selectors failed",
		"primary", provider,
		"fallback", fallbackProvider,
		"error", err)

	return nil, fmt.Errorf("all providers failed: %w", err)
}

// selectWithRetry attempts selection with retry logic.
func (f *FallbackFilterSelector) selectWithRetry(ctx context.Context, selector FilterSelector, prompt string, groups, categories []string) (*Selection, error) {
	var lastErr error

	for attempt := range f.retryConfig.MaxAttempts {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		result, err := selector.SelectFilters(ctx, prompt, groups, categories)
		if err == nil {
			return result, nil
		}

		lastErr = err
		action := ClassifyError(err)

		if action != ActionRetry {
			return nil, err
		}

		if attempt == f.retryConfig.MaxAttempts-1 {
			break
		}

		backoff := CalculateBackoff(attempt+1, f.retryConfig.InitialDelay, f.retryConfig.MaxDelay)

		if !HasSufficientBudget(ctx, backoff) {
			return nil, fmt.Errorf("timeout during retry: %w", lastErr)
		}

		slog.DebugContext(ctx, "retrying filter selection",
			"provider", selector.Provider(),
			"attempt", attempt+1,
			"backoff", backoff,
			"error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, lastErr
}

// Provider returns the primary provider type.
func (f *FallbackFilterSelector) Provider() Provider {
	if f == nil || f.primary == nil {
		return ""
	}
	return f.primary.Provider()
}

// Close closes both selectors.
func (f *FallbackFilterSelector) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	if f.primary != nil {
		if err := f.primary.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if f.fallback != nil {
		if err := f.fallback.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func (f *FallbackFilterSelector) record(provider Provider, status string, start time.Time) {
	if f.metrics == nil {
		return
	}
	f.metrics.RecordLLMRequest(string(provider), roleSelector, status, time.Since(start).Seconds())
}

// FallbackComposer wraps a primary and fallback Composer.
// On complete failure, Compose returns the raw tool output so the user still
// gets an answer (graceful degradation).
type FallbackComposer struct {
	primary     Composer
	fallback    Composer
	retryConfig RetryConfig
	metrics     *metrics.Metrics
}

// NewFallbackComposer creates a new fallback-enabled composer.
func NewFallbackComposer(primary, fallback Composer, cfg RetryConfig, m *metrics.Metrics) *FallbackComposer {
	return &FallbackComposer{
		primary:     primary,
		fallback:    fallback,
		retryConfig: cfg,
		metrics:     m,
	}
}

// Compose tries the primary composer first with retry, then falls back if
// needed. On complete failure, returns the raw tool output.
func (f *FallbackComposer) Compose(ctx context.Context, query, toolName, toolOutput string, history []Message) (string, error) {
	if f == nil || f.primary == nil {
		return toolOutput, nil // Graceful degradation
	}

	start := time.Now()
	provider := f.primary.Provider()

	result, err := f.composeWithRetry(ctx, f.primary, query, toolName, toolOutput, history)
	if err == nil {
		f.record(provider, "success", start)
		return result, nil
	}

	action := ClassifyError(err)
	slog.WarnContext(ctx, "primary composer failed",
		"provider", provider,
		"error", err,
		"action", action,
		"duration", time.Since(start))

	if action == ActionFail || f.fallback == nil {
		f.record(provider, classifyErrorType(err), start)
		return toolOutput, nil
	}

	slog.InfoContext(ctx, "falling back to secondary composer",
		"from", provider,
		"to", f.fallback.Provider())

	fallbackStart := time.Now()
	fallbackProvider := f.fallback.Provider()

	result, err = f.composeWithRetry(ctx, f.fallback, query, toolName, toolOutput, history)
	if err == nil {
		f.record(fallbackProvider, "success", fallbackStart)
		return result, nil
	}

	f.record(fallbackProvider, classifyErrorType(err), fallbackStart)
	slog.WarnContext(ctx, "all composers failed, returning raw tool output",
		"primary", provider,
		"fallback", fallbackProvider,
		"tool", toolName)

	return toolOutput, nil // Always answer with something
}

// composeWithRetry attempts composition with retry logic.
func (f *FallbackComposer) composeWithRetry(ctx context.Context, composer Composer, query, toolName, toolOutput string, history []Message) (string, error) {
	var lastErr error

	for attempt := range f.retryConfig.MaxAttempts {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		if !HasSufficientBudget(ctx, f.retryConfig.InitialDelay) {
			if lastErr != nil {
				return "", lastErr
			}
			return "", ctx.Err()
		}

		result, err := composer.Compose(ctx, query, toolName, toolOutput, history)
		if err == nil {
			return result, nil
		}

		lastErr = err
		action := ClassifyError(err)

		if action != ActionRetry {
			return "", err
		}

		if attempt == f.retryConfig.MaxAttempts-1 {
			break
		}

		backoff := CalculateBackoff(attempt+1, f.retryConfig.InitialDelay, f.retryConfig.MaxDelay)

		slog.DebugContext(ctx, "retrying composition",
			"provider", composer.Provider(),
			"attempt", attempt+1,
			"backoff", backoff,
			"error", err)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}

	return "", lastErr
}

// Provider returns the primary provider type.
func (f *FallbackComposer) Provider() Provider {
	if f == nil || f.primary == nil {
		return ""
	}
	return f.primary.Provider()
}

// Close closes both composers.
func (f *FallbackComposer) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	if f.primary != nil {
		if err := f.primary.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if f.fallback != nil {
		if err := f.fallback.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func (f *FallbackComposer) record(provider Provider, status string, start time.Time) {
	if f.metrics == nil {
		return
	}
	f.metrics.RecordLLMRequest(string(provider), roleComposer, status, time.Since(start).Seconds())
}

// closeBoth closes a primary/fallback router pair, collecting errors.
func closeBoth(primary, fallback ToolRouter) error {
	var errs []error
	if primary != nil {
		if err := primary.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if fallback != nil {
		if err := fallback.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// classifyErrorType maps error to a metric status label.
func classifyErrorType(err error) string {
	if err == nil {
		return "success"
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}

	var llmErr *LLMError
	if errors.As(err, &llmErr) {
		switch {
		case llmErr.StatusCode == http.StatusTooManyRequests:
			return "rate_limit"
		case llmErr.StatusCode >= 500:
			return "server_error"
		case llmErr.StatusCode == http.StatusUnauthorized || llmErr.StatusCode == http.StatusForbidden:
			return "auth_error"
		case llmErr.StatusCode == http.StatusBadRequest:
			return "invalid_request"
		}
	}

	switch ClassifyError(err) {
	case ActionFallback:
		return "quota_exhausted"
	case ActionRetry:
		return "transient_error"
	default:
		return "error"
	}
}

// Package genai provides integration with LLM APIs (Gemini, Groq, and Cerebras).
// This file contains factory functions for creating provider instances with
// fallback support.
package genai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dukebot/dukebot-go/internal/metrics"
)

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  DefaultMaxRetryAttempts,
		InitialDelay: DefaultInitialRetryDelay,
		MaxDelay:     DefaultMaxRetryDelay,
	}
}

// normalize fills in defaults for unset LLMConfig fields.
func (c *LLMConfig) normalize() {
	if c.PrimaryProvider == "" {
		c.PrimaryProvider = ProviderGemini
	}
	if c.FallbackProvider == c.PrimaryProvider {
		c.FallbackProvider = ""
	}
	if c.RetryConfig.MaxAttempts <= 0 {
		c.RetryConfig = DefaultRetryConfig()
	}
}

// CreateToolRouter creates a tool router with provider fallback.
// Returns an error if no provider is configured.
func CreateToolRouter(ctx context.Context, cfg LLMConfig, m *metrics.Metrics) (ToolRouter, error) {
	cfg.normalize()
	if !cfg.HasAnyProvider() {
		return nil, fmt.Errorf("no LLM provider configured")
	}

	primary, err := buildToolRouter(ctx, cfg, cfg.PrimaryProvider)
	if err != nil {
		return nil, fmt.Errorf("primary router (%s): %w", cfg.PrimaryProvider, err)
	}

	fallback := buildOptionalToolRouter(ctx, cfg, cfg.FallbackProvider)

	if primary == nil && fallback == nil {
		return nil, fmt.Errorf("no router could be created for providers %s/%s", cfg.PrimaryProvider, cfg.FallbackProvider)
	}
	if primary == nil {
		// Promote the fallback so the wrapper always has a primary
		primary, fallback = fallback, nil
	}

	slog.Info("tool router created",
		"primary", primary.Provider(),
		"fallback_enabled", fallback != nil)

	return NewFallbackToolRouter(primary, fallback, cfg.RetryConfig, m), nil
}

// CreateFilterSelector creates a filter selector with provider fallback.
func CreateFilterSelector(ctx context.Context, cfg LLMConfig, m *metrics.Metrics) (FilterSelector, error) {
	cfg.normalize()
	if !cfg.HasAnyProvider() {
		return nil, fmt.Errorf("no LLM provider configured")
	}

	primary, err := buildFilterSelector(ctx, cfg, cfg.PrimaryProvider)
	if err != nil {
		return nil, fmt.Errorf("primary selector (%s): %w", cfg.PrimaryProvider, err)
	}

	fallback := buildOptionalFilterSelector(ctx, cfg, cfg.FallbackProvider)

	if primary == nil && fallback == nil {
		return nil, fmt.Errorf("no selector could be created for providers %s/%s", cfg.PrimaryProvider, cfg.FallbackProvider)
	}
	if primary == nil {
		primary, fallback = fallback, nil
	}

	slog.Info("filter selector created",
		"primary", primary.Provider(),
		"fallback_enabled", fallback != nil)

	return NewFallbackFilterSelector(primary, fallback, cfg.RetryConfig, m), nil
}

// CreateComposer creates an answer composer with provider fallback.
func CreateComposer(ctx context.Context, cfg LLMConfig, m *metrics.Metrics) (Composer, error) {
	cfg.normalize()
	if !cfg.HasAnyProvider() {
		return nil, fmt.Errorf("no LLM provider configured")
	}

	primary, err := buildComposer(ctx, cfg, cfg.PrimaryProvider)
	if err != nil {
		return nil, fmt.Errorf("primary composer (%s): %w", cfg.PrimaryProvider, err)
	}

	fallback := buildOptionalComposer(ctx, cfg, cfg.FallbackProvider)

	if primary == nil && fallback == nil {
		return nil, fmt.Errorf("no composer could be created for providers %s/%s", cfg.PrimaryProvider, cfg.FallbackProvider)
	}
	if primary == nil {
		primary, fallback = fallback, nil
	}

	slog.Info("composer created",
		"primary", primary.Provider(),
		"fallback_enabled", fallback != nil)

	return NewFallbackComposer(primary, fallback, cfg.RetryConfig, m), nil
}

// buildToolRouter creates a single-provider tool router.
// Returns (nil, nil) when the provider has no API key.
func buildToolRouter(ctx context.Context, cfg LLMConfig, p Provider) (ToolRouter, error) {
	pc := cfg.GetProviderConfig(p)
	if pc == nil || pc.APIKey == "" {
		return nil, nil
	}

	if p == ProviderGemini {
		r, err := newGeminiToolRouter(ctx, pc.APIKey, pc.RouterModel)
		if err != nil || r == nil {
			return nil, err
		}
		return r, nil
	}

	r, err := newOpenAIToolRouter(ctx, p, pc.APIKey, pc.RouterModel)
	if err != nil || r == nil {
		return nil, err
	}
	return r, nil
}

// buildOptionalToolRouter creates a fallback router, logging instead of
// failing on error.
func buildOptionalToolRouter(ctx context.Context, cfg LLMConfig, p Provider) ToolRouter {
	if p == "" {
		return nil
	}
	r, err := buildToolRouter(ctx, cfg, p)
	if err != nil {
		slog.Warn("fallback router unavailable", "provider", p, "error", err)
		return nil
	}
	if r == nil {
		return nil
	}
	return r
}

// selectorModel resolves the model for filter selection.
// Falls back to the router model so only one model needs configuring.
func selectorModel(pc *ProviderConfig) string {
	if pc.SelectorModel != "" {
		return pc.SelectorModel
	}
	return pc.RouterModel
}

// buildFilterSelector creates a single-provider filter selector.
func buildFilterSelector(ctx context.Context, cfg LLMConfig, p Provider) (FilterSelector, error) {
	pc := cfg.GetProviderConfig(p)
	if pc == nil || pc.APIKey == "" {
		return nil, nil
	}

	if p == ProviderGemini {
		s, err := newGeminiFilterSelector(ctx, pc.APIKey, selectorModel(pc))
		if err != nil || s == nil {
			return nil, err
		}
		return s, nil
	}

	s, err := newOpenAIFilterSelector(ctx, p, pc.APIKey, selectorModel(pc))
	if err != nil || s == nil {
		return nil, err
	}
	return s, nil
}

func buildOptionalFilterSelector(ctx context.Context, cfg LLMConfig, p Provider) FilterSelector {
	if p == "" {
		return nil
	}
	s, err := buildFilterSelector(ctx, cfg, p)
	if err != nil {
		slog.Warn("fallback selector unavailable", "provider", p, "error", err)
		return nil
	}
	if s == nil {
		return nil
	}
	return s
}

// buildComposer creates a single-provider composer.
func buildComposer(ctx context.Context, cfg LLMConfig, p Provider) (Composer, error) {
	pc := cfg.GetProviderConfig(p)
	if pc == nil || pc.APIKey == "" {
		return nil, nil
	}

	if p == ProviderGemini {
		c, err := newGeminiComposer(ctx, pc.APIKey, pc.ComposerModel)
		if err != nil || c == nil {
			return nil, err
		}
		return c, nil
	}

	c, err := newOpenAIComposer(ctx, p, pc.APIKey, pc.ComposerModel)
	if err != nil || c == nil {
		return nil, err
	}
	return c, nil
}

func buildOptionalComposer(ctx context.Context, cfg LLMConfig, p Provider) Composer {
	if p == "" {
		return nil
	}
	c, err := buildComposer(ctx, cfg, p)
	if err != nil {
		slog.Warn("fallback composer unavailable", "provider", p, "error", err)
		return nil
	}
	if c == nil {
		return nil
	}
	return c
}

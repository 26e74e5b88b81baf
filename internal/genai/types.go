// Package genai provides integration with LLM APIs (Gemini, Groq, and Cerebras).
// This file contains shared types, interfaces, and configuration for tool
// routing, event filter selection, and answer composition with provider
// fallback support.
//
// Architecture:
// - Gemini: Uses google.golang.org/genai (official SDK)
// - Groq/Cerebras: Uses github.com/openai/openai-go/v3 (OpenAI-compatible API)
//
// Fallback Strategy:
// 1. Retry: Same provider retried with exponential backoff on transient errors
// 2. Provider Fallback: Primary provider -> fallback provider
package genai

import (
	"context"
	"time"
)

// Provider represents an LLM provider.
type Provider string

const (
	// ProviderGemini represents Google's Gemini API (non-OpenAI-compatible).
	ProviderGemini Provider = "gemini"
	// ProviderGroq represents Groq's API (OpenAI-compatible, fast inference).
	ProviderGroq Provider = "groq"
	// ProviderCerebras represents Cerebras's API (OpenAI-compatible, ultra-fast inference).
	ProviderCerebras Provider = "cerebras"
)

// ProviderEndpoint defines the base URL for OpenAI-compatible providers.
// Gemini is not included as it uses a different SDK.
var ProviderEndpoint = map[Provider]string{
	ProviderGroq:     "https://api.groq.com/openai/v1/",
	ProviderCerebras: "https://api.cerebras.ai/v1/",
}

// IsOpenAICompatible returns true if the provider uses OpenAI-compatible API.
func (p Provider) IsOpenAICompatible() bool {
	_, ok := ProviderEndpoint[p]
	return ok
}

// String returns the string representation of the provider.
func (p Provider) String() string {
	return string(p)
}

// Conversation roles for Message.Role.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversation turn passed to routing and composition calls.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// ToolRouter decides which tool a user query should invoke.
// Uses forced function calling mode (ANY/required) so every query maps to
// exactly one tool, including direct_reply for non-query messages.
type ToolRouter interface {
	// Route analyzes the query and returns the selected tool with arguments.
	Route(ctx context.Context, query string, history []Message) (*RouteResult, error)
	// IsEnabled returns true if the router is properly initialized.
	IsEnabled() bool
	// Close releases any resources held by the router.
	Close() error
	// Provider returns the provider type for metrics.
	Provider() Provider
}

// FilterSelector picks event groups and categories from candidate lists.
// The model is constrained to choose only from the supplied candidates
// (plus the "All" sentinel) and runs at temperature 0 for determinism.
type FilterSelector interface {
	// SelectFilters returns the subset of candidates relevant to the prompt.
	SelectFilters(ctx context.Context, prompt string, candidateGroups, candidateCategories []string) (*Selection, error)
	// Close releases any resources held by the selector.
	Close() error
	// Provider returns the provider type for metrics.
	Provider() Provider
}

// Composer phrases the final natural-language answer from tool output.
type Composer interface {
	// Compose generates the answer text for the query given the tool output.
	Compose(ctx context.Context, query, toolName, toolOutput string, history []Message) (string, error)
	// Close releases any resources held by the composer.
	Close() error
	// Provider returns the provider type for metrics.
	Provider() Provider
}

// RouteResult represents the outcome of tool routing.
type RouteResult struct {
	// Tool is the selected tool name.
	// Valid values: duke_events, duke_curriculum, duke_course_details,
	// duke_people, duke_subject_lookup, pratt_search, direct_reply
	Tool string

	// Params contains the extracted string arguments keyed by parameter
	// name (e.g. "prompt", "subject", "name").
	Params map[string]string
}

// Selection is the structured output of a filter selection call.
type Selection struct {
	Groups     []string `json:"groups"`
	Categories []string `json:"categories"`
}

// RetryConfig defines retry behavior for LLM API calls.
// Uses AWS-recommended Full Jitter exponential backoff.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	// Default: 2 (1 initial + 1 retry)
	MaxAttempts int

	// InitialDelay is the base delay before first retry.
	// Default: 500ms
	InitialDelay time.Duration

	// MaxDelay is the maximum delay between retries.
	// Default: 3s
	MaxDelay time.Duration
}

// ProviderConfig holds configuration for a single LLM provider.
type ProviderConfig struct {
	// APIKey is the API key for the provider.
	APIKey string

	// RouterModel is the model used for tool routing. Empty uses the
	// provider default.
	RouterModel string

	// SelectorModel is the model used for filter selection. Empty falls
	// back to RouterModel, then the provider default.
	SelectorModel string

	// ComposerModel is the model used for answer composition. Empty uses
	// the provider default.
	ComposerModel string
}

// LLMConfig holds configuration for all LLM providers.
type LLMConfig struct {
	// PrimaryProvider is tried first for every call.
	PrimaryProvider Provider

	// FallbackProvider is tried when the primary fails with a
	// recoverable error. Ignored when equal to PrimaryProvider.
	FallbackProvider Provider

	// Gemini configuration
	Gemini ProviderConfig

	// Groq configuration (OpenAI-compatible)
	Groq ProviderConfig

	// Cerebras configuration (OpenAI-compatible)
	Cerebras ProviderConfig

	// RetryConfig for retry behavior
	RetryConfig RetryConfig
}

// Default model configurations.
var (
	// DefaultGeminiModel offers strong function calling with fast inference.
	DefaultGeminiModel = "gemini-2.5-flash"

	// DefaultGroqModel offers excellent function calling with fast inference.
	DefaultGroqModel = "meta-llama/llama-4-maverick-17b-128e-instruct"

	// DefaultCerebrasModel offers strong function calling with ultra-fast inference.
	DefaultCerebrasModel = "llama-3.3-70b"
)

// Retry configuration defaults
const (
	DefaultMaxRetryAttempts  = 2
	DefaultInitialRetryDelay = 500 * time.Millisecond
	DefaultMaxRetryDelay     = 3 * time.Second
)

// HasAnyProvider returns true if at least one provider is configured.
func (c *LLMConfig) HasAnyProvider() bool {
	return c.Gemini.APIKey != "" || c.Groq.APIKey != "" || c.Cerebras.APIKey != ""
}

// HasProvider returns true if the specified provider is configured with an API key.
func (c *LLMConfig) HasProvider(p Provider) bool {
	switch p {
	case ProviderGemini:
		return c.Gemini.APIKey != ""
	case ProviderGroq:
		return c.Groq.APIKey != ""
	case ProviderCerebras:
		return c.Cerebras.APIKey != ""
	default:
		return false
	}
}

// GetProviderConfig returns the configuration for a specific provider.
func (c *LLMConfig) GetProviderConfig(p Provider) *ProviderConfig {
	switch p {
	case ProviderGemini:
		return &c.Gemini
	case ProviderGroq:
		return &c.Groq
	case ProviderCerebras:
		return &c.Cerebras
	default:
		return nil
	}
}

// DefaultModel returns the default model for a provider.
func DefaultModel(p Provider) string {
	switch p {
	case ProviderGemini:
		return DefaultGeminiModel
	case ProviderGroq:
		return DefaultGroqModel
	case ProviderCerebras:
		return DefaultCerebrasModel
	default:
		return ""
	}
}

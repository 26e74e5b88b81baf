// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// server mode, upstream timeouts, and agent behavior.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Duke API Configuration
	DukeAPIKey string // Access token for streamer.oit.duke.edu endpoints

	// Web Search Configuration
	SerpAPIKey string // SerpAPI key (empty = web search tool disabled)

	// LLM Configuration
	GeminiAPIKey   string // Gemini API key
	GroqAPIKey     string // Groq API key (OpenAI-compatible provider)
	CerebrasAPIKey string // Cerebras API key (OpenAI-compatible provider)

	// LLM Model Configuration (optional, defaults apply if empty)
	GeminiRouterModel     string // Primary Gemini model for tool routing
	GeminiComposerModel   string // Primary Gemini model for response composition
	GeminiSelectorModel   string // Gemini model for filter selection (empty = router model)
	GroqRouterModel       string // Primary Groq model for tool routing
	GroqComposerModel     string // Primary Groq model for response composition
	GroqSelectorModel     string // Groq model for filter selection (empty = router model)
	CerebrasRouterModel   string // Primary Cerebras model for tool routing
	CerebrasComposerModel string // Primary Cerebras model for response composition
	CerebrasSelectorModel string // Cerebras model for filter selection (empty = router model)

	// LLM Provider Configuration
	LLMPrimaryProvider  string // Primary LLM provider: "gemini", "groq" or "cerebras" (default: "gemini")
	LLMFallbackProvider string // Fallback LLM provider (default: "groq")

	// Metrics Authentication
	MetricsUsername string // Username for /metrics endpoint Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics endpoint Basic Auth (empty = no auth)

	// Sentry Configuration
	SentryDSN string // Sentry DSN for error reporting (empty = disabled)

	// Server Configuration
	Port            string
	LogLevel        string
	LogFile         string // Optional log file, mirrored alongside stdout
	ShutdownTimeout time.Duration

	// Data Configuration
	ResourceDir string // Directory holding groups.txt, categories.txt, subjects.txt

	// Upstream Configuration
	UpstreamTimeout time.Duration

	// Agent Configuration (embedded)
	Agent AgentConfig
}

// AgentConfig holds conversational agent configuration
type AgentConfig struct {
	RouterTimeout  time.Duration // Timeout for the tool routing LLM call
	ComposeTimeout time.Duration // Timeout for the response composition LLM call

	HistoryLimit    int // Maximum conversation turns kept per session (default: 10)
	MaxQueryLength  int // Maximum accepted chat query length (default: 2000)
	FuzzyTopN       int // Candidates passed to the filter selection model (default: 10)
	DefaultFeedDays int // Default future_days window for event queries (default: 45)
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		// Duke API Configuration
		DukeAPIKey: getEnv("DUKE_API_KEY", ""),

		// Web Search Configuration
		SerpAPIKey: getEnv("SERPAPI_API_KEY", ""),

		// LLM Configuration
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GroqAPIKey:     getEnv("GROQ_API_KEY", ""),
		CerebrasAPIKey: getEnv("CEREBRAS_API_KEY", ""),

		// LLM Model Configuration (empty = use defaults from genai package)
		GeminiRouterModel:     getEnv("GEMINI_ROUTER_MODEL", ""),
		GeminiComposerModel:   getEnv("GEMINI_COMPOSER_MODEL", ""),
		GeminiSelectorModel:   getEnv("GEMINI_SELECTOR_MODEL", ""),
		GroqRouterModel:       getEnv("GROQ_ROUTER_MODEL", ""),
		GroqComposerModel:     getEnv("GROQ_COMPOSER_MODEL", ""),
		GroqSelectorModel:     getEnv("GROQ_SELECTOR_MODEL", ""),
		CerebrasRouterModel:   getEnv("CEREBRAS_ROUTER_MODEL", ""),
		CerebrasComposerModel: getEnv("CEREBRAS_COMPOSER_MODEL", ""),
		CerebrasSelectorModel: getEnv("CEREBRAS_SELECTOR_MODEL", ""),

		// LLM Provider Configuration
		LLMPrimaryProvider:  getEnv("LLM_PRIMARY_PROVIDER", "gemini"),
		LLMFallbackProvider: getEnv("LLM_FALLBACK_PROVIDER", "groq"),

		// Metrics Authentication
		MetricsUsername: getEnv("METRICS_USERNAME", "prometheus"),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),

		// Sentry Configuration
		SentryDSN: getEnv("SENTRY_DSN", ""),

		// Server Configuration
		Port:            getEnv("PORT", "8000"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFile:         getEnv("LOG_FILE", ""),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", GracefulShutdown),

		// Data Configuration
		ResourceDir: getEnv("RESOURCE_DIR", "resources"),

		// Upstream Configuration
		UpstreamTimeout: getDurationEnv("UPSTREAM_TIMEOUT", UpstreamRequest),

		// Agent Configuration
		Agent: AgentConfig{
			RouterTimeout:   getDurationEnv("ROUTER_TIMEOUT", RouterCall),
			ComposeTimeout:  getDurationEnv("COMPOSE_TIMEOUT", ComposeCall),
			HistoryLimit:    getIntEnv("AGENT_HISTORY_LIMIT", 10),
			MaxQueryLength:  getIntEnv("AGENT_MAX_QUERY_LENGTH", 2000),
			FuzzyTopN:       getIntEnv("AGENT_FUZZY_TOP_N", 10),
			DefaultFeedDays: getIntEnv("AGENT_DEFAULT_FEED_DAYS", 45),
		},
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.DukeAPIKey == "" {
		errs = append(errs, errors.New("DUKE_API_KEY is required"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if !c.HasLLMProvider() {
		errs = append(errs, errors.New("at least one of GEMINI_API_KEY, GROQ_API_KEY or CEREBRAS_API_KEY is required"))
	}
	if c.ResourceDir == "" {
		errs = append(errs, errors.New("RESOURCE_DIR is required"))
	}
	if c.UpstreamTimeout <= 0 {
		errs = append(errs, fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %v", c.UpstreamTimeout))
	}
	if err := c.Agent.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("agent config: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks agent configuration bounds
func (c *AgentConfig) Validate() error {
	var errs []error

	if c.RouterTimeout <= 0 {
		errs = append(errs, fmt.Errorf("ROUTER_TIMEOUT must be positive, got %v", c.RouterTimeout))
	}
	if c.ComposeTimeout <= 0 {
		errs = append(errs, fmt.Errorf("COMPOSE_TIMEOUT must be positive, got %v", c.ComposeTimeout))
	}
	if c.HistoryLimit < 0 {
		errs = append(errs, fmt.Errorf("AGENT_HISTORY_LIMIT cannot be negative, got %d", c.HistoryLimit))
	}
	if c.MaxQueryLength <= 0 {
		errs = append(errs, fmt.Errorf("AGENT_MAX_QUERY_LENGTH must be positive, got %d", c.MaxQueryLength))
	}
	if c.FuzzyTopN <= 0 {
		errs = append(errs, fmt.Errorf("AGENT_FUZZY_TOP_N must be positive, got %d", c.FuzzyTopN))
	}
	if c.DefaultFeedDays <= 0 {
		errs = append(errs, fmt.Errorf("AGENT_DEFAULT_FEED_DAYS must be positive, got %d", c.DefaultFeedDays))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// GroupsPath returns the full path to the event groups vocabulary file
func (c *Config) GroupsPath() string {
	return filepath.Join(c.ResourceDir, "groups.txt")
}

// CategoriesPath returns the full path to the event categories vocabulary file
func (c *Config) CategoriesPath() string {
	return filepath.Join(c.ResourceDir, "categories.txt")
}

// SubjectsPath returns the full path to the curriculum subjects vocabulary file
func (c *Config) SubjectsPath() string {
	return filepath.Join(c.ResourceDir, "subjects.txt")
}

// HasLLMProvider returns true if at least one LLM provider is configured.
func (c *Config) HasLLMProvider() bool {
	return c.GeminiAPIKey != "" || c.GroqAPIKey != "" || c.CerebrasAPIKey != ""
}

// HasWebSearch returns true if the SerpAPI web search tool can be enabled.
func (c *Config) HasWebSearch() bool {
	return c.SerpAPIKey != ""
}

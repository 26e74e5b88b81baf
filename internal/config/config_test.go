package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Set required environment variables
	_ = os.Setenv("DUKE_API_KEY", "test_duke_key")
	_ = os.Setenv("GEMINI_API_KEY", "test_gemini_key")
	defer func() { _ = os.Unsetenv("DUKE_API_KEY") }()
	defer func() { _ = os.Unsetenv("GEMINI_API_KEY") }()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check required fields
	if cfg.DukeAPIKey != "test_duke_key" {
		t.Errorf("Expected Duke API key 'test_duke_key', got '%s'", cfg.DukeAPIKey)
	}

	if cfg.GeminiAPIKey != "test_gemini_key" {
		t.Errorf("Expected Gemini API key 'test_gemini_key', got '%s'", cfg.GeminiAPIKey)
	}

	// Check defaults
	if cfg.Port != "8000" {
		t.Errorf("Expected default port '8000', got '%s'", cfg.Port)
	}

	if cfg.LLMPrimaryProvider != "gemini" {
		t.Errorf("Expected default primary provider 'gemini', got '%s'", cfg.LLMPrimaryProvider)
	}

	if cfg.UpstreamTimeout != UpstreamRequest {
		t.Errorf("Expected default upstream timeout %v, got %v", UpstreamRequest, cfg.UpstreamTimeout)
	}

	if cfg.Agent.FuzzyTopN != 10 {
		t.Errorf("Expected default fuzzy top N 10, got %d", cfg.Agent.FuzzyTopN)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	// Make sure nothing required leaks in from the environment
	for _, key := range []string{"DUKE_API_KEY", "GEMINI_API_KEY", "GROQ_API_KEY", "CEREBRAS_API_KEY"} {
		_ = os.Unsetenv(key)
	}

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error with no credentials set")
	}
	if !strings.Contains(err.Error(), "DUKE_API_KEY") {
		t.Errorf("Load() error = %v, want error mentioning DUKE_API_KEY", err)
	}
	if !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Errorf("Load() error = %v, want error mentioning the LLM keys", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DukeAPIKey:      "key",
			GeminiAPIKey:    "key",
			Port:            "8000",
			ResourceDir:     "resources",
			UpstreamTimeout: 15 * time.Second,
			Agent: AgentConfig{
				RouterTimeout:   30 * time.Second,
				ComposeTimeout:  60 * time.Second,
				HistoryLimit:    10,
				MaxQueryLength:  2000,
				FuzzyTopN:       10,
				DefaultFeedDays: 45,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing duke api key",
			mutate:  func(c *Config) { c.DukeAPIKey = "" },
			wantErr: true,
		},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Port = "" },
			wantErr: true,
		},
		{
			name:    "no llm provider",
			mutate:  func(c *Config) { c.GeminiAPIKey = "" },
			wantErr: true,
		},
		{
			name:    "groq key alone satisfies llm requirement",
			mutate:  func(c *Config) { c.GeminiAPIKey = ""; c.GroqAPIKey = "key" },
			wantErr: false,
		},
		{
			name:    "zero upstream timeout",
			mutate:  func(c *Config) { c.UpstreamTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "zero fuzzy top n",
			mutate:  func(c *Config) { c.Agent.FuzzyTopN = 0 },
			wantErr: true,
		},
		{
			name:    "zero feed days",
			mutate:  func(c *Config) { c.Agent.DefaultFeedDays = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResourcePaths(t *testing.T) {
	cfg := &Config{ResourceDir: "resources"}

	if got := cfg.GroupsPath(); got != "resources/groups.txt" {
		t.Errorf("GroupsPath() = %q", got)
	}
	if got := cfg.CategoriesPath(); got != "resources/categories.txt" {
		t.Errorf("CategoriesPath() = %q", got)
	}
	if got := cfg.SubjectsPath(); got != "resources/subjects.txt" {
		t.Errorf("SubjectsPath() = %q", got)
	}
}

func TestHasWebSearch(t *testing.T) {
	cfg := &Config{}
	if cfg.HasWebSearch() {
		t.Error("HasWebSearch() = true with no key")
	}
	cfg.SerpAPIKey = "key"
	if !cfg.HasWebSearch() {
		t.Error("HasWebSearch() = false with key set")
	}
}

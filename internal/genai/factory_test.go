package genai

import (
	"context"
	"testing"
)

func TestDefaultRetryConfigValues(t *testing.T) {
	t.Parallel()
	cfg := DefaultRetryConfig()

	if cfg.MaxAttempts != DefaultMaxRetryAttempts {
		t.Errorf("MaxAttempts = %v, want %v", cfg.MaxAttempts, DefaultMaxRetryAttempts)
	}
	if cfg.InitialDelay != DefaultInitialRetryDelay {
		t.Errorf("InitialDelay = %v, want %v", cfg.InitialDelay, DefaultInitialRetryDelay)
	}
	if cfg.MaxDelay != DefaultMaxRetryDelay {
		t.Errorf("MaxDelay = %v, want %v", cfg.MaxDelay, DefaultMaxRetryDelay)
	}
}

func TestLLMConfig_HasAnyProvider(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		cfg      LLMConfig
		expected bool
	}{
		{
			name:     "no providers",
			cfg:      LLMConfig{},
			expected: false,
		},
		{
			name: "gemini only",
			cfg: LLMConfig{
				Gemini: ProviderConfig{APIKey: "test-key"},
			},
			expected: true,
		},
		{
			name: "groq only",
			cfg: LLMConfig{
				Groq: ProviderConfig{APIKey: "test-key"},
			},
			expected: true,
		},
		{
			name: "cerebras only",
			cfg: LLMConfig{
				Cerebras: ProviderConfig{APIKey: "test-key"},
			},
			expected: true,
		},
		{
			name: "all providers",
			cfg: LLMConfig{
				Gemini:   ProviderConfig{APIKey: "gemini-key"},
				Groq:     ProviderConfig{APIKey: "groq-key"},
				Cerebras: ProviderConfig{APIKey: "cerebras-key"},
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.cfg.HasAnyProvider(); got != tt.expected {
				t.Errorf("HasAnyProvider() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLLMConfig_HasProvider(t *testing.T) {
	t.Parallel()
	cfg := LLMConfig{
		Gemini: ProviderConfig{APIKey: "gemini-key"},
	}

	if !cfg.HasProvider(ProviderGemini) {
		t.Error("HasProvider(Gemini) should return true")
	}
	if cfg.HasProvider(ProviderGroq) {
		t.Error("HasProvider(Groq) should return false")
	}
	if cfg.HasProvider("unknown") {
		t.Error("HasProvider(unknown) should return false")
	}
}

func TestDefaultModel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		provider Provider
		expected string
	}{
		{ProviderGemini, DefaultGeminiModel},
		{ProviderGroq, DefaultGroqModel},
		{ProviderCerebras, DefaultCerebrasModel},
		{Provider("unknown"), ""},
	}

	for _, tt := range tests {
		if got := DefaultModel(tt.provider); got != tt.expected {
			t.Errorf("DefaultModel(%v) = %q, want %q", tt.provider, got, tt.expected)
		}
	}
}

func TestCreateToolRouter_NoProviders(t *testing.T) {
	t.Parallel()
	_, err := CreateToolRouter(context.Background(), LLMConfig{}, nil)
	if err == nil {
		t.Error("CreateToolRouter() should return error when no providers configured")
	}
}

func TestCreateFilterSelector_NoProviders(t *testing.T) {
	t.Parallel()
	_, err := CreateFilterSelector(context.Background(), LLMConfig{}, nil)
	if err == nil {
		t.Error("CreateFilterSelector() should return error when no providers configured")
	}
}

func TestCreateComposer_NoProviders(t *testing.T) {
	t.Parallel()
	_, err := CreateComposer(context.Background(), LLMConfig{}, nil)
	if err == nil {
		t.Error("CreateComposer() should return error when no providers configured")
	}
}

func TestCreateToolRouter_OpenAIOnly(t *testing.T) {
	t.Parallel()
	cfg := LLMConfig{
		PrimaryProvider:  ProviderGroq,
		FallbackProvider: ProviderCerebras,
		Groq:             ProviderConfig{APIKey: "groq-key"},
		Cerebras:         ProviderConfig{APIKey: "cerebras-key"},
	}

	router, err := CreateToolRouter(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("CreateToolRouter() error = %v, want nil", err)
	}
	if router == nil || !router.IsEnabled() {
		t.Error("router should be enabled")
	}
	if router.Provider() != ProviderGroq {
		t.Errorf("Provider() = %v, want %v", router.Provider(), ProviderGroq)
	}
	_ = router.Close()
}

func TestCreateToolRouter_PrimaryMissingKeyPromotesFallback(t *testing.T) {
	t.Parallel()
	cfg := LLMConfig{
		PrimaryProvider:  ProviderGemini,
		FallbackProvider: ProviderGroq,
		Groq:             ProviderConfig{APIKey: "groq-key"},
	}

	router, err := CreateToolRouter(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("CreateToolRouter() error = %v, want nil", err)
	}
	if router.Provider() != ProviderGroq {
		t.Errorf("Provider() = %v, want %v (promoted fallback)", router.Provider(), ProviderGroq)
	}
	_ = router.Close()
}

func TestProviderString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		provider Provider
		expected string
	}{
		{ProviderGemini, "gemini"},
		{ProviderGroq, "groq"},
		{ProviderCerebras, "cerebras"},
		{Provider("custom"), "custom"},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			t.Parallel()
			if got := tt.provider.String(); got != tt.expected {
				t.Errorf("Provider.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestProviderIsOpenAICompatible(t *testing.T) {
	t.Parallel()
	if ProviderGemini.IsOpenAICompatible() {
		t.Error("gemini should not be OpenAI-compatible")
	}
	if !ProviderGroq.IsOpenAICompatible() {
		t.Error("groq should be OpenAI-compatible")
	}
	if !ProviderCerebras.IsOpenAICompatible() {
		t.Error("cerebras should be OpenAI-compatible")
	}
}

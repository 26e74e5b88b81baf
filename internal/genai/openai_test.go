package genai

import (
	"context"
	"testing"

	"github.com/openai/openai-go/v3"
)

func TestNewOpenAIToolRouter_EmptyKey(t *testing.T) {
	t.Parallel()
	router, err := newOpenAIToolRouter(context.Background(), ProviderGroq, "", "")
	if err != nil {
		t.Errorf("expected no error for empty key, got: %v", err)
	}
	if router != nil {
		t.Error("expected nil router for empty key")
	}
}

func TestNewOpenAIToolRouter_UnsupportedProvider(t *testing.T) {
	t.Parallel()
	_, err := newOpenAIToolRouter(context.Background(), ProviderGemini, "key", "")
	if err == nil {
		t.Error("expected error for non-OpenAI-compatible provider")
	}
}

func TestNewOpenAIToolRouter_DefaultModel(t *testing.T) {
	t.Parallel()
	router, err := newOpenAIToolRouter(context.Background(), ProviderCerebras, "key", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if router.model != DefaultCerebrasModel {
		t.Errorf("model = %q, want %q", router.model, DefaultCerebrasModel)
	}
	if router.Provider() != ProviderCerebras {
		t.Errorf("Provider() = %v, want cerebras", router.Provider())
	}
}

func TestParseOpenAIToolCall(t *testing.T) {
	t.Parallel()

	call := func(name, args string) openai.ChatCompletionMessageToolCallUnion {
		return openai.ChatCompletionMessageToolCallUnion{
			Type: "function",
			Function: openai.ChatCompletionMessageFunctionToolCallFunction{
				Name:      name,
				Arguments: args,
			},
		}
	}

	t.Run("valid tool call", func(t *testing.T) {
		t.Parallel()
		result, err := parseOpenAIToolCall(call("duke_curriculum", `{"subject":"AIPI - Artificial Intelligence for Product Innovation"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Tool != "duke_curriculum" {
			t.Errorf("Tool = %q, want duke_curriculum", result.Tool)
		}
		if result.Params["subject"] != "AIPI - Artificial Intelligence for Product Innovation" {
			t.Errorf("Params = %v", result.Params)
		}
	})

	t.Run("unknown tool", func(t *testing.T) {
		t.Parallel()
		if _, err := parseOpenAIToolCall(call("nope", `{}`)); err == nil {
			t.Error("expected error for unknown tool")
		}
	})

	t.Run("malformed arguments", func(t *testing.T) {
		t.Parallel()
		if _, err := parseOpenAIToolCall(call("duke_people", `{not json`)); err == nil {
			t.Error("expected error for malformed JSON arguments")
		}
	})

	t.Run("missing parameter", func(t *testing.T) {
		t.Parallel()
		if _, err := parseOpenAIToolCall(call("duke_people", `{}`)); err == nil {
			t.Error("expected error for missing parameter")
		}
	})

	t.Run("non-string parameter", func(t *testing.T) {
		t.Parallel()
		if _, err := parseOpenAIToolCall(call("duke_people", `{"name":7}`)); err == nil {
			t.Error("expected error for non-string parameter")
		}
	})
}

func TestFirstToolCall(t *testing.T) {
	t.Parallel()

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()
		if _, err := firstToolCall(nil); err == nil {
			t.Error("expected error for nil response")
		}
	})

	t.Run("no tool calls", func(t *testing.T) {
		t.Parallel()
		resp := &openai.ChatCompletion{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{Content: "plain text"},
			}},
		}
		if _, err := firstToolCall(resp); err == nil {
			t.Error("expected error when no tool calls present")
		}
	})

	t.Run("function tool call", func(t *testing.T) {
		t.Parallel()
		resp := &openai.ChatCompletion{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{
					ToolCalls: []openai.ChatCompletionMessageToolCallUnion{{
						Type: "function",
						Function: openai.ChatCompletionMessageFunctionToolCallFunction{
							Name:      "pratt_search",
							Arguments: `{"query":"deadlines"}`,
						},
					}},
				},
			}},
		}
		tc, err := firstToolCall(resp)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tc.Function.Name != "pratt_search" {
			t.Errorf("Name = %q, want pratt_search", tc.Function.Name)
		}
	})
}

func TestBuildOpenAIMessages(t *testing.T) {
	t.Parallel()
	history := []Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
	}

	messages := buildOpenAIMessages("system text", history, "any events?")
	if len(messages) != 4 {
		t.Fatalf("len = %d, want 4 (system + history + query)", len(messages))
	}

	messages = buildOpenAIMessages("", nil, "just a query")
	if len(messages) != 1 {
		t.Fatalf("len = %d, want 1 (query only)", len(messages))
	}
}

package genai

import (
	"context"
	"testing"

	"google.golang.org/genai"
)

func TestNewGeminiToolRouter_EmptyKey(t *testing.T) {
	t.Parallel()
	router, err := newGeminiToolRouter(context.Background(), "", "")
	if err != nil {
		t.Errorf("expected no error for empty key, got: %v", err)
	}
	if router != nil {
		t.Error("expected nil router for empty key")
	}
	if router.IsEnabled() {
		t.Error("nil router should not be enabled")
	}
	if err := router.Close(); err != nil {
		t.Errorf("Close() on nil router should be safe, got: %v", err)
	}
}

func TestGeminiToolRouter_Route_NilReceiver(t *testing.T) {
	t.Parallel()
	var router *geminiToolRouter
	_, err := router.Route(context.Background(), "test", nil)
	if err == nil {
		t.Error("Route() on nil receiver should return error")
	}
}

func TestParseGeminiFunctionCall(t *testing.T) {
	t.Parallel()

	respWith := func(fc *genai.FunctionCall) *genai.GenerateContentResponse {
		return &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{
					Parts: []*genai.Part{{FunctionCall: fc}},
				},
			}},
		}
	}

	t.Run("valid tool call", func(t *testing.T) {
		t.Parallel()
		result, err := parseGeminiFunctionCall(respWith(&genai.FunctionCall{
			Name: "duke_events",
			Args: map[string]any{"prompt": "data science talks"},
		}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Tool != "duke_events" {
			t.Errorf("Tool = %q, want duke_events", result.Tool)
		}
		if result.Params["prompt"] != "data science talks" {
			t.Errorf("Params = %v, want prompt set", result.Params)
		}
	})

	t.Run("multi-parameter tool", func(t *testing.T) {
		t.Parallel()
		result, err := parseGeminiFunctionCall(respWith(&genai.FunctionCall{
			Name: "duke_course_details",
			Args: map[string]any{"course_id": "029248", "course_offer_number": "1"},
		}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Params["course_id"] != "029248" || result.Params["course_offer_number"] != "1" {
			t.Errorf("Params = %v, want both ids set", result.Params)
		}
	})

	t.Run("unknown tool", func(t *testing.T) {
		t.Parallel()
		_, err := parseGeminiFunctionCall(respWith(&genai.FunctionCall{
			Name: "unknown_tool",
			Args: map[string]any{},
		}))
		if err == nil {
			t.Error("expected error for unknown tool")
		}
	})

	t.Run("missing parameter", func(t *testing.T) {
		t.Parallel()
		_, err := parseGeminiFunctionCall(respWith(&genai.FunctionCall{
			Name: "duke_people",
			Args: map[string]any{},
		}))
		if err == nil {
			t.Error("expected error for missing parameter")
		}
	})

	t.Run("non-string parameter", func(t *testing.T) {
		t.Parallel()
		_, err := parseGeminiFunctionCall(respWith(&genai.FunctionCall{
			Name: "duke_people",
			Args: map[string]any{"name": 42},
		}))
		if err == nil {
			t.Error("expected error for non-string parameter")
		}
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()
		if _, err := parseGeminiFunctionCall(nil); err == nil {
			t.Error("expected error for nil response")
		}
	})

	t.Run("no function call", func(t *testing.T) {
		t.Parallel()
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{
					Parts: []*genai.Part{{Text: "just text"}},
				},
			}},
		}
		if _, err := parseGeminiFunctionCall(resp); err == nil {
			t.Error("expected error when no function call present")
		}
	})
}

func TestStringSliceArg(t *testing.T) {
	t.Parallel()
	args := map[string]any{
		"groups": []any{"+DataScience (+DS)", "Duke Arts"},
		"mixed":  []any{"ok", 7, "also ok"},
		"scalar": "not a list",
	}

	if got := stringSliceArg(args, "groups"); len(got) != 2 || got[0] != "+DataScience (+DS)" {
		t.Errorf("stringSliceArg(groups) = %v", got)
	}
	if got := stringSliceArg(args, "mixed"); len(got) != 2 {
		t.Errorf("stringSliceArg(mixed) = %v, want non-strings skipped", got)
	}
	if got := stringSliceArg(args, "scalar"); got != nil {
		t.Errorf("stringSliceArg(scalar) = %v, want nil", got)
	}
	if got := stringSliceArg(args, "absent"); got != nil {
		t.Errorf("stringSliceArg(absent) = %v, want nil", got)
	}
}

func TestBuildGeminiContents(t *testing.T) {
	t.Parallel()
	history := []Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
	}

	contents := buildGeminiContents(history, "any events?")
	if len(contents) != 3 {
		t.Fatalf("len = %d, want 3", len(contents))
	}
	if contents[1].Role != string(genai.RoleModel) {
		t.Errorf("assistant turn role = %q, want model", contents[1].Role)
	}
	if contents[2].Role != string(genai.RoleUser) {
		t.Errorf("query turn role = %q, want user", contents[2].Role)
	}
}

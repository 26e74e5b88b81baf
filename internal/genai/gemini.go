// Package genai provides integration with LLM APIs (Gemini, Groq, and Cerebras).
// This file contains the Gemini implementations of tool routing, filter
// selection, and answer composition.
package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

// geminiToolRouter routes user messages to tools using Gemini function calling.
// It implements the ToolRouter interface.
type geminiToolRouter struct {
	client     *genai.Client
	model      string
	tools      []*genai.Tool
	systemInst string
}

// newGeminiToolRouter creates a new Gemini-based tool router.
// Returns nil if apiKey is empty (provider disabled).
func newGeminiToolRouter(ctx context.Context, apiKey, model string) (*geminiToolRouter, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}

	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &geminiToolRouter{
		client: client,
		model:  model,
		tools: []*genai.Tool{{
			FunctionDeclarations: BuildToolFunctions(),
		}},
		systemInst: RouterSystemPrompt,
	}, nil
}

// Route analyzes the user message and returns the tool to dispatch to.
// The model uses ANY mode, requiring it to always call a function
// (including direct_reply for messages that need no data fetch).
func (r *geminiToolRouter) Route(ctx context.Context, query string, history []Message) (*RouteResult, error) {
	if r == nil {
		return nil, errors.New("tool router is nil")
	}

	config := &genai.GenerateContentConfig{
		Tools:             r.tools,
		SystemInstruction: genai.NewContentFromText(r.systemInst, genai.RoleUser),
		ToolConfig: &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode: genai.FunctionCallingConfigModeAny, // Force function calling
			},
		},
		Temperature:     genai.Ptr[float32](0.1), // Low temperature for consistent routing
		MaxOutputTokens: 512,                     // Sufficient for direct_reply messages
	}

	contents := buildGeminiContents(history, query)

	start := time.Now()
	result, err := r.client.Models.GenerateContent(ctx, r.model, contents, config)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "tool routing API call failed",
			"provider", "gemini",
			"model", r.model,
			"input_length", len(query),
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return nil, fmt.Errorf("generate content failed: %w", err)
	}

	routed, parseErr := parseGeminiFunctionCall(result)
	if parseErr != nil {
		return nil, parseErr
	}

	if result.UsageMetadata != nil {
		slog.DebugContext(ctx, "tool routing completed",
			"provider", "gemini",
			"model", r.model,
			"tool", routed.Tool,
			"input_tokens", result.UsageMetadata.PromptTokenCount,
			"output_tokens", result.UsageMetadata.CandidatesTokenCount,
			"total_tokens", result.UsageMetadata.TotalTokenCount,
			"duration_ms", duration.Milliseconds())
	}

	return routed, nil
}

// parseGeminiFunctionCall extracts the routed tool from the generation result.
func parseGeminiFunctionCall(result *genai.GenerateContentResponse) (*RouteResult, error) {
	fc, err := firstFunctionCall(result)
	if err != nil {
		return nil, err
	}

	if !IsKnownTool(fc.Name) {
		return nil, fmt.Errorf("unknown tool: %s", fc.Name)
	}

	params := make(map[string]string)
	for _, key := range ToolParamsMap[fc.Name] {
		value, exists := fc.Args[key]
		if !exists {
			return nil, fmt.Errorf("missing required parameter %q for tool %q", key, fc.Name)
		}
		strVal, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("parameter %q for tool %q is not a string (got %T)", key, fc.Name, value)
		}
		params[key] = strVal
	}

	return &RouteResult{Tool: fc.Name, Params: params}, nil
}

// firstFunctionCall returns the first function call part of a response.
func firstFunctionCall(result *genai.GenerateContentResponse) (*genai.FunctionCall, error) {
	if result == nil || len(result.Candidates) == 0 {
		return nil, errors.New("empty response from model")
	}

	candidate := result.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, errors.New("no content in response")
	}

	for _, part := range candidate.Content.Parts {
		if part.FunctionCall != nil {
			return part.FunctionCall, nil
		}
	}

	// In ANY mode, model should always return a function call
	return nil, errors.New("no function call in response (expected with ANY mode)")
}

// buildGeminiContents converts conversation history plus the current query
// into Gemini content turns.
func buildGeminiContents(history []Message, query string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, msg := range history {
		role := genai.Role(genai.RoleUser)
		if msg.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(query, genai.RoleUser))
	return contents
}

// IsEnabled returns true if the tool router is enabled.
func (r *geminiToolRouter) IsEnabled() bool {
	return r != nil && r.client != nil
}

// Provider returns the provider type for this router.
func (r *geminiToolRouter) Provider() Provider {
	return ProviderGemini
}

// Close releases resources held by the geminiToolRouter.
// Safe to call on nil receiver.
func (r *geminiToolRouter) Close() error {
	if r == nil {
		return nil
	}
	// Note: genai.Client does not require explicit cleanup in current SDK version
	return nil
}

// geminiFilterSelector extracts event groups and categories from a prompt
// using a single forced function call. It implements the FilterSelector interface.
type geminiFilterSelector struct {
	client *genai.Client
	model  string
	tools  []*genai.Tool
}

// newGeminiFilterSelector creates a new Gemini-based filter selector.
// Returns nil if apiKey is empty (provider disabled).
func newGeminiFilterSelector(ctx context.Context, apiKey, model string) (*geminiFilterSelector, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}

	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &geminiFilterSelector{
		client: client,
		model:  model,
		tools: []*genai.Tool{{
			FunctionDeclarations: []*genai.FunctionDeclaration{BuildFilterSelectionFunction()},
		}},
	}, nil
}

// SelectFilters asks the model to pick matching groups and categories from
// the candidate lists. Values not present in the candidates are dropped by
// the caller, not here.
func (s *geminiFilterSelector) SelectFilters(ctx context.Context, prompt string, candidateGroups, candidateCategories []string) (*Selection, error) {
	if s == nil {
		return nil, errors.New("filter selector is nil")
	}

	config := &genai.GenerateContentConfig{
		Tools: s.tools,
		ToolConfig: &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode: genai.FunctionCallingConfigModeAny, // Force function calling
			},
		},
		Temperature:     genai.Ptr[float32](0), // Deterministic selection
		MaxOutputTokens: 1024,                  // Room for long group name lists
	}

	text := FilterSelectionPrompt(prompt, candidateGroups, candidateCategories)

	start := time.Now()
	result, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(text), config)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "filter selection API call failed",
			"provider", "gemini",
			"model", s.model,
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return nil, fmt.Errorf("generate content failed: %w", err)
	}

	fc, err := firstFunctionCall(result)
	if err != nil {
		return nil, err
	}
	if fc.Name != FilterSelectionFunctionName {
		return nil, fmt.Errorf("unexpected function: %s", fc.Name)
	}

	selection := &Selection{
		Groups:     stringSliceArg(fc.Args, "groups"),
		Categories: stringSliceArg(fc.Args, "categories"),
	}

	if result.UsageMetadata != nil {
		slog.DebugContext(ctx, "filter selection completed",
			"provider", "gemini",
			"model", s.model,
			"groups", len(selection.Groups),
			"categories", len(selection.Categories),
			"total_tokens", result.UsageMetadata.TotalTokenCount,
			"duration_ms", duration.Milliseconds())
	}

	return selection, nil
}

// stringSliceArg extracts a []string argument from function call args.
// Function call arrays arrive as []any; non-string elements are skipped.
func stringSliceArg(args map[string]any, key string) []string {
	raw, ok := args[key]
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Provider returns the provider type for this selector.
func (s *geminiFilterSelector) Provider() Provider {
	return ProviderGemini
}

// Close releases resources held by the geminiFilterSelector.
// Safe to call on nil receiver.
func (s *geminiFilterSelector) Close() error {
	return nil
}

// geminiComposer produces the final user-facing answer from tool output.
// It implements the Composer interface.
type geminiComposer struct {
	client     *genai.Client
	model      string
	systemInst string
}

// newGeminiComposer creates a new Gemini-based answer composer.
// Returns nil if apiKey is empty (provider disabled).
func newGeminiComposer(ctx context.Context, apiKey, model string) (*geminiComposer, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}

	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &geminiComposer{
		client:     client,
		model:      model,
		systemInst: ComposerSystemPrompt,
	}, nil
}

// Compose turns raw tool output into a conversational answer.
func (c *geminiComposer) Compose(ctx context.Context, query, toolName, toolOutput string, history []Message) (string, error) {
	if c == nil {
		return "", errors.New("composer is nil")
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(c.systemInst, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.3),
		MaxOutputTokens:   1024,
	}

	contents := buildGeminiContents(history, ComposePrompt(query, toolName, toolOutput))

	start := time.Now()
	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "composition API call failed",
			"provider", "gemini",
			"model", c.model,
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return "", fmt.Errorf("generate content failed: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 {
		return "", errors.New("empty response from model")
	}
	candidate := result.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("no content in response")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	answer := strings.TrimSpace(sb.String())
	if answer == "" {
		return "", errors.New("no text in response")
	}

	if result.UsageMetadata != nil {
		slog.DebugContext(ctx, "composition completed",
			"provider", "gemini",
			"model", c.model,
			"input_tokens", result.UsageMetadata.PromptTokenCount,
			"output_tokens", result.UsageMetadata.CandidatesTokenCount,
			"total_tokens", result.UsageMetadata.TotalTokenCount,
			"duration_ms", duration.Milliseconds())
	}

	return answer, nil
}

// Provider returns the provider type for this composer.
func (c *geminiComposer) Provider() Provider {
	return ProviderGemini
}

// Close releases resources held by the geminiComposer.
// Safe to call on nil receiver.
func (c *geminiComposer) Close() error {
	return nil
}

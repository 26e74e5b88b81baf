// Package genai provides integration with LLM APIs (Gemini, Groq, and Cerebras).
// This file contains the unified OpenAI-compatible implementations of tool
// routing, filter selection, and answer composition. It works with any
// OpenAI-compatible provider (Groq, Cerebras) via custom BaseURL.
package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	googlegenai "google.golang.org/genai"
)

// newOpenAIClient builds a client for an OpenAI-compatible provider.
func newOpenAIClient(provider Provider, apiKey string) (openai.Client, error) {
	baseURL, ok := ProviderEndpoint[provider]
	if !ok {
		return openai.Client{}, fmt.Errorf("unsupported OpenAI-compatible provider: %s", provider)
	}
	return openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	), nil
}

// convertSchema converts a genai parameter schema to OpenAI JSON Schema form.
// IMPORTANT: genai.Type* constants are uppercase ("STRING") and must be
// lowercased to match JSON Schema Draft 2020-12 ("string").
func convertSchema(schema *googlegenai.Schema) map[string]any {
	out := map[string]any{
		"type": strings.ToLower(string(schema.Type)),
	}
	if schema.Description != "" {
		out["description"] = schema.Description
	}
	if schema.Items != nil {
		out["items"] = convertSchema(schema.Items)
	}
	return out
}

// convertFunction converts one function declaration to OpenAI v3 tool format.
func convertFunction(fd *googlegenai.FunctionDeclaration) openai.ChatCompletionToolUnionParam {
	properties := make(map[string]any)
	for name, schema := range fd.Parameters.Properties {
		properties[name] = convertSchema(schema)
	}

	return openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
		Name:        fd.Name,
		Description: openai.String(fd.Description),
		Parameters: openai.FunctionParameters{
			"type":       "object",
			"properties": properties,
			"required":   fd.Parameters.Required,
		},
	})
}

// buildOpenAITools converts the tool routing function declarations to OpenAI
// v3 tool format.
func buildOpenAITools() []openai.ChatCompletionToolUnionParam {
	funcDecls := BuildToolFunctions()
	result := make([]openai.ChatCompletionToolUnionParam, 0, len(funcDecls))
	for _, fd := range funcDecls {
		result = append(result, convertFunction(fd))
	}
	return result
}

// toolChoiceRequired forces the model to call a function.
func toolChoiceRequired() openai.ChatCompletionToolChoiceOptionUnionParam {
	return openai.ChatCompletionToolChoiceOptionUnionParam{
		OfAuto: openai.String(string(openai.ChatCompletionToolChoiceOptionAutoRequired)),
	}
}

// buildOpenAIMessages converts conversation history plus the current query
// into chat messages, prefixed with the system instruction when present.
func buildOpenAIMessages(systemInst string, history []Message, query string) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	if systemInst != "" {
		messages = append(messages, openai.SystemMessage(systemInst))
	}
	for _, msg := range history {
		if msg.Role == RoleAssistant {
			messages = append(messages, openai.AssistantMessage(msg.Content))
		} else {
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}
	messages = append(messages, openai.UserMessage(query))
	return messages
}

// firstToolCall returns the first function tool call of a chat completion.
func firstToolCall(resp *openai.ChatCompletion) (openai.ChatCompletionMessageToolCallUnion, error) {
	var zero openai.ChatCompletionMessageToolCallUnion
	if resp == nil || len(resp.Choices) == 0 {
		return zero, errors.New("empty response from model")
	}
	choice := resp.Choices[0]
	if len(choice.Message.ToolCalls) == 0 {
		// In required mode, model should always return a tool call
		return zero, errors.New("no tool call in response (expected with required mode)")
	}
	tc := choice.Message.ToolCalls[0]
	if tc.Type != "function" {
		return zero, fmt.Errorf("unexpected tool type: %s", tc.Type)
	}
	return tc, nil
}

// openaiToolRouter routes user messages to tools using an OpenAI-compatible
// provider. It implements the ToolRouter interface.
type openaiToolRouter struct {
	client     openai.Client
	model      string
	tools      []openai.ChatCompletionToolUnionParam
	systemInst string
	provider   Provider
}

// newOpenAIToolRouter creates a new OpenAI-compatible tool router.
// Returns nil if apiKey is empty (provider disabled).
func newOpenAIToolRouter(_ context.Context, provider Provider, apiKey, model string) (*openaiToolRouter, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}

	if model == "" {
		model = DefaultModel(provider)
	}

	client, err := newOpenAIClient(provider, apiKey)
	if err != nil {
		return nil, err
	}

	return &openaiToolRouter{
		client:     client,
		model:      model,
		tools:      buildOpenAITools(),
		systemInst: RouterSystemPrompt,
		provider:   provider,
	}, nil
}

// Route analyzes the user message and returns the tool to dispatch to.
// The model uses required mode, forcing it to always call a function.
func (r *openaiToolRouter) Route(ctx context.Context, query string, history []Message) (*RouteResult, error) {
	if r == nil {
		return nil, errors.New("tool router is nil")
	}

	params := openai.ChatCompletionNewParams{
		Model:       r.model,
		Messages:    buildOpenAIMessages(r.systemInst, history, query),
		Tools:       r.tools,
		ToolChoice:  toolChoiceRequired(),
		Temperature: openai.Float(0.1), // Low temperature for consistent routing
		MaxTokens:   openai.Int(512),   // Sufficient for direct_reply messages
	}

	start := time.Now()
	resp, err := r.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "tool routing API call failed",
			"provider", r.provider,
			"model", r.model,
			"input_length", len(query),
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	tc, err := firstToolCall(resp)
	if err != nil {
		return nil, err
	}
	routed, err := parseOpenAIToolCall(tc)
	if err != nil {
		return nil, err
	}

	if resp.Usage.TotalTokens > 0 {
		slog.DebugContext(ctx, "tool routing completed",
			"provider", r.provider,
			"model", r.model,
			"tool", routed.Tool,
			"input_tokens", resp.Usage.PromptTokens,
			"output_tokens", resp.Usage.CompletionTokens,
			"total_tokens", resp.Usage.TotalTokens,
			"duration_ms", duration.Milliseconds())
	}

	return routed, nil
}

// parseOpenAIToolCall extracts the routed tool from an OpenAI tool call.
func parseOpenAIToolCall(tc openai.ChatCompletionMessageToolCallUnion) (*RouteResult, error) {
	name := tc.Function.Name
	if !IsKnownTool(name) {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}

	var args map[string]any
	if tc.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			return nil, fmt.Errorf("failed to parse function arguments: %w", err)
		}
	}

	params := make(map[string]string)
	for _, key := range ToolParamsMap[name] {
		value, exists := args[key]
		if !exists {
			return nil, fmt.Errorf("missing required parameter %q for tool %q", key, name)
		}
		strVal, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("parameter %q for tool %q is not a string (got %T)", key, name, value)
		}
		params[key] = strVal
	}

	return &RouteResult{Tool: name, Params: params}, nil
}

// IsEnabled returns true if the tool router is enabled.
func (r *openaiToolRouter) IsEnabled() bool {
	return r != nil
}

// Provider returns the provider type for this router.
func (r *openaiToolRouter) Provider() Provider {
	if r == nil {
		return ""
	}
	return r.provider
}

// Close releases resources held by the openaiToolRouter.
// Safe to call on nil receiver.
func (r *openaiToolRouter) Close() error {
	return nil
}

// openaiFilterSelector extracts event groups and categories using a single
// forced function call. It implements the FilterSelector interface.
type openaiFilterSelector struct {
	client   openai.Client
	model    string
	tools    []openai.ChatCompletionToolUnionParam
	provider Provider
}

// newOpenAIFilterSelector creates a new OpenAI-compatible filter selector.
// Returns nil if apiKey is empty (provider disabled).
func newOpenAIFilterSelector(_ context.Context, provider Provider, apiKey, model string) (*openaiFilterSelector, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}

	if model == "" {
		model = DefaultModel(provider)
	}

	client, err := newOpenAIClient(provider, apiKey)
	if err != nil {
		return nil, err
	}

	return &openaiFilterSelector{
		client:   client,
		model:    model,
		tools:    []openai.ChatCompletionToolUnionParam{convertFunction(BuildFilterSelectionFunction())},
		provider: provider,
	}, nil
}

// SelectFilters asks the model to pick matching groups and categories from
// the candidate lists.
func (s *openaiFilterSelector) SelectFilters(ctx context.Context, prompt string, candidateGroups, candidateCategories []string) (*Selection, error) {
	if s == nil {
		return nil, errors.New("filter selector is nil")
	}

	params := openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(FilterSelectionPrompt(prompt, candidateGroups, candidateCategories)),
		},
		Tools:       s.tools,
		ToolChoice:  toolChoiceRequired(),
		Temperature: openai.Float(0), // Deterministic selection
		MaxTokens:   openai.Int(1024),
	}

	start := time.Now()
	resp, err := s.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "filter selection API call failed",
			"provider", s.provider,
			"model", s.model,
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	tc, err := firstToolCall(resp)
	if err != nil {
		return nil, err
	}
	if tc.Function.Name != FilterSelectionFunctionName {
		return nil, fmt.Errorf("unexpected function: %s", tc.Function.Name)
	}

	var args map[string]any
	if tc.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			return nil, fmt.Errorf("failed to parse function arguments: %w", err)
		}
	}

	selection := &Selection{
		Groups:     stringSliceArg(args, "groups"),
		Categories: stringSliceArg(args, "categories"),
	}

	if resp.Usage.TotalTokens > 0 {
		slog.DebugContext(ctx, "filter selection completed",
			"provider", s.provider,
			"model", s.model,
			"groups", len(selection.Groups),
			"categories", len(selection.Categories),
			"total_tokens", resp.Usage.TotalTokens,
			"duration_ms", duration.Milliseconds())
	}

	return selection, nil
}

// Provider returns the provider type for this selector.
func (s *openaiFilterSelector) Provider() Provider {
	if s == nil {
		return ""
	}
	return s.provider
}

// Close releases resources held by the openaiFilterSelector.
// Safe to call on nil receiver.
func (s *openaiFilterSelector) Close() error {
	return nil
}

// openaiComposer produces the final user-facing answer from tool output.
// It implements the Composer interface.
type openaiComposer struct {
	client     openai.Client
	model      string
	systemInst string
	provider   Provider
}

// newOpenAIComposer creates a new OpenAI-compatible answer composer.
// Returns nil if apiKey is empty (provider disabled).
func newOpenAIComposer(_ context.Context, provider Provider, apiKey, model string) (*openaiComposer, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}

	if model == "" {
		model = DefaultModel(provider)
	}

	client, err := newOpenAIClient(provider, apiKey)
	if err != nil {
		return nil, err
	}

	return &openaiComposer{
		client:     client,
		model:      model,
		systemInst: ComposerSystemPrompt,
		provider:   provider,
	}, nil
}

// Compose turns raw tool output into a conversational answer.
func (c *openaiComposer) Compose(ctx context.Context, query, toolName, toolOutput string, history []Message) (string, error) {
	if c == nil {
		return "", errors.New("composer is nil")
	}

	params := openai.ChatCompletionNewParams{
		Model:       c.model,
		Messages:    buildOpenAIMessages(c.systemInst, history, ComposePrompt(query, toolName, toolOutput)),
		Temperature: openai.Float(0.3),
		MaxTokens:   openai.Int(1024),
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "composition API call failed",
			"provider", c.provider,
			"model", c.model,
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("empty response from model")
	}
	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", errors.New("no text in response")
	}

	if resp.Usage.TotalTokens > 0 {
		slog.DebugContext(ctx, "composition completed",
			"provider", c.provider,
			"model", c.model,
			"input_tokens", resp.Usage.PromptTokens,
			"output_tokens", resp.Usage.CompletionTokens,
			"total_tokens", resp.Usage.TotalTokens,
			"duration_ms", duration.Milliseconds())
	}

	return answer, nil
}

// Provider returns the provider type for this composer.
func (c *openaiComposer) Provider() Provider {
	if c == nil {
		return ""
	}
	return c.provider
}

// Close releases resources held by the openaiComposer.
// Safe to call on nil receiver.
func (c *openaiComposer) Close() error {
	return nil
}

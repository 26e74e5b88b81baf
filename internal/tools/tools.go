// Package tools implements the closed set of data tools the agent can
// invoke. Every tool returns a plain string, success or failure: upstream
// errors become descriptive strings instead of raised errors so a bad fetch
// never aborts the agent's reasoning loop.
package tools

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/dukebot/dukebot-go/internal/errors"
	"github.com/dukebot/dukebot-go/internal/logger"
	"github.com/dukebot/dukebot-go/internal/metrics"
)

// Tool is one callable data tool.
type Tool interface {
	// Name returns the tool's routing name.
	Name() string

	// Call executes the tool with the routed string parameters and returns
	// the payload or an error string. It never panics and never errors.
	Call(ctx context.Context, params map[string]string) string
}

// Set is the registry of available tools, keyed by routing name.
type Set struct {
	tools   map[string]Tool
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// NewSet builds a registry from the given tools. m may be nil.
func NewSet(log *logger.Logger, m *metrics.Metrics, tools ...Tool) *Set {
	byName := make(map[string]Tool, len(tools))
	for _, t := range tools {
		byName[t.Name()] = t
	}
	return &Set{
		tools:   byName,
		logger:  log.WithModule("tools"),
		metrics: m,
	}
}

// Has reports whether a tool is registered under name.
func (s *Set) Has(name string) bool {
	_, ok := s.tools[name]
	return ok
}

// Names returns the registered tool names.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.tools))
	for name := range s.tools {
		names = append(names, name)
	}
	return names
}

// Dispatch runs the named tool and returns its string result.
// Unknown names return an error; everything else is a string, including
// tool-level failures.
func (s *Set) Dispatch(ctx context.Context, name string, params map[string]string) (string, error) {
	tool, ok := s.tools[name]
	if !ok {
		return "", apperrors.ErrUnknownTool
	}

	start := time.Now()
	result := tool.Call(ctx, params)
	duration := time.Since(start)

	status := "ok"
	if isErrorResult(result) {
		status = "error"
	}
	if s.metrics != nil {
		s.metrics.RecordToolCall(name, status, duration.Seconds())
	}

	s.logger.WithFields(map[string]any{
		"tool":        name,
		"status":      status,
		"bytes":       len(result),
		"duration_ms": duration.Milliseconds(),
	}).Debug("tool call completed")

	return result, nil
}

// isErrorResult recognizes the error string sentinels tools emit.
func isErrorResult(result string) bool {
	return strings.HasPrefix(result, "Error:") ||
		strings.HasPrefix(result, "Failed to fetch data:")
}

// Package agent orchestrates one chat turn: route the query to a tool,
// execute it, then compose a natural-language answer from the tool output.
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dukebot/dukebot-go/internal/config"
	apperrors "github.com/dukebot/dukebot-go/internal/errors"
	"github.com/dukebot/dukebot-go/internal/genai"
	"github.com/dukebot/dukebot-go/internal/logger"
	"github.com/dukebot/dukebot-go/internal/metrics"
	"github.com/dukebot/dukebot-go/internal/tools"
)

// DirectReplyToolName is the routing outcome that needs no data fetch: the
// router already wrote the answer into the message parameter.
const DirectReplyToolName = "direct_reply"

// Agent runs the route, fetch, compose loop for chat queries.
type Agent struct {
	router   genai.ToolRouter
	composer genai.Composer
	tools    *tools.Set
	history  *historyStore
	cfg      config.AgentConfig
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

// New creates an agent. m may be nil.
func New(
	router genai.ToolRouter,
	composer genai.Composer,
	toolSet *tools.Set,
	cfg config.AgentConfig,
	log *logger.Logger,
	m *metrics.Metrics,
) *Agent {
	return &Agent{
		router:   router,
		composer: composer,
		tools:    toolSet,
		history:  newHistoryStore(cfg.HistoryLimit),
		cfg:      cfg,
		logger:   log.WithModule("agent"),
		metrics:  m,
	}
}

// Handle answers one user query within a session. The returned string is
// always user-facing text; errors mean the agent itself could not run, not
// that a data fetch failed.
func (a *Agent) Handle(ctx context.Context, sessionID, query string) (string, error) {
	start := time.Now()

	query = strings.TrimSpace(query)
	if query == "" {
		a.recordChat("invalid", start)
		return "", fmt.Errorf("%w: empty query", apperrors.ErrInvalidInput)
	}
	if len(query) > a.cfg.MaxQueryLength {
		a.recordChat("invalid", start)
		return "", fmt.Errorf("%w: query exceeds %d characters", apperrors.ErrInvalidInput, a.cfg.MaxQueryLength)
	}

	history := a.history.Get(sessionID)

	route, err := a.route(ctx, query, history)
	if err != nil {
		a.recordChat("route_error", start)
		return "", fmt.Errorf("tool routing failed: %w", err)
	}

	log := a.logger.WithFields(map[string]any{
		"session_id": sessionID,
		"tool":       route.Tool,
	})

	if route.Tool == DirectReplyToolName {
		answer := route.Params["message"]
		a.history.Append(sessionID, query, answer)
		a.recordChat("ok", start)
		log.WithField("duration_ms", time.Since(start).Milliseconds()).Info("Chat turn completed")
		return answer, nil
	}

	toolOutput, err := a.tools.Dispatch(ctx, route.Tool, route.Params)
	if err != nil {
		a.recordChat("dispatch_error", start)
		return "", fmt.Errorf("tool dispatch failed: %w", err)
	}

	answer, err := a.compose(ctx, query, route.Tool, toolOutput, history)
	if err != nil {
		// Composition is best effort. The raw tool output is still an
		// answer the user can read.
		log.WithError(err).Warn("compose failed, returning tool output")
		answer = toolOutput
	}

	a.history.Append(sessionID, query, answer)
	a.recordChat("ok", start)
	log.WithField("duration_ms", time.Since(start).Milliseconds()).Info("Chat turn completed")
	return answer, nil
}

// ClearSession drops the conversation history for a session.
func (a *Agent) ClearSession(sessionID string) {
	a.history.Clear(sessionID)
}

func (a *Agent) route(ctx context.Context, query string, history []genai.Message) (*genai.RouteResult, error) {
	routeCtx, cancel := context.WithTimeout(ctx, a.cfg.RouterTimeout)
	defer cancel()
	return a.router.Route(routeCtx, query, history)
}

func (a *Agent) compose(ctx context.Context, query, toolName, toolOutput string, history []genai.Message) (string, error) {
	if a.composer == nil {
		return toolOutput, nil
	}
	composeCtx, cancel := context.WithTimeout(ctx, a.cfg.ComposeTimeout)
	defer cancel()
	return a.composer.Compose(composeCtx, query, toolName, toolOutput, history)
}

func (a *Agent) recordChat(status string, start time.Time) {
	if a.metrics == nil {
		return
	}
	a.metrics.RecordChat(status, time.Since(start).Seconds())
}

// Package main provides the Duke chatbot server entry point.
package main

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/dukebot/dukebot-go/internal/agent"
	"github.com/dukebot/dukebot-go/internal/config"
	"github.com/dukebot/dukebot-go/internal/ctxutil"
	apperrors "github.com/dukebot/dukebot-go/internal/errors"
	"github.com/dukebot/dukebot-go/internal/subjects"
	"github.com/dukebot/dukebot-go/internal/vocab"
)

// upstream endpoints probed by the readiness check.
var readinessProbes = map[string]string{
	"calendar": "https://calendar.duke.edu",
	"streamer": "https://streamer.oit.duke.edu",
}

type chatRequest struct {
	Query     string `json:"query" binding:"required"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// setupRoutes configures all HTTP routes
func setupRoutes(
	router *gin.Engine,
	bot *agent.Agent,
	store *vocab.Store,
	index *subjects.Index,
	registry *prometheus.Registry,
	cfg *config.Config,
) {
	rootHandler := func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "https://github.com/dukebot/dukebot-go")
	}
	router.GET("/", rootHandler)
	router.HEAD("/", rootHandler)

	// Liveness probe - only that the process is running, never dependencies.
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	readyHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"upstreams": probeUpstreams(c.Request.Context()),
			"vocabulary": gin.H{
				"groups":     len(store.Groups),
				"categories": len(store.Categories),
				"subjects":   index.Count(),
			},
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	router.POST("/api/chat", chatHandler(bot))

	router.GET("/metrics",
		metricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword),
		gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
}

// chatHandler serves one conversational turn.
func chatHandler(bot *agent.Agent) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
			return
		}

		sessionID := req.SessionID
		if sessionID == "" {
			sessionID = ctxutil.GetSessionID(c.Request.Context())
		}
		if sessionID == "" {
			sessionID = "default"
		}

		answer, err := bot.Handle(c.Request.Context(), sessionID, req.Query)
		if err != nil {
			if errors.Is(err, apperrors.ErrInvalidInput) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to answer query"})
			return
		}

		c.JSON(http.StatusOK, chatResponse{Response: answer})
	}
}

// probeUpstreams checks the Duke APIs concurrently. Availability is
// reported, not enforced: a down upstream degrades tools but the chat
// endpoint itself still works.
func probeUpstreams(ctx context.Context) map[string]bool {
	probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	results := make(map[string]bool, len(readinessProbes))
	var mu sync.Mutex

	g, probeCtx := errgroup.WithContext(probeCtx)
	for name, target := range readinessProbes {
		g.Go(func() error {
			req, err := http.NewRequestWithContext(probeCtx, http.MethodHead, target, http.NoBody)
			if err != nil {
				return nil
			}
			available := false
			if resp, err := http.DefaultClient.Do(req); err == nil {
				_ = resp.Body.Close()
				available = resp.StatusCode < 500
			}
			mu.Lock()
			results[name] = available
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

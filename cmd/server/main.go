// Package main provides the Duke chatbot server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dukebot/dukebot-go/internal/agent"
	"github.com/dukebot/dukebot-go/internal/config"
	"github.com/dukebot/dukebot-go/internal/dukeapi"
	"github.com/dukebot/dukebot-go/internal/genai"
	"github.com/dukebot/dukebot-go/internal/logger"
	"github.com/dukebot/dukebot-go/internal/metrics"
	"github.com/dukebot/dukebot-go/internal/resolver"
	"github.com/dukebot/dukebot-go/internal/serpapi"
	"github.com/dukebot/dukebot-go/internal/subjects"
	"github.com/dukebot/dukebot-go/internal/tools"
	"github.com/dukebot/dukebot-go/internal/vocab"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := buildLogger(cfg)
	log.Info("Starting Duke chatbot server")

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.1,
		}); err != nil {
			log.WithError(err).Warn("Failed to initialize Sentry, error reporting disabled")
		} else {
			defer sentry.Flush(2 * time.Second)
			log.Info("Sentry error reporting enabled")
		}
	}

	// Prometheus registry with runtime collectors
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())
	m := metrics.New(registry)
	log.Info("Metrics initialized")

	// Load filter vocabularies and build the subject keyword index
	store := vocab.Load(vocab.Paths{
		Groups:     cfg.GroupsPath(),
		Categories: cfg.CategoriesPath(),
		Subjects:   cfg.SubjectsPath(),
	}, log)
	log.WithFields(map[string]any{
		"groups":     len(store.Groups),
		"categories": len(store.Categories),
		"subjects":   len(store.Subjects),
	}).Info("Vocabularies loaded")

	subjectIndex := subjects.NewIndex(log)
	if err := subjectIndex.Initialize(store.ParsedSubjects()); err != nil {
		log.WithError(err).Warn("Failed to build subject index, subject lookup degraded")
	}

	// Upstream clients
	dukeClient := dukeapi.NewClient(cfg.DukeAPIKey, cfg.UpstreamTimeout, log, m)
	log.Info("Duke API client created")

	var searchClient *serpapi.Client
	if cfg.HasWebSearch() {
		searchClient = serpapi.NewClient(cfg.SerpAPIKey, cfg.UpstreamTimeout, log, m)
		log.Info("Web search client created")
	} else {
		log.Info("SerpAPI key not configured, web search disabled")
	}

	// LLM roles: router, filter selector, composer
	ctx := context.Background()
	llmCfg := buildLLMConfig(cfg)

	router, err := genai.CreateToolRouter(ctx, llmCfg, m)
	if err != nil {
		log.WithError(err).Fatal("Failed to create tool router")
	}
	selector, err := genai.CreateFilterSelector(ctx, llmCfg, m)
	if err != nil {
		log.WithError(err).Fatal("Failed to create filter selector")
	}
	composer, err := genai.CreateComposer(ctx, llmCfg, m)
	if err != nil {
		log.WithError(err).Fatal("Failed to create composer")
	}

	filterResolver := resolver.New(selector, store, log, m, cfg.Agent.FuzzyTopN)

	toolSet, err := tools.BuildSet(dukeClient, searchClient, filterResolver,
		subjectIndex, cfg.Agent.DefaultFeedDays, log, m)
	if err != nil {
		log.WithError(err).Fatal("Failed to build tool registry")
	}

	bot := agent.New(router, composer, toolSet, cfg.Agent, log, m)
	log.Info("Agent created")

	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	if cfg.SentryDSN != "" {
		engine.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	engine.Use(securityHeadersMiddleware())
	engine.Use(requestIDMiddleware())
	engine.Use(loggingMiddleware(log))

	setupRoutes(engine, bot, store, subjectIndex, registry, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      engine,
		ReadTimeout:  config.HTTPRead,
		WriteTimeout: config.HTTPWrite,
		IdleTimeout:  config.HTTPIdle,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	for name, closer := range map[string]interface{ Close() error }{
		"tool router":     router,
		"filter selector": selector,
		"composer":        composer,
	} {
		if err := closer.Close(); err != nil {
			log.WithError(err).Errorf("Failed to close %s", name)
		}
	}

	log.Info("Server stopped")
}

// buildLogger creates the application logger, mirroring output to a file
// when LOG_FILE is set.
func buildLogger(cfg *config.Config) *logger.Logger {
	if cfg.LogFile == "" {
		return logger.New(cfg.LogLevel)
	}

	file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log := logger.New(cfg.LogLevel)
		log.WithError(err).Warn("Failed to open log file, logging to stdout only")
		return log
	}
	return logger.NewMulti(cfg.LogLevel, os.Stdout, file)
}

// buildLLMConfig maps environment configuration onto the LLM provider setup.
func buildLLMConfig(cfg *config.Config) genai.LLMConfig {
	return genai.LLMConfig{
		PrimaryProvider:  genai.Provider(cfg.LLMPrimaryProvider),
		FallbackProvider: genai.Provider(cfg.LLMFallbackProvider),
		Gemini: genai.ProviderConfig{
			APIKey:        cfg.GeminiAPIKey,
			RouterModel:   cfg.GeminiRouterModel,
			ComposerModel: cfg.GeminiComposerModel,
			SelectorModel: cfg.GeminiSelectorModel,
		},
		Groq: genai.ProviderConfig{
			APIKey:        cfg.GroqAPIKey,
			RouterModel:   cfg.GroqRouterModel,
			ComposerModel: cfg.GroqComposerModel,
			SelectorModel: cfg.GroqSelectorModel,
		},
		Cerebras: genai.ProviderConfig{
			APIKey:        cfg.CerebrasAPIKey,
			RouterModel:   cfg.CerebrasRouterModel,
			ComposerModel: cfg.CerebrasComposerModel,
			SelectorModel: cfg.CerebrasSelectorModel,
		},
		RetryConfig: genai.DefaultRetryConfig(),
	}
}

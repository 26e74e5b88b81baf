// Package config provides centralized timeout constants for the application.
//
// These values are tuned around the latency of Duke's public APIs and
// the LLM providers used for routing and composition:
//   - calendar.duke.edu and streamer.oit.duke.edu typically respond in 1-5s
//   - LLM function-calling round trips take 1-10s depending on provider
//   - Chat requests chain a routing call, a tool call, and a composition call
package config

import "time"

// HTTP server timeouts
const (
	// HTTPRead is the HTTP server read timeout for chat requests.
	// Chat payloads are small JSON bodies.
	HTTPRead = 10 * time.Second

	// HTTPWrite is the HTTP server write timeout.
	// Must accommodate a full route + tool + compose chain.
	HTTPWrite = 120 * time.Second

	// HTTPIdle is the HTTP server idle timeout for keep-alive connections.
	HTTPIdle = 120 * time.Second
)

// Upstream timeouts
const (
	// UpstreamRequest is the timeout for a single HTTP request to Duke
	// APIs or SerpAPI.
	UpstreamRequest = 15 * time.Second
)

// LLM call timeouts
const (
	// RouterCall is the timeout for the tool routing LLM call.
	// Function-calling responses are short and usually arrive in 1-5s.
	RouterCall = 30 * time.Second

	// ComposeCall is the timeout for the response composition LLM call.
	// Composition generates longer text over potentially large tool output.
	ComposeCall = 60 * time.Second

	// FilterSelectionCall is the timeout for the structured filter
	// selection call used by the event filter resolver.
	FilterSelectionCall = 30 * time.Second
)

// Graceful shutdown
const (
	// GracefulShutdown is the timeout for graceful server shutdown.
	// Allows in-flight requests to complete before forceful termination.
	GracefulShutdown = 30 * time.Second
)

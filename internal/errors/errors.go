// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrNotFound indicates a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates user provided invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout indicates an operation timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrMissingAPIKey indicates a required API credential is not configured.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrMissingParameter indicates a required tool parameter is missing.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrUnknownTool indicates the router selected a tool that does not exist.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrUnresolvedFilters indicates the filter resolver could not map the
	// prompt to any known group or category.
	ErrUnresolvedFilters = errors.New("unable to resolve event filters")
)

// ValidationError represents input validation failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// APIError represents an upstream HTTP API failure with context.
type APIError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("api error (url=%s, status=%d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("api error (url=%s): %v", e.URL, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new upstream API error.
func NewAPIError(url string, statusCode int, err error) *APIError {
	return &APIError{
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}

// StatusCode extracts the HTTP status code from an error chain.
// Returns 0 if the error does not carry one.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("subject", "must not be empty")
	want := "validation failed on subject: must not be empty"
	if err.Error() != want {
		t.Errorf("ValidationError.Error() = %q, want %q", err.Error(), want)
	}
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		statusCode int
		err        error
		want       string
	}{
		{
			name:       "with status code",
			url:        "https://calendar.duke.edu/events/index.json",
			statusCode: 404,
			err:        errors.New("not found"),
			want:       "api error (url=https://calendar.duke.edu/events/index.json, status=404): not found",
		},
		{
			name: "without status code",
			url:  "https://streamer.oit.duke.edu/ldap/people",
			err:  errors.New("connection refused"),
			want: "api error (url=https://streamer.oit.duke.edu/ldap/people): connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewAPIError(tt.url, tt.statusCode, tt.err)
			if err.Error() != tt.want {
				t.Errorf("APIError.Error() = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestAPIErrorUnwrap(t *testing.T) {
	inner := ErrTimeout
	err := NewAPIError("https://example.edu", 0, inner)
	if !errors.Is(err, ErrTimeout) {
		t.Error("expected errors.Is to find wrapped sentinel")
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, 0},
		{"plain error", errors.New("boom"), 0},
		{"api error", NewAPIError("u", 503, errors.New("down")), 503},
		{"wrapped api error", fmt.Errorf("fetch: %w", NewAPIError("u", 404, ErrNotFound)), 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusCode(tt.err); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

package tools

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/dukebot/dukebot-go/internal/errors"
)

func TestFetchErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "status error",
			err:  apperrors.NewAPIError("https://example.com", 404, apperrors.ErrNotFound),
			want: "Failed to fetch data: 404",
		},
		{
			name: "server error",
			err:  apperrors.NewAPIError("https://example.com", 500, stderrors.New("unexpected status 500")),
			want: "Failed to fetch data: 500",
		},
		{
			name: "transport error",
			err:  apperrors.NewAPIError("https://example.com", 0, stderrors.New("connection refused")),
			want: "Error: connection refused",
		},
		{
			name: "plain error",
			err:  stderrors.New("context deadline exceeded"),
			want: "Error: context deadline exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fetchErrorString(tt.err))
		})
	}
}

func TestTruncateBody(t *testing.T) {
	assert.Equal(t, "short", truncateBody([]byte("short"), 10))
	assert.Equal(t, "abcde", truncateBody([]byte("abcdefgh"), 5))

	// Multibyte runes are never split.
	body := []byte("日本語テキスト")
	got := truncateBody(body, 4)
	assert.Equal(t, "日", got)
}

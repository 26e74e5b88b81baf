package tools

import (
	stderrors "errors"
	"fmt"
	"unicode/utf8"

	apperrors "github.com/dukebot/dukebot-go/internal/errors"
)

// fetchErrorString converts an upstream fetch error into the tool-layer
// string contract: HTTP status failures become "Failed to fetch data: <code>"
// and everything else becomes "Error: <message>".
func fetchErrorString(err error) string {
	if code := apperrors.StatusCode(err); code > 0 {
		return fmt.Sprintf("Failed to fetch data: %d", code)
	}

	var apiErr *apperrors.APIError
	if stderrors.As(err, &apiErr) && apiErr.Err != nil {
		return "Error: " + apiErr.Err.Error()
	}
	return "Error: " + err.Error()
}

// truncateBody caps a payload at limit bytes, cutting on a rune boundary so
// the result stays valid UTF-8.
func truncateBody(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut])
}

package dukeapi

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// CombineMode selects how multiple values on one filter axis combine.
type CombineMode int

const (
	// ModeAny matches events carrying at least one of the values (OR).
	ModeAny CombineMode = iota
	// ModeAll matches only events carrying every value (AND).
	ModeAll
)

// All is the wildcard filter value. When present on an axis, that axis is
// left unconstrained and no parameters are emitted for it.
const All = "All"

// DefaultFutureDays is the event window used when the caller does not ask
// for a specific range.
const DefaultFutureDays = 45

const eventsBaseURL = "https://calendar.duke.edu/events/index."

// nativeFeedTypes are formats the calendar serves directly. Any other feed
// type gets the feed_type=simple marker appended so the calendar falls back
// to its simple JSON rendering.
var nativeFeedTypes = map[string]bool{
	"rss": true,
	"js":  true,
	"ics": true,
	"csv": true,
}

// BuildEventsURL assembles a Duke calendar query URL.
//
// Groups and categories each emit one repeated parameter per value: gfu[] and
// cfu[] under ModeAny, gf[] and cf[] under ModeAll. An axis containing the
// All wildcard emits nothing. Values are percent-encoded with '/' escaped,
// since calendar filter names like "Lecture/Talk" contain literal slashes.
func BuildEventsURL(feedType string, futureDays int, groups, categories []string, groupMode, categoryMode CombineMode) string {
	var sb strings.Builder
	sb.WriteString(eventsBaseURL)
	sb.WriteString(feedType)
	sb.WriteByte('?')

	writeFilterParams(&sb, categories, categoryMode, "cfu[]", "cf[]")
	writeFilterParams(&sb, groups, groupMode, "gfu[]", "gf[]")

	sb.WriteString("future_days=")
	sb.WriteString(strconv.Itoa(futureDays))
	sb.WriteByte('&')

	if !nativeFeedTypes[feedType] {
		sb.WriteString("feed_type=simple")
	}

	return sb.String()
}

func writeFilterParams(sb *strings.Builder, values []string, mode CombineMode, anyKey, allKey string) {
	for _, v := range values {
		if v == All {
			return
		}
	}

	key := anyKey
	if mode == ModeAll {
		key = allKey
	}

	for _, v := range values {
		sb.WriteString(key)
		sb.WriteByte('=')
		sb.WriteString(encodeFilterValue(v))
		sb.WriteByte('&')
	}
}

// encodeFilterValue percent-encodes a filter value, escaping '/' and using
// %20 for spaces so the result decodes cleanly on either side.
func encodeFilterValue(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}

// FetchEvents builds the calendar URL for the given filters and fetches it.
func (c *Client) FetchEvents(ctx context.Context, feedType string, futureDays int, groups, categories []string, groupMode, categoryMode CombineMode) ([]byte, error) {
	u := BuildEventsURL(feedType, futureDays, groups, categories, groupMode, categoryMode)
	return c.Get(ctx, u, "events")
}

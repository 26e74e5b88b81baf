package tools

import (
	"context"

	"github.com/dukebot/dukebot-go/internal/dukeapi"
	"github.com/dukebot/dukebot-go/internal/resolver"
)

// EventsToolName is the routing name of the calendar events tool.
const EventsToolName = "duke_events"

// ErrNoFiltersResolved is the string returned when the filter resolver could
// not map the prompt to any known group or category.
const ErrNoFiltersResolved = "Error: Unable to find any related groups or categories for the given prompt."

// eventsBodyLimit bounds the calendar payload fed back to the model.
const eventsBodyLimit = 1000

// EventsTool answers natural-language event questions. The prompt goes
// through the filter resolver to pick calendar groups and categories, then
// the matching feed is fetched.
type EventsTool struct {
	client     *dukeapi.Client
	resolver   *resolver.Resolver
	futureDays int
}

// NewEventsTool creates the events tool. futureDays is the event window
// requested from the calendar.
func NewEventsTool(client *dukeapi.Client, r *resolver.Resolver, futureDays int) *EventsTool {
	if futureDays <= 0 {
		futureDays = dukeapi.DefaultFutureDays
	}
	return &EventsTool{client: client, resolver: r, futureDays: futureDays}
}

func (t *EventsTool) Name() string { return EventsToolName }

// Call resolves the prompt into filters and fetches matching events.
// A prompt that resolves to no known group and no known category returns
// ErrNoFiltersResolved instead of querying the whole calendar.
func (t *EventsTool) Call(ctx context.Context, params map[string]string) string {
	selection := t.resolver.Resolve(ctx, params["prompt"])

	if len(selection.Groups) == 0 && len(selection.Categories) == 0 {
		return ErrNoFiltersResolved
	}

	groups := orWildcard(selection.Groups)
	categories := orWildcard(selection.Categories)

	return t.FetchWithFilters(ctx, groups, categories, true, true)
}

// FetchWithFilters fetches events for explicit filter lists, bypassing the
// resolver. matchAnyGroup and matchAnyCategory select OR semantics per axis;
// false means every listed value must be present on an event.
func (t *EventsTool) FetchWithFilters(ctx context.Context, groups, categories []string, matchAnyGroup, matchAnyCategory bool) string {
	body, err := t.client.FetchEvents(ctx, "json", t.futureDays,
		groups, categories, combineMode(matchAnyGroup), combineMode(matchAnyCategory))
	if err != nil {
		return fetchErrorString(err)
	}
	return truncateBody(body, eventsBodyLimit)
}

func combineMode(matchAny bool) dukeapi.CombineMode {
	if matchAny {
		return dukeapi.ModeAny
	}
	return dukeapi.ModeAll
}

// orWildcard substitutes the All sentinel for an empty axis so one resolved
// axis still queries the calendar unfiltered on the other.
func orWildcard(values []string) []string {
	if len(values) == 0 {
		return []string{dukeapi.All}
	}
	return values
}

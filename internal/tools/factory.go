package tools

import (
	"github.com/dukebot/dukebot-go/internal/dukeapi"
	apperrors "github.com/dukebot/dukebot-go/internal/errors"
	"github.com/dukebot/dukebot-go/internal/logger"
	"github.com/dukebot/dukebot-go/internal/metrics"
	"github.com/dukebot/dukebot-go/internal/resolver"
	"github.com/dukebot/dukebot-go/internal/serpapi"
	"github.com/dukebot/dukebot-go/internal/subjects"
)

// BuildSet wires the full tool registry.
//
// duke must be a configured client; without its access token the curriculum
// and people tools cannot work at all, so that is a hard error. search may
// be nil, in which case the web search tool answers with a configuration
// error string instead of data.
func BuildSet(
	duke *dukeapi.Client,
	search *serpapi.Client,
	r *resolver.Resolver,
	index *subjects.Index,
	futureDays int,
	log *logger.Logger,
	m *metrics.Metrics,
) (*Set, error) {
	if duke == nil {
		return nil, apperrors.ErrMissingAPIKey
	}

	registered := []Tool{
		NewEventsTool(duke, r, futureDays),
		NewCurriculumTool(duke),
		NewCourseDetailsTool(duke),
		NewSubjectLookupTool(index),
		NewPeopleTool(duke),
	}
	if search != nil {
		registered = append(registered, NewPrattSearchTool(search))
	} else {
		registered = append(registered, disabledSearchTool{})
	}

	set := NewSet(log, m, registered...)
	log.WithField("tools", len(registered)).Info("Tool registry initialized")
	return set, nil
}

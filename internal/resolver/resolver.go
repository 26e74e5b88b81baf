// Package resolver turns free-form event prompts into calendar filter
// selections. It narrows the full group and category vocabularies with fuzzy
// matching, asks an LLM to pick from the narrowed candidates, and enforces
// that the final selection only contains known vocabulary values.
package resolver

import (
	"context"
	"time"

	"github.com/dukebot/dukebot-go/internal/config"
	"github.com/dukebot/dukebot-go/internal/genai"
	"github.com/dukebot/dukebot-go/internal/logger"
	"github.com/dukebot/dukebot-go/internal/match"
	"github.com/dukebot/dukebot-go/internal/metrics"
	"github.com/dukebot/dukebot-go/internal/vocab"
)

// Filter resolution outcome labels for metrics.
const (
	outcomeResolved = "resolved"
	outcomeEmpty    = "empty"
	outcomeError    = "error"
)

// DefaultTopN is the number of fuzzy candidates kept per axis.
const DefaultTopN = 10

// Resolver resolves event prompts to group and category selections.
type Resolver struct {
	selector genai.FilterSelector
	store    *vocab.Store
	logger   *logger.Logger
	metrics  *metrics.Metrics
	topN     int
}

// New creates a Resolver. m may be nil when metrics collection is disabled.
// topN <= 0 uses DefaultTopN.
func New(selector genai.FilterSelector, store *vocab.Store, log *logger.Logger, m *metrics.Metrics, topN int) *Resolver {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Resolver{
		selector: selector,
		store:    store,
		logger:   log.WithModule("resolver"),
		metrics:  m,
		topN:     topN,
	}
}

// Resolve maps a prompt to matching groups and categories.
//
// Failures are soft: when the selector is unavailable or errors out, the
// returned selection has both lists empty and the error is nil. Callers
// treat the empty selection as "nothing matched".
func (r *Resolver) Resolve(ctx context.Context, prompt string) *genai.Selection {
	start := time.Now()

	groupCandidates := r.narrow(prompt, r.store.Groups)
	categoryCandidates := r.narrow(prompt, r.store.Categories)

	selectCtx, cancel := context.WithTimeout(ctx, config.FilterSelectionCall)
	defer cancel()

	selection, err := r.selector.SelectFilters(selectCtx, prompt, groupCandidates, categoryCandidates)
	if err != nil {
		r.logger.WithError(err).Warn("filter selection failed")
		r.record(outcomeError)
		return &genai.Selection{}
	}
	if selection == nil {
		r.record(outcomeError)
		return &genai.Selection{}
	}

	resolved := &genai.Selection{
		Groups:     r.keepKnownGroups(selection.Groups),
		Categories: r.keepKnownCategories(selection.Categories),
	}

	if len(resolved.Groups) == 0 && len(resolved.Categories) == 0 {
		r.record(outcomeEmpty)
	} else {
		r.record(outcomeResolved)
	}

	r.logger.WithFields(map[string]any{
		"groups":      len(resolved.Groups),
		"categories":  len(resolved.Categories),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("filters resolved")

	return resolved
}

// narrow returns the fuzzy top candidates for one vocabulary axis.
// An empty result degrades to the All sentinel so the selector always has
// a valid choice.
func (r *Resolver) narrow(prompt string, values []string) []string {
	candidates := match.FilterCandidates(prompt, values, r.topN)
	if len(candidates) == 0 {
		return []string{vocab.All}
	}
	return candidates
}

// keepKnownGroups drops values the model invented.
func (r *Resolver) keepKnownGroups(values []string) []string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if r.store.HasGroup(v) {
			kept = append(kept, v)
		} else {
			r.logger.WithField("value", v).Debug("dropping unknown group")
		}
	}
	return kept
}

// keepKnownCategories drops values the model invented.
func (r *Resolver) keepKnownCategories(values []string) []string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if r.store.HasCategory(v) {
			kept = append(kept, v)
		} else {
			r.logger.WithField("value", v).Debug("dropping unknown category")
		}
	}
	return kept
}

func (r *Resolver) record(outcome string) {
	if r.metrics == nil {
		return
	}
	r.metrics.RecordFilterResolution(outcome)
}

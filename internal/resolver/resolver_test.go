package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukebot/dukebot-go/internal/config"
	"github.com/dukebot/dukebot-go/internal/genai"
	"github.com/dukebot/dukebot-go/internal/logger"
	"github.com/dukebot/dukebot-go/internal/metrics"
	"github.com/dukebot/dukebot-go/internal/vocab"
)

type mockSelector struct {
	selectFunc func(ctx context.Context, prompt string, groups, categories []string) (*genai.Selection, error)

	// captured arguments from the last call
	gotGroups     []string
	gotCategories []string
}

func (m *mockSelector) SelectFilters(ctx context.Context, prompt string, groups, categories []string) (*genai.Selection, error) {
	m.gotGroups = groups
	m.gotCategories = categories
	if m.selectFunc != nil {
		return m.selectFunc(ctx, prompt, groups, categories)
	}
	return &genai.Selection{}, nil
}

func (m *mockSelector) Provider() genai.Provider { return genai.ProviderGemini }
func (m *mockSelector) Close() error             { return nil }

func testStore() *vocab.Store {
	return vocab.NewStore(
		[]string{"+DataScience (+DS)", "Duke Arts", "Nicholas School of the Environment"},
		[]string{"Lecture/Talk", "Performance", "Workshop/Short Course"},
		nil,
	)
}

func TestResolve_KeepsKnownValues(t *testing.T) {
	t.Parallel()
	selector := &mockSelector{
		selectFunc: func(_ context.Context, _ string, _, _ []string) (*genai.Selection, error) {
			return &genai.Selection{
				Groups:     []string{"+DataScience (+DS)", "Invented Group"},
				Categories: []string{"Lecture/Talk", "All"},
			}, nil
		},
	}

	r := New(selector, testStore(), logger.New("error"), nil, 10)
	sel := r.Resolve(context.Background(), "data science talks")

	require.NotNil(t, sel)
	assert.Equal(t, []string{"+DataScience (+DS)"}, sel.Groups)
	assert.Equal(t, []string{"Lecture/Talk", "All"}, sel.Categories)
}

func TestResolve_SelectorErrorIsSoft(t *testing.T) {
	t.Parallel()
	selector := &mockSelector{
		selectFunc: func(_ context.Context, _ string, _, _ []string) (*genai.Selection, error) {
			return nil, errors.New("service unavailable")
		},
	}

	r := New(selector, testStore(), logger.New("error"), nil, 10)
	sel := r.Resolve(context.Background(), "anything")

	require.NotNil(t, sel)
	assert.Empty(t, sel.Groups)
	assert.Empty(t, sel.Categories)
}

func TestResolve_NarrowsCandidates(t *testing.T) {
	t.Parallel()
	selector := &mockSelector{}

	r := New(selector, testStore(), logger.New("error"), nil, 2)
	r.Resolve(context.Background(), "data science events")

	require.NotEmpty(t, selector.gotGroups)
	assert.LessOrEqual(t, len(selector.gotGroups), 2)
	assert.Contains(t, selector.gotGroups, "+DataScience (+DS)")
	assert.LessOrEqual(t, len(selector.gotCategories), 2)
}

func TestResolve_EmptyCandidatesDegradeToAll(t *testing.T) {
	t.Parallel()
	selector := &mockSelector{}

	store := vocab.NewStore(nil, nil, nil)
	r := New(selector, store, logger.New("error"), nil, 10)
	r.Resolve(context.Background(), "whatever")

	assert.Equal(t, []string{vocab.All}, selector.gotGroups)
	assert.Equal(t, []string{vocab.All}, selector.gotCategories)
}

func TestResolve_RecordsOutcomes(t *testing.T) {
	t.Parallel()
	m := metrics.New(prometheus.NewRegistry())

	selector := &mockSelector{
		selectFunc: func(_ context.Context, prompt string, _, _ []string) (*genai.Selection, error) {
			switch prompt {
			case "good":
				return &genai.Selection{Groups: []string{"Duke Arts"}}, nil
			case "nothing":
				return &genai.Selection{}, nil
			default:
				return nil, errors.New("boom")
			}
		},
	}

	r := New(selector, testStore(), logger.New("error"), m, 10)
	r.Resolve(context.Background(), "good")
	r.Resolve(context.Background(), "nothing")
	r.Resolve(context.Background(), "fail")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.FilterResolutionsTotal.WithLabelValues("resolved")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.FilterResolutionsTotal.WithLabelValues("empty")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.FilterResolutionsTotal.WithLabelValues("error")))
}

func TestNew_DefaultTopN(t *testing.T) {
	t.Parallel()
	r := New(&mockSelector{}, testStore(), logger.New("error"), nil, 0)
	assert.Equal(t, DefaultTopN, r.topN)
}

func TestResolve_BoundsSelectorCall(t *testing.T) {
	t.Parallel()
	var deadline time.Time
	var hasDeadline bool
	selector := &mockSelector{
		selectFunc: func(ctx context.Context, _ string, _, _ []string) (*genai.Selection, error) {
			deadline, hasDeadline = ctx.Deadline()
			return &genai.Selection{}, nil
		},
	}

	r := New(selector, testStore(), logger.New("error"), nil, 10)
	r.Resolve(context.Background(), "data science talks")

	require.True(t, hasDeadline, "selector call should carry a deadline")
	assert.WithinDuration(t, time.Now().Add(config.FilterSelectionCall), deadline, time.Second)
}

package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukebot/dukebot-go/internal/dukeapi"
	apperrors "github.com/dukebot/dukebot-go/internal/errors"
	"github.com/dukebot/dukebot-go/internal/genai"
	"github.com/dukebot/dukebot-go/internal/logger"
	"github.com/dukebot/dukebot-go/internal/resolver"
	"github.com/dukebot/dukebot-go/internal/vocab"
)

// rewriteTransport redirects every request to the test server so tools can
// be exercised without touching the real upstreams.
type rewriteTransport struct {
	target *url.URL
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = t.target.Scheme
	req.URL.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func dukeClientFor(t *testing.T, server *httptest.Server) *dukeapi.Client {
	t.Helper()
	target, err := url.Parse(server.URL)
	require.NoError(t, err)
	return dukeapi.NewClient("test-token", 5*time.Second, logger.New("error"), nil,
		dukeapi.WithTransport(&rewriteTransport{target: target}))
}

type stubSelector struct {
	selection *genai.Selection
	err       error
}

func (s *stubSelector) SelectFilters(ctx context.Context, prompt string, groups, categories []string) (*genai.Selection, error) {
	return s.selection, s.err
}

func (s *stubSelector) Close() error             { return nil }
func (s *stubSelector) Provider() genai.Provider { return genai.ProviderGemini }

func testResolver(selection *genai.Selection) *resolver.Resolver {
	store := vocab.NewStore(
		[]string{"+DataScience (+DS)", "Duke Arts"},
		[]string{"Lecture/Talk", "Performance"},
		nil,
	)
	return resolver.New(&stubSelector{selection: selection}, store, logger.New("error"), nil, 10)
}

func TestDispatch_UnknownTool(t *testing.T) {
	set := NewSet(logger.New("error"), nil)

	_, err := set.Dispatch(context.Background(), "time_travel", nil)

	assert.ErrorIs(t, err, apperrors.ErrUnknownTool)
}

func TestDispatch_RunsTool(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"people":[]}`))
	}))
	defer server.Close()

	set := NewSet(logger.New("error"), nil, NewPeopleTool(dukeClientFor(t, server)))

	result, err := set.Dispatch(context.Background(), PeopleToolName, map[string]string{"name": "Jane"})

	require.NoError(t, err)
	assert.Equal(t, `{"people":[]}`, result)
}

func TestSetHasAndNames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()
	duke := dukeClientFor(t, server)

	set := NewSet(logger.New("error"), nil, NewPeopleTool(duke), NewCurriculumTool(duke))

	assert.True(t, set.Has(PeopleToolName))
	assert.False(t, set.Has(PrattSearchToolName))
	assert.Len(t, set.Names(), 2)
}

func TestIsErrorResult(t *testing.T) {
	assert.True(t, isErrorResult("Error: something broke"))
	assert.True(t, isErrorResult("Failed to fetch data: 404"))
	assert.False(t, isErrorResult(`{"ok":true}`))
	assert.False(t, isErrorResult(""))
}

func TestAnyToolOn404(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()
	duke := dukeClientFor(t, server)

	tests := []struct {
		name   string
		tool   Tool
		params map[string]string
	}{
		{"people", NewPeopleTool(duke), map[string]string{"name": "x"}},
		{"curriculum", NewCurriculumTool(duke), map[string]string{"subject": "x"}},
		{"course_details", NewCourseDetailsTool(duke), map[string]string{"course_id": "1", "course_offer_number": "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.tool.Call(context.Background(), tt.params)
			assert.Equal(t, "Failed to fetch data: 404", got)
		})
	}
}

func TestBuildSet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()
	duke := dukeClientFor(t, server)

	set, err := BuildSet(duke, nil, testResolver(&genai.Selection{}), nil, 45, logger.New("error"), nil)

	require.NoError(t, err)
	assert.True(t, set.Has(EventsToolName))
	assert.True(t, set.Has(CurriculumToolName))
	assert.True(t, set.Has(CourseDetailsToolName))
	assert.True(t, set.Has(SubjectLookupToolName))
	assert.True(t, set.Has(PeopleToolName))

	// Without a search client the tool is registered as a stub so routing
	// to it still yields a readable answer.
	result, err := set.Dispatch(context.Background(), PrattSearchToolName, nil)
	require.NoError(t, err)
	assert.Equal(t, "Error: web search is not configured.", result)
}

func TestBuildSet_NilDukeClient(t *testing.T) {
	_, err := BuildSet(nil, nil, nil, nil, 45, logger.New("error"), nil)

	assert.ErrorIs(t, err, apperrors.ErrMissingAPIKey)
}

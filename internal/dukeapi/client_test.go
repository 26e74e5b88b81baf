package dukeapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dukebot/dukebot-go/internal/errors"
	"github.com/dukebot/dukebot-go/internal/logger"
)

func testClient() *Client {
	return NewClient("test-token", 5*time.Second, logger.New("error"), nil)
}

func TestGet_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"events":[]}`))
	}))
	defer server.Close()

	body, err := testClient().Get(context.Background(), server.URL, "events")

	require.NoError(t, err)
	assert.Equal(t, `{"events":[]}`, string(body))
}

func TestGet_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := testClient().Get(context.Background(), server.URL, "curriculum")

	require.Error(t, err)
	assert.Equal(t, 404, apperrors.StatusCode(err))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGet_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient().Get(context.Background(), server.URL, "events")

	require.Error(t, err)
	assert.Equal(t, 500, apperrors.StatusCode(err))
}

func TestGet_GzipResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		_, _ = gw.Write([]byte(`{"compressed":true}`))
		_ = gw.Close()

		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}))
	defer server.Close()

	body, err := testClient().Get(context.Background(), server.URL, "events")

	require.NoError(t, err)
	assert.Equal(t, `{"compressed":true}`, string(body))
}

func TestGet_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := testClient().Get(context.Background(), server.URL, "events")

	require.Error(t, err)
	assert.Equal(t, 0, apperrors.StatusCode(err))
}

func TestGet_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient().Get(ctx, server.URL, "events")

	require.Error(t, err)
}

func TestSubjectCoursesURL(t *testing.T) {
	c := testClient()

	got := c.SubjectCoursesURL("AIPI - Artificial Intelligence for Product Innovation")

	assert.Contains(t, got, "https://streamer.oit.duke.edu/curriculum/courses/subject/")
	assert.Contains(t, got, "AIPI")
	assert.NotContains(t, got, " ")
	assert.Contains(t, got, "access_token=test-token")
}

func TestCourseDetailsURL(t *testing.T) {
	c := testClient()

	got := c.CourseDetailsURL("027568", "1")

	assert.Equal(t,
		"https://streamer.oit.duke.edu/curriculum/courses/crse_id/027568/crse_offer_nbr/1?access_token=test-token",
		got)
}

func TestPeopleURL(t *testing.T) {
	c := testClient()

	got := c.PeopleURL("John Doe")

	assert.Contains(t, got, "https://streamer.oit.duke.edu/ldap/people?q=John")
	assert.Contains(t, got, "access_token=test-token")
	assert.NotContains(t, got, " ")
}

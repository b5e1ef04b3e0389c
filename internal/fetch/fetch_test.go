package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-rapidapply-scraper/internal/logger"
)

func TestHTTPFetcher_Success(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("<html>listing</html>"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher("test-agent/1.0", logger.Nop())
	page, err := f.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, page.Status)
	assert.Equal(t, "<html>listing</html>", page.HTML)
	assert.Equal(t, "test-agent/1.0", gotUA)
}

func TestHTTPFetcher_RetriesTransientStatus(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok now"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher("test-agent/1.0", logger.Nop())
	page, err := f.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "ok now", page.HTML)
	assert.Equal(t, int32(2), hits.Load())
}

func TestHTTPFetcher_DoesNotRetryNotFound(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewHTTPFetcher("test-agent/1.0", logger.Nop())
	_, err := f.Fetch(context.Background(), srv.URL)

	require.Error(t, err)
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, int32(1), hits.Load())
}

func TestIsChallengePage(t *testing.T) {
	assert.True(t, IsChallengePage("<title>Just a moment...</title>"))
	assert.True(t, IsChallengePage(`<div class="cf-challenge">`))
	assert.False(t, IsChallengePage("<html><h1>Mechanical Engineer</h1></html>"))
}

type stubFetcher struct {
	page  Page
	err   error
	calls int
}

func (s *stubFetcher) Fetch(_ context.Context, _ string) (Page, error) {
	s.calls++
	return s.page, s.err
}

func TestFallbackFetcher_PrimaryWinsOnCleanPage(t *testing.T) {
	primary := &stubFetcher{page: Page{Status: 200, HTML: "<html>jobs</html>"}}
	secondary := &stubFetcher{page: Page{Status: 200, HTML: "browser"}}
	f := NewFallbackFetcher(primary, secondary, logger.Nop())

	page, err := f.Fetch(context.Background(), "https://saudijobs.in/")

	require.NoError(t, err)
	assert.Equal(t, "<html>jobs</html>", page.HTML)
	assert.Equal(t, 0, secondary.calls)
}

func TestFallbackFetcher_ChallengeGoesToSecondary(t *testing.T) {
	primary := &stubFetcher{page: Page{Status: 200, HTML: "Checking your browser"}}
	secondary := &stubFetcher{page: Page{Status: 200, HTML: "<html>real content</html>"}}
	f := NewFallbackFetcher(primary, secondary, logger.Nop())

	page, err := f.Fetch(context.Background(), "https://saudijobs.in/")

	require.NoError(t, err)
	assert.Equal(t, "<html>real content</html>", page.HTML)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestFallbackFetcher_PrimaryErrorGoesToSecondary(t *testing.T) {
	primary := &stubFetcher{err: errors.New("connection refused")}
	secondary := &stubFetcher{page: Page{Status: 200, HTML: "rescued"}}
	f := NewFallbackFetcher(primary, secondary, logger.Nop())

	page, err := f.Fetch(context.Background(), "https://saudijobs.in/")

	require.NoError(t, err)
	assert.Equal(t, "rescued", page.HTML)
}

// Page fetching with browser-shaped headers, a shared cookie jar and a
// bounded retry budget. The rest of the pipeline only sees the Fetcher
// interface and a {status, html} pair.

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"go.uber.org/zap"
)

// Page is the result of one fetch.
type Page struct {
	Status int
	HTML   string
}

// Fetcher is the page-source collaborator consumed by the scraper.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (Page, error)
}

// HTTPError is a non-success status from the source site.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
}

// HTTPFetcher fetches over plain HTTP. A cookie jar is kept across
// requests because the board sets a session cookie on the warm-up hit.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	log       *zap.SugaredLogger
}

func NewHTTPFetcher(userAgent string, log *zap.SugaredLogger) *HTTPFetcher {
	jar, _ := cookiejar.New(nil)
	return &HTTPFetcher{
		client: &http.Client{
			Jar:     jar,
			Timeout: 20 * time.Second,
		},
		userAgent: userAgent,
		log:       log,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (Page, error) {
	return retry.DoWithData(
		func() (Page, error) { return f.fetchOnce(ctx, url) },
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(400*time.Millisecond),
		retry.MaxJitter(200*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(isRetryable),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			f.log.Debugf("🔁 retrying fetch (attempt %d) %s: %v", n+1, url, err)
		}),
	)
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, url string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Page{}, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return Page{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Page{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Page{Status: resp.StatusCode}, &HTTPError{StatusCode: resp.StatusCode, URL: url}
	}
	return Page{Status: resp.StatusCode, HTML: string(body)}, nil
}

// isRetryable: transient statuses and transport errors retry, other 4xx
// are permanent.
func isRetryable(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false
		}
	}
	return true
}

// IsChallengePage spots an interstitial challenge served instead of
// content (Cloudflare and friends).
func IsChallengePage(html string) bool {
	for _, marker := range []string{"Attention Required! | Cloudflare", "Just a moment...", "cf-challenge", "Checking your browser"} {
		if strings.Contains(html, marker) {
			return true
		}
	}
	return false
}

// FallbackFetcher fetches with the primary fetcher and hands challenge
// pages to the secondary (browser-backed) fetcher.
type FallbackFetcher struct {
	primary   Fetcher
	secondary Fetcher
	log       *zap.SugaredLogger
}

func NewFallbackFetcher(primary, secondary Fetcher, log *zap.SugaredLogger) *FallbackFetcher {
	return &FallbackFetcher{primary: primary, secondary: secondary, log: log}
}

func (f *FallbackFetcher) Fetch(ctx context.Context, url string) (Page, error) {
	page, err := f.primary.Fetch(ctx, url)
	if err == nil && !IsChallengePage(page.HTML) {
		return page, nil
	}
	if err == nil {
		f.log.Infof("🛡️ challenge page at %s, switching to browser", url)
	}
	return f.secondary.Fetch(ctx, url)
}

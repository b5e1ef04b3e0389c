// Browser-backed fetcher for pages the plain HTTP client cannot get past:
// loads the URL in headless Chromium and returns the rendered DOM.

package fetch

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// BrowserFetcher implements Fetcher on top of Playwright. Construct lazily
// and only when the browser fallback is enabled: launching Chromium is
// expensive and most runs never need it.
type BrowserFetcher struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	log     *zap.SugaredLogger
}

func NewBrowserFetcher(log *zap.SugaredLogger) (*BrowserFetcher, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not launch playwright: %w", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}
	return &BrowserFetcher{pw: pw, browser: browser, log: log}, nil
}

func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (Page, error) {
	page, err := f.browser.NewPage()
	if err != nil {
		return Page{}, fmt.Errorf("could not create page: %w", err)
	}
	defer page.Close()

	resp, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	})
	if err != nil {
		return Page{}, fmt.Errorf("browser navigation failed: %w", err)
	}

	status := 0
	if resp != nil {
		status = resp.Status()
	}

	content, err := page.Content()
	if err != nil {
		return Page{}, fmt.Errorf("could not read page content: %w", err)
	}
	if IsChallengePage(content) {
		f.log.Warnf("🛡️ still challenged in browser: %s", url)
	}
	if status != 0 && status != 200 {
		return Page{Status: status, HTML: content}, &HTTPError{StatusCode: status, URL: url}
	}
	return Page{Status: status, HTML: content}, nil
}

// Close stops the browser and the Playwright driver.
func (f *BrowserFetcher) Close() error {
	if err := f.browser.Close(); err != nil {
		return err
	}
	return f.pw.Stop()
}

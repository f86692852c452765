package extract

import (
	"context"
	"io"
	"net/http"
	"time"

	"newsdesk/internal/collect"
)

// Method labels the technique that produced a piece of extracted content.
type Method string

const (
	MethodHTML    Method = "html"
	MethodBrowser Method = "browser"
	MethodSkipped Method = "skipped_redirect"
	MethodFailed  Method = "failed"
)

// Store is the persistence surface the extractor needs.
type Store interface {
	SaveExtractedText(itemID, text string) error
}

// MinHeuristicLength is the browser-eligibility gate: a heuristic (HTML
// selector or JSON-LD) extraction shorter than this is thin enough to be
// worth the browser fallback's cost. A result between this floor and
// MinAcceptableLength does not trigger the browser tier and, being under the
// acceptance floor, is not persisted either — only genuinely empty-looking
// pages go to the browser.
const MinHeuristicLength = 100

// Extractor runs the redirect-resolve-then-fetch-then-parse-then-render
// fallback chain for a single article URL.
type Extractor struct {
	HTTPClient         *http.Client
	Browser            *BrowserExtractor
	Redirector         *Redirector
	Store              Store
	SkipGNewsRedirects bool
	UserAgent          string
}

// NewExtractor wires an Extractor against an HTTP client, a headless browser
// fallback, a redirector, and a store.
func NewExtractor(store Store, browser *BrowserExtractor, skipGNewsRedirects bool, userAgent string) *Extractor {
	return &Extractor{
		HTTPClient:         &http.Client{Timeout: 20 * time.Second},
		Browser:            browser,
		Redirector:         NewRedirector(browser, userAgent),
		Store:              store,
		SkipGNewsRedirects: skipGNewsRedirects,
		UserAgent:          userAgent,
	}
}

// ExtractAndPersist resolves url (following a Google News redirector when
// present), extracts its main content, falls back to a headless render only
// when the heuristic result is too thin to trust, and persists the result
// for itemID. It returns the method that ultimately produced the saved text.
func (e *Extractor) ExtractAndPersist(ctx context.Context, itemID, rawURL string) (Method, error) {
	if collect.SkipGoogleNewsRedirect(rawURL, e.SkipGNewsRedirects) {
		return MethodSkipped, nil
	}

	url := e.Redirector.ResolveGoogleNewsURL(ctx, rawURL)

	var heuristic string
	html, err := e.fetchHTML(ctx, url)
	if err == nil {
		heuristic = FromHTML(html)
		if len(heuristic) >= MinAcceptableLength {
			if err := e.Store.SaveExtractedText(itemID, heuristic); err != nil {
				return MethodFailed, err
			}
			return MethodHTML, nil
		}
	}

	if len(heuristic) < MinHeuristicLength && e.Browser != nil {
		text, err := e.Browser.Render(ctx, url)
		if err == nil && len(text) >= MinAcceptableLength {
			if err := e.Store.SaveExtractedText(itemID, text); err != nil {
				return MethodFailed, err
			}
			return MethodBrowser, nil
		}
	}

	return MethodFailed, nil
}

func (e *Extractor) fetchHTML(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	if e.UserAgent != "" {
		req.Header.Set("User-Agent", e.UserAgent)
	}

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

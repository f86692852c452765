package extract

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// BrowserResolveBudget bounds the headless-browser resolution tier of the
// redirector chain — the slowest and last-resort method.
const BrowserResolveBudget = 30 * time.Second

var (
	urlPattern       = regexp.MustCompile(`https?://[^\s\x00-\x1f\x7f-\x9f"'<>]+`)
	metaRefreshRegex = regexp.MustCompile(`(?i)url=(.+)$`)
	locationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`window\.location\s*=\s*["']([^"']+)["']`),
		regexp.MustCompile(`location\.href\s*=\s*["']([^"']+)["']`),
		regexp.MustCompile(`document\.location\s*=\s*["']([^"']+)["']`),
	}
	skipHosts = []string{
		"google.com", "googleapis.com", "googleusercontent.com",
		"googlenews.com", "googleapi.com", "gstatic.com",
	}
	skipPatterns = []string{
		"/tags/", "/authors/", "/search/", "/feed/",
		"facebook.com", "twitter.com", "instagram.com",
		"youtube.com", "linkedin.com", "pinterest.com",
		".css", ".js", ".png", ".jpg", ".gif", ".pdf",
	}
)

// Redirector resolves a Google News RSS redirect URL to the original
// article URL, trying base64 decoding of the legacy link format first, then
// HTML-based resolution, then an optional bounded headless-browser fallback.
// Any method that fails falls through to the next; if every method fails,
// ResolveGoogleNewsURL returns the input URL unchanged.
type Redirector struct {
	HTTPClient *http.Client
	Browser    *BrowserExtractor
	UserAgent  string
}

// NewRedirector wires a Redirector against an HTTP client and an optional
// browser fallback (nil disables the browser tier).
func NewRedirector(browser *BrowserExtractor, userAgent string) *Redirector {
	return &Redirector{
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Browser:    browser,
		UserAgent:  userAgent,
	}
}

// ResolveGoogleNewsURL resolves rawURL if it's a Google News redirect link,
// otherwise returns it unchanged.
func (r *Redirector) ResolveGoogleNewsURL(ctx context.Context, rawURL string) string {
	if !strings.Contains(rawURL, "news.google.com/rss/articles/") {
		return rawURL
	}

	if resolved := decodeBase64URL(rawURL); resolved != "" && isValidArticleURL(resolved) {
		return resolved
	}

	if resolved, err := r.resolveFromHTML(ctx, rawURL); err == nil && resolved != "" && isValidArticleURL(resolved) {
		return resolved
	}

	if r.Browser != nil {
		browserCtx, cancel := context.WithTimeout(ctx, BrowserResolveBudget)
		defer cancel()
		if resolved, err := r.Browser.ResolveLocation(browserCtx, rawURL); err == nil && isValidArticleURL(resolved) {
			return resolved
		}
	}

	return rawURL
}

// decodeBase64URL decodes the legacy-format Google News redirect path
// segment — the CBMi... portion after /articles/ — looking for an embedded
// http(s) URL. Returns "" for the newer AU_yqL-prefixed format, which isn't
// base64-decodable this way.
func decodeBase64URL(googleURL string) string {
	idx := strings.Index(googleURL, "/articles/")
	if idx == -1 {
		return ""
	}
	encoded := googleURL[idx+len("/articles/"):]
	if q := strings.IndexByte(encoded, '?'); q != -1 {
		encoded = encoded[:q]
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		decoded, err = base64.URLEncoding.DecodeString(encoded)
		if err != nil {
			return ""
		}
	}
	decodedStr := string(decoded)
	if strings.Contains(decodedStr, "AU_yqL") {
		return ""
	}

	matches := urlPattern.FindAllString(decodedStr, -1)
	var firstAMP string
	for _, u := range matches {
		if !strings.Contains(strings.ToLower(u), "amp") {
			return u
		}
		if firstAMP == "" {
			firstAMP = u
		}
	}
	return firstAMP
}

// resolveFromHTML fetches googleURL and looks for a meta-refresh, a
// JavaScript location redirect, or a direct anchor link to the article.
func (r *Redirector) resolveFromHTML(ctx context.Context, googleURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleURL, nil)
	if err != nil {
		return "", err
	}
	if r.UserAgent != "" {
		req.Header.Set("User-Agent", r.UserAgent)
	}

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.Request != nil && resp.Request.URL != nil {
		finalURL := resp.Request.URL.String()
		if finalURL != googleURL && !strings.Contains(finalURL, "news.google.com") && isValidArticleURL(finalURL) {
			return finalURL, nil
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", err
	}

	if content, ok := doc.Find(`meta[http-equiv="refresh" i]`).Attr("content"); ok {
		if m := metaRefreshRegex.FindStringSubmatch(content); len(m) == 2 {
			if candidate := strings.TrimSpace(m[1]); isValidArticleURL(candidate) {
				return candidate, nil
			}
		}
	}

	var fromScript string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		for _, pattern := range locationPatterns {
			if m := pattern.FindStringSubmatch(text); len(m) == 2 && isValidArticleURL(m[1]) {
				fromScript = m[1]
				return false
			}
		}
		return true
	})
	if fromScript != "" {
		return fromScript, nil
	}

	var fromAnchor string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if ok && isValidArticleURL(href) {
			fromAnchor = href
			return false
		}
		return true
	})
	if fromAnchor != "" {
		return fromAnchor, nil
	}

	return "", nil
}

// isValidArticleURL reports whether candidate looks like a resolved article
// URL rather than a Google-internal endpoint, a social/static asset link, or
// a malformed fragment.
func isValidArticleURL(candidate string) bool {
	if len(candidate) < 20 || len(candidate) > 500 {
		return false
	}
	u, err := url.Parse(candidate)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Host)
	for _, skip := range skipHosts {
		if strings.Contains(host, skip) {
			return false
		}
	}
	lower := strings.ToLower(candidate)
	for _, pattern := range skipPatterns {
		if strings.Contains(lower, pattern) {
			return false
		}
	}
	parts := strings.Split(host, ".")
	if len(parts) < 2 || len(parts[len(parts)-1]) < 2 {
		return false
	}
	return true
}

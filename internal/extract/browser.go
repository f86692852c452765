package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// BrowserFetchTimeout bounds a single headless-render attempt.
const BrowserFetchTimeout = 60 * time.Second

// recycleEvery controls how often the browser allocator is torn down and
// rebuilt: article 1, 4, 7, ... get a fresh session, matching the cadence
// that kept long scraping runs from accumulating stale browser state.
const recycleEvery = 3

// BrowserExtractor renders a page with a headless Chrome instance for sites
// whose content never appears in the raw HTML response. Sessions are
// recycled periodically rather than reused indefinitely for the whole run.
type BrowserExtractor struct {
	allocCtx   context.Context
	allocStop  context.CancelFunc
	attemptNum int
}

// NewBrowserExtractor allocates a fresh headless Chrome context.
func NewBrowserExtractor() *BrowserExtractor {
	b := &BrowserExtractor{}
	b.allocate()
	return b
}

func (b *BrowserExtractor) allocate() {
	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Headless)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	b.allocCtx = allocCtx
	b.allocStop = cancel
}

// Close tears down the allocator.
func (b *BrowserExtractor) Close() {
	if b.allocStop != nil {
		b.allocStop()
	}
}

// Render navigates to url and returns the page's visible body text. It
// recycles the underlying browser session every recycleEvery calls to avoid
// the tab/session buildup long scraping runs otherwise accumulate.
func (b *BrowserExtractor) Render(ctx context.Context, url string) (string, error) {
	b.attemptNum++
	if b.attemptNum%recycleEvery == 1 && b.attemptNum > 1 {
		b.Close()
		b.allocate()
	}

	ctx, cancel := chromedp.NewContext(b.allocCtx)
	defer cancel()
	ctx, timeoutCancel := context.WithTimeout(ctx, BrowserFetchTimeout)
	defer timeoutCancel()

	var body string
	if err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Text("body", &body, chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("headless render failed for %s: %w", url, err)
	}

	return strings.TrimSpace(body), nil
}

// ResolveLocation navigates to url and waits for any client-side redirect to
// settle, returning the browser's final location — the last-resort tier of
// the redirector chain, for Google News links whose article URL only
// appears after JavaScript runs.
func (b *BrowserExtractor) ResolveLocation(ctx context.Context, url string) (string, error) {
	browserCtx, cancel := chromedp.NewContext(b.allocCtx)
	defer cancel()
	if deadline, ok := ctx.Deadline(); ok {
		var stop context.CancelFunc
		browserCtx, stop = context.WithDeadline(browserCtx, deadline)
		defer stop()
	}

	var finalURL string
	if err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(2*time.Second),
		chromedp.Location(&finalURL),
	); err != nil {
		return "", fmt.Errorf("headless location resolve failed for %s: %w", url, err)
	}
	return finalURL, nil
}

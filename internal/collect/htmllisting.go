package collect

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// HTMLListingConfig names the CSS-selector triplet the original collector
// uses to scrape a plain news-listing page with no feed: a selector for each
// repeated item container, a selector for the title/link inside it, and an
// optional selector for a visible date. When the title selector carries no
// href itself, the item container's own anchor descendant is used as a
// fallback, matching the original's "anchor-href fallback" behavior.
type HTMLListingConfig struct {
	ItemSelector  string
	TitleSelector string
	DateSelector  string
}

// HTMLListingSource scrapes a page that lists articles without a machine feed.
type HTMLListingSource struct {
	Client    *http.Client
	UserAgent string
}

func NewHTMLListingSource(timeout time.Duration, userAgent string) *HTMLListingSource {
	return &HTMLListingSource{Client: &http.Client{Timeout: timeout}, UserAgent: userAgent}
}

func (h *HTMLListingSource) Collect(pageURL, sourceName string, cfg HTMLListingConfig) ([]RawItem, error) {
	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if h.UserAgent != "" {
		req.Header.Set("User-Agent", h.UserAgent)
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listing page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}

	base, _ := url.Parse(pageURL)

	var items []RawItem
	doc.Find(cfg.ItemSelector).Each(func(_ int, sel *goquery.Selection) {
		titleEl := sel
		if cfg.TitleSelector != "" {
			if found := sel.Find(cfg.TitleSelector).First(); found.Length() > 0 {
				titleEl = found
			}
		}
		title := strings.TrimSpace(titleEl.Text())

		href, ok := titleEl.Attr("href")
		if !ok {
			href, ok = sel.Find("a").First().Attr("href")
			if !ok {
				return
			}
		}
		resolved := href
		if base != nil {
			if parsed, err := base.Parse(href); err == nil {
				resolved = parsed.String()
			}
		}

		var dateText string
		if cfg.DateSelector != "" {
			dateText = strings.TrimSpace(sel.Find(cfg.DateSelector).First().Text())
		}

		if title == "" || resolved == "" {
			return
		}
		items = append(items, RawItem{
			URL:         resolved,
			Title:       title,
			Source:      sourceName,
			PublishedAt: parseFeedDate(dateText),
		})
	})

	return items, nil
}

package collect

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// sitemapURLSet handles both a plain sitemap and one carrying the Google
// News sitemap extension (the <news:news> block under each <url>).
type sitemapURLSet struct {
	URLs []struct {
		Loc     string `xml:"loc"`
		LastMod string `xml:"lastmod"`
		News    struct {
			Title          string `xml:"title"`
			PublicationDate string `xml:"publication_date"`
		} `xml:"news"`
	} `xml:"url"`
}

// SitemapSource collects items from an XML sitemap, preferring the news
// extension's title/publication_date when present.
type SitemapSource struct {
	Client    *http.Client
	UserAgent string
}

func NewSitemapSource(timeout time.Duration, userAgent string) *SitemapSource {
	return &SitemapSource{Client: &http.Client{Timeout: timeout}, UserAgent: userAgent}
}

func (s *SitemapSource) Collect(sitemapURL, sourceName string) ([]RawItem, error) {
	req, err := http.NewRequest(http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sitemap: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read sitemap body: %w", err)
	}

	var set sitemapURLSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("parse sitemap xml: %w", err)
	}

	items := make([]RawItem, 0, len(set.URLs))
	for _, u := range set.URLs {
		title := strings.TrimSpace(u.News.Title)
		dateStr := u.News.PublicationDate
		if dateStr == "" {
			dateStr = u.LastMod
		}
		items = append(items, RawItem{
			URL:         strings.TrimSpace(u.Loc),
			Title:       title,
			Source:      sourceName,
			PublishedAt: parseFeedDate(dateStr),
		})
	}
	return items, nil
}

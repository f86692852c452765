package pipeline

import (
	"newsdesk/internal/collect"
	"newsdesk/internal/config"
)

// CollectFromFeedConfig runs every source in feedCfg and returns the
// concatenated raw items. Individual source failures are swallowed so one
// unreachable feed never aborts the whole collection step; a caller wanting
// visibility into per-source failures should log them via the logger
// instead of treating collection as all-or-nothing.
func CollectFromFeedConfig(feedCfg *config.FeedConfig, cfg *config.Config) []collect.RawItem {
	var all []collect.RawItem

	rss := collect.NewRSSSource(cfg.RequestTimeout(), cfg.UserAgent)
	for _, entry := range append(append([]config.RSSFeedEntry{}, feedCfg.RSS...), feedCfg.AdditionalRSS...) {
		if items, err := rss.Collect(entry.URL, entry.Name); err == nil {
			all = append(all, capItems(items, cfg.MaxItemsPerFeed)...)
		}
	}
	// Google News RSS entries are still fetched here; their redirect URLs
	// are filtered out later by Collector.CollectAndPersist via
	// SkipGoogleNewsRedirect rather than skipped at the source.
	for _, entry := range feedCfg.GoogleNewsRSS {
		if items, err := rss.Collect(entry.URL, entry.Name); err == nil {
			all = append(all, capItems(items, cfg.MaxItemsPerFeed)...)
		}
	}

	sitemaps := collect.NewSitemapSource(cfg.RequestTimeout(), cfg.UserAgent)
	for _, entry := range feedCfg.Sitemaps {
		if items, err := sitemaps.Collect(entry.URL, entry.Name); err == nil {
			all = append(all, capItems(items, cfg.MaxItemsPerFeed)...)
		}
	}

	htmlSource := collect.NewHTMLListingSource(cfg.RequestTimeout(), cfg.UserAgent)
	for _, entry := range feedCfg.HTML {
		cfgHTML := collect.HTMLListingConfig{
			ItemSelector:  entry.ItemSelector,
			TitleSelector: entry.TitleSelector,
			DateSelector:  entry.DateSelector,
		}
		if items, err := htmlSource.Collect(entry.URL, entry.Name, cfgHTML); err == nil {
			all = append(all, capItems(items, cfg.MaxItemsPerFeed)...)
		}
	}

	jsonSource := collect.NewJSONAPISource(cfg.RequestTimeout(), cfg.UserAgent)
	for _, entry := range feedCfg.JSON {
		cfgJSON := collect.JSONAPIConfig{
			ItemsPath: entry.ItemsPath,
			URLPath:   entry.URLPath,
			TitlePath: entry.TitlePath,
			DatePath:  entry.DatePath,
		}
		if items, err := jsonSource.Collect(entry.URL, entry.Name, cfgJSON); err == nil {
			all = append(all, capItems(items, cfg.MaxItemsPerFeed)...)
		}
	}

	return all
}

// capItems truncates items to at most limit entries. limit<=0 means no cap.
func capItems(items []collect.RawItem, limit int) []collect.RawItem {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

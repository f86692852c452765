// Package dedup implements the two independent clustering paths that collapse
// duplicate coverage of the same story: GPT-driven title clustering and a
// supplemental content-similarity clusterer. They write to the same
// article_clusters table but never interpret each other's rows — each is
// keyed by its own clustering_method.
package dedup

import (
	"net/url"
	"strings"
	"time"
)

// sourceAuthority is the 0-10 scale used ONLY for content-similarity cluster
// primary selection. Do not confuse with the distinct, differently-scaled
// host-tier map classify.PriorityScore uses for same-run ordering.
var sourceAuthority = map[string]float64{
	"admin.ch": 10, "finma.ch": 10, "snb.ch": 10, "seco.admin.ch": 10, "bfs.admin.ch": 10,
	"handelszeitung.ch": 8, "finews.ch": 8, "fuw.ch": 8, "cash.ch": 7,
	"nzz.ch": 6, "srf.ch": 5,
}

const unknownSourceAuthority = 1

func sourceAuthorityScore(rawURL string) float64 {
	host := extractHost(rawURL)
	for domain, score := range sourceAuthority {
		if strings.Contains(host, domain) {
			return score
		}
	}
	return unknownSourceAuthority
}

func extractHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(u.Host, "www."))
}

// QualityScoreInput is the minimal article shape the quality-score formula
// needs for cluster-primary selection.
type QualityScoreInput struct {
	URL         string
	Title       string
	PublishedAt *time.Time
	FirstSeenAt time.Time
}

// QualityScore ranks cluster members for primary selection: source
// authority, title length, URL shape, and recency.
func QualityScore(a QualityScoreInput, now time.Time) float64 {
	score := sourceAuthorityScore(a.URL)

	switch {
	case len(a.Title) > 50:
		score += 2
	case len(a.Title) > 20:
		score += 1
	}

	lower := strings.ToLower(a.URL)
	if strings.Contains(lower, "/artikel/") || strings.Contains(lower, "/news/") {
		score += 1
	}
	if !strings.Contains(a.URL, "?") {
		score += 0.5
	}

	pubDate := a.PublishedAt
	if pubDate == nil {
		pubDate = &a.FirstSeenAt
	}
	if pubDate != nil && !pubDate.IsZero() {
		daysOld := int(now.Sub(*pubDate).Hours() / 24)
		switch {
		case daysOld == 0:
			score += 2
		case daysOld == 1:
			score += 1
		case daysOld <= 7:
			score += 0.5
		}
	}

	return score
}

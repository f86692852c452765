// Package classify implements the oracle-backed topic triage step: per-item
// is_match/confidence/reason decisions, ProcessedLink memoization, and the
// priority score used to order candidates before they are triaged.
package classify

import (
	"net/url"
	"strings"
	"time"
)

// Authority tiers for priority ordering only — never confused with the
// separate, differently-scaled authority table the content-similarity
// clusterer uses to pick a cluster primary (see internal/dedup).
var (
	tier1Hosts = map[string]bool{
		"admin.ch": true, "finma.ch": true, "snb.ch": true,
		"seco.admin.ch": true, "bfs.admin.ch": true,
	}
	tier2Hosts = map[string]bool{
		"handelszeitung.ch": true, "finews.ch": true, "fuw.ch": true, "cash.ch": true,
	}
	tier3Hosts = map[string]bool{
		"nzz.ch": true, "srf.ch": true,
	}
)

// DefaultTimezone is the local wall-clock zone the date filter's "today" /
// "last N days" window is computed against.
const DefaultTimezone = "Europe/Zurich"

// DateWindowCutoff returns the cutoff instant for the classifier's date
// filter: maxArticleAgeDays<=0 means local midnight today, >0 means local
// midnight maxArticleAgeDays back. now is converted into DefaultTimezone
// before the midnight boundary is computed, so a UTC-stored timestamp still
// lands on the right side of a Swiss midnight.
func DateWindowCutoff(maxArticleAgeDays int, now time.Time) time.Time {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	if maxArticleAgeDays > 0 {
		midnight = midnight.AddDate(0, 0, -maxArticleAgeDays)
	}
	return midnight
}

// Express/standard mode candidate caps: a small, already-filtered candidate
// pool runs in express mode (cap ExpressModeCap); a larger pool runs in
// standard mode (cap StandardModeCap). Either way, the candidate pool is
// sorted by PriorityScore and truncated to the cap before spending any
// oracle calls.
const (
	ExpressModeThreshold = 15
	ExpressModeCap       = 50
	StandardModeCap      = 100
)

// ModeCap returns the candidate cap for a pool of candidateCount
// window-filtered items.
func ModeCap(candidateCount int) int {
	if candidateCount <= ExpressModeThreshold {
		return ExpressModeCap
	}
	return StandardModeCap
}

func hostScore(host string) float64 {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	switch {
	case tier1Hosts[host]:
		return 3.0
	case tier2Hosts[host]:
		return 2.0
	case tier3Hosts[host]:
		return 1.0
	default:
		return 0.5
	}
}

// PriorityScore orders a run's window-filtered candidates before triage:
// authority tier, plus a freshness decay, plus small bonuses for
// article-shaped URLs and clean query strings. The candidate pool is
// truncated to ModeCap in this order. The score is stored with the triage
// result but the Selection Gate does not read it.
func PriorityScore(rawURL string, publishedAt *time.Time, now time.Time) float64 {
	score := 0.5
	if u, err := url.Parse(rawURL); err == nil {
		score = hostScore(u.Host)
	}

	daysOld := 0.0
	if publishedAt != nil {
		daysOld = now.Sub(*publishedAt).Hours() / 24
	}
	freshness := 1.0 - daysOld*0.1
	if freshness < 0.1 {
		freshness = 0.1
	}
	score += freshness

	lower := strings.ToLower(rawURL)
	if strings.Contains(lower, "/artikel/") || strings.Contains(lower, "/news/") || strings.Contains(lower, "/artikel-") {
		score += 0.3
	}

	queryMarks := strings.Count(rawURL, "?")
	if queryMarks == 0 || queryMarks == 1 {
		score += 0.2
	}

	return score
}

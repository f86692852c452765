package dedup

import (
	"context"
	"crypto/md5"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"newsdesk/internal/core"
)

// Oracle is the narrow contract GPT title clustering needs: given a numbered
// list of titles, return one raw response line per title of the form
// "<index>, <Group-label>".
type Oracle interface {
	ClusterTitles(ctx context.Context, numberedTitles []string) ([]string, error)
}

// lineRe tolerates minor format drift in the oracle's response: a leading
// index (optionally followed by '.' or ')'), a separator, then a label.
var lineRe = regexp.MustCompile(`^\s*(\d+)[.)]?\s*[,:-]\s*(.+)$`)

// TitleCandidate is the minimal item shape GPT title clustering needs.
type TitleCandidate struct {
	ItemID        string
	Title         string
	ExtractedText string
}

// TitleClusterer groups same-day articles into story clusters via a single
// oracle call, rather than pairwise similarity.
type TitleClusterer struct {
	Oracle Oracle
	Store  Store
}

func NewTitleClusterer(oracle Oracle, store Store) *TitleClusterer {
	return &TitleClusterer{Oracle: oracle, Store: store}
}

// Cluster asks the oracle to group candidates by story and persists one
// article_clusters row per member of every group with ≥2 members. Fewer than
// two candidates is a no-op.
func (c *TitleClusterer) Cluster(ctx context.Context, candidates []TitleCandidate, now time.Time) (int, error) {
	if len(candidates) < 2 {
		return 0, nil
	}

	numbered := make([]string, len(candidates))
	for i, cand := range candidates {
		numbered[i] = fmt.Sprintf("%d. %s", i+1, cand.Title)
	}

	lines, err := c.Oracle.ClusterTitles(ctx, numbered)
	if err != nil {
		return 0, err
	}

	groups := parseGroups(lines, len(candidates))

	persisted := 0
	for label, indices := range groups {
		if len(indices) < 2 {
			continue
		}
		clusterID := fmt.Sprintf("%x", md5.Sum([]byte(fmt.Sprintf("%s_%d", label, len(indices)))))

		primary := indices[0]
		for _, idx := range indices[1:] {
			if len(candidates[idx].ExtractedText) > len(candidates[primary].ExtractedText) {
				primary = idx
			}
		}

		for _, idx := range indices {
			assignment := core.ArticleCluster{
				ID:               fmt.Sprintf("%x", md5.Sum([]byte(clusterID+"|"+candidates[idx].ItemID))),
				ItemID:           candidates[idx].ItemID,
				ClusterID:        clusterID,
				IsPrimary:        idx == primary,
				ClusteringMethod: "gpt_title_clustering",
				CreatedAt:        now,
			}
			if err := c.Store.SaveClusterAssignment(assignment); err != nil {
				return persisted, err
			}
		}
		persisted++
	}

	return persisted, nil
}

// parseGroups tolerates extra prose around each line and out-of-range
// indices; only 1-based indices within [1, count] are kept.
func parseGroups(lines []string, count int) map[string][]int {
	groups := make(map[string][]int)
	for _, line := range lines {
		m := lineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx < 1 || idx > count {
			continue
		}
		label := strings.TrimSpace(m[2])
		groups[label] = append(groups[label], idx-1)
	}
	return groups
}

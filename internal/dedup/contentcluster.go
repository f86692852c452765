package dedup

import (
	"crypto/md5"
	"fmt"
	"time"

	"newsdesk/internal/core"
	"newsdesk/internal/textsim"
)

// ContentSimilarityThreshold is the pairwise title-Jaccard bar for the
// supplemental clusterer, looser than the collector's intra-batch threshold
// since it runs across sources over a longer time window.
const ContentSimilarityThreshold = 0.75

// ClusterCandidate is the minimal item shape the content-similarity clusterer
// needs.
type ClusterCandidate struct {
	ItemID      string
	Title       string
	URL         string
	PublishedAt *time.Time
	FirstSeenAt time.Time
}

// Store is the persistence surface content-similarity clustering needs.
type Store interface {
	SaveClusterAssignment(cluster core.ArticleCluster) error
}

// ContentSimilarityClusterer groups same-story articles across sources by
// title similarity, picking the highest quality-score member as primary.
type ContentSimilarityClusterer struct {
	Store Store
}

func NewContentSimilarityClusterer(store Store) *ContentSimilarityClusterer {
	return &ContentSimilarityClusterer{Store: store}
}

// Cluster greedily groups candidates whose titles are similar enough,
// persists one article_clusters row per member, and returns the number of
// clusters found. Singleton groups are skipped — they are not duplicates of
// anything.
func (c *ContentSimilarityClusterer) Cluster(candidates []ClusterCandidate, now time.Time) (int, error) {
	processed := make(map[int]bool)
	clusterIdx := 0

	for i, a := range candidates {
		if processed[i] {
			continue
		}
		group := []int{i}
		processed[i] = true

		for j := i + 1; j < len(candidates); j++ {
			if processed[j] {
				continue
			}
			if textsim.Jaccard(a.Title, candidates[j].Title) >= ContentSimilarityThreshold {
				group = append(group, j)
				processed[j] = true
			}
		}

		if len(group) < 2 {
			continue
		}

		clusterID := fmt.Sprintf("%x", md5.Sum([]byte(fmt.Sprintf("content_cluster_%d_%d", clusterIdx, len(group)))))
		clusterIdx++

		primaryPos := 0
		bestScore := -1.0
		for pos, idx := range group {
			cand := candidates[idx]
			score := QualityScore(QualityScoreInput{
				URL: cand.URL, Title: cand.Title, PublishedAt: cand.PublishedAt, FirstSeenAt: cand.FirstSeenAt,
			}, now)
			if score > bestScore {
				bestScore = score
				primaryPos = pos
			}
		}

		for pos, idx := range group {
			cand := candidates[idx]
			assignment := core.ArticleCluster{
				ID:               fmt.Sprintf("%x", md5.Sum([]byte(clusterID+"|"+cand.ItemID))),
				ItemID:           cand.ItemID,
				ClusterID:        clusterID,
				IsPrimary:        pos == primaryPos,
				ClusteringMethod: "title_similarity",
				CreatedAt:        now,
			}
			if err := c.Store.SaveClusterAssignment(assignment); err != nil {
				return clusterIdx, err
			}
		}
	}

	return clusterIdx, nil
}

package collect

import (
	"time"

	"github.com/google/uuid"

	"newsdesk/internal/core"
	"newsdesk/internal/urlnorm"
)

// Store is the persistence surface the collector needs, satisfied by
// *store.Store.
type Store interface {
	InsertItem(item core.Item) error
}

// Collector runs one or more RawItem-producing sources, applies the
// intra-batch dedup pass, and persists the survivors as collected Items.
type Collector struct {
	Store              Store
	SkipGNewsRedirects bool
}

// NewCollector wires a collector against a store, honoring
// SKIP_GNEWS_REDIRECTS (default true, matching the original's hard-coded
// Google News RSS disablement).
func NewCollector(s Store, skipGNewsRedirects bool) *Collector {
	return &Collector{Store: s, SkipGNewsRedirects: skipGNewsRedirects}
}

// CollectAndPersist dedups rawItems, filters out disabled aggregator
// redirects, and inserts the survivors as new items scoped to runID/topic.
// It returns the count actually persisted.
func (c *Collector) CollectAndPersist(runID, topic string, rawItems []RawItem) (int, error) {
	var filtered []RawItem
	for _, item := range rawItems {
		if SkipGoogleNewsRedirect(item.URL, c.SkipGNewsRedirects) {
			continue
		}
		filtered = append(filtered, item)
	}

	deduped, err := DedupBatch(filtered)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	persisted := 0
	for _, item := range deduped {
		hash, err := urlnorm.Hash(item.URL)
		if err != nil {
			continue
		}
		entity := core.Item{
			ID:          uuid.NewSHA1(uuid.NameSpaceURL, []byte(runID+"|"+item.URL)).String(),
			RunID:       runID,
			Topic:       topic,
			URL:         item.URL,
			URLHash:     hash,
			Title:       item.Title,
			Source:      item.Source,
			PublishedAt: item.PublishedAt,
			FirstSeenAt: now,
		}
		if err := c.Store.InsertItem(entity); err != nil {
			continue // another run may have already collected this url/run pair
		}
		persisted++
	}
	return persisted, nil
}

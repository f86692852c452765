package collect

import (
	"newsdesk/internal/textsim"
	"newsdesk/internal/urlnorm"
)

// intraBatchThreshold is the title-similarity bar for collapsing two items
// from the same source within one collection sweep.
const intraBatchThreshold = 0.9

// DedupBatch collapses exact URL-hash duplicates first, then — among items
// sharing a source — near-duplicate titles (Jaccard >= 0.9). Order of
// operations matters: exact hash match is cheap and unambiguous, so it runs
// before the more expensive pairwise title comparison.
func DedupBatch(items []RawItem) ([]RawItem, error) {
	seenHash := make(map[string]bool)
	var deduped []RawItem

	for _, item := range items {
		hash, err := urlnorm.Hash(item.URL)
		if err != nil {
			continue // unparseable URL, drop rather than fail the whole batch
		}
		if seenHash[hash] {
			continue
		}
		seenHash[hash] = true
		deduped = append(deduped, item)
	}

	var result []RawItem
	for _, candidate := range deduped {
		duplicate := false
		for _, kept := range result {
			if kept.Source != candidate.Source {
				continue
			}
			if textsim.Jaccard(kept.Title, candidate.Title) >= intraBatchThreshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			result = append(result, candidate)
		}
	}
	return result, nil
}

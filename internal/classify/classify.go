package classify

import (
	"context"
	"fmt"
	"time"

	"newsdesk/internal/core"
)

// Threshold and batch-size constants mirrored from the filtering config
// defaults (pipeline.filtering.confidence_threshold /
// pipeline.filtering.max_articles_to_process).
const (
	DefaultConfidenceThreshold = 0.70
	DefaultMaxArticlesToProcess = 35
)

// Oracle is the narrow contract classify needs from the LLM client: a single
// JSON-schema-constrained triage call.
type Oracle interface {
	Triage(ctx context.Context, topic, title, url string) (isMatch bool, confidence float64, reason string, err error)
}

// Store is the persistence surface classify needs.
type Store interface {
	LookupProcessedLink(urlHash, topic string) (core.ProcessedLink, bool, error)
	RecordProcessedLink(urlHash, topic string, isMatch bool, confidence float64, reason string) error
	SaveTriageResult(itemID string, isMatch bool, confidence float64, reason string, priorityScore float64) error
}

// Classifier runs topic triage over a batch of items, reusing memoized
// decisions instead of re-spending an oracle call on a previously judged
// (url_hash, topic) pair.
type Classifier struct {
	Oracle Oracle
	Store  Store
}

func NewClassifier(oracle Oracle, store Store) *Classifier {
	return &Classifier{Oracle: oracle, Store: store}
}

// ClassifyItem triages one item against topic, consulting and updating the
// ProcessedLink memo table.
//
// A previously processed (url_hash, topic) pair always reuses its stored
// verdict — matched, rejected, or whatever confidence was recorded — rather
// than treating "already seen" as an automatic reject. That correction
// matters across runs: a link that matched on an earlier run must still
// count as a match if the same URL resurfaces in a later collection sweep.
//
// threshold is the topic's confidence floor; a raw match below it is forced
// to is_match=false with an explanatory reason rather than persisted as-is.
// threshold<=0 substitutes DefaultConfidenceThreshold.
func (c *Classifier) ClassifyItem(ctx context.Context, item core.Item, now time.Time, threshold float64) error {
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}

	if memo, found, err := c.Store.LookupProcessedLink(item.URLHash, item.Topic); err != nil {
		return err
	} else if found {
		priority := PriorityScore(item.URL, item.PublishedAt, now)
		isMatch, reason := forceBelowThreshold(memo.IsMatch, memo.Confidence, threshold, memo.Reason)
		return c.Store.SaveTriageResult(item.ID, isMatch, memo.Confidence, reason, priority)
	}

	isMatch, confidence, reason, err := c.Oracle.Triage(ctx, item.Topic, item.Title, item.URL)
	if err != nil {
		return err
	}

	if err := c.Store.RecordProcessedLink(item.URLHash, item.Topic, isMatch, confidence, reason); err != nil {
		return err
	}

	priority := PriorityScore(item.URL, item.PublishedAt, now)
	finalMatch, finalReason := forceBelowThreshold(isMatch, confidence, threshold, reason)
	return c.Store.SaveTriageResult(item.ID, finalMatch, confidence, finalReason, priority)
}

// forceBelowThreshold implements the triage schema's confidence floor: a
// match scored under threshold never reaches the Selection Gate as a match.
func forceBelowThreshold(isMatch bool, confidence, threshold float64, reason string) (bool, string) {
	if isMatch && confidence < threshold {
		return false, fmt.Sprintf("Below confidence threshold %.2f", threshold)
	}
	return isMatch, reason
}

// AcceptWithoutTriage records item as a full-confidence match without
// spending an oracle call, for a run that skips relevance prefiltering
// entirely and lets every collected item reach the Selection Gate.
func (c *Classifier) AcceptWithoutTriage(item core.Item, now time.Time) error {
	priority := PriorityScore(item.URL, item.PublishedAt, now)
	return c.Store.SaveTriageResult(item.ID, true, 1.0, "prefilter skipped", priority)
}

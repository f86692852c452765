// Package crossrun implements same-day cross-run topic deduplication: when
// the pipeline runs more than once in a day, later runs compare their new
// summaries against signatures retained from earlier runs so the same story
// doesn't get digested twice.
package crossrun

import (
	"context"
	"fmt"

	"newsdesk/internal/core"
)

// maxPreviousSignatures caps how many earlier signatures are sent to the
// oracle in one comparison prompt, bounding both token cost and latency.
const maxPreviousSignatures = 10

// Oracle is the narrow contract cross-run comparison needs: given a new
// summary and up to 10 previous signatures, decide whether it's a duplicate.
type Oracle interface {
	CompareTopic(ctx context.Context, newTitle, newSummary string, previous []core.CrossRunTopicSignature) (isDuplicate bool, err error)
}

// Store is the persistence surface cross-run dedup needs.
type Store interface {
	NextRunSequence(date string) (int, error)
	StoreTopicSignature(sig core.CrossRunTopicSignature) error
	PreviousSignatures(date string, limit int) ([]core.CrossRunTopicSignature, error)
	LogDeduplicationDecision(l core.CrossRunDeduplicationLog) error
	MarkTopicCovered(itemID, clusterID string) error
}

// NewSummary is the minimal shape crossrun needs from a freshly produced
// summary.
type NewSummary struct {
	ItemID  string
	Title   string
	Summary string
	Topic   string
}

// Result summarizes one deduplication pass.
type Result struct {
	Processed  int
	Duplicates int
	Unique     int
	FirstRun   bool
}

// Deduplicator compares newly summarized items against signatures retained
// from earlier runs on the same date.
type Deduplicator struct {
	Oracle Oracle
	Store  Store
}

func NewDeduplicator(oracle Oracle, store Store) *Deduplicator {
	return &Deduplicator{Oracle: oracle, Store: store}
}

// Run compares newSummaries against date's previously retained signatures.
// Duplicates are marked covered and excluded from new-signature storage;
// every surviving summary gets a fresh retained signature for later runs to
// compare against. An oracle failure for a given item fails open — the item
// is treated as unique rather than silently dropped.
func (d *Deduplicator) Run(ctx context.Context, date string, newSummaries []NewSummary) (Result, error) {
	if len(newSummaries) == 0 {
		return Result{}, nil
	}

	previous, err := d.Store.PreviousSignatures(date, maxPreviousSignatures)
	if err != nil {
		return Result{}, err
	}

	result := Result{Processed: len(newSummaries)}
	if len(previous) == 0 {
		result.FirstRun = true
		if err := d.storeSignatures(date, newSummaries); err != nil {
			return result, err
		}
		result.Unique = len(newSummaries)
		return result, nil
	}

	var survivors []NewSummary
	for _, s := range newSummaries {
		isDuplicate, err := d.Oracle.CompareTopic(ctx, s.Title, s.Summary, previous)
		if err != nil {
			// Fail open: an oracle error never blocks a story from the digest.
			survivors = append(survivors, s)
			continue
		}

		if !isDuplicate {
			if err := d.Store.LogDeduplicationDecision(core.CrossRunDeduplicationLog{
				Date: date, NewItemID: s.ItemID, Decision: "UNIQUE",
			}); err != nil {
				return result, err
			}
			survivors = append(survivors, s)
			continue
		}

		// Imprecise YES/NO matching defaults to the single most-recent
		// signature, mirroring the original's conservative choice.
		matched := previous[0]
		if err := d.Store.LogDeduplicationDecision(core.CrossRunDeduplicationLog{
			Date: date, NewItemID: s.ItemID, MatchedSignatureID: matched.SignatureID, Decision: "DUPLICATE",
		}); err != nil {
			return result, err
		}
		if err := d.Store.MarkTopicCovered(s.ItemID, matched.SignatureID); err != nil {
			return result, err
		}
		result.Duplicates++
	}

	result.Unique = len(survivors)
	if err := d.storeSignatures(date, survivors); err != nil {
		return result, err
	}
	return result, nil
}

func (d *Deduplicator) storeSignatures(date string, summaries []NewSummary) error {
	sequence, err := d.Store.NextRunSequence(date)
	if err != nil {
		return err
	}
	for _, s := range summaries {
		sig := core.CrossRunTopicSignature{
			SignatureID:   fmt.Sprintf("%s|%d|%s", date, sequence, s.ItemID),
			Date:          date,
			RunSequence:   sequence,
			SourceItemID:  s.ItemID,
			Topic:         s.Topic,
			SignatureText: s.Summary,
		}
		if err := d.Store.StoreTopicSignature(sig); err != nil {
			return err
		}
	}
	return nil
}

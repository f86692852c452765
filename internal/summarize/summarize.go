// Package summarize implements the per-item, per-topic structured
// summarization step: each matched, extracted, non-duplicate item gets an
// oracle-generated summary with key points and named entities.
package summarize

import (
	"context"
	"fmt"
	"time"

	"newsdesk/internal/core"
)

// MinExtractedTextLength is the floor below which an item is not eligible
// for summarization — it mirrors the Content Extractor's acceptance floor,
// since anything shorter never should have been persisted as scraped.
const MinExtractedTextLength = 600

// MaxRetries bounds how many times a single summarization call is retried
// on transport failure before the item is left for a later run.
const MaxRetries = 2

// RetryDelay is the base backoff between attempts, scaled by attempt number.
var RetryDelay = 2 * time.Second

// Oracle is the narrow contract summarization needs.
type Oracle interface {
	Summarize(ctx context.Context, title, extractedText string) (Result, error)
}

// Result mirrors oracle.SummaryResult's shape without summarize depending on
// the oracle package directly — only on the data it returns.
type Result struct {
	Title     string
	Summary   string
	KeyPoints []string
	Entities  map[string][]string
}

// Store is the persistence surface summarization needs.
type Store interface {
	SaveSummary(summary core.Summary) error
}

// Summarizer produces and persists structured summaries for eligible items.
type Summarizer struct {
	Oracle Oracle
	Store  Store
}

func NewSummarizer(oracle Oracle, store Store) *Summarizer {
	return &Summarizer{Oracle: oracle, Store: store}
}

// SummarizeItem produces a structured summary for item and persists it. It
// retries transient oracle failures before giving up, leaving the item at
// its current pipeline stage for a later run to retry.
func (s *Summarizer) SummarizeItem(ctx context.Context, item core.Item) error {
	if len(item.ExtractedText) < MinExtractedTextLength {
		return fmt.Errorf("item %s has insufficient extracted text (%d chars) to summarize", item.ID, len(item.ExtractedText))
	}

	var result Result
	var err error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		result, err = s.Oracle.Summarize(ctx, item.Title, item.ExtractedText)
		if err == nil {
			break
		}
		if attempt < MaxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(RetryDelay * time.Duration(attempt+1)):
			}
		}
	}
	if err != nil {
		return fmt.Errorf("failed to summarize item %s after %d attempts: %w", item.ID, MaxRetries+1, err)
	}

	summary := core.Summary{
		ItemID:      item.ID,
		Topic:       item.Topic,
		SummaryText: result.Summary,
		KeyPoints:   result.KeyPoints,
		Entities:    result.Entities,
		CreatedAt:   time.Now().UTC(),
	}
	return s.Store.SaveSummary(summary)
}

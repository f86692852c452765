package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"newsdesk/internal/core"
)

type fakeSummarizeOracle struct {
	calls   int
	failN   int
	result  Result
	lastErr error
}

func (f *fakeSummarizeOracle) Summarize(ctx context.Context, title, extractedText string) (Result, error) {
	f.calls++
	if f.calls <= f.failN {
		return Result{}, errors.New("transient failure")
	}
	return f.result, nil
}

type fakeSummarizeStore struct {
	saved []core.Summary
}

func (f *fakeSummarizeStore) SaveSummary(summary core.Summary) error {
	f.saved = append(f.saved, summary)
	return nil
}

func TestSummarizeItemRejectsThinContent(t *testing.T) {
	oracle := &fakeSummarizeOracle{}
	store := &fakeSummarizeStore{}
	s := NewSummarizer(oracle, store)

	item := core.Item{ID: "a", ExtractedText: "too short"}
	if err := s.SummarizeItem(context.Background(), item); err == nil {
		t.Fatal("expected an error for extracted text under the floor")
	}
	if oracle.calls != 0 {
		t.Fatalf("expected no oracle call for ineligible content, got %d", oracle.calls)
	}
}

func TestSummarizeItemRetriesThenSucceeds(t *testing.T) {
	original := RetryDelay
	RetryDelay = time.Millisecond
	defer func() { RetryDelay = original }()

	oracle := &fakeSummarizeOracle{failN: 1, result: Result{Title: "t", Summary: "s", KeyPoints: []string{"a"}}}
	store := &fakeSummarizeStore{}
	s := NewSummarizer(oracle, store)

	item := core.Item{ID: "a", Topic: "swiss-franc", Title: "t", ExtractedText: strings.Repeat("x", 700)}
	if err := s.SummarizeItem(context.Background(), item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if oracle.calls != 2 {
		t.Fatalf("expected exactly 2 attempts (1 failure + 1 success), got %d", oracle.calls)
	}
	if len(store.saved) != 1 || store.saved[0].ItemID != "a" {
		t.Fatalf("expected the summary to be persisted for item a, got %+v", store.saved)
	}
}

func TestSummarizeItemFailsAfterExhaustingRetries(t *testing.T) {
	oracle := &fakeSummarizeOracle{failN: MaxRetries + 1}
	store := &fakeSummarizeStore{}
	s := NewSummarizer(oracle, store)

	item := core.Item{ID: "a", ExtractedText: strings.Repeat("x", 700)}
	if err := s.SummarizeItem(context.Background(), item); err == nil {
		t.Fatal("expected an error once retries are exhausted")
	}
	if len(store.saved) != 0 {
		t.Fatalf("expected nothing persisted on total failure, got %+v", store.saved)
	}
}

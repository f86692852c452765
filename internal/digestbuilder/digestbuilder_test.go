package digestbuilder

import (
	"context"
	"errors"
	"testing"

	"newsdesk/internal/core"
	"newsdesk/internal/store"
)

type fakeDigestStore struct {
	state        core.DigestState
	hasState     bool
	newRows      []store.SummaryRow
	savedContent core.DigestContent
	savedIDs     []string
	saveCalls    int
	logs         []core.DigestGenerationLog
}

func (f *fakeDigestStore) GetDigestState(date, topic string) (core.DigestState, bool, error) {
	return f.state, f.hasState, nil
}

func (f *fakeDigestStore) SaveDigestState(date, topic string, itemIDs []string, content core.DigestContent) error {
	f.saveCalls++
	f.savedContent = content
	f.savedIDs = itemIDs
	return nil
}

func (f *fakeDigestStore) NewItemsForTopicOnDate(topic, date string, processedIDs map[string]bool) ([]store.SummaryRow, error) {
	return f.newRows, nil
}

func (f *fakeDigestStore) LogDigestGeneration(l core.DigestGenerationLog) error {
	f.logs = append(f.logs, l)
	return nil
}

type fakeDigestOracle struct {
	partial    PartialDigest
	merged     MergedDigest
	full       FullDigest
	partialErr error
	mergeErr   error
	fullErr    error
}

func (o *fakeDigestOracle) GeneratePartialDigest(ctx context.Context, topic string, articleSummaries []string) (PartialDigest, error) {
	return o.partial, o.partialErr
}

func (o *fakeDigestOracle) MergeDigests(ctx context.Context, topic, existingHeadline, existingWhyItMatters string, partial PartialDigest) (MergedDigest, error) {
	return o.merged, o.mergeErr
}

func (o *fakeDigestOracle) GenerateFullDigest(ctx context.Context, topic string, articleSummaries []string) (FullDigest, error) {
	return o.full, o.fullErr
}

func TestBuildTopicDigestNoNewArticlesReturnsExisting(t *testing.T) {
	existing := core.DigestContent{Topic: "swiss-franc", Headline: "existing headline"}
	fstore := &fakeDigestStore{hasState: true, state: core.DigestState{DigestContent: existing}}
	oracle := &fakeDigestOracle{}
	b := NewBuilder(oracle, fstore)

	result, err := b.BuildTopicDigest(context.Background(), "swiss-franc", "2026-07-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.WasUpdated {
		t.Fatalf("expected no update when there are no new articles")
	}
	if result.Content.Headline != "existing headline" {
		t.Fatalf("expected the existing digest to be returned unchanged, got %+v", result.Content)
	}
	if fstore.saveCalls != 0 {
		t.Fatalf("expected no save call for an idempotent no-op, got %d", fstore.saveCalls)
	}
}

func TestBuildTopicDigestNoExistingStateAndNoArticlesReturnsEmptyDigest(t *testing.T) {
	fstore := &fakeDigestStore{}
	oracle := &fakeDigestOracle{}
	b := NewBuilder(oracle, fstore)

	result, err := b.BuildTopicDigest(context.Background(), "swiss-franc", "2026-07-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.WasUpdated {
		t.Fatalf("expected no update for an empty first digest")
	}
	if result.Content.ArticleCount != 0 {
		t.Fatalf("expected zero article count, got %d", result.Content.ArticleCount)
	}
}

func TestBuildTopicDigestFirstDigestForTopic(t *testing.T) {
	fstore := &fakeDigestStore{newRows: []store.SummaryRow{
		{Summary: core.Summary{ItemID: "a", SummaryText: "text"}, Title: "UBS deal", Source: "nzz"},
	}}
	oracle := &fakeDigestOracle{full: FullDigest{
		Headline:     "UBS finalizes deal",
		WhyItMatters: "Significant for the franc.",
		Sources:      []string{"nzz"},
		ArticleCount: 1,
		GeneratedAt:  "2026-07-31T00:00:00Z",
	}}
	b := NewBuilder(oracle, fstore)

	result, err := b.BuildTopicDigest(context.Background(), "swiss-franc", "2026-07-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.WasUpdated {
		t.Fatalf("expected WasUpdated=true for a first-ever digest")
	}
	if result.Content.ArticleCount != 1 {
		t.Fatalf("expected article_count=1, got %d", result.Content.ArticleCount)
	}
	if result.Content.Headline != "UBS finalizes deal" {
		t.Fatalf("expected the full-digest oracle call's headline to be used, got %q", result.Content.Headline)
	}
	if fstore.saveCalls != 1 {
		t.Fatalf("expected exactly one save, got %d", fstore.saveCalls)
	}
	if len(fstore.logs) != 1 || fstore.logs[0].GenerationType != "full" {
		t.Fatalf("expected one 'full' generation log entry, got %+v", fstore.logs)
	}
}

func TestBuildTopicDigestMergeFailureFallsBackToExistingWithIncrementedCount(t *testing.T) {
	existing := core.DigestContent{Topic: "swiss-franc", Headline: "old headline", ArticleCount: 3}
	fstore := &fakeDigestStore{
		hasState: true,
		state:    core.DigestState{DigestContent: existing, ProcessedItemIDs: []string{"x"}},
		newRows:  []store.SummaryRow{{Summary: core.Summary{ItemID: "a"}, Title: "t", Source: "nzz"}},
	}
	oracle := &fakeDigestOracle{
		partial:  PartialDigest{KeyInsights: []string{"insight"}},
		mergeErr: errors.New("merge failed"),
	}
	b := NewBuilder(oracle, fstore)

	result, err := b.BuildTopicDigest(context.Background(), "swiss-franc", "2026-07-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Content.Headline != "old headline" {
		t.Fatalf("expected the merge failure to preserve the existing headline, got %q", result.Content.Headline)
	}
	if result.Content.ArticleCount != 4 {
		t.Fatalf("expected article count incremented by 1 new article, got %d", result.Content.ArticleCount)
	}
	if len(fstore.logs) != 1 || fstore.logs[0].GenerationType != "incremental" {
		t.Fatalf("expected one 'incremental' generation log entry, got %+v", fstore.logs)
	}
}

func TestBuildTopicDigestForceRefreshIgnoresProcessedItemsAndSkipsMerge(t *testing.T) {
	existing := core.DigestContent{Topic: "swiss-franc", Headline: "old headline", ArticleCount: 3}
	fstore := &fakeDigestStore{
		hasState: true,
		state:    core.DigestState{DigestContent: existing, ProcessedItemIDs: []string{"a"}},
		newRows: []store.SummaryRow{
			{Summary: core.Summary{ItemID: "a"}, Title: "t1", Source: "nzz"},
			{Summary: core.Summary{ItemID: "b"}, Title: "t2", Source: "nzz"},
		},
	}
	oracle := &fakeDigestOracle{
		partial: PartialDigest{KeyInsights: []string{"insight"}},
		merged:  MergedDigest{Headline: "should not be used"},
		full:    FullDigest{Headline: "resynthesized headline", WhyItMatters: "still matters", ArticleCount: 2},
	}
	b := NewBuilder(oracle, fstore)

	result, err := b.BuildTopicDigest(context.Background(), "swiss-franc", "2026-07-31", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.WasUpdated {
		t.Fatalf("expected force refresh to report an update")
	}
	if result.Content.Headline != "resynthesized headline" {
		t.Fatalf("expected force refresh to resynthesize via the full-digest oracle call, got %q", result.Content.Headline)
	}
	if fstore.saveCalls != 1 {
		t.Fatalf("expected exactly one save, got %d", fstore.saveCalls)
	}
	if len(fstore.logs) != 1 || fstore.logs[0].GenerationType != "full" {
		t.Fatalf("expected one 'full' generation log entry for a force refresh, got %+v", fstore.logs)
	}
}

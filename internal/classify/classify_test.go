package classify

import (
	"context"
	"testing"
	"time"

	"newsdesk/internal/core"
)

func daysAgo(now time.Time, days float64) *time.Time {
	t := now.Add(-time.Duration(days*24) * time.Hour)
	return &t
}

func TestPriorityScoreTierOrdering(t *testing.T) {
	now := time.Now()
	tier1 := PriorityScore("https://www.admin.ch/artikel/x", daysAgo(now, 1), now)
	tier2 := PriorityScore("https://handelszeitung.ch/artikel/x", daysAgo(now, 1), now)
	tier3 := PriorityScore("https://nzz.ch/artikel/x", daysAgo(now, 1), now)
	unknown := PriorityScore("https://example.com/artikel/x", daysAgo(now, 1), now)

	if !(tier1 > tier2 && tier2 > tier3 && tier3 > unknown) {
		t.Fatalf("expected strict tier ordering, got tier1=%v tier2=%v tier3=%v unknown=%v", tier1, tier2, tier3, unknown)
	}
}

func TestPriorityScoreFreshnessDecayFloor(t *testing.T) {
	now := time.Now()
	fresh := PriorityScore("https://nzz.ch/a", daysAgo(now, 0), now)
	old := PriorityScore("https://nzz.ch/a", daysAgo(now, 30), now)
	ancient := PriorityScore("https://nzz.ch/a", daysAgo(now, 365), now)

	if !(fresh > old) {
		t.Fatalf("expected fresher article to score higher: fresh=%v old=%v", fresh, old)
	}
	if old != ancient {
		t.Fatalf("expected freshness to floor at 0.1 once fully decayed, got old=%v ancient=%v", old, ancient)
	}
}

func TestPriorityScoreURLBonuses(t *testing.T) {
	now := time.Now()
	clean := PriorityScore("https://nzz.ch/artikel/abc", daysAgo(now, 1), now)
	messy := PriorityScore("https://nzz.ch/page?x=1&y=2&z=3", daysAgo(now, 1), now)

	if !(clean > messy) {
		t.Fatalf("expected article-shaped clean-query URL to outscore a messy one: clean=%v messy=%v", clean, messy)
	}
}

type fakeOracle struct {
	calls   int
	isMatch bool
	conf    float64
	reason  string
}

func (f *fakeOracle) Triage(ctx context.Context, topic, title, url string) (bool, float64, string, error) {
	f.calls++
	return f.isMatch, f.conf, f.reason, nil
}

type fakeStore struct {
	memo       map[string]core.ProcessedLink
	recorded   []core.ProcessedLink
	lastTriage struct {
		itemID        string
		isMatch       bool
		confidence    float64
		reason        string
		priorityScore float64
	}
}

func (s *fakeStore) LookupProcessedLink(urlHash, topic string) (core.ProcessedLink, bool, error) {
	pl, ok := s.memo[urlHash+"|"+topic]
	return pl, ok, nil
}

func (s *fakeStore) RecordProcessedLink(urlHash, topic string, isMatch bool, confidence float64, reason string) error {
	s.recorded = append(s.recorded, core.ProcessedLink{URLHash: urlHash, Topic: topic, IsMatch: isMatch, Confidence: confidence, Reason: reason})
	return nil
}

func (s *fakeStore) SaveTriageResult(itemID string, isMatch bool, confidence float64, reason string, priorityScore float64) error {
	s.lastTriage.itemID = itemID
	s.lastTriage.isMatch = isMatch
	s.lastTriage.confidence = confidence
	s.lastTriage.reason = reason
	s.lastTriage.priorityScore = priorityScore
	return nil
}

// TestClassifyItemReusesProcessedLinkRatherThanForcingReject confirms a
// memoized match is replayed as a match, not downgraded to a reject just
// because the link was seen before.
func TestClassifyItemReusesProcessedLinkRatherThanForcingReject(t *testing.T) {
	store := &fakeStore{
		memo: map[string]core.ProcessedLink{
			"hash1|swiss-franc": {URLHash: "hash1", Topic: "swiss-franc", IsMatch: true, Confidence: 0.91, Reason: "prior match"},
		},
	}
	oracle := &fakeOracle{isMatch: false, conf: 0.1, reason: "should not be called"}
	c := NewClassifier(oracle, store)

	item := core.Item{ID: "item1", Topic: "swiss-franc", URL: "https://nzz.ch/a", URLHash: "hash1"}
	if err := c.ClassifyItem(context.Background(), item, time.Now(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if oracle.calls != 0 {
		t.Fatalf("expected no oracle call on memoized link, got %d calls", oracle.calls)
	}
	if !store.lastTriage.isMatch {
		t.Fatalf("expected memoized match to be replayed as a match")
	}
	if store.lastTriage.confidence != 0.91 {
		t.Fatalf("expected memoized confidence to carry through, got %v", store.lastTriage.confidence)
	}
}

func TestClassifyItemCallsOracleWhenUnseen(t *testing.T) {
	store := &fakeStore{memo: map[string]core.ProcessedLink{}}
	oracle := &fakeOracle{isMatch: true, conf: 0.8, reason: "matches topic"}
	c := NewClassifier(oracle, store)

	item := core.Item{ID: "item2", Topic: "swiss-franc", URL: "https://nzz.ch/b", URLHash: "hash2"}
	if err := c.ClassifyItem(context.Background(), item, time.Now(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if oracle.calls != 1 {
		t.Fatalf("expected exactly one oracle call for an unseen link, got %d", oracle.calls)
	}
	if len(store.recorded) != 1 {
		t.Fatalf("expected the oracle verdict to be memoized, got %d records", len(store.recorded))
	}
	if !store.lastTriage.isMatch || store.lastTriage.confidence != 0.8 {
		t.Fatalf("expected triage result to reflect the oracle verdict")
	}
}

// TestClassifyItemForcesRejectBelowThreshold confirms a fresh oracle match
// scored under the topic's confidence threshold is persisted as a reject,
// not as the raw oracle verdict.
func TestClassifyItemForcesRejectBelowThreshold(t *testing.T) {
	store := &fakeStore{memo: map[string]core.ProcessedLink{}}
	oracle := &fakeOracle{isMatch: true, conf: 0.5, reason: "weak match"}
	c := NewClassifier(oracle, store)

	item := core.Item{ID: "item4", Topic: "swiss-franc", URL: "https://nzz.ch/d", URLHash: "hash4"}
	if err := c.ClassifyItem(context.Background(), item, time.Now(), 0.8); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.lastTriage.isMatch {
		t.Fatalf("expected a below-threshold match to be forced to reject")
	}
	if store.lastTriage.confidence != 0.5 {
		t.Fatalf("expected the raw confidence to still be recorded, got %v", store.lastTriage.confidence)
	}
	if store.lastTriage.reason != "Below confidence threshold 0.80" {
		t.Fatalf("expected a threshold-specific reason, got %q", store.lastTriage.reason)
	}
}

// TestClassifyItemForcesRejectOnMemoizedMatchBelowThreshold confirms the
// same forcing applies to a replayed ProcessedLink memo, not just a fresh
// oracle call.
func TestClassifyItemForcesRejectOnMemoizedMatchBelowThreshold(t *testing.T) {
	store := &fakeStore{
		memo: map[string]core.ProcessedLink{
			"hash5|swiss-franc": {URLHash: "hash5", Topic: "swiss-franc", IsMatch: true, Confidence: 0.4, Reason: "prior weak match"},
		},
	}
	oracle := &fakeOracle{isMatch: false, conf: 0.1, reason: "should not be called"}
	c := NewClassifier(oracle, store)

	item := core.Item{ID: "item5", Topic: "swiss-franc", URL: "https://nzz.ch/e", URLHash: "hash5"}
	if err := c.ClassifyItem(context.Background(), item, time.Now(), 0.7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if oracle.calls != 0 {
		t.Fatalf("expected no oracle call on memoized link, got %d calls", oracle.calls)
	}
	if store.lastTriage.isMatch {
		t.Fatalf("expected a below-threshold memoized match to be forced to reject")
	}
	if store.lastTriage.reason != "Below confidence threshold 0.70" {
		t.Fatalf("expected a threshold-specific reason, got %q", store.lastTriage.reason)
	}
}

func TestAcceptWithoutTriageSkipsOracleAndRecordsFullConfidenceMatch(t *testing.T) {
	store := &fakeStore{memo: map[string]core.ProcessedLink{}}
	oracle := &fakeOracle{isMatch: false, conf: 0.1, reason: "should not be called"}
	c := NewClassifier(oracle, store)

	item := core.Item{ID: "item3", Topic: "swiss-franc", URL: "https://nzz.ch/c", URLHash: "hash3"}
	if err := c.AcceptWithoutTriage(item, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if oracle.calls != 0 {
		t.Fatalf("expected no oracle call when skipping prefiltering, got %d calls", oracle.calls)
	}
	if !store.lastTriage.isMatch || store.lastTriage.confidence != 1.0 {
		t.Fatalf("expected a full-confidence match, got isMatch=%v confidence=%v", store.lastTriage.isMatch, store.lastTriage.confidence)
	}
}

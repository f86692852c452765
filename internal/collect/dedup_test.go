package collect

import "testing"

func TestDedupBatchCollapsesExactURLMatches(t *testing.T) {
	items := []RawItem{
		{URL: "https://nzz.ch/a?utm_source=x", Title: "UBS deal", Source: "nzz"},
		{URL: "https://nzz.ch/a", Title: "UBS deal", Source: "nzz"},
	}
	out, err := DedupBatch(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 item after url dedup, got %d", len(out))
	}
}

func TestDedupBatchCollapsesNearDuplicateTitlesWithinSource(t *testing.T) {
	items := []RawItem{
		{URL: "https://nzz.ch/a", Title: "UBS reports record quarterly profit amid merger with Credit Suisse", Source: "nzz"},
		{URL: "https://nzz.ch/b", Title: "UBS reports record quarterly profit, amid the merger with Credit Suisse!", Source: "nzz"},
	}
	out, err := DedupBatch(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected near-duplicate titles collapsed, got %d items", len(out))
	}
}

func TestDedupBatchKeepsSimilarTitlesAcrossDifferentSources(t *testing.T) {
	items := []RawItem{
		{URL: "https://nzz.ch/a", Title: "UBS reports record quarterly profit", Source: "nzz"},
		{URL: "https://srf.ch/b", Title: "UBS reports record quarterly profit", Source: "srf"},
	}
	out, err := DedupBatch(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected both items kept across distinct sources, got %d", len(out))
	}
}

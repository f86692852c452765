package pipeline

import (
	"testing"

	"newsdesk/internal/collect"
)

func TestCapItemsNoLimitReturnsAllItems(t *testing.T) {
	items := []collect.RawItem{{Title: "a"}, {Title: "b"}, {Title: "c"}}
	got := capItems(items, 0)
	if len(got) != 3 {
		t.Fatalf("expected no truncation for a zero limit, got %d items", len(got))
	}
}

func TestCapItemsTruncatesToLimit(t *testing.T) {
	items := []collect.RawItem{{Title: "a"}, {Title: "b"}, {Title: "c"}}
	got := capItems(items, 2)
	if len(got) != 2 {
		t.Fatalf("expected truncation to 2 items, got %d", len(got))
	}
	if got[0].Title != "a" || got[1].Title != "b" {
		t.Fatalf("expected the first 2 items preserved in order, got %+v", got)
	}
}

func TestCapItemsLimitAboveCountIsNoOp(t *testing.T) {
	items := []collect.RawItem{{Title: "a"}}
	got := capItems(items, 10)
	if len(got) != 1 {
		t.Fatalf("expected no truncation when limit exceeds item count, got %d", len(got))
	}
}

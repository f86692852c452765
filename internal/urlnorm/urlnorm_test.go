package urlnorm

import "testing"

func TestNormalizeStripsTrackingParamsAndFragment(t *testing.T) {
	a, err := Normalize("https://NZZ.ch/artikel/ubs-deal?utm_source=twitter&id=42#section2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Normalize("https://nzz.ch/artikel/ubs-deal?id=42&gclid=abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Fatalf("expected equivalent normalized URLs, got %q vs %q", a, b)
	}
}

func TestNormalizePreservesPathCase(t *testing.T) {
	// Spec requires only scheme/host lowercasing, not the full string.
	got, err := Normalize("https://Example.COM/Artikel/Foo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://example.com/Artikel/Foo" {
		t.Fatalf("expected path case preserved, got %q", got)
	}
}

func TestHashStable(t *testing.T) {
	h1, err := Hash("https://finma.ch/news/item?utm_campaign=x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h2, err := Hash("https://FINMA.ch/news/item")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("expected stable hash across tracking params and host case, got %s vs %s", h1, h2)
	}
	if len(h1) != 40 {
		t.Fatalf("expected 40-char sha1 hex digest, got %d chars", len(h1))
	}
}

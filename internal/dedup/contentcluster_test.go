package dedup

import (
	"testing"
	"time"

	"newsdesk/internal/core"
)

type fakeClusterStore struct {
	saved []core.ArticleCluster
}

func (f *fakeClusterStore) SaveClusterAssignment(cluster core.ArticleCluster) error {
	f.saved = append(f.saved, cluster)
	return nil
}

func TestContentSimilarityClustererGroupsNearDuplicateTitles(t *testing.T) {
	store := &fakeClusterStore{}
	c := NewContentSimilarityClusterer(store)

	candidates := []ClusterCandidate{
		{ItemID: "a", Title: "UBS reports record quarterly profit amid merger", URL: "https://nzz.ch/a"},
		{ItemID: "b", Title: "UBS reports record quarterly profit, amid the merger!", URL: "https://srf.ch/b"},
		{ItemID: "c", Title: "Completely unrelated story about football", URL: "https://cash.ch/c"},
	}

	n, err := c.Cluster(candidates, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly 1 cluster, got %d", n)
	}
	if len(store.saved) != 2 {
		t.Fatalf("expected 2 cluster rows for the 2-member group, got %d", len(store.saved))
	}

	primaries := 0
	for _, s := range store.saved {
		if s.IsPrimary {
			primaries++
		}
	}
	if primaries != 1 {
		t.Fatalf("expected exactly one primary, got %d", primaries)
	}
}

func TestContentSimilarityClustererSkipsSingletons(t *testing.T) {
	store := &fakeClusterStore{}
	c := NewContentSimilarityClusterer(store)

	candidates := []ClusterCandidate{
		{ItemID: "a", Title: "Unique headline one", URL: "https://nzz.ch/a"},
		{ItemID: "b", Title: "Totally different headline two", URL: "https://srf.ch/b"},
	}

	n, err := c.Cluster(candidates, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no clusters for unrelated titles, got %d", n)
	}
	if len(store.saved) != 0 {
		t.Fatalf("expected no rows saved, got %d", len(store.saved))
	}
}

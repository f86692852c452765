package dedup

import (
	"testing"
	"time"
)

func TestQualityScoreFavorsHighAuthorityFreshArticle(t *testing.T) {
	now := time.Now()
	pub := now
	high := QualityScore(QualityScoreInput{
		URL: "https://www.admin.ch/artikel/x", Title: "Federal Council announces new regulation package today", PublishedAt: &pub,
	}, now)
	low := QualityScore(QualityScoreInput{
		URL: "https://example.com/page?x=1", Title: "short", PublishedAt: &pub,
	}, now)

	if !(high > low) {
		t.Fatalf("expected high-authority fresh article to outscore a low one: high=%v low=%v", high, low)
	}
}

func TestQualityScoreUnknownSourceFloor(t *testing.T) {
	now := time.Now()
	score := QualityScore(QualityScoreInput{URL: "https://unknown-blog.test/x", Title: ""}, now)
	if score < unknownSourceAuthority {
		t.Fatalf("expected at least the unknown-source floor, got %v", score)
	}
}

// Package digestbuilder implements the incremental digest builder: each run
// only summarizes articles new since a topic's last saved digest state, then
// merges that partial update into the existing narrative rather than
// re-synthesizing the whole digest from scratch every time.
package digestbuilder

import (
	"context"
	"fmt"
	"time"

	"newsdesk/internal/core"
	"newsdesk/internal/store"
)

// Oracle is the narrow contract incremental digest building needs.
type Oracle interface {
	GeneratePartialDigest(ctx context.Context, topic string, articleSummaries []string) (PartialDigest, error)
	MergeDigests(ctx context.Context, topic, existingHeadline, existingWhyItMatters string, partial PartialDigest) (MergedDigest, error)
	GenerateFullDigest(ctx context.Context, topic string, articleSummaries []string) (FullDigest, error)
}

// FullDigest mirrors oracle.FullDigest.
type FullDigest struct {
	Headline     string
	WhyItMatters string
	Sources      []string
	ArticleCount int
	GeneratedAt  string
}

// PartialDigest mirrors oracle.PartialDigest without digestbuilder depending
// on the oracle package directly.
type PartialDigest struct {
	KeyInsights           []string
	ImportantDevelopments []string
	NewSources            []string
	EntitiesMentioned     []string
}

// MergedDigest mirrors oracle.MergedDigest.
type MergedDigest struct {
	Headline     string
	WhyItMatters string
	Sources      []string
}

// Store is the persistence surface digest building needs.
type Store interface {
	GetDigestState(date, topic string) (core.DigestState, bool, error)
	SaveDigestState(date, topic string, itemIDs []string, content core.DigestContent) error
	NewItemsForTopicOnDate(topic, date string, processedIDs map[string]bool) ([]store.SummaryRow, error)
	LogDigestGeneration(l core.DigestGenerationLog) error
}

// Builder drives one topic's incremental digest update for a given date.
type Builder struct {
	Oracle Oracle
	Store  Store
}

func NewBuilder(oracle Oracle, store Store) *Builder {
	return &Builder{Oracle: oracle, Store: store}
}

// Result reports whether BuildTopicDigest actually produced new content.
type Result struct {
	Content     core.DigestContent
	WasUpdated  bool
	NewArticles int
}

// BuildTopicDigest generates or incrementally updates topic's digest for
// date. If nothing is new since the last saved state, it returns the
// existing digest unmodified with WasUpdated=false — an idempotent re-run
// never spends an oracle call or bumps the generation timestamp.
//
// A true forceRefresh treats every summarized item for date as new,
// regenerating the digest from scratch instead of merging only the delta;
// at most one value is read, so existing 3-argument call sites are unaffected.
func (b *Builder) BuildTopicDigest(ctx context.Context, topic, date string, forceRefresh ...bool) (Result, error) {
	force := len(forceRefresh) > 0 && forceRefresh[0]
	start := time.Now()

	existingState, hasState, err := b.Store.GetDigestState(date, topic)
	if err != nil {
		return Result{}, err
	}

	processed := map[string]bool{}
	if hasState && !force {
		for _, id := range existingState.ProcessedItemIDs {
			processed[id] = true
		}
	}

	newRows, err := b.Store.NewItemsForTopicOnDate(topic, date, processed)
	if err != nil {
		return Result{}, err
	}

	if len(newRows) == 0 {
		b.logGeneration("cached", date, topic, 0, 0, 0, start)
		if hasState {
			return Result{Content: existingState.DigestContent, WasUpdated: false}, nil
		}
		empty := core.DigestContent{
			Topic:        topic,
			DateRange:    "today",
			Headline:     fmt.Sprintf("No %s news found", topic),
			WhyItMatters: "No significant developments to report.",
			GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
		}
		return Result{Content: empty, WasUpdated: false}, nil
	}

	summaries := make([]string, len(newRows))
	var sources []string
	for i, row := range newRows {
		summaries[i] = fmt.Sprintf("%s (%s): %s", row.Title, row.Source, row.SummaryText)
		sources = append(sources, row.Source)
	}

	// Step 4: no prior DigestState means this is the topic's first-ever
	// digest for date, synthesized whole rather than merged from a partial.
	if !hasState || force {
		full, err := b.Oracle.GenerateFullDigest(ctx, topic, summaries)
		if err != nil {
			b.logGeneration("full", date, topic, len(newRows), len(newRows), 1, start)
			return Result{}, err
		}
		final := core.DigestContent{
			Topic:            topic,
			DateRange:        "today",
			Headline:         full.Headline,
			WhyItMatters:     full.WhyItMatters,
			Sources:          dedupeStrings(append(sources, full.Sources...)),
			ArticleCount:     len(newRows),
			NewArticlesCount: len(newRows),
			GeneratedAt:      firstNonEmptyString(full.GeneratedAt, time.Now().UTC().Format(time.RFC3339)),
		}
		allIDs := append(existingState.ProcessedItemIDs, idsOf(newRows)...)
		if err := b.Store.SaveDigestState(date, topic, allIDs, final); err != nil {
			return Result{}, err
		}
		b.logGeneration("full", date, topic, len(newRows), len(newRows), 1, start)
		return Result{Content: final, WasUpdated: true, NewArticles: len(newRows)}, nil
	}

	// Step 5: a prior DigestState exists — summarize only the delta and
	// merge it into the existing narrative.
	partial, err := b.Oracle.GeneratePartialDigest(ctx, topic, summaries)
	if err != nil {
		b.logGeneration("incremental", date, topic, existingState.ArticleCount+len(newRows), len(newRows), 1, start)
		// Oracle failure: keep the existing digest state rather than losing it.
		return Result{Content: existingState.DigestContent, WasUpdated: false}, err
	}

	var final core.DigestContent
	apiCalls := 2
	merged, err := b.Oracle.MergeDigests(ctx, topic, existingState.DigestContent.Headline, existingState.DigestContent.WhyItMatters, partial)
	if err != nil {
		// Merge failure: keep serving the existing digest with an
		// incremented count rather than crashing the run.
		final = existingState.DigestContent
		final.ArticleCount += len(newRows)
		final.LastUpdated = time.Now().UTC().Format(time.RFC3339)
		allIDs := append(existingState.ProcessedItemIDs, idsOf(newRows)...)
		if saveErr := b.Store.SaveDigestState(date, topic, allIDs, final); saveErr != nil {
			return Result{}, saveErr
		}
		b.logGeneration("incremental", date, topic, final.ArticleCount, len(newRows), apiCalls, start)
		return Result{Content: final, WasUpdated: true, NewArticles: len(newRows)}, nil
	}
	final = core.DigestContent{
		Topic:            topic,
		DateRange:        existingState.DigestContent.DateRange,
		Headline:         merged.Headline,
		WhyItMatters:     merged.WhyItMatters,
		Sources:          dedupeStrings(append(existingState.DigestContent.Sources, merged.Sources...)),
		ArticleCount:     existingState.ArticleCount + len(newRows),
		NewArticlesCount: len(newRows),
		GeneratedAt:      existingState.DigestContent.GeneratedAt,
		LastUpdated:      time.Now().UTC().Format(time.RFC3339),
	}

	allIDs := append(existingState.ProcessedItemIDs, idsOf(newRows)...)
	if err := b.Store.SaveDigestState(date, topic, allIDs, final); err != nil {
		return Result{}, err
	}

	b.logGeneration("incremental", date, topic, final.ArticleCount, len(newRows), apiCalls, start)
	return Result{Content: final, WasUpdated: true, NewArticles: len(newRows)}, nil
}

// logGeneration records one digest-build invocation, never failing the
// build itself if the log write errors.
func (b *Builder) logGeneration(genType, date, topic string, totalArticles, newArticles, apiCalls int, start time.Time) {
	_ = b.Store.LogDigestGeneration(core.DigestGenerationLog{
		DigestDate:           date,
		GenerationType:       genType,
		TopicsProcessed:      1,
		TotalArticles:        totalArticles,
		NewArticles:          newArticles,
		APICallsMade:         apiCalls,
		ExecutionTimeSeconds: time.Since(start).Seconds(),
	})
}

func firstNonEmptyString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func idsOf(rows []store.SummaryRow) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ItemID
	}
	return ids
}

func dedupeStrings(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Package pipeline is the composition root: it wires the store, the oracle
// client, and every step package (classify, selection, extract, dedup,
// crossrun, summarize, digestbuilder, render) into the orchestrated run the
// CLI drives through internal/run.Manager.
package pipeline

import (
	"context"

	"newsdesk/internal/digestbuilder"
	"newsdesk/internal/oracle"
	"newsdesk/internal/summarize"
)

// summarizeOracle adapts *oracle.Client to summarize.Oracle. The two
// packages declare distinct (but field-compatible) result types so that
// summarize never imports oracle directly; this is the one place that
// bridges them.
type summarizeOracle struct {
	client *oracle.Client
}

func (a summarizeOracle) Summarize(ctx context.Context, title, extractedText string) (summarize.Result, error) {
	result, err := a.client.Summarize(ctx, title, extractedText)
	if err != nil {
		return summarize.Result{}, err
	}
	return summarize.Result{
		Title:     result.Title,
		Summary:   result.Summary,
		KeyPoints: result.KeyPoints,
		Entities:  result.Entities,
	}, nil
}

// digestOracle adapts *oracle.Client to digestbuilder.Oracle.
type digestOracle struct {
	client *oracle.Client
}

func (a digestOracle) GeneratePartialDigest(ctx context.Context, topic string, articleSummaries []string) (digestbuilder.PartialDigest, error) {
	p, err := a.client.GeneratePartialDigest(ctx, topic, articleSummaries)
	if err != nil {
		return digestbuilder.PartialDigest{}, err
	}
	return digestbuilder.PartialDigest{
		KeyInsights:           p.KeyInsights,
		ImportantDevelopments: p.ImportantDevelopments,
		NewSources:            p.NewSources,
		EntitiesMentioned:     p.EntitiesMentioned,
	}, nil
}

func (a digestOracle) MergeDigests(ctx context.Context, topic, existingHeadline, existingWhyItMatters string, partial digestbuilder.PartialDigest) (digestbuilder.MergedDigest, error) {
	m, err := a.client.MergeDigests(ctx, topic, existingHeadline, existingWhyItMatters, oracle.PartialDigest{
		KeyInsights:           partial.KeyInsights,
		ImportantDevelopments: partial.ImportantDevelopments,
		NewSources:            partial.NewSources,
		EntitiesMentioned:     partial.EntitiesMentioned,
	})
	if err != nil {
		return digestbuilder.MergedDigest{}, err
	}
	return digestbuilder.MergedDigest{
		Headline:     m.Headline,
		WhyItMatters: m.WhyItMatters,
		Sources:      m.Sources,
	}, nil
}

func (a digestOracle) GenerateFullDigest(ctx context.Context, topic string, articleSummaries []string) (digestbuilder.FullDigest, error) {
	f, err := a.client.GenerateFullDigest(ctx, topic, articleSummaries)
	if err != nil {
		return digestbuilder.FullDigest{}, err
	}
	return digestbuilder.FullDigest{
		Headline:     f.Headline,
		WhyItMatters: f.WhyItMatters,
		Sources:      f.Sources,
		ArticleCount: f.ArticleCount,
		GeneratedAt:  f.GeneratedAt,
	}, nil
}

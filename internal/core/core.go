// Package core defines the shared domain types that flow through every
// pipeline stage, from collection through digest rendering.
package core

import "time"

// PipelineStage tracks where an Item currently sits in the selection funnel.
type PipelineStage string

const (
	StageCollected        PipelineStage = "collected"
	StageMatched          PipelineStage = "matched"
	StageFilteredOut      PipelineStage = "filtered_out"
	StageSelected         PipelineStage = "selected"
	StageMatchedNotSelected PipelineStage = "matched_not_selected"
	StageScraped          PipelineStage = "scraped"
	StageSummarized       PipelineStage = "summarized"
)

// Item is a single collected news item, scoped to one pipeline run and topic.
type Item struct {
	ID                    string
	RunID                 string
	Topic                 string
	URL                   string
	URLHash               string
	Title                 string
	Source                string
	PublishedAt           *time.Time
	FirstSeenAt           time.Time
	ExtractedText         string
	ContentLength         int
	IsMatch               bool
	TriageConfidence      float64
	TriageReason          string
	PriorityScore         float64
	SelectedForProcessing bool
	SelectionRank         int // 0 means unranked
	PipelineStage         PipelineStage
}

// ProcessedLink memoizes a prior triage decision for a (url_hash, topic) pair
// so the classifier never re-spends an oracle call on a link it already judged.
type ProcessedLink struct {
	URLHash    string
	Topic      string
	IsMatch    bool
	Confidence float64
	Reason     string
	ProcessedAt time.Time
}

// ArticleCluster records cluster membership for an item, produced by either
// GPT-driven title clustering or the supplemental content-similarity
// clusterer. ClusteringMethod disambiguates which algorithm produced the row.
type ArticleCluster struct {
	ID                string
	ItemID            string
	ClusterID         string
	IsPrimary         bool
	ClusteringMethod  string // "gpt_title_clustering" or "title_similarity"
	CreatedAt         time.Time
}

// Summary holds the per-item, per-topic oracle-generated summary.
type Summary struct {
	ItemID              string
	Topic               string
	SummaryText         string
	KeyPoints           []string
	Entities            map[string][]string
	TopicAlreadyCovered bool
	CrossRunClusterID   string
	CreatedAt           time.Time
}

// DigestState tracks incremental digest-building progress for one (date, topic).
type DigestState struct {
	DigestDate         string
	Topic              string
	ProcessedItemIDs   []string
	DigestContent      DigestContent
	ArticleCount       int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// DigestContent is the synthesized narrative for a topic digest.
type DigestContent struct {
	Topic             string   `json:"topic"`
	DateRange         string   `json:"date_range"`
	Headline          string   `json:"headline"`
	WhyItMatters      string   `json:"why_it_matters"`
	Bullets           []string `json:"bullets"`
	Sources           []string `json:"sources"`
	ArticleCount      int      `json:"article_count"`
	NewArticlesCount  int      `json:"new_articles_count"`
	GeneratedAt       string   `json:"generated_at"`
	LastUpdated       string   `json:"last_updated,omitempty"`
}

// DigestGenerationLog records one digest-build invocation for observability.
type DigestGenerationLog struct {
	DigestDate          string
	GenerationType      string // "full", "incremental", or "cached"
	TopicsProcessed     int
	TotalArticles       int
	NewArticles         int
	APICallsMade        int
	ExecutionTimeSeconds float64
	CreatedAt           time.Time
}

// CrossRunTopicSignature is a retained fingerprint of a topic already
// summarized on a prior run, used to detect the same story resurfacing later
// in the day across independent pipeline runs.
type CrossRunTopicSignature struct {
	SignatureID     string
	Date            string
	RunSequence     int
	SourceItemID    string
	Topic           string
	SignatureText   string
	CreatedAt       time.Time
}

// CrossRunDeduplicationLog records one cross-run comparison decision.
type CrossRunDeduplicationLog struct {
	Date               string
	NewItemID          string
	MatchedSignatureID string
	Decision           string // "DUPLICATE" or "UNIQUE"
	CreatedAt          time.Time
}

// PipelineRun is one end-to-end invocation of the pipeline for a topic.
type PipelineRun struct {
	ID          string
	Topic       string
	StartedAt   time.Time
	CompletedAt *time.Time
	Status      string // "running", "completed", "failed", "paused"
}

// StepName enumerates the canonical, resumable pipeline steps in order.
type StepName string

const (
	StepCollection   StepName = "collection"
	StepFiltering    StepName = "filtering"
	StepScraping     StepName = "scraping"
	StepSummarization StepName = "summarization"
	StepAnalysis     StepName = "analysis"
)

// StepOrder is the canonical resume order; CASE WHEN SQL ordering in the store
// mirrors this list exactly.
var StepOrder = []StepName{StepCollection, StepFiltering, StepScraping, StepSummarization, StepAnalysis}

// PipelineCheckpoint records the status of one step within one run.
type PipelineCheckpoint struct {
	RunID        string
	StepName     StepName
	Status       string // "pending", "running", "completed", "failed", "paused"
	StartedAt    *time.Time
	CompletedAt  *time.Time
	ErrorMessage string
}

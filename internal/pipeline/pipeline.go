package pipeline

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"newsdesk/internal/classify"
	"newsdesk/internal/collect"
	"newsdesk/internal/config"
	"newsdesk/internal/core"
	"newsdesk/internal/crossrun"
	"newsdesk/internal/dedup"
	"newsdesk/internal/digestbuilder"
	"newsdesk/internal/extract"
	"newsdesk/internal/oracle"
	"newsdesk/internal/render"
	"newsdesk/internal/run"
	"newsdesk/internal/selection"
	"newsdesk/internal/store"
	"newsdesk/internal/summarize"
)

// Pipeline bundles every step component against one store and one oracle
// client, wired the way the CLI's composition root needs to drive a full
// run or any single step in isolation.
type Pipeline struct {
	Config *config.Config
	Topics *config.TopicsConfig
	Store  *store.Store
	Oracle *oracle.Client
	Runs   *run.Manager

	Collector      *collect.Collector
	Classifier     *classify.Classifier
	Gate           *selection.Gate
	Extractor      *extract.Extractor
	TitleCluster   *dedup.TitleClusterer
	ContentCluster *dedup.ContentSimilarityClusterer
	CrossRun       *crossrun.Deduplicator
	Summarizer     *summarize.Summarizer
	DigestBuilder  *digestbuilder.Builder
}

// New wires every step package against cfg's database and oracle model
// tiers. topicsFile is loaded leniently: a missing file yields
// an empty TopicsConfig (global filtering defaults apply to every topic)
// rather than a fatal error, since not every invocation needs per-topic
// overrides.
func New(ctx context.Context, cfg *config.Config, topicsFile string) (*Pipeline, error) {
	st, err := store.NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	topics := &config.TopicsConfig{}
	if topicsFile != "" {
		if _, statErr := os.Stat(topicsFile); statErr == nil {
			topics, err = config.LoadTopicsConfig(topicsFile)
			if err != nil {
				_ = st.Close()
				return nil, err
			}
		}
	}

	oc, err := oracle.NewClient(ctx, cfg.ModelNano, cfg.ModelMini, cfg.ModelAnalysis)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to build oracle client: %w", err)
	}

	browser := extract.NewBrowserExtractor()

	p := &Pipeline{
		Config:         cfg,
		Topics:         topics,
		Store:          st,
		Oracle:         oc,
		Runs:           run.NewManager(st),
		Collector:      collect.NewCollector(st, cfg.SkipGNewsRedirects),
		Classifier:     classify.NewClassifier(oc, st),
		Gate:           selection.NewGate(st, cfg.Pipeline.Filtering.ConfidenceThreshold, cfg.Pipeline.Filtering.MaxArticlesToProcess),
		Extractor:      extract.NewExtractor(st, browser, cfg.SkipGNewsRedirects, cfg.UserAgent),
		TitleCluster:   dedup.NewTitleClusterer(oc, st),
		ContentCluster: dedup.NewContentSimilarityClusterer(st),
		CrossRun:       crossrun.NewDeduplicator(oc, st),
		Summarizer:     summarize.NewSummarizer(summarizeOracle{client: oc}, st),
		DigestBuilder:  digestbuilder.NewBuilder(digestOracle{client: oc}, st),
	}
	return p, nil
}

// Close releases the store and any headless-browser session the extractor
// holds open.
func (p *Pipeline) Close() error {
	if p.Extractor != nil && p.Extractor.Browser != nil {
		p.Extractor.Browser.Close()
	}
	return p.Store.Close()
}

// RunOptions tunes a RunFull invocation. The zero value runs the pipeline
// normally: relevance prefiltering runs and each topic's digest merges only
// new articles.
type RunOptions struct {
	SkipPrefilter bool
	ForceRefresh  bool
}

// RunFull executes the Collection through Analysis steps in order for one
// topic/run, honoring ctx cancellation between steps via run.Manager.
func (p *Pipeline) RunFull(ctx context.Context, runID, topic string, rawItems []collect.RawItem, opts RunOptions) error {
	if err := p.Runs.Start(runID, topic); err != nil {
		return err
	}

	if err := p.Runs.RunStep(ctx, runID, core.StepCollection, func(ctx context.Context) error {
		_, err := p.Collector.CollectAndPersist(runID, topic, rawItems)
		return err
	}); err != nil {
		_ = p.Runs.Finish(runID, err)
		return err
	}

	if err := p.Runs.RunStep(ctx, runID, core.StepFiltering, func(ctx context.Context) error {
		_, err := p.Filter(ctx, runID, opts.SkipPrefilter)
		return err
	}); err != nil {
		_ = p.Runs.Finish(runID, err)
		return err
	}

	if err := p.Runs.RunStep(ctx, runID, core.StepScraping, func(ctx context.Context) error {
		_, err := p.Scrape(ctx, runID)
		return err
	}); err != nil {
		_ = p.Runs.Finish(runID, err)
		return err
	}

	if err := p.Runs.RunStep(ctx, runID, core.StepSummarization, func(ctx context.Context) error {
		_, err := p.Summarize(ctx, runID)
		return err
	}); err != nil {
		_ = p.Runs.Finish(runID, err)
		return err
	}

	err := p.Runs.RunStep(ctx, runID, core.StepAnalysis, func(ctx context.Context) error {
		date := time.Now().UTC().Format("2006-01-02")
		_, err := p.Analyze(ctx, topic, date, opts.ForceRefresh)
		return err
	})
	if finishErr := p.Runs.Finish(runID, err); finishErr != nil {
		return finishErr
	}
	return err
}

// topicConfig returns the configured overrides for name, or the zero value
// (global filtering defaults, no age cap, prefilter enabled) if name isn't
// listed in the loaded topics file.
func (p *Pipeline) topicConfig(name string) config.TopicConfig {
	if p.Topics == nil {
		return config.TopicConfig{}
	}
	for _, t := range p.Topics.Topics {
		if t.Name == name {
			return t
		}
	}
	return config.TopicConfig{}
}

// Filter classifies runID's collected items and runs the Selection Gate,
// returning the number selected for processing.
//
// Candidates are first narrowed to the topic's date window (today, or the
// last MaxArticleAgeDays days, in DefaultTimezone), then sorted by
// PriorityScore and truncated to the express/standard mode cap before any
// oracle call is spent — matching step order mandated by the triage
// algorithm rather than classifying the full collected set unconditionally.
// skipPrefilter (from the caller, or the topic's own skip_prefilter
// override) accepts every window-filtered candidate as a full-confidence
// match without spending an oracle call.
func (p *Pipeline) Filter(ctx context.Context, runID string, skipPrefilter bool) (int, error) {
	topic, err := p.Store.GetRunTopic(runID)
	if err != nil {
		return 0, err
	}
	topicCfg := p.topicConfig(topic)
	skipPrefilter = skipPrefilter || topicCfg.SkipPrefilter

	runItems, err := p.Store.ItemsForRun(runID)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	cutoff := classify.DateWindowCutoff(topicCfg.MaxArticleAgeDays, now)
	windowItems, err := p.Store.ItemsWithinWindow(topic, cutoff)
	if err != nil {
		return 0, err
	}
	inWindow := make(map[string]bool, len(windowItems))
	for _, it := range windowItems {
		inWindow[it.ID] = true
	}

	var candidates []core.Item
	for _, item := range runItems {
		if inWindow[item.ID] {
			candidates = append(candidates, item)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return classify.PriorityScore(candidates[i].URL, candidates[i].PublishedAt, now) >
			classify.PriorityScore(candidates[j].URL, candidates[j].PublishedAt, now)
	})
	if modeCap := classify.ModeCap(len(candidates)); !skipPrefilter && len(candidates) > modeCap {
		candidates = candidates[:modeCap]
	}

	for _, item := range candidates {
		var err error
		if skipPrefilter {
			err = p.Classifier.AcceptWithoutTriage(item, now)
		} else {
			err = p.Classifier.ClassifyItem(ctx, item, now, topicCfg.ConfidenceThreshold)
		}
		if err != nil {
			continue // leave the item for a later run to retry
		}
	}
	return p.Gate.Run(runID)
}

// Scrape extracts and persists article text for every item the Selection
// Gate picked for runID, returning how many extractions succeeded.
func (p *Pipeline) Scrape(ctx context.Context, runID string) (int, error) {
	selected, err := p.Gate.Selected(runID)
	if err != nil {
		return 0, err
	}
	extracted := 0
	for _, itemID := range selected {
		item, err := p.Store.GetItem(itemID)
		if err != nil {
			continue
		}
		method, err := p.Extractor.ExtractAndPersist(ctx, item.ID, item.URL)
		if err != nil || (method != extract.MethodHTML && method != extract.MethodBrowser) {
			continue
		}
		extracted++
	}
	return extracted, nil
}

// Summarize runs the title-clustering and content-similarity dedup passes
// over runID's selected items and summarizes whichever survive both,
// returning how many items were summarized.
func (p *Pipeline) Summarize(ctx context.Context, runID string) (int, error) {
	selected, err := p.Gate.Selected(runID)
	if err != nil {
		return 0, err
	}

	var candidates []dedup.TitleCandidate
	now := time.Now().UTC()
	items := map[string]core.Item{}
	for _, itemID := range selected {
		item, err := p.Store.GetItem(itemID)
		if err != nil {
			continue
		}
		items[itemID] = item
		candidates = append(candidates, dedup.TitleCandidate{
			ItemID:        item.ID,
			Title:         item.Title,
			ExtractedText: item.ExtractedText,
		})
	}
	if _, err := p.TitleCluster.Cluster(ctx, candidates, now); err != nil {
		return 0, err
	}

	titlePrimaryIDs, err := p.Store.PrimaryItemIDs("gpt_title_clustering")
	if err != nil {
		return 0, err
	}
	titlePrimary := map[string]bool{}
	for _, id := range titlePrimaryIDs {
		titlePrimary[id] = true
	}

	// Supplemental content-similarity pass over the title-clustering
	// survivors, catching near-duplicates the title-based grouping missed
	// (differently worded headlines for the same story).
	var contentCandidates []dedup.ClusterCandidate
	for _, itemID := range selected {
		if !titlePrimary[itemID] {
			continue
		}
		item := items[itemID]
		contentCandidates = append(contentCandidates, dedup.ClusterCandidate{
			ItemID:      item.ID,
			Title:       item.Title,
			URL:         item.URL,
			PublishedAt: item.PublishedAt,
			FirstSeenAt: item.FirstSeenAt,
		})
	}
	if _, err := p.ContentCluster.Cluster(contentCandidates, now); err != nil {
		return 0, err
	}

	contentPrimaryIDs, err := p.Store.PrimaryItemIDs("title_similarity")
	if err != nil {
		return 0, err
	}
	contentPrimary := map[string]bool{}
	for _, id := range contentPrimaryIDs {
		contentPrimary[id] = true
	}

	summarized := 0
	for _, itemID := range selected {
		if !titlePrimary[itemID] || !contentPrimary[itemID] {
			continue
		}
		item := items[itemID]
		if err := p.Summarizer.SummarizeItem(ctx, item); err != nil {
			continue
		}
		summarized++
	}
	return summarized, nil
}

// Analyze cross-run-deduplicates today's summaries for topic against prior
// runs, then folds the survivors into (or creates) topic's running digest
// for date, returning the refreshed digest content.
func (p *Pipeline) Analyze(ctx context.Context, topic, date string, forceRefresh bool) (digestbuilder.Result, error) {
	rows, err := p.Store.TodaysUncoveredSummaries(topic, date)
	if err != nil {
		return digestbuilder.Result{}, err
	}

	var newSummaries []crossrun.NewSummary
	for _, r := range rows {
		newSummaries = append(newSummaries, crossrun.NewSummary{
			ItemID:  r.ItemID,
			Title:   r.Title,
			Summary: r.SummaryText,
			Topic:   r.Topic,
		})
	}
	if _, err := p.CrossRun.Run(ctx, date, newSummaries); err != nil {
		return digestbuilder.Result{}, err
	}

	return p.DigestBuilder.BuildTopicDigest(ctx, topic, date, forceRefresh)
}

// Export renders every topic digest for date as Markdown and JSON under
// outputDir.
func (p *Pipeline) Export(topics []string, date, outputDir string) (markdownPath, jsonPath string, err error) {
	var digests []core.DigestContent
	for _, topic := range topics {
		state, ok, err := p.Store.GetDigestState(date, topic)
		if err != nil {
			return "", "", err
		}
		if !ok {
			continue
		}
		digests = append(digests, state.DigestContent)
	}

	markdownPath, err = render.RenderMarkdownDigest(digests, outputDir, date)
	if err != nil {
		return "", "", err
	}
	jsonPath, err = render.RenderJSONDigest(digests, outputDir, date)
	if err != nil {
		return "", "", err
	}
	return markdownPath, jsonPath, nil
}

// Package cmd wires the newsdesk CLI's cobra command tree onto
// internal/pipeline's composition root.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"newsdesk/internal/config"
	"newsdesk/internal/logger"
)

var (
	cfgFile       string
	dbPath        string
	topicFlag     string
	dateFlag      string
	feedsFile     string
	topicsFile    string
	runIDFlag     string
	outputDir     string
	limitFlag     int
	skipPrefilter bool
	forceRefresh  bool
	debugFlag     bool
)

var rootCmd = &cobra.Command{
	Use:   "newsdesk",
	Short: "newsdesk collects, triages, and digests Swiss business news by topic.",
	Long: `newsdesk runs a daily pipeline over configured RSS/sitemap/HTML/JSON
sources: collect candidate articles, classify them against tracked topics,
select the top candidates, extract article text, deduplicate near-identical
stories, summarize survivors, fold new summaries into running per-topic
digests, and export the result.`,
}

// Execute runs the root command, exiting non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./.newsdesk.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the SQLite database (overrides DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&topicFlag, "topic", "", "topic to operate on")
	rootCmd.PersistentFlags().StringVar(&dateFlag, "date", "", "date in YYYY-MM-DD form (default: today, UTC)")
	rootCmd.PersistentFlags().StringVar(&feedsFile, "feeds", "feeds.yaml", "path to the feed configuration YAML")
	rootCmd.PersistentFlags().StringVar(&topicsFile, "topics", "topics.yaml", "path to the topic configuration YAML")
	rootCmd.PersistentFlags().StringVar(&runIDFlag, "run", "", "run id to resume a single step against (required by filter/scrape/summarize)")
	rootCmd.PersistentFlags().StringVar(&outputDir, "out", "digests", "output directory for exported digests")
	rootCmd.PersistentFlags().IntVar(&limitFlag, "limit", 0, "cap on items fetched per feed (overrides MAX_ITEMS_PER_FEED, 0 = use config)")
	rootCmd.PersistentFlags().BoolVar(&skipPrefilter, "skip-prefilter", false, "send every collected item straight to selection, skipping relevance classification")
	rootCmd.PersistentFlags().BoolVar(&forceRefresh, "force-refresh", false, "resynthesize a topic's digest from scratch instead of merging only new articles")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug-level logging")

	rootCmd.AddCommand(runCmd, collectCmd, filterCmd, scrapeCmd, summarizeCmd, digestCmd, exportCmd, statsCmd)
}

// loadConfig reads the layered configuration, applying the --db/--limit
// overrides and the --debug logging level.
func loadConfig() (*config.Config, error) {
	logger.SetDebug(debugFlag)
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if limitFlag > 0 {
		cfg.MaxItemsPerFeed = limitFlag
	}
	return cfg, nil
}

func todayOr(date string) string {
	if date != "" {
		return date
	}
	return nowDateString()
}

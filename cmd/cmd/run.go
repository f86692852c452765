package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"newsdesk/internal/config"
	"newsdesk/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline (collection through digest) for --topic",
	RunE: func(c *cobra.Command, args []string) error {
		if topicFlag == "" {
			return fmt.Errorf("--topic is required")
		}

		ctx, stop := signal.NotifyContext(c.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		feedCfg, err := config.LoadFeedConfig(feedsFile)
		if err != nil {
			return err
		}

		p, err := pipeline.New(ctx, cfg, topicsFile)
		if err != nil {
			return err
		}
		defer p.Close()

		rawItems := pipeline.CollectFromFeedConfig(feedCfg, cfg)
		runID := uuid.NewString()

		opts := pipeline.RunOptions{SkipPrefilter: skipPrefilter, ForceRefresh: forceRefresh}
		if err := p.RunFull(ctx, runID, topicFlag, rawItems, opts); err != nil {
			return fmt.Errorf("run %s failed: %w", runID, err)
		}
		fmt.Printf("run %s completed for topic %s\n", runID, topicFlag)
		return nil
	},
}

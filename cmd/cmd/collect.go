package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"newsdesk/internal/config"
	"newsdesk/internal/pipeline"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run only the collection step: fetch feeds and persist new candidate items",
	RunE: func(c *cobra.Command, args []string) error {
		if topicFlag == "" {
			return fmt.Errorf("--topic is required")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		feedCfg, err := config.LoadFeedConfig(feedsFile)
		if err != nil {
			return err
		}

		p, err := pipeline.New(context.Background(), cfg, topicsFile)
		if err != nil {
			return err
		}
		defer p.Close()

		runID := uuid.NewString()
		if err := p.Runs.Start(runID, topicFlag); err != nil {
			return err
		}

		rawItems := pipeline.CollectFromFeedConfig(feedCfg, cfg)
		n, err := p.Collector.CollectAndPersist(runID, topicFlag, rawItems)
		if err != nil {
			return err
		}
		fmt.Printf("run %s: collected %d new items for topic %s\n", runID, n, topicFlag)
		return nil
	},
}

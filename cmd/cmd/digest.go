package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"newsdesk/internal/pipeline"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Cross-run dedup and fold today's summaries into --topic's running digest for --date",
	RunE: func(c *cobra.Command, args []string) error {
		if topicFlag == "" {
			return fmt.Errorf("--topic is required")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		p, err := pipeline.New(context.Background(), cfg, topicsFile)
		if err != nil {
			return err
		}
		defer p.Close()

		date := todayOr(dateFlag)
		result, err := p.Analyze(context.Background(), topicFlag, date, forceRefresh)
		if err != nil {
			return err
		}
		if !result.WasUpdated {
			fmt.Printf("topic %s: digest for %s unchanged (no new articles)\n", topicFlag, date)
			return nil
		}
		fmt.Printf("topic %s: digest for %s updated with %d new article(s)\n%s\n", topicFlag, date, result.NewArticles, result.Content.Headline)
		return nil
	},
}

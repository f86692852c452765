package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"newsdesk/internal/pipeline"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Run only the dedup/summarization step over the selected items for --run",
	RunE: func(c *cobra.Command, args []string) error {
		if runIDFlag == "" {
			return fmt.Errorf("--run is required")
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

		summarized, err := p.Summarize(context.Background(), runIDFlag)
		if err != nil {
			return err
		}
		fmt.Printf("run %s: summarized %d items\n", runIDFlag, summarized)
		return nil
	},
}

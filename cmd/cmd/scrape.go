package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"newsdesk/internal/pipeline"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Run only the content-extraction step over the selected items for --run",
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

		extracted, err := p.Scrape(context.Background(), runIDFlag)
		if err != nil {
			return err
		}
		fmt.Printf("run %s: extracted content for %d items\n", runIDFlag, extracted)
		return nil
	},
}

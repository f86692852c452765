package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"newsdesk/internal/pipeline"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Run only the classification/selection step for --run",
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

		selected, err := p.Filter(context.Background(), runIDFlag, skipPrefilter)
		if err != nil {
			return err
		}
		fmt.Printf("run %s: selected %d items\n", runIDFlag, selected)
		return nil
	},
}

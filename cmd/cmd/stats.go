package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"newsdesk/internal/cost"
)

var candidateCountFlag int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Estimate oracle spend for a run of the given size (--candidates) across all enabled topics",
	RunE: func(c *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		topics, err := exportTopics()
		if err != nil {
			return err
		}
		if len(topics) == 0 {
			topics = []string{"(unnamed)"}
		}

		if candidateCountFlag <= 0 {
			return fmt.Errorf("--candidates must be positive")
		}

		estimate := cost.EstimateRun(
			candidateCountFlag,
			cfg.Pipeline.Filtering.MaxArticlesToProcess,
			cfg.ModelNano,
			cfg.ModelMini,
			cfg.ModelAnalysis,
			len(topics),
		)
		fmt.Println(estimate.Format())
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVar(&candidateCountFlag, "candidates", 100, "number of candidate articles to estimate a run over")
}

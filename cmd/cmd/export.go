package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"newsdesk/internal/config"
	"newsdesk/internal/pipeline"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render digests as Markdown and JSON for --date (default today), all enabled topics unless --topic is set",
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
			return fmt.Errorf("no topics to export: pass --topic or enable at least one topic in %s", topicsFile)
		}

		p, err := pipeline.New(c.Context(), cfg, topicsFile)
		if err != nil {
			return err
		}
		defer p.Close()

		date := todayOr(dateFlag)
		mdPath, jsonPath, err := p.Export(topics, date, outputDir)
		if err != nil {
			return err
		}
		fmt.Printf("exported %d topic(s) for %s:\n  %s\n  %s\n", len(topics), date, mdPath, jsonPath)
		return nil
	},
}

func exportTopics() ([]string, error) {
	if topicFlag != "" {
		return []string{topicFlag}, nil
	}
	topicsCfg, err := config.LoadTopicsConfig(topicsFile)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, t := range topicsCfg.Enabled() {
		names = append(names, t.Name)
	}
	return names, nil
}

package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

func summarySchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title": {
				Type:        genai.TypeString,
				Description: "a clear, accurate restatement of the article's headline",
			},
			"summary": {
				Type:        genai.TypeString,
				Description: "150-200 word summary of the article",
			},
			"key_points": {
				Type:        genai.TypeArray,
				Description: "3-6 bullet points capturing the essential facts",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"entities": {
				Type:        genai.TypeObject,
				Description: "named entities mentioned, grouped by category (e.g. companies, people, locations)",
				Properties: map[string]*genai.Schema{
					"companies": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					"people":    {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					"locations": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				},
			},
		},
		Required: []string{"title", "summary", "key_points", "entities"},
	}
}

// SummaryResult is the structured response shape a per-item summary call
// returns.
type SummaryResult struct {
	Title     string              `json:"title"`
	Summary   string              `json:"summary"`
	KeyPoints []string            `json:"key_points"`
	Entities  map[string][]string `json:"entities"`
}

// Summarize produces a structured summary for a single extracted article.
func (c *Client) Summarize(ctx context.Context, title, extractedText string) (SummaryResult, error) {
	prompt := fmt.Sprintf(`Summarize the following news article.

Title: %s

Article text:
%s

Produce a 150-200 word summary, 3-6 key points, and named entities grouped by category.`, title, extractedText)

	raw, err := c.generateJSON(ctx, c.MiniModel, prompt, summarySchema())
	if err != nil {
		return SummaryResult{}, err
	}

	var result SummaryResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &result); err != nil {
		return SummaryResult{}, fmt.Errorf("failed to parse summary response: %w", err)
	}
	return result, nil
}

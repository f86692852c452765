package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

func partialDigestSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"key_insights": {
				Type:        genai.TypeArray,
				Description: "up to 5 key insights from the new articles",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"important_developments": {
				Type:        genai.TypeArray,
				Description: "up to 3 important developments worth highlighting",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"new_sources": {
				Type:        genai.TypeArray,
				Description: "source names contributing to these new articles",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"entities_mentioned": {
				Type:        genai.TypeArray,
				Description: "named entities mentioned across the new articles",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"key_insights", "important_developments", "new_sources", "entities_mentioned"},
	}
}

// PartialDigest is the structured output of summarizing only the articles
// new since the last digest state for a topic.
type PartialDigest struct {
	KeyInsights           []string `json:"key_insights"`
	ImportantDevelopments []string `json:"important_developments"`
	NewSources            []string `json:"new_sources"`
	EntitiesMentioned     []string `json:"entities_mentioned"`
}

// GeneratePartialDigest summarizes only the articles new since a topic's
// last saved digest state.
func (c *Client) GeneratePartialDigest(ctx context.Context, topic string, articleSummaries []string) (PartialDigest, error) {
	prompt := fmt.Sprintf(`New articles on "%s" since the last digest update:

%s

Summarize what is new: key insights (up to 5), important developments (up to 3), contributing sources, and named entities mentioned.`, topic, strings.Join(articleSummaries, "\n---\n"))

	raw, err := c.generateJSON(ctx, c.AnalysisModel, prompt, partialDigestSchema())
	if err != nil {
		return PartialDigest{}, err
	}

	var result PartialDigest
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &result); err != nil {
		return PartialDigest{}, fmt.Errorf("failed to parse partial digest response: %w", err)
	}
	return result, nil
}

func fullDigestSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"headline": {
				Type:        genai.TypeString,
				Description: "a single headline capturing the topic's current state",
			},
			"why_it_matters": {
				Type:        genai.TypeString,
				Description: "2-3 sentences on why this topic matters right now",
			},
			"sources": {
				Type:        genai.TypeArray,
				Description: "all sources contributing to the digest",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"article_count": {
				Type:        genai.TypeInteger,
				Description: "number of articles folded into this digest",
			},
			"generated_at": {
				Type:        genai.TypeString,
				Description: "RFC3339 timestamp this digest was generated",
			},
		},
		Required: []string{"headline", "why_it_matters", "sources", "article_count", "generated_at"},
	}
}

// FullDigest is the structured output of synthesizing a topic's entire
// digest from scratch — a topic's first-ever digest, or a force-refresh.
type FullDigest struct {
	Headline     string   `json:"headline"`
	WhyItMatters string   `json:"why_it_matters"`
	Sources      []string `json:"sources"`
	ArticleCount int      `json:"article_count"`
	GeneratedAt  string   `json:"generated_at"`
}

// GenerateFullDigest synthesizes a complete digest for topic from every
// article summary passed in, rather than merging a delta into prior state.
func (c *Client) GenerateFullDigest(ctx context.Context, topic string, articleSummaries []string) (FullDigest, error) {
	prompt := fmt.Sprintf(`Articles on "%s":

%s

Synthesize a complete digest: a single headline capturing the topic's current state, a 2-3 sentence why-it-matters statement, the full list of contributing sources, the article count, and the current RFC3339 timestamp.`, topic, strings.Join(articleSummaries, "\n---\n"))

	raw, err := c.generateJSON(ctx, c.AnalysisModel, prompt, fullDigestSchema())
	if err != nil {
		return FullDigest{}, err
	}

	var result FullDigest
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &result); err != nil {
		return FullDigest{}, fmt.Errorf("failed to parse full digest response: %w", err)
	}
	return result, nil
}

func mergeDigestSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"headline": {
				Type:        genai.TypeString,
				Description: "a single headline capturing the topic's state as of this update",
			},
			"why_it_matters": {
				Type:        genai.TypeString,
				Description: "2-3 sentences on why this topic matters right now",
			},
			"sources": {
				Type:        genai.TypeArray,
				Description: "all sources contributing to the merged digest",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"headline", "why_it_matters", "sources"},
	}
}

// MergedDigest is the structured output of folding a partial digest into the
// topic's existing digest content.
type MergedDigest struct {
	Headline     string   `json:"headline"`
	WhyItMatters string   `json:"why_it_matters"`
	Sources      []string `json:"sources"`
}

// MergeDigests folds partial (the summary of newly arrived articles) into
// the topic's existing narrative, returning an updated headline,
// why-it-matters statement, and source list.
func (c *Client) MergeDigests(ctx context.Context, topic, existingHeadline, existingWhyItMatters string, partial PartialDigest) (MergedDigest, error) {
	prompt := fmt.Sprintf(`Topic: %s

Existing digest:
Headline: %s
Why it matters: %s

New developments to fold in:
Key insights: %s
Important developments: %s

Produce an updated headline and why-it-matters statement that incorporates the new developments, plus the full list of contributing sources.`,
		topic, existingHeadline, existingWhyItMatters,
		strings.Join(partial.KeyInsights, "; "), strings.Join(partial.ImportantDevelopments, "; "))

	raw, err := c.generateJSON(ctx, c.AnalysisModel, prompt, mergeDigestSchema())
	if err != nil {
		return MergedDigest{}, err
	}

	var result MergedDigest
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &result); err != nil {
		return MergedDigest{}, fmt.Errorf("failed to parse merge digest response: %w", err)
	}
	return result, nil
}

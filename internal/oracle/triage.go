package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

func triageSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"is_match": {
				Type:        genai.TypeBoolean,
				Description: "true if the article genuinely concerns the given topic",
			},
			"confidence": {
				Type:        genai.TypeNumber,
				Description: "confidence in the is_match decision, 0.0 to 1.0",
			},
			"reason": {
				Type:        genai.TypeString,
				Description: "one-sentence justification for the decision",
			},
		},
		Required: []string{"is_match", "confidence", "reason"},
	}
}

type triageResponse struct {
	IsMatch    bool    `json:"is_match"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Triage implements classify.Oracle: a single is_match/confidence/reason
// judgment for one article against topic.
func (c *Client) Triage(ctx context.Context, topic, title, url string) (bool, float64, string, error) {
	prompt := fmt.Sprintf(`You are screening Swiss business news for relevance to the topic "%s".

Title: %s
URL: %s

Decide whether this article is genuinely about "%s", not merely mentioning it in passing.`, topic, title, url, topic)

	raw, err := c.generateJSON(ctx, c.NanoModel, prompt, triageSchema())
	if err != nil {
		return false, 0, "", err
	}

	var resp triageResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &resp); err != nil {
		return false, 0, "", fmt.Errorf("failed to parse triage response: %w", err)
	}

	if resp.Confidence < 0 {
		resp.Confidence = 0
	} else if resp.Confidence > 1 {
		resp.Confidence = 1
	}

	return resp.IsMatch, resp.Confidence, resp.Reason, nil
}

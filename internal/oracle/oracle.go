// Package oracle wraps the Gemini-backed chat-completion client shared by
// every pipeline step that needs a structured-output judgment: triage,
// title clustering, cross-run comparison, summarization, and digest
// synthesis. Triage, summarization, and digest calls are JSON-schema
// constrained via genai.Schema so the response parses into the exact shape
// the caller expects; title clustering and cross-run comparison return free
// text that their callers parse.
package oracle

import (
	"context"
	"fmt"
	"os"
	"time"

	"google.golang.org/genai"
)

// Model tiers mirror MODEL_NANO / MODEL_MINI / MODEL_ANALYSIS: triage and
// title-clustering are cheap high-volume calls suited to the smallest model,
// summarization and cross-run comparison use the middle tier, and digest
// synthesis gets the most capable tier.
const (
	DefaultNanoModel     = "gemini-flash-lite-latest"
	DefaultMiniModel     = "gemini-flash-latest"
	DefaultAnalysisModel = "gemini-pro-latest"
)

// Client is the shared Gemini client used across pipeline steps.
type Client struct {
	gClient       *genai.Client
	NanoModel     string
	MiniModel     string
	AnalysisModel string
	MaxRetries    int
	RetryDelay    time.Duration
}

// NewClient builds a Client from GEMINI_API_KEY and the configured model
// tiers, substituting defaults for any blank tier.
func NewClient(ctx context.Context, nanoModel, miniModel, analysisModel string) (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if nanoModel == "" {
		nanoModel = DefaultNanoModel
	}
	if miniModel == "" {
		miniModel = DefaultMiniModel
	}
	if analysisModel == "" {
		analysisModel = DefaultAnalysisModel
	}

	return &Client{
		gClient:       gClient,
		NanoModel:     nanoModel,
		MiniModel:     miniModel,
		AnalysisModel: analysisModel,
		MaxRetries:    2,
		RetryDelay:    2 * time.Second,
	}, nil
}

// generateJSON issues a schema-constrained call against model, retrying on
// transport failure.
func (c *Client) generateJSON(ctx context.Context, model, prompt string, schema *genai.Schema) (string, error) {
	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}

	var lastErr error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		resp, err := c.gClient.Models.GenerateContent(ctx, model, contents, config)
		if err == nil {
			if text := resp.Text(); text != "" {
				return text, nil
			}
			lastErr = fmt.Errorf("empty response from model %s", model)
		} else {
			lastErr = err
		}

		if attempt < c.MaxRetries {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.RetryDelay * time.Duration(attempt+1)):
			}
		}
	}
	return "", fmt.Errorf("oracle call failed after %d attempts: %w", c.MaxRetries+1, lastErr)
}

// generateText issues a plain, non-schema-constrained call against model —
// used for the YES/NO cross-run comparison and the numbered-list title
// clustering prompt, whose responses are free text rather than JSON.
func (c *Client) generateText(ctx context.Context, model, prompt string) (string, error) {
	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	var lastErr error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		resp, err := c.gClient.Models.GenerateContent(ctx, model, contents, nil)
		if err == nil {
			if text := resp.Text(); text != "" {
				return text, nil
			}
			lastErr = fmt.Errorf("empty response from model %s", model)
		} else {
			lastErr = err
		}

		if attempt < c.MaxRetries {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.RetryDelay * time.Duration(attempt+1)):
			}
		}
	}
	return "", fmt.Errorf("oracle call failed after %d attempts: %w", c.MaxRetries+1, lastErr)
}

package oracle

import (
	"context"
	"fmt"
	"strings"

	"newsdesk/internal/core"
)

// CompareTopic implements crossrun.Oracle: a YES/NO judgment on whether a
// new summary covers the same story as any of the previous signatures.
func (c *Client) CompareTopic(ctx context.Context, newTitle, newSummary string, previous []core.CrossRunTopicSignature) (bool, error) {
	var previousContext strings.Builder
	for i, sig := range previous {
		text := sig.SignatureText
		if len(text) > 500 {
			text = text[:500]
		}
		fmt.Fprintf(&previousContext, "Previous Article %d (ID: %s):\n%s\n\n", i+1, sig.SignatureID, text)
	}

	summary := newSummary
	if len(summary) > 500 {
		summary = summary[:500]
	}

	prompt := fmt.Sprintf(`Previous articles from today:
%s
New article to check:
Title: %s
Summary: %s

Is this new article covering the same topic as any of the previous articles? Answer YES or NO.`, previousContext.String(), newTitle, summary)

	raw, err := c.generateText(ctx, c.MiniModel, prompt)
	if err != nil {
		return false, err
	}

	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(raw)), "YES"), nil
}

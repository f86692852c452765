package oracle

import (
	"context"
	"fmt"
	"strings"
)

// ClusterTitles implements dedup.Oracle: asks the oracle to group a
// numbered list of titles by the story they cover, one response line per
// title of the form "<index>, <Group-label>".
func (c *Client) ClusterTitles(ctx context.Context, numberedTitles []string) ([]string, error) {
	prompt := fmt.Sprintf(`Below is a numbered list of news headlines collected today. Group headlines that cover the same underlying story.

%s

Respond with exactly one line per headline, in the form:
<index>, <short group label>

Headlines covering the same story must share the exact same group label.`, strings.Join(numberedTitles, "\n"))

	raw, err := c.generateText(ctx, c.NanoModel, prompt)
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

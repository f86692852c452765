// Package render serializes topic digests to the export formats the CLI's
// export command writes to disk: Markdown for human reading, JSON for
// downstream tooling. Both preserve GeneratedAt/LastUpdated verbatim rather
// than re-stamping them at render time.
package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"newsdesk/internal/core"
)

const markdownDigestTemplate = `## {{.Headline}}

{{.WhyItMatters}}

{{range .Bullets}}- {{.}}
{{end}}
**Sources:** {{join .Sources ", "}}

_{{.ArticleCount}} articles ({{.NewArticlesCount}} new) · generated {{.GeneratedAt}}{{if .LastUpdated}} · updated {{.LastUpdated}}{{end}}_
`

var markdownTmpl = template.Must(template.New("digest").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(markdownDigestTemplate))

// RenderMarkdownTopic renders a single topic's digest content as a Markdown
// section, without writing anything to disk.
func RenderMarkdownTopic(content core.DigestContent) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n\n", content.Topic)
	if err := markdownTmpl.Execute(&b, content); err != nil {
		return "", fmt.Errorf("failed to render digest for topic %s: %w", content.Topic, err)
	}
	return b.String(), nil
}

// RenderMarkdownDigest renders every topic's digest for date into a single
// Markdown document and writes it under outputDir, returning the file path.
// An empty digests list still produces a valid, readable file.
func RenderMarkdownDigest(digests []core.DigestContent, outputDir, date string) (string, error) {
	if outputDir == "" {
		outputDir = "digests"
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Daily Digest - %s\n\n", date)

	if len(digests) == 0 {
		b.WriteString("No topic digests were generated for this date.\n")
	} else {
		for _, d := range digests {
			section, err := RenderMarkdownTopic(d)
			if err != nil {
				return "", err
			}
			b.WriteString(section)
			b.WriteString("\n---\n\n")
		}
	}

	filename := fmt.Sprintf("digest_%s.md", date)
	return writeFile(outputDir, filename, b.String())
}

// digestExport is the JSON export shape: date plus the per-topic contents,
// keyed by topic so a consumer doesn't need to scan an array to find one.
type digestExport struct {
	Date   string                        `json:"date"`
	Topics map[string]core.DigestContent `json:"topics"`
}

// RenderJSONDigest writes every topic's digest for date as one JSON document
// under outputDir and returns the file path.
func RenderJSONDigest(digests []core.DigestContent, outputDir, date string) (string, error) {
	if outputDir == "" {
		outputDir = "digests"
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	export := digestExport{Date: date, Topics: map[string]core.DigestContent{}}
	for _, d := range digests {
		export.Topics[d.Topic] = d
	}

	encoded, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal digest export for %s: %w", date, err)
	}

	filename := fmt.Sprintf("digest_%s.json", date)
	return writeFile(outputDir, filename, string(encoded))
}

// writeFile writes content to filepath.Join(outputDir, filename), creating
// outputDir if needed, and returns the written path.
func writeFile(outputDir, filename, content string) (string, error) {
	if outputDir == "" {
		outputDir = "digests"
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	filePath := filepath.Join(outputDir, filename)
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write digest file %s: %w", filePath, err)
	}
	return filePath, nil
}

// nowDate is a small seam so callers that don't already have a date string
// (e.g. an interactive CLI invocation) can default to today in UTC.
func nowDate() string {
	return time.Now().UTC().Format("2006-01-02")
}

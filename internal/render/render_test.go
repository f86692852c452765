package render

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"newsdesk/internal/core"
)

func TestRenderMarkdownDigestEmptyTopics(t *testing.T) {
	tmpDir := t.TempDir()

	filePath, err := RenderMarkdownDigest(nil, tmpDir, "2026-07-31")
	if err != nil {
		t.Fatalf("RenderMarkdownDigest failed: %v", err)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("failed to read digest file: %v", err)
	}
	if !strings.Contains(string(content), "No topic digests") {
		t.Error("expected empty-digest placeholder text")
	}
}

func TestRenderMarkdownDigestWithTopics(t *testing.T) {
	tmpDir := t.TempDir()
	digests := []core.DigestContent{
		{
			Topic:            "swiss-franc",
			Headline:         "SNB holds rates steady",
			WhyItMatters:     "Markets expected a cut.",
			Bullets:          []string{"Rate unchanged at 1.5%", "Franc strengthens against euro"},
			Sources:          []string{"nzz.ch", "snb.ch"},
			ArticleCount:     5,
			NewArticlesCount: 2,
			GeneratedAt:      "2026-07-31T08:00:00Z",
		},
		{
			Topic:        "fc-zuerich",
			Headline:     "FCZ signs new striker",
			WhyItMatters: "Squad depth ahead of European qualifiers.",
			ArticleCount: 1,
			GeneratedAt:  "2026-07-31T09:00:00Z",
		},
	}

	filePath, err := RenderMarkdownDigest(digests, tmpDir, "2026-07-31")
	if err != nil {
		t.Fatalf("RenderMarkdownDigest failed: %v", err)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("failed to read digest file: %v", err)
	}
	body := string(content)

	if !strings.Contains(body, "### swiss-franc") {
		t.Error("expected a swiss-franc section heading")
	}
	if !strings.Contains(body, "SNB holds rates steady") {
		t.Error("expected the headline to appear")
	}
	if !strings.Contains(body, "Rate unchanged at 1.5%") {
		t.Error("expected bullet text to appear")
	}
	if !strings.Contains(body, "nzz.ch, snb.ch") {
		t.Error("expected comma-joined sources")
	}
	if !strings.Contains(body, "### fc-zuerich") {
		t.Error("expected a fc-zuerich section heading")
	}

	fczIdx := strings.Index(body, "### fc-zuerich")
	francIdx := strings.Index(body, "### swiss-franc")
	if francIdx == -1 || fczIdx == -1 || francIdx > fczIdx {
		t.Error("expected topics to render in the order given")
	}
}

func TestRenderMarkdownDigestFilenameFormat(t *testing.T) {
	tmpDir := t.TempDir()

	filePath, err := RenderMarkdownDigest(nil, tmpDir, "2026-07-31")
	if err != nil {
		t.Fatalf("RenderMarkdownDigest failed: %v", err)
	}
	if filepath.Base(filePath) != "digest_2026-07-31.md" {
		t.Errorf("unexpected filename: %s", filepath.Base(filePath))
	}
}

func TestRenderMarkdownDigestDefaultOutputDir(t *testing.T) {
	originalWd, _ := os.Getwd()
	tmpDir := t.TempDir()
	_ = os.Chdir(tmpDir)
	defer func() { _ = os.Chdir(originalWd) }()

	filePath, err := RenderMarkdownDigest(nil, "", "2026-07-31")
	if err != nil {
		t.Fatalf("RenderMarkdownDigest failed: %v", err)
	}
	if !strings.Contains(filePath, "digests") {
		t.Errorf("expected default digests directory, got %s", filePath)
	}
}

func TestRenderMarkdownDigestInvalidOutputDir(t *testing.T) {
	tmpDir := t.TempDir()
	invalidPath := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(invalidPath, []byte("x"), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	_, err := RenderMarkdownDigest(nil, invalidPath, "2026-07-31")
	if err == nil {
		t.Error("expected an error when outputDir is actually a file")
	}
}

func TestRenderJSONDigestRoundTrips(t *testing.T) {
	tmpDir := t.TempDir()
	digests := []core.DigestContent{
		{Topic: "swiss-franc", Headline: "SNB holds rates steady", ArticleCount: 5},
	}

	filePath, err := RenderJSONDigest(digests, tmpDir, "2026-07-31")
	if err != nil {
		t.Fatalf("RenderJSONDigest failed: %v", err)
	}

	raw, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("failed to read JSON digest file: %v", err)
	}

	var decoded digestExport
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("failed to unmarshal digest export: %v", err)
	}
	if decoded.Date != "2026-07-31" {
		t.Errorf("expected date 2026-07-31, got %s", decoded.Date)
	}
	topic, ok := decoded.Topics["swiss-franc"]
	if !ok {
		t.Fatal("expected swiss-franc topic in export")
	}
	if topic.Headline != "SNB holds rates steady" {
		t.Errorf("unexpected headline: %s", topic.Headline)
	}
}

func TestRenderJSONDigestFilenameFormat(t *testing.T) {
	tmpDir := t.TempDir()

	filePath, err := RenderJSONDigest(nil, tmpDir, "2026-07-31")
	if err != nil {
		t.Fatalf("RenderJSONDigest failed: %v", err)
	}
	if filepath.Base(filePath) != "digest_2026-07-31.json" {
		t.Errorf("unexpected filename: %s", filepath.Base(filePath))
	}
}

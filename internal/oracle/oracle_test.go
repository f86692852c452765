package oracle

import (
	"context"
	"os"
	"strings"
	"testing"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	original := os.Getenv("GEMINI_API_KEY")
	_ = os.Unsetenv("GEMINI_API_KEY")
	defer func() {
		if original != "" {
			_ = os.Setenv("GEMINI_API_KEY", original)
		}
	}()

	_, err := NewClient(context.Background(), "", "", "")
	if err == nil {
		t.Fatal("expected an error when GEMINI_API_KEY is unset")
	}
	if !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Fatalf("expected the error to name the missing env var, got: %v", err)
	}
}

func TestNewClientDefaultsModelTiers(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set, skipping integration test")
	}

	client, err := NewClient(context.Background(), "", "", "")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.NanoModel != DefaultNanoModel {
		t.Errorf("expected default nano model, got %s", client.NanoModel)
	}
	if client.MiniModel != DefaultMiniModel {
		t.Errorf("expected default mini model, got %s", client.MiniModel)
	}
	if client.AnalysisModel != DefaultAnalysisModel {
		t.Errorf("expected default analysis model, got %s", client.AnalysisModel)
	}
}

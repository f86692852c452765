package cost

import (
	"strings"
	"testing"
)

func TestEstimateTokenCount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"empty string", "", 0},
		{"simple text", "Hello world", 4},
		{"longer text", "This is a longer piece of text that should result in more tokens.", 19},
		{"text with newlines", "Line 1\nLine 2\nLine 3", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokenCount(tt.input); got != tt.expected {
				t.Errorf("EstimateTokenCount(%q) = %d, expected %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPricingTableHasAllModelTiers(t *testing.T) {
	for _, model := range []string{"gemini-flash-lite-latest", "gemini-flash-latest", "gemini-pro-latest"} {
		if _, ok := PricingTable[model]; !ok {
			t.Errorf("expected model %s in PricingTable", model)
		}
	}
}

func TestEstimateRunProducesOneStepPerOracleCallClass(t *testing.T) {
	estimate := EstimateRun(100, 35, "gemini-flash-lite-latest", "gemini-flash-latest", "gemini-pro-latest", 1)

	wantSteps := []string{"classification", "title_clustering", "summarization", "cross_run_comparison", "digest_synthesis"}
	if len(estimate.Steps) != len(wantSteps) {
		t.Fatalf("expected %d steps, got %d", len(wantSteps), len(estimate.Steps))
	}
	for i, step := range estimate.Steps {
		if step.Step != wantSteps[i] {
			t.Errorf("step %d: expected %s, got %s", i, wantSteps[i], step.Step)
		}
	}

	classification := estimate.Steps[0]
	if classification.Calls != 100 {
		t.Errorf("expected one classification call per candidate (100), got %d", classification.Calls)
	}

	summarization := estimate.Steps[2]
	if summarization.Calls != 35 {
		t.Errorf("expected one summarization call per selected article (35), got %d", summarization.Calls)
	}

	if estimate.TotalCost <= 0 {
		t.Errorf("expected a positive total cost, got %f", estimate.TotalCost)
	}
}

func TestEstimateRunClampsSelectedToCandidateCount(t *testing.T) {
	estimate := EstimateRun(10, 35, "gemini-flash-lite-latest", "gemini-flash-latest", "gemini-pro-latest", 1)

	summarization := estimate.Steps[2]
	if summarization.Calls != 10 {
		t.Errorf("expected summarization calls clamped to the 10 available candidates, got %d", summarization.Calls)
	}
}

func TestEstimateRunFlagsRateLimitUnderHeavyLoad(t *testing.T) {
	estimate := EstimateRun(5000, 2000, "gemini-flash-lite-latest", "gemini-pro-latest", "gemini-pro-latest", 1)
	if estimate.RateLimitWarning == "" {
		t.Error("expected a rate-limit warning for a run with 2000 pro-tier calls")
	}
}

func TestFormatIncludesEachStepAndTotal(t *testing.T) {
	estimate := EstimateRun(100, 35, "gemini-flash-lite-latest", "gemini-flash-latest", "gemini-pro-latest", 1)
	out := estimate.Format()

	if !strings.Contains(out, "classification") {
		t.Error("expected the classification step in the formatted report")
	}
	if !strings.Contains(out, "Total estimated cost") {
		t.Error("expected a total cost line")
	}
}

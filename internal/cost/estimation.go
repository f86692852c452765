package cost

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// GeminiPricing holds per-model pricing and typical output size, used to
// estimate the cost of a single oracle call.
type GeminiPricing struct {
	Model                 string
	InputCostPer1MTokens  float64
	OutputCostPer1MTokens float64
	EstimatedOutputTokens int
	MaxRequestsPerMinute  int
}

// PricingTable carries current Gemini pricing for the three model tiers the
// oracle client selects between.
var PricingTable = map[string]GeminiPricing{
	"gemini-flash-lite-latest": {
		Model:                 "gemini-flash-lite-latest",
		InputCostPer1MTokens:  0.0375,
		OutputCostPer1MTokens: 0.15,
		EstimatedOutputTokens: 80, // triage verdict is short
		MaxRequestsPerMinute:  4000,
	},
	"gemini-flash-latest": {
		Model:                 "gemini-flash-latest",
		InputCostPer1MTokens:  0.075,
		OutputCostPer1MTokens: 0.30,
		EstimatedOutputTokens: 250, // structured summary
		MaxRequestsPerMinute:  1000,
	},
	"gemini-pro-latest": {
		Model:                 "gemini-pro-latest",
		InputCostPer1MTokens:  1.25,
		OutputCostPer1MTokens: 5.00,
		EstimatedOutputTokens: 400, // digest synthesis/merge
		MaxRequestsPerMinute:  360,
	},
}

// EstimateTokenCount approximates token count from rune count, matching the
// original's ~3.5 characters-per-token heuristic.
func EstimateTokenCount(text string) int {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	chars := utf8.RuneCountInString(text)
	return int(math.Ceil(float64(chars) / 3.5))
}

// StepCost is the estimated spend for one class of oracle call across a
// batch of candidate items.
type StepCost struct {
	Step          string
	Model         string
	Calls         int
	InputTokens   int
	OutputTokens  int
	Cost          float64
}

// RunEstimate is the cost estimate for one full pipeline run: one StepCost
// per oracle-backed step, plus the aggregate.
type RunEstimate struct {
	Steps            []StepCost
	TotalCost        float64
	ProcessingMinutes float64
	RateLimitWarning string
}

const (
	promptOverheadTokens = 150 // fixed prompt template tokens, all steps
)

func callCost(pricing GeminiPricing, inputTokens, outputTokens int) float64 {
	inputCost := float64(inputTokens) * pricing.InputCostPer1MTokens / 1_000_000
	outputCost := float64(outputTokens) * pricing.OutputCostPer1MTokens / 1_000_000
	return inputCost + outputCost
}

func estimateStep(step, model string, calls int, avgInputChars int) StepCost {
	pricing, ok := PricingTable[model]
	if !ok {
		pricing = PricingTable["gemini-flash-lite-latest"]
	}
	inputTokensPerCall := EstimateTokenCount(strings.Repeat("x", avgInputChars)) + promptOverheadTokens
	totalInput := inputTokensPerCall * calls
	totalOutput := pricing.EstimatedOutputTokens * calls
	return StepCost{
		Step:         step,
		Model:        model,
		Calls:        calls,
		InputTokens:  totalInput,
		OutputTokens: totalOutput,
		Cost:         callCost(pricing, totalInput, totalOutput),
	}
}

// EstimateRun projects the oracle spend for a run that collects
// candidateCount raw items and narrows them down through the pipeline:
// classification runs once per candidate, title clustering is one batched
// call over the selected items, summarization and cross-run comparison run
// once per item surviving the Selection Gate (maxSelected), and digest
// synthesis runs once per topic.
func EstimateRun(candidateCount, maxSelected int, nanoModel, miniModel, analysisModel string, topics int) *RunEstimate {
	if topics < 1 {
		topics = 1
	}
	selected := maxSelected
	if selected > candidateCount {
		selected = candidateCount
	}

	estimate := &RunEstimate{}
	estimate.Steps = append(estimate.Steps,
		estimateStep("classification", nanoModel, candidateCount, 200),
		estimateStep("title_clustering", nanoModel, 1, selected*40), // one batched call
		estimateStep("summarization", miniModel, selected, 2500),
		estimateStep("cross_run_comparison", miniModel, selected, 600),
		estimateStep("digest_synthesis", analysisModel, topics, selected*300/topics),
	)

	var totalRequests int
	for _, s := range estimate.Steps {
		estimate.TotalCost += s.Cost
		totalRequests += s.Calls
	}

	estimate.ProcessingMinutes = float64(totalRequests) * 2 / 60
	maxRPM := PricingTable[miniModel].MaxRequestsPerMinute
	if maxRPM == 0 {
		maxRPM = PricingTable["gemini-flash-latest"].MaxRequestsPerMinute
	}
	if totalRequests > maxRPM {
		estimate.RateLimitWarning = fmt.Sprintf(
			"estimated %d requests may exceed the %d/min rate limit for %s", totalRequests, maxRPM, miniModel)
	}

	return estimate
}

// Format renders the estimate as a plain-text report for `newsdesk stats`.
func (e *RunEstimate) Format() string {
	var sb strings.Builder
	sb.WriteString("Oracle cost estimate\n")
	sb.WriteString(strings.Repeat("=", 40) + "\n\n")
	for _, s := range e.Steps {
		fmt.Fprintf(&sb, "%-22s %-26s calls=%-4d cost=$%.6f\n", s.Step, s.Model, s.Calls, s.Cost)
	}
	fmt.Fprintf(&sb, "\nTotal estimated cost: $%.6f\n", e.TotalCost)
	fmt.Fprintf(&sb, "Estimated processing time: %.1f minutes\n", e.ProcessingMinutes)
	if e.RateLimitWarning != "" {
		fmt.Fprintf(&sb, "Warning: %s\n", e.RateLimitWarning)
	}
	return sb.String()
}

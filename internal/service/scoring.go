package service

import "strings"

// ScoreResult is the normalized output of any scorer in the fallback chain
// (Gemini, OpenRouter, heuristic).
type ScoreResult struct {
	MatchRate      float64 `json:"match_rate"` // 0-1
	Feedback       string  `json:"feedback"`
	OverallSummary string  `json:"overall_summary"`
	Breakdown      string  `json:"breakdown"` // raw JSON object
}

// CleanJSON strips markdown code fences that LLMs tend to wrap JSON in.
func CleanJSON(input string) string {
	clean := strings.TrimSpace(input)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")

	return strings.TrimSpace(clean)
}

package service

import (
	"encoding/json"
	"fmt"
	"strings"
)

// HeuristicScorer is the last resort in the scoring chain. It scans the
// resume text and questionnaire answers for category keywords and derives
// deterministic scores from hit counts. No network, no randomness.
type HeuristicScorer struct{}

func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{}
}

var scoringCategories = []struct {
	Name     string
	Keywords []string
}{
	{"technical", []string{
		"software", "engineer", "developer", "programming", "database",
		"cloud", "api", "python", "java", "golang", "javascript", "sql",
		"devops", "backend", "frontend", "infrastructure",
	}},
	{"communication", []string{
		"presentation", "writing", "communication", "negotiation",
		"stakeholder", "documentation", "public speaking", "collaboration",
	}},
	{"leadership", []string{
		"lead", "manager", "mentor", "coordinated", "managed", "director",
		"supervised", "founded", "initiative", "strategy",
	}},
	{"analytical", []string{
		"analysis", "analytics", "research", "data", "metrics", "modeling",
		"statistics", "problem solving", "optimization", "experiment",
	}},
}

// Score computes a ScoreResult from raw text. Each category scores
// hits/keywords capped at 1.0; the match rate is the arithmetic mean.
func (h *HeuristicScorer) Score(resumeText, responses string) (*ScoreResult, error) {
	corpus := strings.ToLower(resumeText + " " + responses)
	if strings.TrimSpace(corpus) == "" {
		return nil, fmt.Errorf("no scorable input")
	}

	breakdown := make(map[string]float64, len(scoringCategories))
	var sum float64
	var strongest string
	var strongestScore float64

	for _, cat := range scoringCategories {
		hits := 0
		for _, kw := range cat.Keywords {
			if strings.Contains(corpus, kw) {
				hits++
			}
		}
		score := float64(hits) / float64(len(cat.Keywords))
		if score > 1 {
			score = 1
		}
		breakdown[cat.Name] = score
		sum += score
		if score >= strongestScore {
			strongestScore = score
			strongest = cat.Name
		}
	}

	matchRate := sum / float64(len(scoringCategories))

	raw, err := json.Marshal(breakdown)
	if err != nil {
		return nil, err
	}

	return &ScoreResult{
		MatchRate:      matchRate,
		Feedback:       fmt.Sprintf("Keyword-based screening: strongest signal in %s skills.", strongest),
		OverallSummary: "Automatically scored by keyword analysis because the AI service was unavailable. A staff review is recommended.",
		Breakdown:      string(raw),
	}, nil
}

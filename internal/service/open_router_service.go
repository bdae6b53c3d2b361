package service

import (
	"fmt"

	"github.com/fadilmartias/career-compass/internal/config"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

type OpenRouterServiceInterface interface {
	Score(prompt string) (*ScoreResult, error)
}

type OpenRouterService struct {
	APIKey string
	client *resty.Client
}

func NewOpenRouterService() *OpenRouterService {
	return &OpenRouterService{
		APIKey: config.LoadOpenRouterConfig().APIKey,
		client: resty.New(),
	}
}

// Score sends the scoring prompt to OpenRouter and parses the JSON the model
// returns. Used as the secondary scorer when Gemini is unavailable.
func (s *OpenRouterService) Score(prompt string) (*ScoreResult, error) {
	resp, err := s.client.R().
		SetHeader("Authorization", "Bearer "+s.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"model": "openai/gpt-4o-mini",
			"messages": []map[string]string{
				{"role": "system", "content": "You are an AI scoring career assessments."},
				{"role": "user", "content": prompt},
			},
		}).
		Post("https://openrouter.ai/api/v1/chat/completions")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("openrouter returned status %d", resp.StatusCode())
	}

	text := gjson.Get(resp.String(), "choices.0.message.content").String()
	if text == "" {
		return nil, fmt.Errorf("empty completion from openrouter")
	}

	text = CleanJSON(text)
	if !gjson.Valid(text) {
		return nil, fmt.Errorf("openrouter completion is not valid JSON")
	}

	return &ScoreResult{
		MatchRate:      gjson.Get(text, "match_rate").Float(),
		Feedback:       gjson.Get(text, "feedback").String(),
		OverallSummary: gjson.Get(text, "overall_summary").String(),
		Breakdown:      gjson.Get(text, "breakdown").Raw,
	}, nil
}

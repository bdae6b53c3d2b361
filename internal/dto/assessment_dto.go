package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateAssessmentRequest struct {
	Tier      string `json:"tier" validate:"required,oneof=basic standard premium"`
	Responses string `json:"responses" validate:"required,json"`
}

type AssessmentDTO struct {
	ID             uuid.UUID `json:"id"`
	Tier           string    `json:"tier"`
	Status         string    `json:"status"`
	MatchRate      float64   `json:"match_rate"`
	EffectiveScore float64   `json:"effective_score"`
	Feedback       string    `json:"feedback"`
	OverallSummary string    `json:"overall_summary"`
	Breakdown      string    `json:"breakdown"`
	ScoreSource    string    `json:"score_source"`
	Paid           bool      `json:"paid"`
	Reviewed       bool      `json:"reviewed"`
	ReviewNote     string    `json:"review_note,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type RecommendationDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ReviewRequest struct {
	AdjustedScore float64 `json:"adjusted_score" validate:"gte=0,lte=1"`
	Note          string  `json:"note" validate:"required"`
}

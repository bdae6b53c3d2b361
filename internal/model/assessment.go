package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Assessment statuses. Reprocessing is only allowed from StatusPending,
// StatusFailed and StatusServiceError.
const (
	StatusPending      = "pending"
	StatusProcessing   = "processing"
	StatusCompleted    = "completed"
	StatusFailed       = "failed"
	StatusServiceError = "service_error"
)

// Score sources recorded on the assessment row.
const (
	ScoreSourceAI       = "ai"
	ScoreSourceFallback = "fallback"
	ScoreSourceManual   = "manual"
)

const (
	TierBasic    = "basic"
	TierStandard = "standard"
	TierPremium  = "premium"
)

// tierPrices holds the fixed price per tier in cents.
var tierPrices = map[string]int64{
	TierBasic:    2900,
	TierStandard: 4900,
	TierPremium:  9900,
}

// TierPrice returns the price in cents for a pricing tier.
func TierPrice(tier string) (int64, error) {
	price, ok := tierPrices[tier]
	if !ok {
		return 0, fmt.Errorf("unknown tier: %q", tier)
	}
	return price, nil
}

// ProcessableStatuses lists the statuses from which an assessment may enter
// "processing".
func ProcessableStatuses() []string {
	return []string{StatusPending, StatusFailed, StatusServiceError}
}

// CanProcess reports whether an assessment in the given status may enter
// "processing".
func CanProcess(status string) bool {
	for _, s := range ProcessableStatuses() {
		if status == s {
			return true
		}
	}
	return false
}

type Assessment struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	Tier           string     `gorm:"type:varchar(20);not null" json:"tier"`
	Status         string     `gorm:"type:varchar(50)" json:"status"`
	Responses      string     `gorm:"type:jsonb" json:"responses"`
	ResumeText     string     `gorm:"type:text" json:"resume_text"`
	MatchRate      float64    `gorm:"type:float" json:"match_rate"`
	Feedback       string     `gorm:"type:text" json:"feedback"`
	OverallSummary string     `gorm:"type:text" json:"overall_summary"`
	Breakdown      string     `gorm:"type:jsonb" json:"breakdown"`
	ScoreSource    string     `gorm:"type:varchar(20)" json:"score_source"`
	Paid           bool       `gorm:"default:false" json:"paid"`
	Reviewed       bool       `gorm:"default:false" json:"reviewed"`
	ReviewerID     *uuid.UUID `gorm:"type:uuid" json:"reviewer_id,omitempty"`
	ReviewNote     string     `gorm:"type:text" json:"review_note,omitempty"`
	AdjustedScore  *float64   `gorm:"type:float" json:"adjusted_score,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// EffectiveScore combines the AI match rate with a clerk's adjusted score
// when a review exists. Scores are on a 0-1 scale.
func (a *Assessment) EffectiveScore() float64 {
	if a.Reviewed && a.AdjustedScore != nil {
		return (a.MatchRate + *a.AdjustedScore) / 2
	}
	return a.MatchRate
}

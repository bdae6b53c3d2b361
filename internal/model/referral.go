package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReferralPending   = "pending"
	ReferralConverted = "converted"
	ReferralRedeemed  = "redeemed"
)

// CommissionRate is the affiliate share of a converted payment.
const CommissionRate = 0.20

type Referral struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AffiliateID uuid.UUID  `gorm:"type:uuid;index;not null" json:"affiliate_id"`
	ReferredID  uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"referred_id"`
	Status      string     `gorm:"type:varchar(20)" json:"status"`
	Commission  int64      `json:"commission"` // earned amount in cents
	ConvertedAt *time.Time `json:"converted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CommissionFor returns the commission in cents earned on a paid amount.
func CommissionFor(amount int64) int64 {
	return int64(float64(amount) * CommissionRate)
}

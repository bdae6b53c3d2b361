package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentExpired = "expired"
)

type Payment struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	AssessmentID uuid.UUID  `gorm:"type:uuid;index;not null" json:"assessment_id"`
	Amount       int64      `json:"amount"` // snapshot of the tier price in cents
	Tier         string     `gorm:"type:varchar(20)" json:"tier"`
	Status       string     `gorm:"type:varchar(20)" json:"status"`
	Method       string     `gorm:"type:varchar(20)" json:"method"` // manual | transfer | dummy
	PaidAt       *time.Time `json:"paid_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

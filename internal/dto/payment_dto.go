package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePaymentRequest struct {
	AssessmentID string `json:"assessment_id" validate:"required,uuid"`
	Method       string `json:"method" validate:"required,oneof=manual transfer dummy"`
}

type PaymentDTO struct {
	ID           uuid.UUID  `json:"id"`
	AssessmentID uuid.UUID  `json:"assessment_id"`
	Amount       int64      `json:"amount"`
	Tier         string     `json:"tier"`
	Status       string     `json:"status"`
	Method       string     `json:"method"`
	PaidAt       *time.Time `json:"paid_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

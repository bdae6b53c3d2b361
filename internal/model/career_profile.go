package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type CareerProfile struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title       string          `json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Embedding   pgvector.Vector `gorm:"type:vector(3072)" json:"-"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (p *CareerProfile) TableName() string {
	return "career_profiles"
}

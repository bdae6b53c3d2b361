package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(255)" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"type:varchar(255);not null" json:"-"`
	IsAdmin      bool      `gorm:"default:false" json:"is_admin"`
	IsClerk      bool      `gorm:"default:false" json:"is_clerk"`
	IsAffiliate  bool      `gorm:"default:false" json:"is_affiliate"`
	Active       bool      `gorm:"default:true" json:"active"`
	ReferralCode string    `gorm:"type:varchar(32);uniqueIndex" json:"referral_code,omitempty"`
	ReferredBy   string    `gorm:"type:varchar(32)" json:"referred_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

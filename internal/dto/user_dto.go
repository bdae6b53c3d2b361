package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	ReferralCode string `json:"referral_code,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	IsAdmin      bool      `json:"is_admin"`
	IsClerk      bool      `json:"is_clerk"`
	IsAffiliate  bool      `json:"is_affiliate"`
	Active       bool      `json:"active"`
	ReferralCode string    `json:"referral_code,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type UpdateRolesRequest struct {
	IsAdmin     *bool `json:"is_admin,omitempty"`
	IsClerk     *bool `json:"is_clerk,omitempty"`
	IsAffiliate *bool `json:"is_affiliate,omitempty"`
	Active      *bool `json:"active,omitempty"`
}

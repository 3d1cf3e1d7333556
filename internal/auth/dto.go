package auth

import (
	"time"

	"github.com/velora-app/velora-backend/internal/users"
)

// LoginRequest carries user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse is returned whenever a request establishes a session:
// login and email verification both hand back the user plus a fresh JWT.
type SessionResponse struct {
	User  *users.UserDTO `json:"user"`
	Token string         `json:"token"`
}

// RegisterEscortRequest is the payload for an escort signup.
type RegisterEscortRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"required,min=5,max=30"`
	City     string `json:"city" validate:"required,min=2,max=100"`
	Age      int    `json:"age" validate:"required,gte=18,lte=99"`
}

// RegisterMemberRequest is the payload for a member signup.
type RegisterMemberRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	City     string `json:"city" validate:"required,min=2,max=100"`
}

// RegisterAgencyRequest is the payload for an agency signup.
type RegisterAgencyRequest struct {
	AgencyName string  `json:"agency_name" validate:"required,min=2,max=150"`
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=6"`
	Phone      string  `json:"phone" validate:"required,min=5,max=30"`
	City       string  `json:"city" validate:"required,min=2,max=100"`
	Website    *string `json:"website,omitempty" validate:"omitempty,url"`
}

// RegisterClubRequest is the payload for a club signup.
type RegisterClubRequest struct {
	ClubName     string  `json:"club_name" validate:"required,min=2,max=150"`
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=6"`
	Phone        string  `json:"phone" validate:"required,min=5,max=30"`
	Address      string  `json:"address" validate:"required,min=5,max=250"`
	City         string  `json:"city" validate:"required,min=2,max=100"`
	Website      *string `json:"website,omitempty" validate:"omitempty,url"`
	OpeningHours *string `json:"opening_hours,omitempty" validate:"omitempty,max=250"`
}

// RegisterResponse acknowledges a signup. It never carries a session
// token: the account has to verify its email first.
type RegisterResponse struct {
	Email string `json:"email"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// ValidateResetTokenResponse reports that a reset token is still usable.
type ValidateResetTokenResponse struct {
	Valid bool `json:"valid"`
}

// SoftDeleteResponse echoes when the account was deactivated.
type SoftDeleteResponse struct {
	SoftDeletedAt time.Time `json:"soft_deleted_at"`
}

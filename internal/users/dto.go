package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/velora-app/velora-backend/pkg/db/models"
	"github.com/velora-app/velora-backend/pkg/enums"
)

// UserDTO is the transport shape that omits credentials and token state.
type UserDTO struct {
	ID            uuid.UUID      `json:"id"`
	Email         string         `json:"email"`
	UserType      enums.UserType `json:"user_type"`
	EmailVerified bool           `json:"email_verified"`
	IsActive      bool           `json:"is_active"`

	Name         *string `json:"name,omitempty"`
	Username     *string `json:"username,omitempty"`
	AgencyName   *string `json:"agency_name,omitempty"`
	ClubName     *string `json:"club_name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	City         *string `json:"city,omitempty"`
	Age          *int    `json:"age,omitempty"`
	Address      *string `json:"address,omitempty"`
	Website      *string `json:"website,omitempty"`
	OpeningHours *string `json:"opening_hours,omitempty"`

	PrivacyConsentAcceptedAt *time.Time `json:"privacy_consent_accepted_at,omitempty"`
	LastLoginAt              *time.Time `json:"last_login_at,omitempty"`
	CreatedAt                time.Time  `json:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email                    string
	PasswordHash             string
	UserType                 enums.UserType
	EmailVerificationToken   *string
	EmailVerificationExpires *time.Time

	Name         *string
	Username     *string
	AgencyName   *string
	ClubName     *string
	Phone        *string
	City         *string
	Age          *int
	Address      *string
	Website      *string
	OpeningHours *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:                       u.ID,
		Email:                    u.Email,
		UserType:                 u.UserType,
		EmailVerified:            u.EmailVerified,
		IsActive:                 u.IsActive,
		Name:                     u.Name,
		Username:                 u.Username,
		AgencyName:               u.AgencyName,
		ClubName:                 u.ClubName,
		Phone:                    u.Phone,
		City:                     u.City,
		Age:                      u.Age,
		Address:                  u.Address,
		Website:                  u.Website,
		OpeningHours:             u.OpeningHours,
		PrivacyConsentAcceptedAt: u.PrivacyConsentAcceptedAt,
		LastLoginAt:              u.LastLoginAt,
		CreatedAt:                u.CreatedAt,
		UpdatedAt:                u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		ID:                       uuid.New(),
		Email:                    c.Email,
		PasswordHash:             c.PasswordHash,
		UserType:                 c.UserType,
		IsActive:                 true,
		EmailVerificationToken:   c.EmailVerificationToken,
		EmailVerificationExpires: c.EmailVerificationExpires,
		Name:                     c.Name,
		Username:                 c.Username,
		AgencyName:               c.AgencyName,
		ClubName:                 c.ClubName,
		Phone:                    c.Phone,
		City:                     c.City,
		Age:                      c.Age,
		Address:                  c.Address,
		Website:                  c.Website,
		OpeningHours:             c.OpeningHours,
	}
}

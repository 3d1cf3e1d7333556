package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/velora-app/velora-backend/pkg/enums"
)

// User is the canonical identity entity. All four account variants live in
// one table; variant columns are nullable and validated at the boundary.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Email        string         `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	UserType     enums.UserType `gorm:"column:user_type;type:text;not null"`

	// TokenVersion invalidates every outstanding JWT when bumped.
	TokenVersion int `gorm:"column:token_version;not null;default:0"`

	IsActive      bool       `gorm:"column:is_active;not null;default:true"`
	SoftDeletedAt *time.Time `gorm:"column:soft_deleted_at"`

	EmailVerified             bool       `gorm:"column:email_verified;not null;default:false"`
	EmailVerificationToken    *string    `gorm:"column:email_verification_token"`
	EmailVerificationExpires  *time.Time `gorm:"column:email_verification_expires"`
	PasswordResetTokenHash    *string    `gorm:"column:password_reset_token_hash"`
	PasswordResetExpires      *time.Time `gorm:"column:password_reset_expires"`
	PasswordResetUsedAt       *time.Time `gorm:"column:password_reset_used_at"`
	PrivacyConsentAcceptedAt  *time.Time `gorm:"column:privacy_consent_accepted_at"`

	// Variant columns. Requirements per user_type:
	// escort: name, phone, city, age; member: username, city;
	// agency: agency_name, phone, city; club: club_name, phone, address, city.
	Name         *string `gorm:"column:name"`
	Username     *string `gorm:"column:username"`
	AgencyName   *string `gorm:"column:agency_name"`
	ClubName     *string `gorm:"column:club_name"`
	Phone        *string `gorm:"column:phone"`
	City         *string `gorm:"column:city"`
	Age          *int    `gorm:"column:age"`
	Address      *string `gorm:"column:address"`
	Website      *string `gorm:"column:website"`
	OpeningHours *string `gorm:"column:opening_hours"`

	LastLoginAt *time.Time `gorm:"column:last_login_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

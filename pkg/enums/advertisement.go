package enums

import "fmt"

// AdvertisementStatus tracks the visibility lifecycle of a listing.
type AdvertisementStatus string

const (
	AdStatusActive  AdvertisementStatus = "active"
	AdStatusHidden  AdvertisementStatus = "hidden"
	AdStatusPending AdvertisementStatus = "pending"
)

var validAdStatuses = []AdvertisementStatus{
	AdStatusActive,
	AdStatusHidden,
	AdStatusPending,
}

// String implements fmt.Stringer.
func (s AdvertisementStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known status.
func (s AdvertisementStatus) IsValid() bool {
	for _, candidate := range validAdStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// VerificationStatus tracks identity review for a listing.
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationSubmitted  VerificationStatus = "submitted"
	VerificationVerified   VerificationStatus = "verified"
)

// String implements fmt.Stringer.
func (s VerificationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known verification status.
func (s VerificationStatus) IsValid() bool {
	switch s {
	case VerificationUnverified, VerificationSubmitted, VerificationVerified:
		return true
	}
	return false
}

// ParseAdvertisementStatus converts raw input into an AdvertisementStatus.
func ParseAdvertisementStatus(value string) (AdvertisementStatus, error) {
	for _, candidate := range validAdStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid advertisement status %q", value)
}

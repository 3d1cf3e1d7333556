package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/velora-app/velora-backend/internal/users"
	"github.com/velora-app/velora-backend/pkg/db"
	"github.com/velora-app/velora-backend/pkg/enums"
	pkgerrors "github.com/velora-app/velora-backend/pkg/errors"
	"github.com/velora-app/velora-backend/pkg/security"
)

const emailTakenMessage = "email already registered"

// registration carries the variant-specific profile fields into the
// shared signup flow.
type registration struct {
	userType enums.UserType
	email    string
	password string
	display  string
	fill     func(dto *users.CreateUserDTO)
}

func (s *service) RegisterEscort(ctx context.Context, req RegisterEscortRequest) (*RegisterResponse, error) {
	name := strings.TrimSpace(req.Name)
	age := req.Age
	if age < 18 || age > 99 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "age must be between 18 and 99")
	}
	return s.register(ctx, registration{
		userType: enums.UserTypeEscort,
		email:    req.Email,
		password: req.Password,
		display:  name,
		fill: func(dto *users.CreateUserDTO) {
			dto.Name = &name
			dto.Phone = strPtr(req.Phone)
			dto.City = strPtr(req.City)
			dto.Age = &age
		},
	})
}

func (s *service) RegisterMember(ctx context.Context, req RegisterMemberRequest) (*RegisterResponse, error) {
	username := strings.TrimSpace(req.Username)
	return s.register(ctx, registration{
		userType: enums.UserTypeMember,
		email:    req.Email,
		password: req.Password,
		display:  username,
		fill: func(dto *users.CreateUserDTO) {
			dto.Username = &username
			dto.City = strPtr(req.City)
		},
	})
}

func (s *service) RegisterAgency(ctx context.Context, req RegisterAgencyRequest) (*RegisterResponse, error) {
	agencyName := strings.TrimSpace(req.AgencyName)
	return s.register(ctx, registration{
		userType: enums.UserTypeAgency,
		email:    req.Email,
		password: req.Password,
		display:  agencyName,
		fill: func(dto *users.CreateUserDTO) {
			dto.AgencyName = &agencyName
			dto.Phone = strPtr(req.Phone)
			dto.City = strPtr(req.City)
			dto.Website = req.Website
		},
	})
}

func (s *service) RegisterClub(ctx context.Context, req RegisterClubRequest) (*RegisterResponse, error) {
	clubName := strings.TrimSpace(req.ClubName)
	return s.register(ctx, registration{
		userType: enums.UserTypeClub,
		email:    req.Email,
		password: req.Password,
		display:  clubName,
		fill: func(dto *users.CreateUserDTO) {
			dto.ClubName = &clubName
			dto.Phone = strPtr(req.Phone)
			dto.Address = strPtr(req.Address)
			dto.City = strPtr(req.City)
			dto.Website = req.Website
			dto.OpeningHours = req.OpeningHours
		},
	})
}

// register is the shared signup flow behind all four account variants.
// The unique index on users.email remains the source of truth for
// duplicates; the proactive lookup just produces a friendlier error in
// the common case.
func (s *service) register(ctx context.Context, reg registration) (*RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(reg.email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(reg.password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 6 characters")
	}

	passwordHash, err := security.HashPassword(reg.password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, emailTakenMessage)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
	}

	token := security.NewVerificationToken()
	expires := s.now().UTC().Add(verificationTokenTTL)
	dto := users.CreateUserDTO{
		Email:                    email,
		PasswordHash:             passwordHash,
		UserType:                 reg.userType,
		EmailVerificationToken:   &token,
		EmailVerificationExpires: &expires,
	}
	if reg.fill != nil {
		reg.fill(&dto)
	}

	user, err := s.users.Create(ctx, dto)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_users_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, emailTakenMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	display := reg.display
	if display == "" {
		display = user.Email
	}
	s.dispatch(ctx, "verification_email", func(ctx context.Context) error {
		return s.notifier.SendVerificationEmail(ctx, user.Email, display, token)
	})

	return &RegisterResponse{Email: user.Email}, nil
}

func strPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

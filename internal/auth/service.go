package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velora-app/velora-backend/internal/users"
	pkgAuth "github.com/velora-app/velora-backend/pkg/auth"
	"github.com/velora-app/velora-backend/pkg/config"
	"github.com/velora-app/velora-backend/pkg/db/models"
	pkgerrors "github.com/velora-app/velora-backend/pkg/errors"
	"github.com/velora-app/velora-backend/pkg/logger"
	"github.com/velora-app/velora-backend/pkg/security"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	verifyFirstMessage        = "please verify your email before logging in"

	verificationTokenTTL = 24 * time.Hour
	resetTokenTTL        = 30 * time.Minute
	minPasswordLength    = 6
)

// Service defines the behavior needed by the auth controllers.
type Service interface {
	RegisterEscort(ctx context.Context, req RegisterEscortRequest) (*RegisterResponse, error)
	RegisterMember(ctx context.Context, req RegisterMemberRequest) (*RegisterResponse, error)
	RegisterAgency(ctx context.Context, req RegisterAgencyRequest) (*RegisterResponse, error)
	RegisterClub(ctx context.Context, req RegisterClubRequest) (*RegisterResponse, error)

	Login(ctx context.Context, req LoginRequest) (*SessionResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
	AcceptPrivacyConsent(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
	SoftDelete(ctx context.Context, userID uuid.UUID) (*SoftDeleteResponse, error)

	VerifyEmail(ctx context.Context, token string) (*SessionResponse, error)
	ResendVerification(ctx context.Context, email string) error

	ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error
	ForgotPassword(ctx context.Context, email string) error
	ValidateResetToken(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*models.User, error)
	FindByResetTokenHash(ctx context.Context, hash string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
	SetVerificationToken(ctx context.Context, id uuid.UUID, token string, expires time.Time) error
	SetResetToken(ctx context.Context, id uuid.UUID, hash string, expires time.Time) error
	ChangePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	ConsumeResetToken(ctx context.Context, hash, passwordHash string, now time.Time) (bool, error)
	SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	AcceptPrivacyConsent(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Notifier delivers lifecycle emails. Implementations must be safe for
// concurrent use; the service calls them from detached goroutines.
type Notifier interface {
	SendVerificationEmail(ctx context.Context, to, displayName, token string) error
	SendWelcomeEmail(ctx context.Context, to, displayName string) error
	SendPasswordResetEmail(ctx context.Context, to, displayName, token string) error
}

// AdvertisementHider pulls a deactivated user's listings out of public
// search results.
type AdvertisementHider interface {
	HideOwnedBy(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	users       userRepository
	notifier    Notifier
	ads         AdvertisementHider
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
	now         func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	Notifier       Notifier
	Advertisements AdvertisementHider
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger

	// Now overrides the clock in tests. Defaults to time.Now.
	Now func() time.Time
}

// NewService constructs the credential and session lifecycle service.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	if params.JWTConfig.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:       params.UserRepo,
		notifier:    params.Notifier,
		ads:         params.Advertisements,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		logg:        params.Logger,
		now:         now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*SessionResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if !user.EmailVerified {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, verifyFirstMessage)
	}

	now, err := s.recordLogin(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.mintToken(user, now)
	if err != nil {
		return nil, err
	}
	return &SessionResponse{User: users.FromModel(user), Token: token}, nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return users.FromModel(user), nil
}

func (s *service) AcceptPrivacyConsent(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	now := s.now().UTC()
	if err := s.users.AcceptPrivacyConsent(ctx, userID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record privacy consent")
	}
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return users.FromModel(user), nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := strings.TrimSpace(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *service) recordLogin(ctx context.Context, user *models.User) (time.Time, error) {
	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now
	return now, nil
}

func (s *service) mintToken(user *models.User, now time.Time) (string, error) {
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID:       user.ID,
		Email:        user.Email,
		UserType:     user.UserType,
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return token, nil
}

func (s *service) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return user, nil
}

// dispatch runs fn on a detached context so email delivery outlives the
// request. Failures are logged and never surfaced to the caller.
func (s *service) dispatch(ctx context.Context, event string, fn func(context.Context) error) {
	detached := context.WithoutCancel(ctx)
	go func() {
		if err := fn(detached); err != nil && s.logg != nil {
			s.logg.Error(s.logg.WithField(detached, "event", event), "async delivery failed", err)
		}
	}()
}

func displayName(user *models.User) string {
	for _, candidate := range []*string{user.Name, user.Username, user.AgencyName, user.ClubName} {
		if candidate != nil && *candidate != "" {
			return *candidate
		}
	}
	return user.Email
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"farmlink/internal/auth"
	apperrors "farmlink/internal/errors"
	"farmlink/internal/model"
	"farmlink/internal/notify"
	"farmlink/internal/repository"
)

// AuthService handles registration, login, account settings and the password
// reset flow.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	// Login accepts a username or an email as identifier and returns a
	// signed 24h token on success. Unknown identifier and wrong password
	// produce the identical error.
	Login(ctx context.Context, identifier, password string) (token string, user *model.User, err error)
	Me(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateSettings(ctx context.Context, userID uuid.UUID, currentPassword, newEmail, newPassword string) (*model.User, error)
	// RequestPasswordReset reports success whether or not the email exists.
	RequestPasswordReset(ctx context.Context, email string) error
	// CompletePasswordReset consumes a single-use reset token and returns a
	// fresh login token for auto-login.
	CompletePasswordReset(ctx context.Context, rawToken, newPassword string) (token string, err error)
}

type authService struct {
	users    repository.UserRepository
	jwt      *auth.JWTService
	hasher   *auth.Hasher
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, jwt *auth.JWTService, hasher *auth.Hasher, notifier notify.Notifier, logger *zap.Logger) AuthService {
	return &authService{
		users:    users,
		jwt:      jwt,
		hasher:   hasher,
		notifier: notifier,
		logger:   logger,
	}
}

// Register creates a new plain-user account with a hashed password.
func (s *authService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, apperrors.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: digest,
		Role:         model.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and issues a token carrying the user's id and
// current role. The role claim is a snapshot; a promotion after login shows
// up only on re-login.
func (s *authService) Login(ctx context.Context, identifier, password string) (string, *model.User, error) {
	user, err := s.users.FindByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwt.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// Me returns the caller's own account record.
func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// UpdateSettings changes email and/or password after re-verifying the
// current password.
func (s *authService) UpdateSettings(ctx context.Context, userID uuid.UUID, currentPassword, newEmail, newPassword string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, currentPassword) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if newEmail != "" && newEmail != user.Email {
		if _, err := s.users.FindByEmail(ctx, newEmail); err == nil {
			return nil, apperrors.ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("check email: %w", err)
		}
		user.Email = newEmail
	}
	if newPassword != "" {
		digest, err := s.hasher.Hash(newPassword)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = digest
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// RequestPasswordReset generates a short-lived single-use reset token and
// hands it to the notifier. Whether the email exists is never revealed to
// the caller.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Enumeration resistance: report success either way.
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}

	raw, digest, err := auth.NewResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	expiry := time.Now().Add(model.ResetTokenValidity)
	user.ResetTokenHash = digest
	user.ResetTokenExpiry = &expiry
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	// Fire-and-forget; delivery failure never changes the outcome.
	s.notifier.PublishPasswordReset(ctx, notify.PasswordResetEvent{
		Email:      user.Email,
		Username:   user.Username,
		ResetToken: raw,
		ExpiresAt:  expiry,
	})
	s.logger.Info("password reset requested", zap.String("user_id", user.ID.String()))
	return nil
}

// CompletePasswordReset replaces the password if the token matches, has not
// been consumed, and has not expired. The token is invalidated either way on
// success, so a second attempt with the same token fails.
func (s *authService) CompletePasswordReset(ctx context.Context, rawToken, newPassword string) (string, error) {
	user, err := s.users.FindByResetTokenHash(ctx, auth.HashResetToken(rawToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrInvalidResetToken
		}
		return "", fmt.Errorf("find reset token: %w", err)
	}

	if user.ResetTokenExpiry == nil || time.Now().After(*user.ResetTokenExpiry) {
		return "", apperrors.ErrInvalidResetToken
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = digest
	user.ResetTokenHash = ""
	user.ResetTokenExpiry = nil
	if err := s.users.Update(ctx, user); err != nil {
		return "", fmt.Errorf("update user: %w", err)
	}

	token, err := s.jwt.Issue(user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

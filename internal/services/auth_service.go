package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openlearn/campus-api/internal/models"
	"github.com/openlearn/campus-api/pkg/auth"
)

// SessionRepository defines the interface for login session persistence
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) (*models.Session, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

// TokenIssuer issues and validates access tokens
type TokenIssuer interface {
	GenerateAccessToken(user *models.User) (string, error)
	AccessTokenExpiry() time.Duration
}

// UserSummary is the user payload returned alongside tokens at login.
type UserSummary struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	Status    string `json:"status"`
}

// LoginResult carries the issued tokens and the authenticated user.
type LoginResult struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    string      `json:"expires_in"`
	User         UserSummary `json:"user"`
}

// AuthService handles login and the password reset flow.
type AuthService struct {
	userRepo            UserRepository
	sessionRepo         SessionRepository
	tokens              TokenIssuer
	notifier            Notifier
	refreshTokenTTL     time.Duration
	passwordResetExpiry time.Duration
	logger              *slog.Logger
}

func NewAuthService(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	tokens TokenIssuer,
	notifier Notifier,
	refreshTokenTTL time.Duration,
	passwordResetExpiry time.Duration,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:            userRepo,
		sessionRepo:         sessionRepo,
		tokens:              tokens,
		notifier:            notifier,
		refreshTokenTTL:     refreshTokenTTL,
		passwordResetExpiry: passwordResetExpiry,
		logger:              logger,
	}
}

// Login authenticates a user and issues an access token plus an opaque
// refresh token. A login session is recorded for the refresh token so it
// can be expired server-side.
func (s *AuthService) Login(ctx context.Context, email, password, userAgent, ipAddress string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Unknown emails surface as not-found rather than a credentials
		// error. Kept for client compatibility despite the account
		// enumeration it allows.
		return nil, err
	}

	if err := auth.ComparePassword(user.HashedPassword, password); err != nil {
		s.logger.Warn("login failed", slog.String("user_id", user.ID))
		return nil, models.ErrInvalidCredentials
	}

	if !user.EmailVerified {
		return nil, models.ErrEmailNotVerified
	}

	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := auth.RandomToken(auth.TokenByteLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	session := &models.Session{
		UserID:       user.ID,
		RefreshToken: refreshToken,
		UserAgent:    userAgent,
		IPAddress:    ipAddress,
		ExpiresAt:    time.Now().Add(s.refreshTokenTTL),
	}
	if _, err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Error("failed to record last login",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
	}

	s.logger.Info("login succeeded", slog.String("user_id", user.ID))

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    formatExpiry(s.tokens.AccessTokenExpiry()),
		User: UserSummary{
			ID:        user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Role:      user.Role,
			Status:    user.Status,
		},
	}, nil
}

// RequestPasswordReset stores a reset token and emails it to the account.
// Unknown emails return nil so the endpoint's response never reveals
// whether an address is registered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return err
	}

	token, err := auth.RandomToken(auth.TokenByteLength)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	expires := time.Now().Add(s.passwordResetExpiry)
	if err := s.userRepo.SetPasswordResetToken(ctx, user.ID, token, expires); err != nil {
		return err
	}

	s.logger.Info("password reset requested", slog.String("user_id", user.ID))

	if err := s.notifier.SendPasswordResetEmail(ctx, user.Email, token, user.FirstName); err != nil {
		s.logger.Error("password reset email failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
	}

	return nil
}

// ResetPassword sets a new password using the emailed reset token. The
// stored token and expiry are cleared on success.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return fmt.Errorf("%w: reset token is required", models.ErrValidation)
	}

	user, err := s.userRepo.GetByPasswordResetToken(ctx, token)
	if err != nil {
		return err
	}

	if !user.HasActiveResetToken(time.Now()) {
		return models.ErrTokenExpired
	}

	if err := auth.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %s", models.ErrValidation, err.Error())
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return err
	}

	s.logger.Info("password reset", slog.String("user_id", user.ID))
	return nil
}

// formatExpiry renders durations the way clients expect, e.g. "15m".
func formatExpiry(d time.Duration) string {
	if d%time.Hour == 0 {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	if d%time.Minute == 0 {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return d.String()
}

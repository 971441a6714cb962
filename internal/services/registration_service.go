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

// RegisterInput carries the fields accepted at signup.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
	Phone     *string
	Bio       *string
}

// RegisterResult reports the outcome of a registration. EmailSent is false
// when the account was created but the verification email could not be
// delivered; callers surface that as a degraded success.
type RegisterResult struct {
	User      *models.User
	EmailSent bool
}

// RegistrationService handles account signup and email verification.
type RegistrationService struct {
	userRepo                UserRepository
	notifier                Notifier
	verificationTokenExpiry time.Duration
	logger                  *slog.Logger
}

func NewRegistrationService(userRepo UserRepository, notifier Notifier, verificationTokenExpiry time.Duration, logger *slog.Logger) *RegistrationService {
	return &RegistrationService{
		userRepo:                userRepo,
		notifier:                notifier,
		verificationTokenExpiry: verificationTokenExpiry,
		logger:                  logger,
	}
}

// Register creates an unverified account and sends the verification email.
// The account is created even when the email fails to send; the result's
// EmailSent flag tells the caller which happened.
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	// Pre-check for a friendlier error. The store's unique index remains
	// the final authority under concurrent signups.
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, models.ErrConflict
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	if err := auth.ValidatePassword(input.Password); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrValidation, err.Error())
	}

	hashedPassword, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	token, err := auth.RandomToken(auth.TokenByteLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}

	role := input.Role
	if role == "" {
		role = models.RoleStudent
	}
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("%w: invalid role %q", models.ErrValidation, role)
	}

	expires := time.Now().Add(s.verificationTokenExpiry)

	user := &models.User{
		Email:                    email,
		HashedPassword:           hashedPassword,
		FirstName:                input.FirstName,
		LastName:                 input.LastName,
		Role:                     role,
		Status:                   models.StatusPending,
		EmailVerified:            false,
		Phone:                    input.Phone,
		Bio:                      input.Bio,
		EmailVerificationToken:   &token,
		EmailVerificationExpires: &expires,
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("user_id", created.ID),
		slog.String("role", created.Role))

	emailSent := true
	if err := s.notifier.SendVerificationEmail(ctx, created.Email, token, created.FirstName); err != nil {
		// The account stands. The user can request a fresh email later.
		emailSent = false
		s.logger.Error("verification email failed after registration",
			slog.String("user_id", created.ID),
			slog.Any("error", err))
	}

	return &RegisterResult{User: created, EmailSent: emailSent}, nil
}

// VerifyEmail confirms ownership of an email address via the emailed token.
// Verifying an already-verified account with its original token succeeds
// without further effect.
func (s *RegistrationService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("%w: verification token is required", models.ErrValidation)
	}

	user, err := s.userRepo.GetByVerificationToken(ctx, token)
	if err != nil {
		return err
	}

	// The token is kept after verification so a repeated click on the
	// emailed link lands here instead of a not-found.
	if user.EmailVerified {
		return nil
	}

	if user.EmailVerificationExpires != nil && time.Now().After(*user.EmailVerificationExpires) {
		return models.ErrTokenExpired
	}

	if err := s.userRepo.VerifyEmail(ctx, user.ID); err != nil {
		return err
	}

	s.logger.Info("email verified", slog.String("user_id", user.ID))

	if err := s.notifier.SendWelcomeEmail(ctx, user.Email, user.FirstName); err != nil {
		s.logger.Error("welcome email failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
	}

	return nil
}

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

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id string, upd *models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter models.UserFilter) ([]*models.User, error)
	ListByRole(ctx context.Context, role string) ([]*models.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*models.User, error)
	GetByPasswordResetToken(ctx context.Context, token string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, hashedPassword string) error
	VerifyEmail(ctx context.Context, id string) error
	SetPasswordResetToken(ctx context.Context, id, token string, expires time.Time) error
	UpdateRefreshToken(ctx context.Context, id string, token *string) error
	UpdateLastLogin(ctx context.Context, id string) error
}

// UserService handles user account management
type UserService struct {
	userRepo    UserRepository
	sessionRepo SessionRepository
	logger      *slog.Logger
}

func NewUserService(userRepo UserRepository, sessionRepo SessionRepository, logger *slog.Logger) *UserService {
	return &UserService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// CreateUser creates an account directly, without the signup email flow.
// The account starts pending and unverified, same as a self-registration.
func (s *UserService) CreateUser(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

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

	role := input.Role
	if role == "" {
		role = models.RoleStudent
	}
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("%w: invalid role %q", models.ErrValidation, role)
	}

	user := &models.User{
		Email:          email,
		HashedPassword: hashedPassword,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Role:           role,
		Status:         models.StatusPending,
		EmailVerified:  false,
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		slog.String("user_id", created.ID),
		slog.String("role", created.Role))

	return created, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	if filter.Role != "" && !models.ValidRole(filter.Role) {
		return nil, fmt.Errorf("%w: invalid role %q", models.ErrValidation, filter.Role)
	}
	return s.userRepo.List(ctx, filter)
}

func (s *UserService) ListByRole(ctx context.Context, role string) ([]*models.User, error) {
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("%w: invalid role %q", models.ErrValidation, role)
	}
	return s.userRepo.ListByRole(ctx, role)
}

// Update applies a partial update to a user's profile.
func (s *UserService) Update(ctx context.Context, id string, upd *models.UserUpdate) (*models.User, error) {
	if upd.Role != nil && !models.ValidRole(*upd.Role) {
		return nil, fmt.Errorf("%w: invalid role %q", models.ErrValidation, *upd.Role)
	}
	if upd.Status != nil && !models.ValidStatus(*upd.Status) {
		return nil, fmt.Errorf("%w: invalid status %q", models.ErrValidation, *upd.Status)
	}

	updated, err := s.userRepo.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user updated", slog.String("user_id", id))
	return updated, nil
}

// ChangePassword verifies the current password before setting a new one.
func (s *UserService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := auth.ComparePassword(user.HashedPassword, currentPassword); err != nil {
		return models.ErrInvalidCredentials
	}

	if currentPassword == newPassword {
		return fmt.Errorf("%w: new password must differ from the current password", models.ErrValidation)
	}

	if err := auth.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %s", models.ErrValidation, err.Error())
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, id, hashedPassword); err != nil {
		return err
	}

	s.logger.Info("password changed", slog.String("user_id", id))
	return nil
}

// Delete removes the user and their login sessions.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.sessionRepo.DeleteByUserID(ctx, id); err != nil {
		// The account is gone; orphan sessions expire via TTL anyway.
		s.logger.Error("failed to delete sessions for removed user",
			slog.String("user_id", id),
			slog.Any("error", err))
	}

	s.logger.Info("user deleted", slog.String("user_id", id))
	return nil
}

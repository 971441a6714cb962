package services

import (
	"context"
	"time"

	"github.com/openlearn/campus-api/internal/models"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc                 func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc              func(ctx context.Context, email string) (*models.User, error)
	CreateFunc                  func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateFunc                  func(ctx context.Context, id string, upd *models.UserUpdate) (*models.User, error)
	DeleteFunc                  func(ctx context.Context, id string) error
	ListFunc                    func(ctx context.Context, filter models.UserFilter) ([]*models.User, error)
	ListByRoleFunc              func(ctx context.Context, role string) ([]*models.User, error)
	GetByVerificationTokenFunc  func(ctx context.Context, token string) (*models.User, error)
	GetByPasswordResetTokenFunc func(ctx context.Context, token string) (*models.User, error)
	UpdatePasswordFunc          func(ctx context.Context, id, hashedPassword string) error
	VerifyEmailFunc             func(ctx context.Context, id string) error
	SetPasswordResetTokenFunc   func(ctx context.Context, id, token string, expires time.Time) error
	UpdateRefreshTokenFunc      func(ctx context.Context, id string, token *string) error
	UpdateLastLoginFunc         func(ctx context.Context, id string) error
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Update(ctx context.Context, id string, upd *models.UserUpdate) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, upd)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockUserRepository) List(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) ListByRole(ctx context.Context, role string) ([]*models.User, error) {
	if m.ListByRoleFunc != nil {
		return m.ListByRoleFunc(ctx, role)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	if m.GetByVerificationTokenFunc != nil {
		return m.GetByVerificationTokenFunc(ctx, token)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByPasswordResetToken(ctx context.Context, token string) (*models.User, error) {
	if m.GetByPasswordResetTokenFunc != nil {
		return m.GetByPasswordResetTokenFunc(ctx, token)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, hashedPassword string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, hashedPassword)
	}
	return nil
}

func (m *MockUserRepository) VerifyEmail(ctx context.Context, id string) error {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(ctx, id)
	}
	return nil
}

func (m *MockUserRepository) SetPasswordResetToken(ctx context.Context, id, token string, expires time.Time) error {
	if m.SetPasswordResetTokenFunc != nil {
		return m.SetPasswordResetTokenFunc(ctx, id, token, expires)
	}
	return nil
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, id string, token *string) error {
	if m.UpdateRefreshTokenFunc != nil {
		return m.UpdateRefreshTokenFunc(ctx, id, token)
	}
	return nil
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	if m.UpdateLastLoginFunc != nil {
		return m.UpdateLastLoginFunc(ctx, id)
	}
	return nil
}

// MockSessionRepository implements SessionRepository for testing
type MockSessionRepository struct {
	CreateFunc         func(ctx context.Context, session *models.Session) (*models.Session, error)
	DeleteByUserIDFunc func(ctx context.Context, userID string) error
}

func (m *MockSessionRepository) Create(ctx context.Context, session *models.Session) (*models.Session, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	if session.ID == "" {
		session.ID = "session_123"
	}
	return session, nil
}

func (m *MockSessionRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if m.DeleteByUserIDFunc != nil {
		return m.DeleteByUserIDFunc(ctx, userID)
	}
	return nil
}

// MockNotifier implements Notifier for testing
type MockNotifier struct {
	SendVerificationEmailFunc  func(ctx context.Context, email, token, firstName string) error
	SendPasswordResetEmailFunc func(ctx context.Context, email, token, firstName string) error
	SendWelcomeEmailFunc       func(ctx context.Context, email, firstName string) error
}

func (m *MockNotifier) SendVerificationEmail(ctx context.Context, email, token, firstName string) error {
	if m.SendVerificationEmailFunc != nil {
		return m.SendVerificationEmailFunc(ctx, email, token, firstName)
	}
	return nil
}

func (m *MockNotifier) SendPasswordResetEmail(ctx context.Context, email, token, firstName string) error {
	if m.SendPasswordResetEmailFunc != nil {
		return m.SendPasswordResetEmailFunc(ctx, email, token, firstName)
	}
	return nil
}

func (m *MockNotifier) SendWelcomeEmail(ctx context.Context, email, firstName string) error {
	if m.SendWelcomeEmailFunc != nil {
		return m.SendWelcomeEmailFunc(ctx, email, firstName)
	}
	return nil
}

// MockTokenIssuer implements TokenIssuer for testing
type MockTokenIssuer struct {
	GenerateAccessTokenFunc func(user *models.User) (string, error)
	AccessTokenExpiryFunc   func() time.Duration
}

func (m *MockTokenIssuer) GenerateAccessToken(user *models.User) (string, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(user)
	}
	return "test_access_token", nil
}

func (m *MockTokenIssuer) AccessTokenExpiry() time.Duration {
	if m.AccessTokenExpiryFunc != nil {
		return m.AccessTokenExpiryFunc()
	}
	return 15 * time.Minute
}

// NewTestUser creates a verified, active user for tests
func NewTestUser(id, email, firstName string) *models.User {
	now := time.Now()
	return &models.User{
		ID:            id,
		Email:         email,
		FirstName:     firstName,
		LastName:      "Doe",
		Role:          models.RoleStudent,
		Status:        models.StatusActive,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func NewTestUserWithPassword(id, email, firstName, passwordHash string) *models.User {
	user := NewTestUser(id, email, firstName)
	user.HashedPassword = passwordHash
	return user
}

func NewTestUserUnverified(id, email, firstName, token string) *models.User {
	user := NewTestUser(id, email, firstName)
	user.EmailVerified = false
	user.Status = models.StatusPending
	expires := time.Now().Add(24 * time.Hour)
	user.EmailVerificationToken = &token
	user.EmailVerificationExpires = &expires
	return user
}

func NewTestUserWithRole(id, email, firstName, role string) *models.User {
	user := NewTestUser(id, email, firstName)
	user.Role = role
	return user
}

func NewTestUserWithResetToken(id, email, firstName, token string, expires time.Time) *models.User {
	user := NewTestUser(id, email, firstName)
	user.PasswordResetToken = &token
	user.PasswordResetExpires = &expires
	return user
}

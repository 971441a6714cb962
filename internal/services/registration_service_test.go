package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/openlearn/campus-api/internal/models"
	"github.com/openlearn/campus-api/pkg/auth"
	"github.com/stretchr/testify/assert"
)

const testPassword = "Str0ng!Pass"

func newRegistrationService(userRepo UserRepository, notifier Notifier) *RegistrationService {
	return NewRegistrationService(userRepo, notifier, 24*time.Hour, slog.Default())
}

func TestRegistrationService_Register_Success(t *testing.T) {
	var created *models.User
	var sentToken string

	mockUserRepo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			user.ID = "user123"
			created = user
			return user, nil
		},
	}
	mockNotifier := &MockNotifier{
		SendVerificationEmailFunc: func(ctx context.Context, email, token, firstName string) error {
			sentToken = token
			return nil
		},
	}

	svc := newRegistrationService(mockUserRepo, mockNotifier)

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:     "New.Student@Example.com",
		Password:  testPassword,
		FirstName: "New",
		LastName:  "Student",
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.True(t, result.EmailSent)
	assert.Equal(t, "new.student@example.com", created.Email)
	assert.Equal(t, models.RoleStudent, created.Role)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.False(t, created.EmailVerified)
	assert.NotNil(t, created.EmailVerificationToken)
	assert.Equal(t, *created.EmailVerificationToken, sentToken)
	// Raw password never stored; digest verifies against the original.
	assert.NotEqual(t, testPassword, created.HashedPassword)
	assert.NoError(t, auth.ComparePassword(created.HashedPassword, testPassword))
}

func TestRegistrationService_Register_DuplicateEmail(t *testing.T) {
	existing := NewTestUser("user123", "taken@example.com", "Existing")

	mockUserRepo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return existing, nil
		},
	}

	svc := newRegistrationService(mockUserRepo, &MockNotifier{})

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:     "taken@example.com",
		Password:  testPassword,
		FirstName: "New",
		LastName:  "Student",
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestRegistrationService_Register_DuplicateRaceAtStore(t *testing.T) {
	mockUserRepo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			return nil, models.ErrConflict
		},
	}

	svc := newRegistrationService(mockUserRepo, &MockNotifier{})

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:     "raced@example.com",
		Password:  testPassword,
		FirstName: "New",
		LastName:  "Student",
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestRegistrationService_Register_WeakPassword(t *testing.T) {
	mockUserRepo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
	}

	svc := newRegistrationService(mockUserRepo, &MockNotifier{})

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:     "new@example.com",
		Password:  "alllowercase",
		FirstName: "New",
		LastName:  "Student",
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRegistrationService_Register_InvalidRole(t *testing.T) {
	mockUserRepo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
	}

	svc := newRegistrationService(mockUserRepo, &MockNotifier{})

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:     "new@example.com",
		Password:  testPassword,
		FirstName: "New",
		LastName:  "Student",
		Role:      "superuser",
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRegistrationService_Register_EmailFailureDegradedSuccess(t *testing.T) {
	mockUserRepo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			user.ID = "user123"
			return user, nil
		},
	}
	mockNotifier := &MockNotifier{
		SendVerificationEmailFunc: func(ctx context.Context, email, token, firstName string) error {
			return errors.New("ses unavailable")
		},
	}

	svc := newRegistrationService(mockUserRepo, mockNotifier)

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:     "new@example.com",
		Password:  testPassword,
		FirstName: "New",
		LastName:  "Student",
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.False(t, result.EmailSent)
	assert.Equal(t, "user123", result.User.ID)
}

func TestRegistrationService_VerifyEmail_Success(t *testing.T) {
	user := NewTestUserUnverified("user123", "new@example.com", "New", "tok_abc")
	verified := false
	welcomed := false

	mockUserRepo := &MockUserRepository{
		GetByVerificationTokenFunc: func(ctx context.Context, token string) (*models.User, error) {
			if token == "tok_abc" {
				return user, nil
			}
			return nil, models.ErrNotFound
		},
		VerifyEmailFunc: func(ctx context.Context, id string) error {
			verified = true
			return nil
		},
	}
	mockNotifier := &MockNotifier{
		SendWelcomeEmailFunc: func(ctx context.Context, email, firstName string) error {
			welcomed = true
			return nil
		},
	}

	svc := newRegistrationService(mockUserRepo, mockNotifier)

	err := svc.VerifyEmail(context.Background(), "tok_abc")

	assert.NoError(t, err)
	assert.True(t, verified)
	assert.True(t, welcomed)
}

func TestRegistrationService_VerifyEmail_EmptyToken(t *testing.T) {
	svc := newRegistrationService(&MockUserRepository{}, &MockNotifier{})

	err := svc.VerifyEmail(context.Background(), "")

	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRegistrationService_VerifyEmail_UnknownToken(t *testing.T) {
	mockUserRepo := &MockUserRepository{
		GetByVerificationTokenFunc: func(ctx context.Context, token string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
	}

	svc := newRegistrationService(mockUserRepo, &MockNotifier{})

	err := svc.VerifyEmail(context.Background(), "tok_unknown")

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRegistrationService_VerifyEmail_SecondCallIdempotent(t *testing.T) {
	user := NewTestUserUnverified("user123", "new@example.com", "New", "tok_abc")
	verifyCalls := 0

	mockUserRepo := &MockUserRepository{
		GetByVerificationTokenFunc: func(ctx context.Context, token string) (*models.User, error) {
			return user, nil
		},
		VerifyEmailFunc: func(ctx context.Context, id string) error {
			verifyCalls++
			user.EmailVerified = true
			user.Status = models.StatusActive
			return nil
		},
	}

	svc := newRegistrationService(mockUserRepo, &MockNotifier{})

	assert.NoError(t, svc.VerifyEmail(context.Background(), "tok_abc"))
	assert.NoError(t, svc.VerifyEmail(context.Background(), "tok_abc"))
	assert.Equal(t, 1, verifyCalls)
}

func TestRegistrationService_VerifyEmail_ExpiredToken(t *testing.T) {
	user := NewTestUserUnverified("user123", "new@example.com", "New", "tok_abc")
	expired := time.Now().Add(-time.Hour)
	user.EmailVerificationExpires = &expired

	mockUserRepo := &MockUserRepository{
		GetByVerificationTokenFunc: func(ctx context.Context, token string) (*models.User, error) {
			return user, nil
		},
	}

	svc := newRegistrationService(mockUserRepo, &MockNotifier{})

	err := svc.VerifyEmail(context.Background(), "tok_abc")

	assert.ErrorIs(t, err, models.ErrTokenExpired)
}

func TestRegistrationService_VerifyEmail_WelcomeEmailFailureIgnored(t *testing.T) {
	user := NewTestUserUnverified("user123", "new@example.com", "New", "tok_abc")

	mockUserRepo := &MockUserRepository{
		GetByVerificationTokenFunc: func(ctx context.Context, token string) (*models.User, error) {
			return user, nil
		},
	}
	mockNotifier := &MockNotifier{
		SendWelcomeEmailFunc: func(ctx context.Context, email, firstName string) error {
			return errors.New("ses unavailable")
		},
	}

	svc := newRegistrationService(mockUserRepo, mockNotifier)

	err := svc.VerifyEmail(context.Background(), "tok_abc")

	assert.NoError(t, err)
}

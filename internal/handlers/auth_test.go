package handlers_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/openlearn/campus-api/internal/handlers"
	"github.com/openlearn/campus-api/internal/models"
	"github.com/openlearn/campus-api/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestRegister_Success(t *testing.T) {
	mockRegistration := &handlers.MockRegistrationService{
		RegisterFunc: func(ctx context.Context, input services.RegisterInput) (*services.RegisterResult, error) {
			assert.Equal(t, "new@example.com", input.Email)
			return &services.RegisterResult{
				User:      &models.User{ID: "user123", Email: input.Email},
				EmailSent: true,
			}, nil
		},
	}

	handler := handlers.NewAuthHandler(mockRegistration, &handlers.MockAuthService{})
	req := handlers.NewTestRequest(t, "POST", "/auth/register", map[string]string{
		"email":           "new@example.com",
		"password":        "Str0ng!Pass",
		"confirmPassword": "Str0ng!Pass",
		"firstName":       "New",
		"lastName":        "Student",
	})

	w := httptest.NewRecorder()
	handler.Register(w, req)

	var resp handlers.RegisterResponse
	handlers.AssertJSONResponse(t, w, 201, &resp)
	assert.Equal(t, "user123", resp.UserID)
	assert.Contains(t, resp.Message, "check your email")
}

func TestRegister_EmailNotSent_StillCreated(t *testing.T) {
	mockRegistration := &handlers.MockRegistrationService{
		RegisterFunc: func(ctx context.Context, input services.RegisterInput) (*services.RegisterResult, error) {
			return &services.RegisterResult{
				User:      &models.User{ID: "user123", Email: input.Email},
				EmailSent: false,
			}, nil
		},
	}

	handler := handlers.NewAuthHandler(mockRegistration, &handlers.MockAuthService{})
	req := handlers.NewTestRequest(t, "POST", "/auth/register", map[string]string{
		"email":           "new@example.com",
		"password":        "Str0ng!Pass",
		"confirmPassword": "Str0ng!Pass",
		"firstName":       "New",
		"lastName":        "Student",
	})

	w := httptest.NewRecorder()
	handler.Register(w, req)

	var resp handlers.RegisterResponse
	handlers.AssertJSONResponse(t, w, 201, &resp)
	assert.Equal(t, "user123", resp.UserID)
	assert.Contains(t, resp.Message, "could not be sent")
}

func TestRegister_MissingFields(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockRegistrationService{}, &handlers.MockAuthService{})
	req := handlers.NewTestRequest(t, "POST", "/auth/register", map[string]string{
		"email": "new@example.com",
	})

	w := httptest.NewRecorder()
	handler.Register(w, req)

	handlers.AssertErrorResponse(t, w, 400, "validation_failed")
}

func TestRegister_InvalidEmail(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockRegistrationService{}, &handlers.MockAuthService{})
	req := handlers.NewTestRequest(t, "POST", "/auth/register", map[string]string{
		"email":           "not-an-email",
		"password":        "Str0ng!Pass",
		"confirmPassword": "Str0ng!Pass",
		"firstName":       "New",
		"lastName":        "Student",
	})

	w := httptest.NewRecorder()
	handler.Register(w, req)

	handlers.AssertErrorResponse(t, w, 400, "validation_failed")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	mockRegistration := &handlers.MockRegistrationService{
		RegisterFunc: func(ctx context.Context, input services.RegisterInput) (*services.RegisterResult, error) {
			return nil, models.ErrConflict
		},
	}

	handler := handlers.NewAuthHandler(mockRegistration, &handlers.MockAuthService{})
	req := handlers.NewTestRequest(t, "POST", "/auth/register", map[string]string{
		"email":           "taken@example.com",
		"password":        "Str0ng!Pass",
		"confirmPassword": "Str0ng!Pass",
		"firstName":       "New",
		"lastName":        "Student",
	})

	w := httptest.NewRecorder()
	handler.Register(w, req)

	handlers.AssertErrorResponse(t, w, 409, "conflict")
}

func TestRegister_WeakPassword(t *testing.T) {
	mockRegistration := &handlers.MockRegistrationService{
		RegisterFunc: func(ctx context.Context, input services.RegisterInput) (*services.RegisterResult, error) {
			return nil, models.ErrValidation
		},
	}

	handler := handlers.NewAuthHandler(mockRegistration, &handlers.MockAuthService{})
	req := handlers.NewTestRequest(t, "POST", "/auth/register", map[string]string{
		"email":           "new@example.com",
		"password":        "weak",
		"confirmPassword": "weak",
		"firstName":       "New",
		"lastName":        "Student",
	})

	w := httptest.NewRecorder()
	handler.Register(w, req)

	handlers.AssertErrorResponse(t, w, 400, "validation_failed")
}

func TestVerifyEmail_Success(t *testing.T) {
	mockRegistration := &handlers.MockRegistrationService{
		VerifyEmailFunc: func(ctx context.Context, token string) error {
			assert.Equal(t, "tok_abc", token)
			return nil
		},
	}

	handler := handlers.NewAuthHandler(mockRegistration, &handlers.MockAuthService{})
	req := handlers.NewTestRequest(t, "GET", "/auth/verify-email?token=tok_abc", nil)

	w := httptest.NewRecorder()
	handler.VerifyEmail(w, req)

	var resp handlers.MessageResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
}

func TestVerifyEmail_MissingToken(t *testing.T) {
	mockRegistration := &handlers.MockRegistrationService{
		VerifyEmailFunc: func(ctx context.Context, token string) error {
			return models.ErrValidation
		},
	}

	handler := handlers.NewAuthHandler(mockRegistration, &handlers.MockAuthService{})
	req := handlers.NewTestRequest(t, "GET", "/auth/verify-email", nil)

	w := httptest.NewRecorder()
	handler.VerifyEmail(w, req)

	handlers.AssertErrorResponse(t, w, 400, "validation_failed")
}

func TestVerifyEmail_UnknownToken(t *testing.T) {
	mockRegistration := &handlers.MockRegistrationService{
		VerifyEmailFunc: func(ctx context.Context, token string) error {
			return models.ErrNotFound
		},
	}

	handler := handlers.NewAuthHandler(mockRegistration, &handlers.MockAuthService{})
	req := handlers.NewTestRequest(t, "GET", "/auth/verify-email?token=tok_unknown", nil)

	w := httptest.NewRecorder()
	handler.VerifyEmail(w, req)

	handlers.AssertErrorResponse(t, w, 404, "not_found")
}

func TestVerifyEmail_ExpiredToken(t *testing.T) {
	mockRegistration := &handlers.MockRegistrationService{
		VerifyEmailFunc: func(ctx context.Context, token string) error {
			return models.ErrTokenExpired
		},
	}

	handler := handlers.NewAuthHandler(mockRegistration, &handlers.MockAuthService{})
	req := handlers.NewTestRequest(t, "GET", "/auth/verify-email?token=tok_old", nil)

	w := httptest.NewRecorder()
	handler.VerifyEmail(w, req)

	handlers.AssertErrorResponse(t, w, 410, "token_expired")
}

func TestLogin_Success(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		LoginFunc: func(ctx context.Context, email, password, userAgent, ipAddress string) (*services.LoginResult, error) {
			return &services.LoginResult{
				AccessToken:  "access_abc",
				RefreshToken: "refresh_abc",
				ExpiresIn:    "15m",
				User: services.UserSummary{
					ID:    "user123",
					Email: email,
					Role:  models.RoleStudent,
				},
			}, nil
		},
	}

	handler := handlers.NewAuthHandler(&handlers.MockRegistrationService{}, mockAuth)
	req := handlers.NewTestRequest(t, "POST", "/auth/login", map[string]string{
		"email":    "student@example.com",
		"password": "Str0ng!Pass",
	})

	w := httptest.NewRecorder()
	handler.Login(w, req)

	var resp services.LoginResult
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, "access_abc", resp.AccessToken)
	assert.Equal(t, "refresh_abc", resp.RefreshToken)
	assert.Equal(t, "15m", resp.ExpiresIn)
	assert.Equal(t, "user123", resp.User.ID)
}

func TestLogin_UnknownEmail(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		LoginFunc: func(ctx context.Context, email, password, userAgent, ipAddress string) (*services.LoginResult, error) {
			return nil, models.ErrNotFound
		},
	}

	handler := handlers.NewAuthHandler(&handlers.MockRegistrationService{}, mockAuth)
	req := handlers.NewTestRequest(t, "POST", "/auth/login", map[string]string{
		"email":    "missing@example.com",
		"password": "Str0ng!Pass",
	})

	w := httptest.NewRecorder()
	handler.Login(w, req)

	handlers.AssertErrorResponse(t, w, 404, "not_found")
}

func TestLogin_WrongPassword(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		LoginFunc: func(ctx context.Context, email, password, userAgent, ipAddress string) (*services.LoginResult, error) {
			return nil, models.ErrInvalidCredentials
		},
	}

	handler := handlers.NewAuthHandler(&handlers.MockRegistrationService{}, mockAuth)
	req := handlers.NewTestRequest(t, "POST", "/auth/login", map[string]string{
		"email":    "student@example.com",
		"password": "Wr0ng!Pass",
	})

	w := httptest.NewRecorder()
	handler.Login(w, req)

	handlers.AssertErrorResponse(t, w, 401, "unauthorized")
}

func TestLogin_UnverifiedEmail(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		LoginFunc: func(ctx context.Context, email, password, userAgent, ipAddress string) (*services.LoginResult, error) {
			return nil, models.ErrEmailNotVerified
		},
	}

	handler := handlers.NewAuthHandler(&handlers.MockRegistrationService{}, mockAuth)
	req := handlers.NewTestRequest(t, "POST", "/auth/login", map[string]string{
		"email":    "student@example.com",
		"password": "Str0ng!Pass",
	})

	w := httptest.NewRecorder()
	handler.Login(w, req)

	handlers.AssertErrorResponse(t, w, 401, "email_not_verified")
}

func TestRefresh_NotImplemented(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockRegistrationService{}, &handlers.MockAuthService{})
	req := handlers.NewTestRequest(t, "POST", "/auth/refresh", map[string]string{
		"refreshToken": "refresh_abc",
	})

	w := httptest.NewRecorder()
	handler.Refresh(w, req)

	handlers.AssertErrorResponse(t, w, 501, "not_implemented")
}

func TestForgotPassword_AlwaysAccepted(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		RequestPasswordResetFunc: func(ctx context.Context, email string) error {
			return nil
		},
	}

	handler := handlers.NewAuthHandler(&handlers.MockRegistrationService{}, mockAuth)

	for _, email := range []string{"known@example.com", "unknown@example.com"} {
		req := handlers.NewTestRequest(t, "POST", "/auth/forgot-password", map[string]string{
			"email": email,
		})

		w := httptest.NewRecorder()
		handler.ForgotPassword(w, req)

		var resp handlers.MessageResponse
		handlers.AssertJSONResponse(t, w, 202, &resp)
	}
}

func TestResetPassword_Success(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		ResetPasswordFunc: func(ctx context.Context, token, newPassword string) error {
			assert.Equal(t, "tok_reset", token)
			assert.Equal(t, "N3w!Passw0rd", newPassword)
			return nil
		},
	}

	handler := handlers.NewAuthHandler(&handlers.MockRegistrationService{}, mockAuth)
	req := handlers.NewTestRequest(t, "POST", "/auth/reset-password", map[string]string{
		"token":    "tok_reset",
		"password": "N3w!Passw0rd",
	})

	w := httptest.NewRecorder()
	handler.ResetPassword(w, req)

	var resp handlers.MessageResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
}

func TestResetPassword_ExpiredToken(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		ResetPasswordFunc: func(ctx context.Context, token, newPassword string) error {
			return models.ErrTokenExpired
		},
	}

	handler := handlers.NewAuthHandler(&handlers.MockRegistrationService{}, mockAuth)
	req := handlers.NewTestRequest(t, "POST", "/auth/reset-password", map[string]string{
		"token":    "tok_old",
		"password": "N3w!Passw0rd",
	})

	w := httptest.NewRecorder()
	handler.ResetPassword(w, req)

	handlers.AssertErrorResponse(t, w, 410, "token_expired")
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/openlearn/campus-api/internal/auth"
	"github.com/openlearn/campus-api/internal/models"
	"github.com/openlearn/campus-api/internal/services"
	pkghttp "github.com/openlearn/campus-api/pkg/http"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAuthContext adds user claims to request context for testing authenticated endpoints
func WithAuthContext(req *http.Request, userID, email, role string) *http.Request {
	claims := &auth.Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: userID,
		},
	}
	ctx := context.WithValue(req.Context(), auth.UserContextKey, claims)
	return req.WithContext(ctx)
}

// WithChiRouteContext adds chi URL parameters to request context for testing
func WithChiRouteContext(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockRegistrationService implements RegistrationService for testing
type MockRegistrationService struct {
	RegisterFunc    func(ctx context.Context, input services.RegisterInput) (*services.RegisterResult, error)
	VerifyEmailFunc func(ctx context.Context, token string) error
}

func (m *MockRegistrationService) Register(ctx context.Context, input services.RegisterInput) (*services.RegisterResult, error) {
	if m.RegisterFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.RegisterFunc(ctx, input)
}

func (m *MockRegistrationService) VerifyEmail(ctx context.Context, token string) error {
	if m.VerifyEmailFunc == nil {
		return models.ErrNotFound
	}
	return m.VerifyEmailFunc(ctx, token)
}

// MockAuthService implements AuthService for testing
type MockAuthService struct {
	LoginFunc                func(ctx context.Context, email, password, userAgent, ipAddress string) (*services.LoginResult, error)
	RequestPasswordResetFunc func(ctx context.Context, email string) error
	ResetPasswordFunc        func(ctx context.Context, token, newPassword string) error
}

func (m *MockAuthService) Login(ctx context.Context, email, password, userAgent, ipAddress string) (*services.LoginResult, error) {
	if m.LoginFunc == nil {
		return nil, models.ErrInvalidCredentials
	}
	return m.LoginFunc(ctx, email, password, userAgent, ipAddress)
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if m.RequestPasswordResetFunc == nil {
		return nil
	}
	return m.RequestPasswordResetFunc(ctx, email)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if m.ResetPasswordFunc == nil {
		return models.ErrNotFound
	}
	return m.ResetPasswordFunc(ctx, token, newPassword)
}

// MockUserService implements UserService for testing
type MockUserService struct {
	CreateUserFunc     func(ctx context.Context, input services.RegisterInput) (*models.User, error)
	GetByIDFunc        func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc     func(ctx context.Context, email string) (*models.User, error)
	ListFunc           func(ctx context.Context, filter models.UserFilter) ([]*models.User, error)
	ListByRoleFunc     func(ctx context.Context, role string) ([]*models.User, error)
	UpdateFunc         func(ctx context.Context, id string, upd *models.UserUpdate) (*models.User, error)
	ChangePasswordFunc func(ctx context.Context, id, currentPassword, newPassword string) error
	DeleteFunc         func(ctx context.Context, id string) error
}

func (m *MockUserService) CreateUser(ctx context.Context, input services.RegisterInput) (*models.User, error) {
	if m.CreateUserFunc == nil {
		return nil, models.ErrConflict
	}
	return m.CreateUserFunc(ctx, input)
}

func (m *MockUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *MockUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetByEmailFunc(ctx, email)
}

func (m *MockUserService) List(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	if m.ListFunc == nil {
		return []*models.User{}, nil
	}
	return m.ListFunc(ctx, filter)
}

func (m *MockUserService) ListByRole(ctx context.Context, role string) ([]*models.User, error) {
	if m.ListByRoleFunc == nil {
		return []*models.User{}, nil
	}
	return m.ListByRoleFunc(ctx, role)
}

func (m *MockUserService) Update(ctx context.Context, id string, upd *models.UserUpdate) (*models.User, error) {
	if m.UpdateFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateFunc(ctx, id, upd)
}

func (m *MockUserService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	if m.ChangePasswordFunc == nil {
		return nil
	}
	return m.ChangePasswordFunc(ctx, id, currentPassword, newPassword)
}

func (m *MockUserService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc == nil {
		return nil
	}
	return m.DeleteFunc(ctx, id)
}

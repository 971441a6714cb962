package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/openlearn/campus-api/internal/models"
	"github.com/openlearn/campus-api/internal/services"
	pkghttp "github.com/openlearn/campus-api/pkg/http"
)

// RegistrationService defines the interface for signup and verification
type RegistrationService interface {
	Register(ctx context.Context, input services.RegisterInput) (*services.RegisterResult, error)
	VerifyEmail(ctx context.Context, token string) error
}

// AuthService defines the interface for login and password recovery
type AuthService interface {
	Login(ctx context.Context, email, password, userAgent, ipAddress string) (*services.LoginResult, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	registration RegistrationService
	auth         AuthService
}

func NewAuthHandler(registration RegistrationService, auth AuthService) *AuthHandler {
	return &AuthHandler{
		registration: registration,
		auth:         auth,
	}
}

// Request/Response DTOs

// RegisterRequest represents the request body for account signup
type RegisterRequest struct {
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required"`
	ConfirmPassword string  `json:"confirmPassword" validate:"required,eqfield=Password"`
	FirstName       string  `json:"firstName" validate:"required,min=1,max=100"`
	LastName        string  `json:"lastName" validate:"required,min=1,max=100"`
	Role            string  `json:"role" validate:"omitempty,oneof=student teacher admin"`
	Phone           *string `json:"phone" validate:"omitempty,max=30"`
	Bio             *string `json:"bio" validate:"omitempty,max=2000"`
}

// RegisterResponse represents the response body after signup
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest represents the request body for a reset request
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents the request body for completing a reset
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// MessageResponse is a plain message envelope
type MessageResponse struct {
	Message string `json:"message"`
}

// Register creates a new account and sends a verification email
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, r, "invalid request body")
		return
	}

	if err := ValidateRequest(&req); err != nil {
		pkghttp.WriteBadRequest(w, r, err.Error())
		return
	}

	result, err := h.registration.Register(r.Context(), services.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Phone:     req.Phone,
		Bio:       req.Bio,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	message := "Registration successful. Please check your email to verify your account."
	if !result.EmailSent {
		message = "Registration successful, but the verification email could not be sent. Please request a new one."
	}

	writeJSON(w, http.StatusCreated, RegisterResponse{
		Message: message,
		UserID:  result.User.ID,
	})
}

// VerifyEmail confirms an email address via the token from the emailed link
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	if err := h.registration.VerifyEmail(r.Context(), token); err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			pkghttp.WriteBadRequest(w, r, "verification token is required")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, r, "invalid verification token")
		case errors.Is(err, models.ErrTokenExpired):
			pkghttp.WriteError(w, r, http.StatusGone, "token_expired", "verification token has expired")
		default:
			pkghttp.WriteInternalError(w, r, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Email verified successfully."})
}

// Login authenticates a user and returns tokens
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, r, "invalid request body")
		return
	}

	if err := ValidateRequest(&req); err != nil {
		pkghttp.WriteBadRequest(w, r, err.Error())
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password, r.UserAgent(), r.RemoteAddr)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, r, "user not found")
		case errors.Is(err, models.ErrInvalidCredentials):
			pkghttp.WriteUnauthorized(w, r, "invalid credentials")
		case errors.Is(err, models.ErrEmailNotVerified):
			pkghttp.WriteError(w, r, http.StatusUnauthorized, "email_not_verified", "please verify your email before logging in")
		default:
			pkghttp.WriteInternalError(w, r, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Refresh exchanges a refresh token for a new access token. The exchange is
// not available yet; clients log in again when the access token expires.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteNotImplemented(w, r, "token refresh is not implemented")
}

// ForgotPassword starts the password reset flow. Always responds 202 so the
// endpoint does not reveal which addresses are registered.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, r, "invalid request body")
		return
	}

	if err := ValidateRequest(&req); err != nil {
		pkghttp.WriteBadRequest(w, r, err.Error())
		return
	}

	if err := h.auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		pkghttp.WriteInternalError(w, r, "internal server error")
		return
	}

	writeJSON(w, http.StatusAccepted, MessageResponse{
		Message: "If that email address is registered, a reset link has been sent.",
	})
}

// ResetPassword completes the password reset flow
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, r, "invalid request body")
		return
	}

	if err := ValidateRequest(&req); err != nil {
		pkghttp.WriteBadRequest(w, r, err.Error())
		return
	}

	if err := h.auth.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			pkghttp.WriteBadRequest(w, r, err.Error())
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, r, "invalid reset token")
		case errors.Is(err, models.ErrTokenExpired):
			pkghttp.WriteError(w, r, http.StatusGone, "token_expired", "reset token has expired")
		default:
			pkghttp.WriteInternalError(w, r, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Password has been reset successfully."})
}

// writeServiceError translates common service errors into the envelope.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		pkghttp.WriteBadRequest(w, r, err.Error())
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteConflict(w, r, "email already registered")
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, r, "resource not found")
	default:
		pkghttp.WriteInternalError(w, r, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

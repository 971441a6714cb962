package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/openlearn/campus-api/internal/auth"
	"github.com/openlearn/campus-api/internal/models"
	"github.com/openlearn/campus-api/internal/services"
	pkghttp "github.com/openlearn/campus-api/pkg/http"
)

// UserService defines the interface for user business logic
type UserService interface {
	CreateUser(ctx context.Context, input services.RegisterInput) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]*models.User, error)
	ListByRole(ctx context.Context, role string) ([]*models.User, error)
	Update(ctx context.Context, id string, upd *models.UserUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error
	Delete(ctx context.Context, id string) error
}

// UserHandler handles user management HTTP requests
type UserHandler struct {
	service UserService
}

func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Request/Response DTOs

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string `json:"lastName" validate:"required,min=1,max=100"`
	Role      string `json:"role" validate:"omitempty,oneof=student teacher admin"`
}

// UpdateUserRequest represents the request body for updating a user
type UpdateUserRequest struct {
	FirstName   *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName    *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Role        *string `json:"role" validate:"omitempty,oneof=student teacher admin"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending active inactive suspended"`
	Phone       *string `json:"phone" validate:"omitempty,max=30"`
	Bio         *string `json:"bio" validate:"omitempty,max=2000"`
	Avatar      *string `json:"avatar" validate:"omitempty,url"`
	DateOfBirth *string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Address     *string `json:"address" validate:"omitempty,max=500"`
}

// ChangePasswordRequest represents the request body for changing a password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// UserResponse represents a user in the HTTP response
type UserResponse struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	Role          string  `json:"role"`
	Status        string  `json:"status"`
	EmailVerified bool    `json:"emailVerified"`
	Phone         *string `json:"phone,omitempty"`
	Bio           *string `json:"bio,omitempty"`
	Avatar        *string `json:"avatar,omitempty"`
	DateOfBirth   *string `json:"dateOfBirth,omitempty"`
	Address       *string `json:"address,omitempty"`
	LastLoginAt   *string `json:"lastLoginAt,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// ListUsersResponse represents a list of users
type ListUsersResponse struct {
	Users []*UserResponse `json:"users"`
	Total int             `json:"total"`
}

// userModelToResponse converts a user model to a response DTO
func userModelToResponse(user *models.User) *UserResponse {
	resp := &UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Role:          user.Role,
		Status:        user.Status,
		EmailVerified: user.EmailVerified,
		Phone:         user.Phone,
		Bio:           user.Bio,
		Avatar:        user.Avatar,
		Address:       user.Address,
		CreatedAt:     user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     user.UpdatedAt.Format(time.RFC3339),
	}
	if user.DateOfBirth != nil {
		dob := user.DateOfBirth.Format("2006-01-02")
		resp.DateOfBirth = &dob
	}
	if user.LastLoginAt != nil {
		last := user.LastLoginAt.Format(time.RFC3339)
		resp.LastLoginAt = &last
	}
	return resp
}

// CreateUser creates an account directly, bypassing the signup email flow
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil || !claims.IsAdmin() {
		pkghttp.WriteForbidden(w, r, "insufficient permissions")
		return
	}

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, r, "invalid request body")
		return
	}

	if err := ValidateRequest(&req); err != nil {
		pkghttp.WriteBadRequest(w, r, err.Error())
		return
	}

	user, err := h.service.CreateUser(r.Context(), services.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, userModelToResponse(user))
}

// ListUsers retrieves users, optionally filtered by role or status
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil || !claims.IsStaff() {
		pkghttp.WriteForbidden(w, r, "insufficient permissions")
		return
	}

	filter := models.UserFilter{
		Role:   r.URL.Query().Get("role"),
		Status: r.URL.Query().Get("status"),
	}

	users, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := ListUsersResponse{
		Users: make([]*UserResponse, 0, len(users)),
		Total: len(users),
	}
	for _, u := range users {
		resp.Users = append(resp.Users, userModelToResponse(u))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetUser retrieves a user by ID. Staff can read any user; everyone else
// only their own record.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		pkghttp.WriteBadRequest(w, r, "user ID is required")
		return
	}

	if err := h.checkUserAccess(r, userID); err != nil {
		pkghttp.WriteForbidden(w, r, "you cannot access this resource")
		return
	}

	user, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, r, "user not found")
			return
		}
		pkghttp.WriteInternalError(w, r, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, userModelToResponse(user))
}

// GetUserByEmail retrieves a user by email address. Staff only.
func (h *UserHandler) GetUserByEmail(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil || !claims.IsStaff() {
		pkghttp.WriteForbidden(w, r, "insufficient permissions")
		return
	}

	email := r.URL.Query().Get("email")
	if email == "" {
		pkghttp.WriteBadRequest(w, r, "email query parameter is required")
		return
	}

	user, err := h.service.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, r, "user not found")
			return
		}
		pkghttp.WriteInternalError(w, r, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, userModelToResponse(user))
}

// UpdateUser applies a partial update to a user's profile. Role and status
// changes are restricted to admins.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		pkghttp.WriteBadRequest(w, r, "user ID is required")
		return
	}

	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, r, "unauthorized")
		return
	}
	if !claims.IsAdmin() && claims.Subject != userID {
		pkghttp.WriteForbidden(w, r, "you cannot access this resource")
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, r, "invalid request body")
		return
	}

	if err := ValidateRequest(&req); err != nil {
		pkghttp.WriteBadRequest(w, r, err.Error())
		return
	}

	if (req.Role != nil || req.Status != nil) && !claims.IsAdmin() {
		pkghttp.WriteForbidden(w, r, "only admins can change role or status")
		return
	}

	upd := &models.UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Status:    req.Status,
		Phone:     req.Phone,
		Bio:       req.Bio,
		Avatar:    req.Avatar,
		Address:   req.Address,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			pkghttp.WriteBadRequest(w, r, "dateOfBirth must be formatted as YYYY-MM-DD")
			return
		}
		upd.DateOfBirth = &dob
	}

	user, err := h.service.Update(r.Context(), userID, upd)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userModelToResponse(user))
}

// ChangePassword changes the caller's own password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		pkghttp.WriteBadRequest(w, r, "user ID is required")
		return
	}

	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, r, "unauthorized")
		return
	}
	// Password changes require the current password, so even admins can
	// only change their own here. Others go through the reset flow.
	if claims.Subject != userID {
		pkghttp.WriteForbidden(w, r, "you cannot access this resource")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, r, "invalid request body")
		return
	}

	if err := ValidateRequest(&req); err != nil {
		pkghttp.WriteBadRequest(w, r, err.Error())
		return
	}

	if err := h.service.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidCredentials):
			pkghttp.WriteUnauthorized(w, r, "current password is incorrect")
		case errors.Is(err, models.ErrValidation):
			pkghttp.WriteBadRequest(w, r, err.Error())
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, r, "user not found")
		default:
			pkghttp.WriteInternalError(w, r, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Password changed successfully."})
}

// DeleteUser removes a user account. Admin only.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		pkghttp.WriteBadRequest(w, r, "user ID is required")
		return
	}

	claims := auth.GetUserFromContext(r)
	if claims == nil || !claims.IsAdmin() {
		pkghttp.WriteForbidden(w, r, "insufficient permissions")
		return
	}

	if err := h.service.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, r, "user not found")
			return
		}
		pkghttp.WriteInternalError(w, r, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// checkUserAccess allows staff to access any user record and everyone else
// only their own.
func (h *UserHandler) checkUserAccess(r *http.Request, userID string) error {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		return models.ErrInvalidCredentials
	}
	if claims.IsStaff() || claims.Subject == userID {
		return nil
	}
	return models.ErrInvalidCredentials
}

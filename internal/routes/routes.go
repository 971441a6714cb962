package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/openlearn/campus-api/internal/auth"
	"github.com/openlearn/campus-api/internal/handlers"
	"github.com/openlearn/campus-api/internal/models"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	tokenManager *auth.TokenManager,
) {
	// Public routes - no authentication required
	router.Post("/auth/register", authHandler.Register)
	router.Get("/auth/verify-email", authHandler.VerifyEmail)
	router.Post("/auth/login", authHandler.Login)
	router.Post("/auth/refresh", authHandler.Refresh)
	router.Post("/auth/forgot-password", authHandler.ForgotPassword)
	router.Post("/auth/reset-password", authHandler.ResetPassword)

	// Protected routes - authentication required
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokenManager))

		// Any authenticated user; handlers enforce record-level access
		r.Get("/users/{id}", userHandler.GetUser)
		r.Put("/users/{id}", userHandler.UpdateUser)
		r.Put("/users/{id}/password", userHandler.ChangePassword)

		// Staff routes
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleAdmin, models.RoleTeacher))
			r.Get("/users", userHandler.ListUsers)
			r.Get("/users/lookup", userHandler.GetUserByEmail)
		})

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleAdmin))
			r.Post("/users", userHandler.CreateUser)
			r.Delete("/users/{id}", userHandler.DeleteUser)
		})
	})
}

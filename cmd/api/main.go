package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/openlearn/campus-api/internal/auth"
	"github.com/openlearn/campus-api/internal/config"
	"github.com/openlearn/campus-api/internal/database"
	"github.com/openlearn/campus-api/internal/handlers"
	middlewareCustom "github.com/openlearn/campus-api/internal/middleware"
	"github.com/openlearn/campus-api/internal/models"
	"github.com/openlearn/campus-api/internal/repositories"
	"github.com/openlearn/campus-api/internal/routes"
	"github.com/openlearn/campus-api/internal/services"
	pkgauth "github.com/openlearn/campus-api/pkg/auth"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize storage. Without a MongoDB URI the process runs on the
	// in-memory store (development only; Load rejects this in production).
	var (
		db          *database.DB
		userRepo    services.UserRepository
		sessionRepo services.SessionRepository
	)
	if cfg.Database.URI != "" {
		db, err = database.NewConnection(&cfg.Database, logger)
		if err != nil {
			logger.Error("failed to connect to database", slog.Any("error", err))
			os.Exit(1)
		}
		defer db.Close()

		indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := db.EnsureIndexes(indexCtx); err != nil {
			indexCancel()
			logger.Error("failed to ensure indexes", slog.Any("error", err))
			os.Exit(1)
		}
		indexCancel()

		userRepo = repositories.NewUserRepository(db)
		sessionRepo = repositories.NewSessionRepository(db)
	} else {
		logger.Warn("no MONGODB_URI set, using in-memory storage")
		userRepo = repositories.NewMemoryUserRepository()
		sessionRepo = repositories.NewMemorySessionRepository()
	}

	// Initialize token manager
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenExpiry)

	// Email notifier: AWS SES when a from-address is configured, log-only
	// otherwise.
	var notifier services.Notifier
	if cfg.Email.FromAddress != "" {
		notifier, err = services.NewAWSSESEmailService(
			cfg.Email.AWSRegion,
			cfg.Email.FromAddress,
			cfg.Email.FrontendURL,
			logger,
		)
		if err != nil {
			logger.Error("failed to initialize email service", slog.Any("error", err))
			os.Exit(1)
		}
	} else {
		logger.Warn("no EMAIL_FROM set, outbound emails will only be logged")
		notifier = services.NewLogEmailService(cfg.Email.FrontendURL, logger)
	}

	// Initialize services
	registrationService := services.NewRegistrationService(userRepo, notifier, cfg.Auth.VerificationTokenExpiry, logger)
	authService := services.NewAuthService(userRepo, sessionRepo, tokenManager, notifier, cfg.Auth.RefreshTokenTTL, cfg.Auth.PasswordResetExpiry, logger)
	userService := services.NewUserService(userRepo, sessionRepo, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(registrationService, authService)
	userHandler := handlers.NewUserHandler(userService)

	// Bootstrap first admin user if configured
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ensureAdminUser(ctx, userRepo, logger); err != nil {
		logger.Error("failed to ensure admin user", slog.Any("error", err))
	}
	cancel()

	// Setup CORS middleware
	corsConfig := middlewareCustom.DefaultCORSConfig(cfg.Server.Env)
	corsConfig.AllowedOrigins = cfg.Server.AllowedOrigins

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.RequestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, authHandler, userHandler, tokenManager)

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := db.HealthCheck(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ensureAdminUser creates the first admin user if ADMIN_EMAIL and ADMIN_PASSWORD are set
func ensureAdminUser(ctx context.Context, userRepo services.UserRepository, logger *slog.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		logger.Info("no ADMIN_EMAIL or ADMIN_PASSWORD set, skipping admin user creation")
		return nil
	}

	_, err := userRepo.GetByEmail(ctx, adminEmail)
	if err == nil {
		logger.Info("admin user already exists")
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to check if admin exists: %w", err)
	}

	hashedPassword, err := pkgauth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Email:          adminEmail,
		HashedPassword: hashedPassword,
		FirstName:      "Admin",
		LastName:       "User",
		Role:           models.RoleAdmin,
		Status:         models.StatusActive,
		EmailVerified:  true,
	}

	if _, err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("admin user created successfully")
	return nil
}

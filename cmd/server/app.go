package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/study-assistant/internal/api"
	"github.com/phrazzld/study-assistant/internal/config"
	"github.com/phrazzld/study-assistant/internal/generation"
	"github.com/phrazzld/study-assistant/internal/platform/gemini"
	"github.com/phrazzld/study-assistant/internal/platform/postgres"
	"github.com/phrazzld/study-assistant/internal/service/auth"
	"github.com/phrazzld/study-assistant/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil in tests that exercise the router without a database.
	db *sql.DB

	userStore store.UserStore
	chatStore store.ChatStore

	jwtService     auth.JWTService
	passwordHasher auth.PasswordHasher
	generator      api.Generator
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	app.passwordHasher = auth.NewBcryptHasher(cfg.Auth.BCryptCost)

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.chatStore = postgres.NewPostgresChatStore(db, logger)

	client, err := gemini.NewClient(ctx, cfg.LLM, nil, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	app.generator, err = generation.NewService(client, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generation service: %w", err)
	}
	logger.Info("Generation service initialized", slog.String("model", cfg.LLM.ModelName))

	return app, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("Application shutdown completed")
}

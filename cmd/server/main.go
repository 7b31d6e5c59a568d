/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the hours estimator server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (flags, environment, .env)
  2. Initialize SQLite closure store
  3. Load reporting settings
  4. Create service and API handler
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port      HTTP server port (env PORT, default: 8080)
  -db        SQLite database path for company closures (env DB_PATH)
             Use ":memory:" for in-memory database
  -settings  Reporting settings JSON (env SETTINGS_FILE)

ENVIRONMENT:
  JWT_SECRET     Enables bearer-token auth (>= 32 bytes)
  LOG_LEVEL      debug, info, warn, error
  CORS_ORIGINS   Comma-separated allowed origins
  TZ_NAME        Location used for "today" (default Asia/Tokyo)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

SEE ALSO:
  - config/config.go: Configuration
  - api/server.go: Router configuration
  - workhours/service.go: Estimation pipeline
*/
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

	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/warp/hours-estimator/api"
	"github.com/warp/hours-estimator/config"
	"github.com/warp/hours-estimator/factory"
	"github.com/warp/hours-estimator/store/sqlite"
	"github.com/warp/hours-estimator/workhours"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(slog.String("app", "hours-estimator"))
	slog.SetDefault(logger)

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer store.Close()

	settings, err := factory.LoadSettings(cfg.SettingsFile)
	if err != nil {
		return err
	}

	service := workhours.NewService(store, logger)
	service.Settings = settings
	service.Now = cfg.Now

	handler := api.NewHandler(service, store, logger)

	opts := api.Options{
		Logger:         logger,
		LogLevel:       cfg.LogLevel,
		AllowedOrigins: cfg.CORSOrigins,
	}
	if cfg.AuthEnabled() {
		opts.Auth = jwtauth.New("HS256", []byte(cfg.JWTSecret), nil)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.NewRouter(handler, opts),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			"port", cfg.Port,
			"auth", cfg.AuthEnabled(),
			"period_type", settings.Period.Type,
			"rounding", settings.Rounding,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// Package chatservice is the composition root for the chat backend.
package chatservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/zerolog"

	"github.com/meenagpt/chat-service/internal/api"
	"github.com/meenagpt/chat-service/internal/auth"
	"github.com/meenagpt/chat-service/internal/config"
	"github.com/meenagpt/chat-service/internal/genai/gemini"
	"github.com/meenagpt/chat-service/internal/logger"
	"github.com/meenagpt/chat-service/internal/store"
	"github.com/meenagpt/chat-service/internal/store/postgres"
	"github.com/meenagpt/chat-service/internal/store/sqlite"
)

// Run starts the chat service HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("chat-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Str("genai_model", cfg.GenAIModel).
		Msg("Chat service starting")

	// Cancellable root context bound to SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := newStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	provider := gemini.New(cfg.GenAIBaseURL, cfg.GenAIAPIKey, cfg.GenAIModel)

	router := api.NewRouter(st, issuer, provider)
	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins()),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	)

	server := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           cors(router),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// newStore opens the configured store driver and applies its schema.
func newStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, func(), error) {
	switch cfg.DBDriver {
	case "postgres":
		if err := postgres.Bootstrap(ctx, cfg.PostgresDSN); err != nil {
			log.Error().Stack().Err(err).Msg("Postgres bootstrap failed")
			return nil, nil, err
		}
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			log.Error().Stack().Err(err).Msg("Postgres unavailable")
			return nil, nil, err
		}
		return postgres.NewWithDB(db), func() { _ = db.Close() }, nil
	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			log.Error().Stack().Err(err).Msg("SQLite unavailable")
			return nil, nil, err
		}
		return sqlite.NewWithDB(db), func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported DB_DRIVER: %s", cfg.DBDriver)
	}
}

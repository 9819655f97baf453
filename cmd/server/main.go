package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/progresspoint/internal/config"
	"github.com/stemsi/progresspoint/internal/database"
	"github.com/stemsi/progresspoint/internal/handler"
	"github.com/stemsi/progresspoint/internal/logger"
	"github.com/stemsi/progresspoint/internal/repository"
	"github.com/stemsi/progresspoint/internal/router"
	"github.com/stemsi/progresspoint/internal/service"
	"github.com/stemsi/progresspoint/internal/validator"
	"github.com/stemsi/progresspoint/internal/websocket"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("storage", cfg.StorageDriver).
		Msg("Starting ProgressPoint")

	// ─── Initialize Validator ──────────────────────────────────────────
	if err := validator.Setup(); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up validator")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Open Key-Value Storage ────────────────────────────────────────
	store, err := database.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Storage close error")
		}
	}()

	// ─── Initialize Repositories ───────────────────────────────────────
	sessionRepo := repository.NewSessionRepository(store)
	rosterRepo := repository.NewRosterRepository(store)

	// ─── Initialize Services ──────────────────────────────────────────
	hub := websocket.NewHub(log)
	authService := service.NewAuthService(sessionRepo, log)
	// The roster service subscribes to session changes, so it must exist
	// before the stored session is restored.
	rosterService := service.NewRosterService(ctx, authService, rosterRepo, hub, log)

	if err := authService.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("Session restore failed, starting logged out")
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService, log),
		Roster:     handler.NewRosterHandler(rosterService, log),
		Attendance: handler.NewAttendanceHandler(rosterService, log),
		Export:     handler.NewExportHandler(rosterService, log),
		WS:         handler.NewWSHandler(hub, rosterService, log, cfg.AllowedOrigins),
		System:     handler.NewSystemHandler(cfg.StorageDriver, hub, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

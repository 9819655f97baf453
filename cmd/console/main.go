package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/stemsi/progresspoint/internal/config"
	"github.com/stemsi/progresspoint/internal/database"
	"github.com/stemsi/progresspoint/internal/logger"
	"github.com/stemsi/progresspoint/internal/repository"
	"github.com/stemsi/progresspoint/internal/service"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	// Logs go to stderr so they never interleave with the tables.
	log := logger.SetupWriter(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Open Key-Value Storage ────────────────────────────────────────
	store, err := database.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer store.Close()

	// ─── Initialize Services ───────────────────────────────────────────
	authService := service.NewAuthService(repository.NewSessionRepository(store), log)
	rosterService := service.NewRosterService(ctx, authService, repository.NewRosterRepository(store), nil, log)
	if err := authService.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("Session restore failed, starting logged out")
	}

	// ─── CLI Loop ──────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)
	c := &console{
		in:     reader,
		out:    os.Stdout,
		auth:   authService,
		roster: rosterService,
		readPassword: func() (string, error) {
			if !term.IsTerminal(int(syscall.Stdin)) {
				line, err := reader.ReadString('\n')
				return strings.TrimSpace(line), err
			}
			b, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Println()
			return string(b), err
		},
	}

	fmt.Println("=== ProgressPoint ===")
	if err := c.run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Console stopped")
	}
}

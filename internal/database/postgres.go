package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stemsi/progresspoint/internal/config"
)

// NewPostgresPool creates and validates a PostgreSQL connection pool and
// checks that the kv_store table has been migrated.
func NewPostgresPool(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxDBConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	var table *string
	if err := pool.QueryRow(ctx, `SELECT to_regclass('kv_store')::text`).Scan(&table); err != nil {
		pool.Close()
		return nil, fmt.Errorf("inspect schema: %w", err)
	}
	if table == nil {
		pool.Close()
		return nil, fmt.Errorf("table kv_store missing, run `migrate up` first")
	}

	log.Info().
		Int32("max_conns", cfg.MaxDBConns).
		Msg("PostgreSQL connected")

	return pool, nil
}

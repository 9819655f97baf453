package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/progresspoint/internal/config"
	"github.com/stemsi/progresspoint/internal/storage"
)

// OpenStore connects the key-value backend selected by cfg.StorageDriver.
// The returned store owns the underlying connection; Close releases it.
func OpenStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storage.Store, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		log.Warn().Msg("Using in-memory storage, data is lost on restart")
		return storage.NewMemoryStore(), nil

	case config.DriverBadger:
		db, err := NewBadgerDB(cfg, log)
		if err != nil {
			return nil, err
		}
		return storage.NewBadgerStore(db), nil

	case config.DriverRedis:
		rdb, err := NewRedisClient(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return storage.NewRedisStore(rdb), nil

	case config.DriverPostgres:
		pool, err := NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return storage.NewPostgresStore(pool), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

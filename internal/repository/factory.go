package repository

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/segyhp/loanshrk/internal/config"

	"github.com/redis/go-redis/v9"
)

// NewSlotStoreFromConfig opens the slot backend selected by STORE_BACKEND
func NewSlotStoreFromConfig(cfg *config.Config) (SlotStore, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return NewMemorySlotStore(), nil
	case config.BackendRedis:
		return NewRedisSlotStore(initRedis(cfg)), nil
	case config.BackendPostgres:
		return OpenSQLSlotStore(DriverPostgres, cfg.Database.URL)
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
		return OpenSQLSlotStore(DriverSQLite, cfg.Database.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

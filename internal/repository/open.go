package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"fintrack/internal/config"
	"fintrack/internal/repository/db"
)

// Open builds the repositories for the configured backend.
func Open(ctx context.Context, cfg config.Store) (*Repository, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return NewMemoryRepository(), nil

	case config.BackendSQLite:
		conn, err := db.InitDB(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("init sqlite: %w", err)
		}
		return NewRepository(conn), nil

	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("ping redis at %s: %w", cfg.RedisAddr, err)
		}
		return NewRedisRepository(rdb), nil

	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Backend)
	}
}

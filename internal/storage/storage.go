// Package storage opens the repositories selected by configuration.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/chrisdamba/greengrocer/internal/models"
	"github.com/chrisdamba/greengrocer/internal/repositories"
	"github.com/chrisdamba/greengrocer/internal/repositories/file"
	"github.com/chrisdamba/greengrocer/internal/repositories/memory"
	"github.com/chrisdamba/greengrocer/internal/repositories/postgres"
	"github.com/chrisdamba/greengrocer/internal/repositories/redis"
	"github.com/chrisdamba/greengrocer/internal/repositories/s3"
)

type Backends struct {
	KeyValue repositories.KeyValueStore
	Orders   repositories.OrderRepository
	closers  []func()
}

// Close releases connections held by the backends.
func (b *Backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}

// Open connects to cfg.Backend. Orders live in Postgres for the postgres
// backend and in memory otherwise.
func Open(ctx context.Context, cfg models.StorageConfig) (*Backends, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	b := &Backends{Orders: memory.NewOrderRepository()}

	switch cfg.Backend {
	case "memory":
		b.KeyValue = memory.NewKeyValueStore()
	case "", "file":
		kv, err := file.NewKeyValueStore(cfg.Dir)
		if err != nil {
			return nil, err
		}
		b.KeyValue = kv
	case "redis":
		client, err := redis.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() {
			if err := client.Close(); err != nil {
				log.Warn().Err(err).Msg("Error closing redis client")
			}
		})
		b.KeyValue = redis.NewKeyValueStore(client, cfg.KeyPrefix)
	case "postgres":
		pool, err := postgres.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)
		b.KeyValue = postgres.NewKeyValueRepository(pool)
		b.Orders = postgres.NewOrderRepository(pool)
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("storage.s3_bucket is required for the s3 backend")
		}
		client, err := s3.NewClient(ctx, cfg.S3Region)
		if err != nil {
			return nil, err
		}
		b.KeyValue = s3.NewKeyValueStore(client, cfg.S3Bucket, cfg.KeyPrefix)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}

	log.Info().Str("backend", cfg.Backend).Msg("Storage ready")
	return b, nil
}

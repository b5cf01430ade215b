package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chrisdamba/greengrocer/internal/repositories"
)

type KeyValueRepository struct {
	pool *pgxpool.Pool
}

func NewKeyValueRepository(pool *pgxpool.Pool) *KeyValueRepository {
	return &KeyValueRepository{pool: pool}
}

func (r *KeyValueRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.pool.QueryRow(ctx, "SELECT value::text FROM kv_store WHERE key = $1", key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (r *KeyValueRepository) Set(ctx context.Context, key string, value []byte) error {
	query := `
        INSERT INTO kv_store (key, value, updated_at)
        VALUES ($1, $2::jsonb, now())
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
    `
	_, err := r.pool.Exec(ctx, query, key, string(value))
	return err
}

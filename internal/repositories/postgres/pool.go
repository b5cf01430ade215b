package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_store (
    key        TEXT PRIMARY KEY,
    value      JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS orders (
    id               TEXT PRIMARY KEY,
    customer         JSONB NOT NULL,
    delivery_address JSONB NOT NULL,
    delivery_method  TEXT NOT NULL,
    payment_method   TEXT NOT NULL,
    lines            JSONB NOT NULL,
    subtotal         NUMERIC(10,2) NOT NULL,
    delivery_fee     NUMERIC(10,2) NOT NULL,
    tax              NUMERIC(10,2) NOT NULL,
    total            NUMERIC(10,2) NOT NULL,
    status           TEXT NOT NULL,
    placed_at        TIMESTAMPTZ NOT NULL
);`

// Connect opens a pool and makes sure the tables exist.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error creating schema: %w", err)
	}
	return pool, nil
}

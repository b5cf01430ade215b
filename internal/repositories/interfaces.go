package repositories

import (
	"context"
	"errors"

	"github.com/chrisdamba/greengrocer/internal/models"
)

// ErrNotFound is returned when a key or record does not exist.
var ErrNotFound = errors.New("not found")

// KeyValueStore is durable storage addressed by string keys, the server-side
// counterpart of browser local storage.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context) ([]*models.Order, error)
}

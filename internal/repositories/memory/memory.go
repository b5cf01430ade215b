// Package memory holds map-backed repositories for tests and single-process
// deployments.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/chrisdamba/greengrocer/internal/models"
	"github.com/chrisdamba/greengrocer/internal/repositories"
)

type KeyValueStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewKeyValueStore() *KeyValueStore {
	return &KeyValueStore{data: make(map[string][]byte)}
}

func (s *KeyValueStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (s *KeyValueStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]models.Order
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]models.Order)}
}

func (r *OrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *order
	stored.Lines = append([]models.OrderLine(nil), order.Lines...)
	r.orders[order.ID] = stored
	return nil
}

func (r *OrderRepository) Get(_ context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	order.Lines = append([]models.OrderLine(nil), order.Lines...)
	return &order, nil
}

func (r *OrderRepository) List(_ context.Context) ([]*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	orders := make([]*models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		order := order
		order.Lines = append([]models.OrderLine(nil), order.Lines...)
		orders = append(orders, &order)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].PlacedAt.Before(orders[j].PlacedAt)
	})
	return orders, nil
}

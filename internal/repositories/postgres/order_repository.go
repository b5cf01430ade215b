package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chrisdamba/greengrocer/internal/models"
	"github.com/chrisdamba/greengrocer/internal/repositories"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `
            id, customer, delivery_address, delivery_method, payment_method,
            lines, subtotal, delivery_fee, tax, total, status, placed_at`

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	query := `
        INSERT INTO orders (` + orderColumns + `
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
        )
    `
	_, err := r.pool.Exec(ctx, query,
		order.ID,
		order.Customer,
		order.Address,
		order.DeliveryMethod,
		order.PaymentMethod,
		order.Lines,
		order.Totals.Subtotal,
		order.Totals.DeliveryFee,
		order.Totals.Tax,
		order.Totals.Total,
		order.Status,
		order.PlacedAt,
	)
	return err
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*models.Order, error) {
	query := `SELECT` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *OrderRepository) List(ctx context.Context) ([]*models.Order, error) {
	query := `SELECT` + orderColumns + ` FROM orders ORDER BY placed_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(
		&order.ID,
		&order.Customer,
		&order.Address,
		&order.DeliveryMethod,
		&order.PaymentMethod,
		&order.Lines,
		&order.Totals.Subtotal,
		&order.Totals.DeliveryFee,
		&order.Totals.Tax,
		&order.Totals.Total,
		&order.Status,
		&order.PlacedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

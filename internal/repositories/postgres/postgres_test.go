package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/lucsky/cuid"

	"github.com/chrisdamba/greengrocer/internal/models"
	"github.com/chrisdamba/greengrocer/internal/repositories"
)

// Set GREENGROCER_TEST_POSTGRES_URL to run these against a real database.
func testPool(t *testing.T) context.Context {
	t.Helper()
	if os.Getenv("GREENGROCER_TEST_POSTGRES_URL") == "" {
		t.Skip("GREENGROCER_TEST_POSTGRES_URL not set")
	}
	return context.Background()
}

func TestKeyValueRepository(t *testing.T) {
	ctx := testPool(t)
	pool, err := Connect(ctx, os.Getenv("GREENGROCER_TEST_POSTGRES_URL"))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer pool.Close()
	repo := NewKeyValueRepository(pool)

	key := "test-" + cuid.New()
	if _, err := repo.Get(ctx, key); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("Get missing err = %v, want ErrNotFound", err)
	}
	for _, value := range []string{`[{"id":1,"name":"Tomato"}]`, `[]`} {
		if err := repo.Set(ctx, key, []byte(value)); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, err := repo.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		// jsonb normalizes whitespace, so compare decoded values.
		var gotItems, wantItems []models.Vegetable
		if err := json.Unmarshal(got, &gotItems); err != nil {
			t.Fatalf("decode %s: %v", got, err)
		}
		_ = json.Unmarshal([]byte(value), &wantItems)
		if !reflect.DeepEqual(gotItems, wantItems) && len(gotItems)+len(wantItems) > 0 {
			t.Fatalf("Get = %s, want %s", got, value)
		}
	}
}

func TestOrderRepository(t *testing.T) {
	ctx := testPool(t)
	pool, err := Connect(ctx, os.Getenv("GREENGROCER_TEST_POSTGRES_URL"))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer pool.Close()
	repo := NewOrderRepository(pool)

	order := &models.Order{
		ID:             cuid.New(),
		Customer:       models.CustomerDetails{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		Address:        models.Address{Address1: "Market Street", City: "London", Postcode: "SE1 9AA"},
		DeliveryMethod: models.DeliveryMethodStandard,
		PaymentMethod:  models.PaymentMethodCard,
		Lines:          []models.OrderLine{{VegetableID: 1, Name: "Tomato", Quantity: 2, UnitPrice: 2.49, LineTotal: 4.98}},
		Totals:         models.OrderTotals{Subtotal: 4.98, DeliveryFee: 5.49, Total: 10.47},
		Status:         models.OrderStatusPlaced,
		PlacedAt:       time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.Get(ctx, order.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Customer != order.Customer || got.Totals != order.Totals || len(got.Lines) != 1 {
		t.Fatalf("Get = %+v, want %+v", got, order)
	}
	if _, err := repo.Get(ctx, "missing-"+cuid.New()); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("Get missing err = %v, want ErrNotFound", err)
	}
}

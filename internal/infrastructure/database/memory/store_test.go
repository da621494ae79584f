package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/domain/checkout"
	"github.com/your-org/storefront/internal/domain/order"
)

func TestOrderRepository_ReadsDoNotAliasStoredOrder(t *testing.T) {
	store := NewStore()
	orders := store.Orders()
	ctx := context.Background()

	require.NoError(t, orders.Create(ctx, &order.Order{
		ID: "o-1",
		Products: []order.LineItem{
			{Product: order.ProductSnapshot{Title: "Widget", Price: 999}, Quantity: 1},
		},
		User:      order.Customer{Email: "a@x.io", UserID: "u-1"},
		CreatedAt: time.Now(),
	}))

	found, err := orders.FindByID(ctx, "o-1")
	require.NoError(t, err)
	found.Products[0].Quantity = 50
	found.Products[0].Product.Price = 1

	listed, err := orders.ListByUser(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	listed[0].Products[0].Quantity = 70

	stored, err := orders.FindByID(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Products[0].Quantity)
	assert.Equal(t, int64(999), stored.Products[0].Product.Price)
}

func TestCheckoutStore_TakeConsumesOnce(t *testing.T) {
	store := NewCheckoutStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, checkout.Pending{SessionID: "cs_1", UserID: "u-1", Total: 999}, time.Minute))

	p, err := store.Take(ctx, "cs_1")
	require.NoError(t, err)
	assert.Equal(t, int64(999), p.Total)

	_, err = store.Take(ctx, "cs_1")
	assert.ErrorIs(t, err, checkout.ErrUnknownSession)
	_, err = store.Load(ctx, "cs_1")
	assert.ErrorIs(t, err, checkout.ErrUnknownSession)
}

func TestCheckoutStore_TakeIgnoresExpired(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewCheckoutStore()
	store.kv.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, checkout.Pending{SessionID: "cs_1", UserID: "u-1"}, time.Minute))
	now = now.Add(time.Minute)

	_, err := store.Take(ctx, "cs_1")
	assert.ErrorIs(t, err, checkout.ErrUnknownSession)
}

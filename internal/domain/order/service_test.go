package order_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/order"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/domain/user"
	"github.com/your-org/storefront/internal/infrastructure/database/memory"
	"github.com/your-org/storefront/internal/pkg/apperror"
	"github.com/your-org/storefront/internal/pkg/logger"
)

type fixture struct {
	store  *memory.Store
	carts  *cart.Service
	orders *order.Service
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, store.Users().Create(ctx, &user.User{ID: "u-1", Email: "a@x.io", PasswordHash: "h"}))
	require.NoError(t, store.Users().Create(ctx, &user.User{ID: "u-2", Email: "b@x.io", PasswordHash: "h"}))
	require.NoError(t, store.Products().Create(ctx, &product.Product{
		ID: "p-1", Title: "Widget", Price: 999, Description: "A widget", ImageURL: "/uploads/images/w.png",
	}))
	require.NoError(t, store.Products().Create(ctx, &product.Product{
		ID: "p-2", Title: "Gadget", Price: 500, Description: "A gadget", ImageURL: "/uploads/images/g.png",
	}))

	carts := cart.NewService(store.Users(), store.Products(), logger.Discard())
	orders := order.NewService(store.Orders(), carts, store.Users(), logger.Discard()).
		WithClock(func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) })

	return &fixture{store: store, carts: carts, orders: orders}
}

func TestPlace_SnapshotsCartAndClearsIt(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.carts.Add(ctx, "u-1", "p-1"))
	require.NoError(t, f.carts.Add(ctx, "u-1", "p-1"))

	o, err := f.orders.Place(ctx, "u-1")
	require.NoError(t, err)

	require.Len(t, o.Products, 1)
	assert.Equal(t, "Widget", o.Products[0].Product.Title)
	assert.Equal(t, int64(999), o.Products[0].Product.Price)
	assert.Equal(t, 2, o.Products[0].Quantity)
	assert.Equal(t, int64(1998), o.Total())
	assert.Equal(t, "$19.98", o.DisplayTotal())
	assert.Equal(t, order.Customer{Email: "a@x.io", UserID: "u-1"}, o.User)

	view, err := f.carts.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, view.IsEmpty())
}

func TestPlace_SnapshotSurvivesProductEdits(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.carts.Add(ctx, "u-1", "p-1"))
	o, err := f.orders.Place(ctx, "u-1")
	require.NoError(t, err)

	p, err := f.store.Products().FindByID(ctx, "p-1")
	require.NoError(t, err)
	p.Title = "Renamed"
	p.Price = 1
	require.NoError(t, f.store.Products().Update(ctx, p))

	stored, err := f.orders.GetForUser(ctx, o.ID, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Widget", stored.Products[0].Product.Title)
	assert.Equal(t, int64(999), stored.Total())
}

func TestPlace_EmptyCart(t *testing.T) {
	f := setup(t)

	_, err := f.orders.Place(context.Background(), "u-1")
	assert.ErrorIs(t, err, order.ErrEmptyCart)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	orders, err := f.orders.ListForUser(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

type failingClear struct {
	*cart.Service
}

func (failingClear) ClearOrdered(ctx context.Context, userID string, view *cart.View) error {
	return errors.New("store unavailable")
}

func TestPlace_ClearFailureStillReturnsOrder(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.carts.Add(ctx, "u-1", "p-1"))

	orders := order.NewService(f.store.Orders(), failingClear{f.carts}, f.store.Users(), logger.Discard())
	o, err := orders.Place(ctx, "u-1")
	require.NoError(t, err)

	_, err = f.store.Orders().FindByID(ctx, o.ID)
	assert.NoError(t, err)
}

// addBeforeClear adds productID to the cart between the snapshot and the
// clear, like a second browser tab would
type addBeforeClear struct {
	*cart.Service
	userID    string
	productID string
}

func (a addBeforeClear) ClearOrdered(ctx context.Context, userID string, view *cart.View) error {
	if err := a.Service.Add(ctx, a.userID, a.productID); err != nil {
		return err
	}
	return a.Service.ClearOrdered(ctx, userID, view)
}

func TestPlace_KeepsItemsAddedDuringPlacement(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.carts.Add(ctx, "u-1", "p-1"))

	orders := order.NewService(f.store.Orders(), addBeforeClear{f.carts, "u-1", "p-2"}, f.store.Users(), logger.Discard())
	o, err := orders.Place(ctx, "u-1")
	require.NoError(t, err)

	require.Len(t, o.Products, 1)
	assert.Equal(t, "Widget", o.Products[0].Product.Title)

	view, err := f.carts.Get(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "p-2", view.Lines[0].Product.ID)
	assert.Equal(t, 1, view.Lines[0].Quantity)
}

func TestPlace_KeepsExtraUnitsOfOrderedProduct(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.carts.Add(ctx, "u-1", "p-1"))
	require.NoError(t, f.carts.Add(ctx, "u-1", "p-1"))

	orders := order.NewService(f.store.Orders(), addBeforeClear{f.carts, "u-1", "p-1"}, f.store.Users(), logger.Discard())
	o, err := orders.Place(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 2, o.Products[0].Quantity)

	view, err := f.carts.Get(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 1, view.Lines[0].Quantity)
}

func TestPlaceFrom_UsesGivenViewOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.carts.Add(ctx, "u-1", "p-1"))

	view, err := f.carts.Get(ctx, "u-1")
	require.NoError(t, err)
	require.NoError(t, f.carts.Add(ctx, "u-1", "p-2"))

	o, err := f.orders.PlaceFrom(ctx, "u-1", view)
	require.NoError(t, err)
	require.Len(t, o.Products, 1)
	assert.Equal(t, int64(999), o.Total())

	after, err := f.carts.Get(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, after.Lines, 1)
	assert.Equal(t, "p-2", after.Lines[0].Product.ID)
}

func TestGetForUser_OtherUser(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.carts.Add(ctx, "u-1", "p-1"))
	o, err := f.orders.Place(ctx, "u-1")
	require.NoError(t, err)

	_, err = f.orders.GetForUser(ctx, o.ID, "u-2")
	assert.ErrorIs(t, err, order.ErrNotOwner)

	_, err = f.orders.GetForUser(ctx, "missing", "u-1")
	assert.ErrorIs(t, err, order.ErrNotFound)

	mine, err := f.orders.ListForUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	theirs, err := f.orders.ListForUser(ctx, "u-2")
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

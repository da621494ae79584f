package checkout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/checkout"
	"github.com/your-org/storefront/internal/domain/order"
	"github.com/your-org/storefront/internal/domain/payment"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/domain/user"
	"github.com/your-org/storefront/internal/infrastructure/database/memory"
	"github.com/your-org/storefront/internal/pkg/apperror"
	"github.com/your-org/storefront/internal/pkg/logger"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateCheckoutSession(ctx context.Context, items []payment.LineItem, successURL, cancelURL string) (*payment.Session, error) {
	args := m.Called(ctx, items, successURL, cancelURL)
	if s := args.Get(0); s != nil {
		return s.(*payment.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGateway) VerifyCheckoutSession(ctx context.Context, sessionID string) (*payment.SessionStatus, error) {
	args := m.Called(ctx, sessionID)
	if s := args.Get(0); s != nil {
		return s.(*payment.SessionStatus), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGateway) Name() string { return "mock" }

type fixture struct {
	store    *memory.Store
	carts    *cart.Service
	gateway  *mockGateway
	checkout *checkout.Service
}

var urls = checkout.URLs{SuccessURL: "http://shop/checkout/success", CancelURL: "http://shop/checkout/cancel"}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, store.Users().Create(ctx, &user.User{ID: "u-1", Email: "a@x.io", PasswordHash: "h"}))
	require.NoError(t, store.Users().Create(ctx, &user.User{ID: "u-2", Email: "b@x.io", PasswordHash: "h"}))
	require.NoError(t, store.Products().Create(ctx, &product.Product{ID: "p-1", Title: "Widget", Price: 999, Description: "A widget"}))

	carts := cart.NewService(store.Users(), store.Products(), logger.Discard())
	orders := order.NewService(store.Orders(), carts, store.Users(), logger.Discard())
	gw := &mockGateway{}
	svc := checkout.NewService(carts, orders, gw, memory.NewCheckoutStore(), "pk_test", logger.Discard())

	return &fixture{store: store, carts: carts, gateway: gw, checkout: svc}
}

func (f *fixture) fillCart(t *testing.T, userID string, units int) {
	for i := 0; i < units; i++ {
		require.NoError(t, f.carts.Add(context.Background(), userID, "p-1"))
	}
}

func TestBegin_ComputesTotalAndCreatesSession(t *testing.T) {
	f := setup(t)
	f.fillCart(t, "u-1", 2)

	expected := []payment.LineItem{{Name: "Widget", Description: "A widget", UnitAmount: 999, Quantity: 2}}
	f.gateway.On("CreateCheckoutSession", mock.Anything, expected, urls.SuccessURL, urls.CancelURL).
		Return(&payment.Session{ID: "cs_1", URL: "https://pay/cs_1"}, nil)

	summary, err := f.checkout.Begin(context.Background(), "u-1", urls)
	require.NoError(t, err)

	assert.Equal(t, int64(1998), summary.TotalSum)
	assert.Equal(t, "cs_1", summary.SessionID)
	assert.Equal(t, "pk_test", summary.PublishableKey)
	require.Len(t, summary.Lines, 1)
	f.gateway.AssertExpectations(t)
}

func TestBegin_EmptyCartNeverContactsGateway(t *testing.T) {
	f := setup(t)

	_, err := f.checkout.Begin(context.Background(), "u-1", urls)
	assert.ErrorIs(t, err, order.ErrEmptyCart)
	f.gateway.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBegin_GatewayFailureIsUpstream(t *testing.T) {
	f := setup(t)
	f.fillCart(t, "u-1", 1)
	f.gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	_, err := f.checkout.Begin(context.Background(), "u-1", urls)
	assert.True(t, apperror.Is(err, apperror.KindUpstream))
}

func (f *fixture) begin(t *testing.T) {
	f.gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&payment.Session{ID: "cs_1", URL: "https://pay/cs_1"}, nil)
	_, err := f.checkout.Begin(context.Background(), "u-1", urls)
	require.NoError(t, err)
}

func TestComplete_PaidSessionPlacesOrder(t *testing.T) {
	f := setup(t)
	f.fillCart(t, "u-1", 2)
	f.begin(t)
	f.gateway.On("VerifyCheckoutSession", mock.Anything, "cs_1").
		Return(&payment.SessionStatus{ID: "cs_1", Paid: true, AmountTotal: 1998}, nil)

	o, err := f.checkout.Complete(context.Background(), "u-1", "cs_1")
	require.NoError(t, err)
	assert.Equal(t, int64(1998), o.Total())

	view, err := f.carts.Get(context.Background(), "u-1")
	require.NoError(t, err)
	assert.True(t, view.IsEmpty())

	// the session cannot be replayed into a second order
	_, err = f.checkout.Complete(context.Background(), "u-1", "cs_1")
	assert.ErrorIs(t, err, checkout.ErrUnknownSession)
}

func TestComplete_UnpaidSession(t *testing.T) {
	f := setup(t)
	f.fillCart(t, "u-1", 1)
	f.begin(t)
	f.gateway.On("VerifyCheckoutSession", mock.Anything, "cs_1").
		Return(&payment.SessionStatus{ID: "cs_1", Paid: false, AmountTotal: 999}, nil)

	_, err := f.checkout.Complete(context.Background(), "u-1", "cs_1")
	assert.ErrorIs(t, err, checkout.ErrNotPaid)

	view, err := f.carts.Get(context.Background(), "u-1")
	require.NoError(t, err)
	assert.False(t, view.IsEmpty())
}

func TestComplete_AmountMismatch(t *testing.T) {
	f := setup(t)
	f.fillCart(t, "u-1", 1)
	f.begin(t)
	// cart grew after payment was taken
	f.fillCart(t, "u-1", 1)
	f.gateway.On("VerifyCheckoutSession", mock.Anything, "cs_1").
		Return(&payment.SessionStatus{ID: "cs_1", Paid: true, AmountTotal: 999}, nil)

	_, err := f.checkout.Complete(context.Background(), "u-1", "cs_1")
	assert.ErrorIs(t, err, checkout.ErrAmountMismatch)
	assert.True(t, apperror.Is(err, apperror.KindUpstream))

	orders, err := f.store.Orders().ListByUser(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestComplete_SessionOfAnotherUser(t *testing.T) {
	f := setup(t)
	f.fillCart(t, "u-1", 1)
	f.begin(t)

	_, err := f.checkout.Complete(context.Background(), "u-2", "cs_1")
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
	f.gateway.AssertNotCalled(t, "VerifyCheckoutSession", mock.Anything, mock.Anything)
}

func TestComplete_UnknownSession(t *testing.T) {
	f := setup(t)

	_, err := f.checkout.Complete(context.Background(), "u-1", "")
	assert.ErrorIs(t, err, checkout.ErrUnknownSession)
	_, err = f.checkout.Complete(context.Background(), "u-1", "cs_missing")
	assert.ErrorIs(t, err, checkout.ErrUnknownSession)
}

// addingPlacer adds productID to the cart just before delegating, as a
// concurrent add-to-cart request would
type addingPlacer struct {
	carts     *cart.Service
	next      checkout.OrderPlacer
	productID string
}

func (a addingPlacer) PlaceFrom(ctx context.Context, userID string, view *cart.View) (*order.Order, error) {
	if err := a.carts.Add(ctx, userID, a.productID); err != nil {
		return nil, err
	}
	return a.next.PlaceFrom(ctx, userID, view)
}

func TestComplete_OrderMatchesVerifiedCart(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.store.Products().Create(ctx, &product.Product{ID: "p-2", Title: "Yacht", Price: 100000, Description: "A yacht"}))

	orders := order.NewService(f.store.Orders(), f.carts, f.store.Users(), logger.Discard())
	svc := checkout.NewService(f.carts, addingPlacer{f.carts, orders, "p-2"}, f.gateway, memory.NewCheckoutStore(), "pk_test", logger.Discard())

	f.fillCart(t, "u-1", 1)
	f.gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&payment.Session{ID: "cs_1", URL: "https://pay/cs_1"}, nil)
	_, err := svc.Begin(ctx, "u-1", urls)
	require.NoError(t, err)
	f.gateway.On("VerifyCheckoutSession", mock.Anything, "cs_1").
		Return(&payment.SessionStatus{ID: "cs_1", Paid: true, AmountTotal: 999}, nil)

	o, err := svc.Complete(ctx, "u-1", "cs_1")
	require.NoError(t, err)
	assert.Equal(t, int64(999), o.Total())
	require.Len(t, o.Products, 1)
	assert.Equal(t, "Widget", o.Products[0].Product.Title)

	// the unpaid addition stays in the cart
	view, err := f.carts.Get(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "p-2", view.Lines[0].Product.ID)
}

func TestComplete_RefilledCartCannotReuseSession(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.fillCart(t, "u-1", 1)
	f.begin(t)
	f.gateway.On("VerifyCheckoutSession", mock.Anything, "cs_1").
		Return(&payment.SessionStatus{ID: "cs_1", Paid: true, AmountTotal: 999}, nil)

	_, err := f.checkout.Complete(ctx, "u-1", "cs_1")
	require.NoError(t, err)

	// same total as the paid session
	f.fillCart(t, "u-1", 1)
	_, err = f.checkout.Complete(ctx, "u-1", "cs_1")
	assert.ErrorIs(t, err, checkout.ErrUnknownSession)

	orders, err := f.store.Orders().ListByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

// brokenTake loads and saves normally but cannot remove sessions
type brokenTake struct {
	*memory.CheckoutStore
}

func (brokenTake) Take(ctx context.Context, sessionID string) (*checkout.Pending, error) {
	return nil, errors.New("store unavailable")
}

func TestComplete_TakeFailurePlacesNoOrder(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	orders := order.NewService(f.store.Orders(), f.carts, f.store.Users(), logger.Discard())
	svc := checkout.NewService(f.carts, orders, f.gateway, brokenTake{memory.NewCheckoutStore()}, "pk_test", logger.Discard())

	f.fillCart(t, "u-1", 1)
	f.gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&payment.Session{ID: "cs_1", URL: "https://pay/cs_1"}, nil)
	_, err := svc.Begin(ctx, "u-1", urls)
	require.NoError(t, err)
	f.gateway.On("VerifyCheckoutSession", mock.Anything, "cs_1").
		Return(&payment.SessionStatus{ID: "cs_1", Paid: true, AmountTotal: 999}, nil)

	_, err = svc.Complete(ctx, "u-1", "cs_1")
	require.Error(t, err)

	placed, err := f.store.Orders().ListByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Empty(t, placed)
}

type failingPlacer struct{}

func (failingPlacer) PlaceFrom(ctx context.Context, userID string, view *cart.View) (*order.Order, error) {
	return nil, errors.New("database unavailable")
}

func TestComplete_PlacementFailureKeepsSession(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	pending := memory.NewCheckoutStore()
	svc := checkout.NewService(f.carts, failingPlacer{}, f.gateway, pending, "pk_test", logger.Discard())

	f.fillCart(t, "u-1", 1)
	f.gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&payment.Session{ID: "cs_1", URL: "https://pay/cs_1"}, nil)
	_, err := svc.Begin(ctx, "u-1", urls)
	require.NoError(t, err)
	f.gateway.On("VerifyCheckoutSession", mock.Anything, "cs_1").
		Return(&payment.SessionStatus{ID: "cs_1", Paid: true, AmountTotal: 999}, nil)

	_, err = svc.Complete(ctx, "u-1", "cs_1")
	require.Error(t, err)

	p, err := pending.Load(ctx, "cs_1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", p.UserID)
}

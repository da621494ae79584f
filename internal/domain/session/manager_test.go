package session_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/session"
	"github.com/your-org/storefront/internal/domain/user"
	"github.com/your-org/storefront/internal/infrastructure/database/memory"
	"github.com/your-org/storefront/internal/pkg/auth"
	"github.com/your-org/storefront/internal/pkg/logger"
)

func setup(t *testing.T) (*session.Manager, *memory.Store) {
	t.Helper()
	cfg := &config.Config{
		App:     config.AppConfig{Name: "Storefront"},
		Session: config.SessionConfig{Secret: strings.Repeat("k", 32), TTL: time.Hour},
	}
	store := memory.NewStore()
	require.NoError(t, store.Users().Create(context.Background(), &user.User{ID: "u-1", Email: "a@x.io"}))

	m := session.NewManager(memory.NewSessionStore(), auth.NewSessionTokenManager(cfg), store.Users(), time.Hour, logger.Discard())
	return m, store
}

func TestLifecycle_EstablishResolveDestroy(t *testing.T) {
	m, store := setup(t)
	ctx := context.Background()
	u, err := store.Users().FindByID(ctx, "u-1")
	require.NoError(t, err)

	token, err := m.Establish(ctx, u)
	require.NoError(t, err)

	p, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	authed, ok := p.(session.Authenticated)
	require.True(t, ok)
	assert.Equal(t, "u-1", authed.User.ID)
	assert.True(t, authed.Session.IsLoggedIn)
	assert.Equal(t, "a@x.io", authed.Session.Email)

	require.NoError(t, m.Destroy(ctx, token))

	p, err = m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, session.Anonymous{}, p)
	assert.False(t, p.IsAuthenticated())
}

func TestResolve_InvalidTokensAreAnonymous(t *testing.T) {
	m, _ := setup(t)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		p, err := m.Resolve(context.Background(), token)
		require.NoError(t, err)
		assert.IsType(t, session.Anonymous{}, p)
	}
}

type deletingUsers struct{}

func (deletingUsers) FindByID(ctx context.Context, id string) (*user.User, error) {
	return nil, user.ErrNotFound
}

func TestResolve_DeletedUserIsAnonymous(t *testing.T) {
	cfg := &config.Config{Session: config.SessionConfig{Secret: strings.Repeat("k", 32), TTL: time.Hour}}
	m := session.NewManager(memory.NewSessionStore(), auth.NewSessionTokenManager(cfg), deletingUsers{}, time.Hour, logger.Discard())

	token, err := m.Establish(context.Background(), &user.User{ID: "gone", Email: "g@x.io"})
	require.NoError(t, err)

	p, err := m.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.IsType(t, session.Anonymous{}, p)
}

type brokenStore struct{ session.Store }

func (brokenStore) Get(ctx context.Context, id string) (*session.Record, error) {
	return nil, errors.New("redis down")
}

func TestResolve_StoreFailureIsReported(t *testing.T) {
	cfg := &config.Config{Session: config.SessionConfig{Secret: strings.Repeat("k", 32), TTL: time.Hour}}
	inner := memory.NewSessionStore()
	m := session.NewManager(brokenStore{inner}, auth.NewSessionTokenManager(cfg), deletingUsers{}, time.Hour, logger.Discard())

	token, err := m.Establish(context.Background(), &user.User{ID: "u-1"})
	require.NoError(t, err)

	p, err := m.Resolve(context.Background(), token)
	assert.Error(t, err)
	assert.IsType(t, session.Anonymous{}, p)
}

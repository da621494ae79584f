package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/order"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/domain/user"
	"github.com/your-org/storefront/internal/pkg/logger"
)

func setupTestDB(t *testing.T) (*DB, func()) {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Host: host, Name: "testdb",
			MaxOpenConns: 5, MaxIdleConns: 1, MaxLifetime: time.Minute,
		},
	}
	dsn := fmt.Sprintf("host=%s port=%s user=testuser password=testpass dbname=testdb sslmode=disable", host, port.Port())

	db, err := Open(dsn, cfg, logger.Discard())
	require.NoError(t, err)
	require.NoError(t, NewMigration(db.GetDB(), logger.Discard()).RunAutoMigrations())
	require.NoError(t, NewMigration(db.GetDB(), logger.Discard()).CreateIndexes())

	cleanup := func() {
		db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return db, cleanup
}

func newUser(email string) *user.User {
	now := time.Now().UTC()
	return &user.User{ID: uuid.NewString(), Email: email, PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}
}

func TestUserRepository_CreateAndDuplicate(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewUserRepository(db.GetDB())
	ctx := context.Background()

	u := newUser("a@x.io")
	require.NoError(t, repo.Create(ctx, u))

	err := repo.Create(ctx, newUser("a@x.io"))
	assert.ErrorIs(t, err, user.ErrEmailTaken)

	found, err := repo.FindByEmail(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
	assert.True(t, found.Cart.IsEmpty())

	_, err = repo.FindByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestUserRepository_SaveCartCompareAndSwap(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewUserRepository(db.GetDB())
	ctx := context.Background()

	u := newUser("cart@x.io")
	require.NoError(t, repo.Create(ctx, u))

	c, err := repo.LoadCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), c.Version)

	require.NoError(t, repo.SaveCart(ctx, u.ID, 0, c.Add("p-1").Add("p-1")))
	err = repo.SaveCart(ctx, u.ID, 0, c.Add("p-2"))
	assert.ErrorIs(t, err, cart.ErrVersionConflict)

	stored, err := repo.LoadCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version)
	assert.Equal(t, 2, stored.Quantity("p-1"))

	err = repo.SaveCart(ctx, uuid.NewString(), 0, c)
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestUserRepository_ResetTokenConsumedOnce(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewUserRepository(db.GetDB())
	ctx := context.Background()

	u := newUser("reset@x.io")
	require.NoError(t, repo.Create(ctx, u))

	now := time.Now().UTC()
	require.NoError(t, repo.SetResetToken(ctx, u.ID, "tok", now.Add(time.Hour)))

	_, err := repo.FindByResetToken(ctx, "tok", now.Add(3601*time.Second))
	assert.ErrorIs(t, err, user.ErrNotFound)
	found, err := repo.FindByResetToken(ctx, "tok", now.Add(3599*time.Second))
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	ok, err := repo.ConsumeResetToken(ctx, "tok", u.ID, now, "newhash")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ConsumeResetToken(ctx, "tok", u.ID, now, "again")
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "newhash", stored.PasswordHash)
	assert.Nil(t, stored.ResetToken)
}

func TestProductRepository_PaginationAndOwnership(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewProductRepository(db.GetDB())
	ctx := context.Background()

	owner := uuid.NewString()
	base := time.Now().UTC()
	var ids []string
	for i := 0; i < 7; i++ {
		userID := owner
		if i >= 4 {
			userID = uuid.NewString()
		}
		p := &product.Product{
			ID: uuid.NewString(), Title: fmt.Sprintf("Item %d", i), Price: int64(100 + i),
			Description: "Sample", ImageURL: "/img.png", UserID: userID,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.Create(ctx, p))
		ids = append(ids, p.ID)
	}

	page, total, err := repo.List(ctx, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	require.Len(t, page, 2)
	assert.Equal(t, "Item 5", page[0].Title)

	mine, count, err := repo.ListByUser(ctx, owner, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.Len(t, mine, 4)

	found, err := repo.FindByIDs(ctx, []string{ids[0], "bogus", ids[1]})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	require.NoError(t, repo.Delete(ctx, ids[0]))
	_, err = repo.FindByID(ctx, ids[0])
	assert.ErrorIs(t, err, product.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, ids[0]), product.ErrNotFound)
}

func TestOrderRepository_SnapshotRoundTrip(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewOrderRepository(db.GetDB())
	ctx := context.Background()

	userID := uuid.NewString()
	o := &order.Order{
		ID: uuid.NewString(),
		Products: []order.LineItem{
			{Product: order.ProductSnapshot{Title: "Widget", Price: 999, Description: "A widget"}, Quantity: 2},
		},
		User:      order.Customer{Email: "a@x.io", UserID: userID},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, o))

	stored, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1998), stored.Total())
	assert.Equal(t, o.User, stored.User)

	list, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = repo.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, order.ErrNotFound)
}

// internal/infrastructure/database/memory/store.go
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/order"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/domain/user"
)

// Store keeps users, products and orders in process memory. It backs the
// "memory" database driver and the service tests.
type Store struct {
	mu       sync.RWMutex
	users    map[string]user.User
	products map[string]product.Product
	orders   map[string]order.Order
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:    make(map[string]user.User),
		products: make(map[string]product.Product),
		orders:   make(map[string]order.Order),
	}
}

// Users returns the user repository view of the store
func (s *Store) Users() *UserRepository { return &UserRepository{s} }

// Products returns the product repository view of the store
func (s *Store) Products() *ProductRepository { return &ProductRepository{s} }

// Orders returns the order repository view of the store
func (s *Store) Orders() *OrderRepository { return &OrderRepository{s} }

// UserRepository implements user.Repository and cart.Store
type UserRepository struct{ s *Store }

var (
	_ user.Repository = (*UserRepository)(nil)
	_ cart.Store      = (*UserRepository)(nil)
)

func copyUser(u user.User) *user.User {
	items := make([]cart.Item, len(u.Cart.Items))
	copy(items, u.Cart.Items)
	u.Cart.Items = items
	if u.ResetToken != nil {
		token := *u.ResetToken
		u.ResetToken = &token
	}
	if u.ResetTokenExpiration != nil {
		exp := *u.ResetTokenExpiration
		u.ResetTokenExpiration = &exp
	}
	return &u
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}
	r.s.users[u.ID] = *copyUser(*u)
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return copyUser(u), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, user.ErrNotFound
}

func (r *UserRepository) FindByResetToken(ctx context.Context, token string, now time.Time) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.HasValidResetToken(token, now) {
			return copyUser(u), nil
		}
	}
	return nil, user.ErrNotFound
}

func (r *UserRepository) SetResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return user.ErrNotFound
	}
	u.ResetToken = &token
	u.ResetTokenExpiration = &expiresAt
	u.UpdatedAt = time.Now().UTC()
	r.s.users[userID] = u
	return nil
}

func (r *UserRepository) ConsumeResetToken(ctx context.Context, token, userID string, now time.Time, passwordHash string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok || !u.HasValidResetToken(token, now) {
		return false, nil
	}
	u.PasswordHash = passwordHash
	u.ResetToken = nil
	u.ResetTokenExpiration = nil
	u.UpdatedAt = now
	r.s.users[userID] = u
	return true, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return user.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	r.s.users[userID] = u
	return nil
}

func (r *UserRepository) LoadCart(ctx context.Context, userID string) (cart.Cart, error) {
	u, err := r.FindByID(ctx, userID)
	if err != nil {
		return cart.Cart{}, err
	}
	return u.Cart, nil
}

func (r *UserRepository) SaveCart(ctx context.Context, userID string, expectedVersion int64, c cart.Cart) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return user.ErrNotFound
	}
	if u.Cart.Version != expectedVersion {
		return cart.ErrVersionConflict
	}
	items := make([]cart.Item, len(c.Items))
	copy(items, c.Items)
	u.Cart = cart.Cart{Items: items, Version: expectedVersion + 1}
	r.s.users[userID] = u
	return nil
}

// ProductRepository implements product.Repository
type ProductRepository struct{ s *Store }

var _ product.Repository = (*ProductRepository)(nil)

func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return product.ErrNotFound
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return product.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []string) ([]product.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]product.Product, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProductRepository) List(ctx context.Context, offset, limit int) ([]product.Product, int64, error) {
	return r.list(func(product.Product) bool { return true }, offset, limit), r.count(func(product.Product) bool { return true }), nil
}

func (r *ProductRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]product.Product, int64, error) {
	owned := func(p product.Product) bool { return p.UserID == userID }
	return r.list(owned, offset, limit), r.count(owned), nil
}

func (r *ProductRepository) sorted(keep func(product.Product) bool) []product.Product {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]product.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		if keep(p) {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	return all
}

func (r *ProductRepository) list(keep func(product.Product) bool, offset, limit int) []product.Product {
	all := r.sorted(keep)
	if offset >= len(all) {
		return []product.Product{}
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

func (r *ProductRepository) count(keep func(product.Product) bool) int64 {
	return int64(len(r.sorted(keep)))
}

// OrderRepository implements order.Repository
type OrderRepository struct{ s *Store }

var _ order.Repository = (*OrderRepository)(nil)

func copyOrder(o order.Order) *order.Order {
	items := make([]order.LineItem, len(o.Products))
	copy(items, o.Products)
	o.Products = items
	return &o
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orders[o.ID] = *copyOrder(*o)
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return copyOrder(o), nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []order.Order{}
	for _, o := range r.s.orders {
		if o.User.UserID == userID {
			out = append(out, *copyOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

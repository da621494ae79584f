// internal/domain/cart/entity.go
package cart

import (
	"context"
	"errors"

	"github.com/your-org/storefront/internal/domain/product"
)

// ErrVersionConflict is returned by Store.SaveCart when the stored cart
// changed since it was loaded
var ErrVersionConflict = errors.New("cart was modified concurrently")

// Item is one product line in a cart
type Item struct {
	ProductID string `json:"productId" bson:"productId"`
	Quantity  int    `json:"quantity" bson:"quantity"`
}

// Cart is embedded in the user record. Version increases by one on every save.
type Cart struct {
	Items   []Item `gorm:"column:items;type:jsonb;serializer:json" json:"items" bson:"items"`
	Version int64  `gorm:"column:version;not null;default:0" json:"version" bson:"version"`
}

// Add returns a copy of the cart with productID merged in: an existing line
// gains one unit, otherwise a new line with quantity 1 is appended.
func (c Cart) Add(productID string) Cart {
	items := make([]Item, 0, len(c.Items)+1)
	found := false
	for _, it := range c.Items {
		if it.ProductID == productID {
			it.Quantity++
			found = true
		}
		items = append(items, it)
	}
	if !found {
		items = append(items, Item{ProductID: productID, Quantity: 1})
	}
	return Cart{Items: items, Version: c.Version}
}

// Remove returns a copy of the cart without any line for productID
func (c Cart) Remove(productID string) Cart {
	items := make([]Item, 0, len(c.Items))
	for _, it := range c.Items {
		if it.ProductID != productID {
			items = append(items, it)
		}
	}
	return Cart{Items: items, Version: c.Version}
}

// Clear returns an empty copy of the cart
func (c Cart) Clear() Cart {
	return Cart{Items: []Item{}, Version: c.Version}
}

// Subtract returns a copy of the cart with the quantities in items taken
// out. Lines that reach zero are dropped; anything not in items is kept.
func (c Cart) Subtract(items []Item) Cart {
	taken := make(map[string]int, len(items))
	for _, it := range items {
		taken[it.ProductID] += it.Quantity
	}

	kept := make([]Item, 0, len(c.Items))
	for _, it := range c.Items {
		if n := taken[it.ProductID]; n > 0 {
			used := n
			if used > it.Quantity {
				used = it.Quantity
			}
			taken[it.ProductID] = n - used
			it.Quantity -= used
		}
		if it.Quantity > 0 {
			kept = append(kept, it)
		}
	}
	return Cart{Items: kept, Version: c.Version}
}

// Quantity returns the units of productID in the cart
func (c Cart) Quantity(productID string) int {
	total := 0
	for _, it := range c.Items {
		if it.ProductID == productID {
			total += it.Quantity
		}
	}
	return total
}

// IsEmpty reports whether the cart has no lines
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ProductIDs returns the product ids in cart order
func (c Cart) ProductIDs() []string {
	ids := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ProductID)
	}
	return ids
}

// Line is a cart item resolved against the live product
type Line struct {
	Product  product.Product
	Quantity int
}

// Subtotal returns quantity times unit price
func (l Line) Subtotal() int64 {
	return int64(l.Quantity) * l.Product.Price
}

// View is a cart resolved for display and checkout
type View struct {
	UserID  string
	Lines   []Line
	Version int64
}

// Total returns the sum of line subtotals
func (v *View) Total() int64 {
	var total int64
	for _, l := range v.Lines {
		total += l.Subtotal()
	}
	return total
}

// Items returns the view's lines as cart items
func (v *View) Items() []Item {
	items := make([]Item, 0, len(v.Lines))
	for _, l := range v.Lines {
		items = append(items, Item{ProductID: l.Product.ID, Quantity: l.Quantity})
	}
	return items
}

// IsEmpty reports whether the view has no resolvable lines
func (v *View) IsEmpty() bool {
	return len(v.Lines) == 0
}

// Store loads and conditionally saves the cart embedded in a user record
type Store interface {
	LoadCart(ctx context.Context, userID string) (Cart, error)
	// SaveCart writes c with version expectedVersion+1 if the stored version
	// still equals expectedVersion, otherwise it returns ErrVersionConflict.
	SaveCart(ctx context.Context, userID string, expectedVersion int64, c Cart) error
}

// ProductFinder resolves cart lines against the catalog
type ProductFinder interface {
	FindByID(ctx context.Context, id string) (*product.Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]product.Product, error)
}

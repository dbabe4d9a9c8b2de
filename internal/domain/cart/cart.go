package cart

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/mfialho/artecheiro/internal/domain/product"
)

// Sentinel errors for cart operations.
var (
	// ErrInvalidQuantity is returned when a mutation carries a quantity
	// outside the allowed range (Add requires >= 1, Update requires >= 0).
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrLineNotFound is returned when updating or removing a line that is
	// not present in the cart.
	ErrLineNotFound = errors.New("cart line not found")
)

// Line is a single (product, quantity) pair as stored for a cart. A cart
// holds at most one line per product: adding an existing product increments
// the quantity instead of duplicating the line.
type Line struct {
	ProductID string
	Quantity  int
}

// Item is a cart line resolved against the catalog, with the authoritative
// server-side price.
type Item struct {
	Product   product.Product
	Quantity  int
	LineTotal int64
}

// Cart is the resolved view of a persisted cart. Unresolved holds lines whose
// product no longer exists in the catalog; they are excluded from Subtotal
// but surfaced so callers can flag the inconsistency.
type Cart struct {
	ID         string
	Items      []Item
	Unresolved []Line
	Subtotal   int64
}

// Empty reports whether the cart has no lines at all, resolved or not.
func (c *Cart) Empty() bool {
	return len(c.Items) == 0 && len(c.Unresolved) == 0
}

// Repository defines persistence operations for carts. Carts are keyed by an
// opaque cart ID carried by the client; rows are unique per
// (cart_id, product_id).
//
// Implementations must make AddLine and SetQuantity safe against concurrent
// read-modify-write on the same line (atomic upsert or conditional update),
// since the same cart may be mutated from parallel requests.
type Repository interface {
	// Lines returns the raw lines of a cart, ordered by product ID.
	// An unknown cart ID yields an empty slice, not an error.
	Lines(ctx context.Context, cartID string) ([]Line, error)
	// AddLine inserts a line or atomically increments the quantity of an
	// existing one.
	AddLine(ctx context.Context, cartID, productID string, quantity int) error
	// SetQuantity replaces the quantity of an existing line. Returns
	// ErrLineNotFound when the line does not exist.
	SetQuantity(ctx context.Context, cartID, productID string, quantity int) error
	// RemoveLine deletes a line. Returns ErrLineNotFound when absent.
	RemoveLine(ctx context.Context, cartID, productID string) error
	// Clear deletes every line of the cart.
	Clear(ctx context.Context, cartID string) error
}

// InvalidQuantityError reports which product carried the bad quantity.
type InvalidQuantityError struct {
	ProductID string
	Quantity  int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for product %s", e.Quantity, e.ProductID)
}

// Unwrap lets errors.Is match against ErrInvalidQuantity.
func (e *InvalidQuantityError) Unwrap() error {
	return ErrInvalidQuantity
}

package product

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase. Price is in minor
// currency units (centavos) to avoid floating-point money errors. The catalog
// is the single source of truth for price and identity: clients submit only
// product IDs and quantities, never prices.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       int64
	Image       string
}

// Repository defines read operations for the product catalog. The catalog is
// read-only from the storefront's perspective at request time.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mfialho/artecheiro/internal/domain/cart"
)

const (
	cartLinesSQL = `SELECT product_id, quantity
		FROM cart_items WHERE cart_id = $1 ORDER BY product_id`

	// Upsert: a second add of the same product increments the existing
	// quantity in one atomic statement, so concurrent adds never lose
	// updates.
	addCartLineSQL = `INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`

	setCartQuantitySQL = `UPDATE cart_items SET quantity = $3
		WHERE cart_id = $1 AND product_id = $2`

	removeCartLineSQL = `DELETE FROM cart_items
		WHERE cart_id = $1 AND product_id = $2`

	clearCartSQL = `DELETE FROM cart_items WHERE cart_id = $1`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL. Rows are
// unique per (cart_id, product_id); all mutations are single atomic
// statements, which is what serializes concurrent read-modify-write on the
// same line.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// Lines returns the raw lines of a cart ordered by product ID. An unknown
// cart simply has no lines.
func (r *CartRepository) Lines(ctx context.Context, cartID string) ([]cart.Line, error) {
	rows, err := r.pool.Query(ctx, cartLinesSQL, cartID)
	if err != nil {
		return nil, fmt.Errorf("listing cart %q: %w", cartID, err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (cart.Line, error) {
		var l cart.Line
		err := row.Scan(&l.ProductID, &l.Quantity)
		return l, err
	})
}

// AddLine inserts a line or atomically increments an existing one.
func (r *CartRepository) AddLine(ctx context.Context, cartID, productID string, quantity int) error {
	_, err := r.pool.Exec(ctx, addCartLineSQL, cartID, productID, quantity)
	if err != nil {
		return fmt.Errorf("adding line %q to cart %q: %w", productID, cartID, err)
	}
	return nil
}

// SetQuantity replaces the quantity of an existing line.
func (r *CartRepository) SetQuantity(ctx context.Context, cartID, productID string, quantity int) error {
	tag, err := r.pool.Exec(ctx, setCartQuantitySQL, cartID, productID, quantity)
	if err != nil {
		return fmt.Errorf("updating line %q in cart %q: %w", productID, cartID, err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrLineNotFound
	}
	return nil
}

// RemoveLine deletes a line from the cart.
func (r *CartRepository) RemoveLine(ctx context.Context, cartID, productID string) error {
	tag, err := r.pool.Exec(ctx, removeCartLineSQL, cartID, productID)
	if err != nil {
		return fmt.Errorf("removing line %q from cart %q: %w", productID, cartID, err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrLineNotFound
	}
	return nil
}

// Clear deletes every line of the cart.
func (r *CartRepository) Clear(ctx context.Context, cartID string) error {
	_, err := r.pool.Exec(ctx, clearCartSQL, cartID)
	if err != nil {
		return fmt.Errorf("clearing cart %q: %w", cartID, err)
	}
	return nil
}

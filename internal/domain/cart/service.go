package cart

import (
	"context"

	"github.com/go-faster/errors"
	"golang.org/x/sync/singleflight"

	"github.com/mfialho/artecheiro/internal/domain/product"
)

// Service encapsulates cart business logic on top of the persistence layer.
// Quantity conflicts between concurrent mutations of the same line are
// resolved by the repository's atomic upsert; the service only validates
// input and resolves lines against the catalog.
type Service struct {
	carts    Repository
	products product.Repository
	sfg      singleflight.Group
}

// NewService creates a cart Service.
func NewService(carts Repository, products product.Repository) *Service {
	return &Service{
		carts:    carts,
		products: products,
	}
}

// Add puts quantity units of a product into the cart, incrementing the
// existing line when present. The product must exist in the catalog and
// quantity must be at least 1.
func (s *Service) Add(ctx context.Context, cartID, productID string, quantity int) error {
	if quantity < 1 {
		return &InvalidQuantityError{ProductID: productID, Quantity: quantity}
	}

	// Reject unknown products up front so a cart never accumulates lines
	// that can only fail at checkout.
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return product.ErrNotFound
		}
		return errors.Wrapf(err, "get product %s", productID)
	}

	if err := s.carts.AddLine(ctx, cartID, productID, quantity); err != nil {
		return errors.Wrap(err, "add line")
	}
	return nil
}

// Update sets the quantity of an existing line. A quantity of zero removes
// the line; negative quantities are rejected.
func (s *Service) Update(ctx context.Context, cartID, productID string, quantity int) error {
	switch {
	case quantity < 0:
		return &InvalidQuantityError{ProductID: productID, Quantity: quantity}
	case quantity == 0:
		return s.Remove(ctx, cartID, productID)
	}

	if err := s.carts.SetQuantity(ctx, cartID, productID, quantity); err != nil {
		if errors.Is(err, ErrLineNotFound) {
			return ErrLineNotFound
		}
		return errors.Wrap(err, "set quantity")
	}
	return nil
}

// Remove deletes a line from the cart.
func (s *Service) Remove(ctx context.Context, cartID, productID string) error {
	if err := s.carts.RemoveLine(ctx, cartID, productID); err != nil {
		if errors.Is(err, ErrLineNotFound) {
			return ErrLineNotFound
		}
		return errors.Wrap(err, "remove line")
	}
	return nil
}

// Clear removes every line from the cart.
func (s *Service) Clear(ctx context.Context, cartID string) error {
	if err := s.carts.Clear(ctx, cartID); err != nil {
		return errors.Wrap(err, "clear cart")
	}
	return nil
}

// Get loads the cart and resolves each line against the catalog. The subtotal
// covers resolved lines only; lines whose product has disappeared are
// returned in Unresolved. Concurrent loads of the same cart are collapsed
// into a single lookup.
func (s *Service) Get(ctx context.Context, cartID string) (*Cart, error) {
	v, err, _ := s.sfg.Do(cartID, func() (any, error) {
		return s.load(ctx, cartID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Cart), nil
}

func (s *Service) load(ctx context.Context, cartID string) (*Cart, error) {
	lines, err := s.carts.Lines(ctx, cartID)
	if err != nil {
		return nil, errors.Wrap(err, "load lines")
	}

	c := &Cart{ID: cartID}
	if len(lines) == 0 {
		return c, nil
	}

	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}
	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "resolve products")
	}

	byID := make(map[string]product.Product, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}

	for _, l := range lines {
		p, ok := byID[l.ProductID]
		if !ok {
			c.Unresolved = append(c.Unresolved, l)
			continue
		}
		lineTotal := p.Price * int64(l.Quantity)
		c.Items = append(c.Items, Item{
			Product:   p,
			Quantity:  l.Quantity,
			LineTotal: lineTotal,
		})
		c.Subtotal += lineTotal
	}
	return c, nil
}

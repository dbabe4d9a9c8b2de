package checkout

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/mfialho/artecheiro/internal/domain/product"
)

// shippingName labels the flat-fee shipping line item shown on the hosted
// payment page.
const shippingName = "Frete"

// Service builds hosted payment sessions from checkout requests and reads
// session status back. It is a thin orchestration layer: resolve lines
// against the catalog, hand the provider authoritative prices, return the
// provider's answers verbatim.
type Service struct {
	products product.Repository
	provider Provider

	// shippingFee in minor units is appended as its own line item to any
	// non-empty checkout. Zero disables the shipping line.
	shippingFee int64
}

// NewService creates a checkout Service.
func NewService(products product.Repository, provider Provider, shippingFee int64) *Service {
	return &Service{
		products:    products,
		provider:    provider,
		shippingFee: shippingFee,
	}
}

// CreateSession validates the request, resolves every line to a catalog
// product in a single batch, and asks the provider for a hosted payment
// session. Any unresolved product fails the entire operation; nothing is
// submitted partially. Provider failures surface as ErrSessionCreate with
// the underlying cause logged.
//
// Retries are caller-initiated: the operation is safe to re-invoke but never
// retried automatically.
func (s *Service) CreateSession(ctx context.Context, req Request) (*Session, error) {
	if len(req.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	ids := make([]string, len(req.Lines))
	for i, line := range req.Lines {
		if line.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: line.ProductID}
		}
		ids[i] = line.ProductID
	}

	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}

	byID := make(map[string]product.Product, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}

	items := make([]LineItem, 0, len(req.Lines)+1)
	for _, line := range req.Lines {
		p, ok := byID[line.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: line.ProductID}
		}
		items = append(items, LineItem{
			Name:        p.Name,
			Description: p.Description,
			ImageURL:    p.Image,
			UnitAmount:  p.Price,
			Quantity:    line.Quantity,
		})
	}

	if s.shippingFee > 0 {
		items = append(items, LineItem{
			Name:       shippingName,
			UnitAmount: s.shippingFee,
			Quantity:   1,
		})
	}

	session, err := s.provider.CreateHostedSession(ctx, SessionParams{
		Items:         items,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
	})
	if err != nil {
		zctx.From(ctx).Error("Payment session creation failed",
			zap.Int("lines", len(req.Lines)),
			zap.Error(err),
		)
		return nil, ErrSessionCreate
	}

	return session, nil
}

// SessionStatus is a pure passthrough query for the settlement state of a
// session. Unknown sessions yield ErrSessionNotFound; any other provider
// failure is logged and collapsed into ErrSessionLookup.
func (s *Service) SessionStatus(ctx context.Context, sessionID string) (*Status, error) {
	status, err := s.provider.RetrieveSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		zctx.From(ctx).Error("Payment session lookup failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return nil, ErrSessionLookup
	}
	return status, nil
}

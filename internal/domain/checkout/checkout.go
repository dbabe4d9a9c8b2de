package checkout

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
)

// Sentinel errors for the checkout flow.
var (
	// ErrEmptyCart is returned when a checkout request carries no lines.
	ErrEmptyCart = errors.New("checkout requires at least one line")
	// ErrSessionNotFound is returned when the payment provider reports no
	// session for the given identifier.
	ErrSessionNotFound = errors.New("payment session not found")
	// ErrSessionCreate is the generic failure surfaced to callers when the
	// payment provider rejects or fails the session creation. The underlying
	// provider error is logged, never exposed.
	ErrSessionCreate = errors.New("checkout session failed")
	// ErrSessionLookup is the generic failure surfaced when the provider
	// cannot answer a session status query for any reason other than the
	// session being unknown.
	ErrSessionLookup = errors.New("session lookup failed")
)

// ProductNotFoundError indicates a checkout line references a product that
// does not exist in the catalog. Any unresolved line fails the whole
// checkout; no partial line-item list is ever submitted.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InvalidQuantityError indicates a checkout line has a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s", e.ProductID)
}

// Line is one (productId, quantity) pair of a checkout request. Prices are
// never accepted from the client; they are resolved server-side.
type Line struct {
	ProductID string
	Quantity  int
}

// Request holds the input for a checkout attempt. It is constructed once per
// attempt and not persisted.
type Request struct {
	Lines         []Line
	CustomerEmail string
	CustomerName  string
}

// Session references a hosted payment session owned by the provider. The
// system holds only the identifier and redirect URL, both returned verbatim.
type Session struct {
	ID          string
	RedirectURL string
}

// Status is the provider-authoritative settlement state of a session. It is
// re-queried on every read and never cached locally, since it can change
// outside this system's control.
type Status struct {
	PaymentStatus string
	AmountTotal   int64
	Currency      string
	CustomerEmail string
}

// LineItem is one (display metadata, unit price, quantity) tuple submitted to
// the payment provider. UnitAmount is in minor currency units.
type LineItem struct {
	Name        string
	Description string
	ImageURL    string
	UnitAmount  int64
	Quantity    int
}

// SessionParams carries everything the provider needs to open a single-use
// hosted payment page.
type SessionParams struct {
	Items         []LineItem
	CustomerEmail string
	CustomerName  string
}

// Provider is the payment provider boundary, treated as an opaque HTTPS API.
type Provider interface {
	CreateHostedSession(ctx context.Context, params SessionParams) (*Session, error)
	RetrieveSession(ctx context.Context, sessionID string) (*Status, error)
}

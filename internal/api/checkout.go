package api

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/mfialho/artecheiro/internal/domain/checkout"
)

type checkoutRequest struct {
	Items         []checkoutLineRequest `json:"items"`
	CustomerEmail string                `json:"customerEmail"`
	CustomerName  string                `json:"customerName"`
}

type checkoutLineRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type checkoutSessionResponse struct {
	SessionID   string `json:"sessionId"`
	RedirectURL string `json:"redirectUrl"`
}

type sessionStatusResponse struct {
	PaymentStatus string `json:"paymentStatus"`
	AmountTotal   int64  `json:"amountTotal"`
	Currency      string `json:"currency"`
	CustomerEmail string `json:"customerEmail"`
}

// CreateCheckoutSession builds a hosted payment session. Lines in the body
// take precedence; when the body carries none, the persisted cart identified
// by the X-Cart-ID header is used. Prices always come from the catalog, never
// from the client.
func (h *Handler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeBody(w, r, &req); err != nil {
		// A bodyless request is fine here: header-driven checkout needs no
		// payload at all.
		if !errors.Is(err, io.EOF) {
			respondError(w, http.StatusBadRequest, "malformed request body")
			return
		}
	}

	lines := make([]checkout.Line, len(req.Items))
	for i, item := range req.Items {
		lines[i] = checkout.Line{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	if len(lines) == 0 {
		var err error
		lines, err = h.persistedCartLines(r)
		if err != nil {
			respondInternal(w, r, err)
			return
		}
	}

	session, err := h.checkouts.CreateSession(r.Context(), checkout.Request{
		Lines:         lines,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
	})
	if err != nil {
		h.respondCheckoutError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, checkoutSessionResponse{
		SessionID:   session.ID,
		RedirectURL: session.RedirectURL,
	})
}

// GetCheckoutSession reads the provider-authoritative settlement status of a
// session. Status is never cached server-side.
func (h *Handler) GetCheckoutSession(w http.ResponseWriter, r *http.Request) {
	status, err := h.checkouts.SessionStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrSessionNotFound):
			respondError(w, http.StatusNotFound, "session not found")
		case errors.Is(err, checkout.ErrSessionLookup):
			respondError(w, http.StatusBadGateway, "payment provider unavailable, please try again")
		default:
			respondInternal(w, r, errors.Wrap(err, "session status"))
		}
		return
	}

	respondJSON(w, http.StatusOK, sessionStatusResponse{
		PaymentStatus: status.PaymentStatus,
		AmountTotal:   status.AmountTotal,
		Currency:      status.Currency,
		CustomerEmail: status.CustomerEmail,
	})
}

// persistedCartLines loads checkout lines from the caller's persisted cart.
// Without a valid cart header this is simply an empty line set, which the
// service rejects as an empty cart.
func (h *Handler) persistedCartLines(r *http.Request) ([]checkout.Line, error) {
	id := r.Header.Get(CartIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		// Absent or malformed header: no persisted cart to draw from. The
		// service turns the empty line set into an empty-cart rejection.
		return nil, nil
	}
	c, err := h.carts.Get(r.Context(), id)
	if err != nil {
		return nil, errors.Wrap(err, "load persisted cart")
	}

	lines := make([]checkout.Line, 0, len(c.Items)+len(c.Unresolved))
	for _, item := range c.Items {
		lines = append(lines, checkout.Line{ProductID: item.Product.ID, Quantity: item.Quantity})
	}
	// Unresolved lines are submitted too: checkout must fail loudly on them
	// rather than silently dropping what the customer thinks is in the cart.
	for _, l := range c.Unresolved {
		lines = append(lines, checkout.Line{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return lines, nil
}

func (h *Handler) respondCheckoutError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound   *checkout.ProductNotFoundError
		invalidQty *checkout.InvalidQuantityError
	)
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "items required")
	case errors.As(err, &invalidQty):
		respondError(w, http.StatusUnprocessableEntity, invalidQty.Error())
	case errors.As(err, &notFound):
		respondError(w, http.StatusUnprocessableEntity, notFound.Error())
	case errors.Is(err, checkout.ErrSessionCreate):
		// Generic retryable answer; provider detail stays in the logs.
		respondError(w, http.StatusBadGateway, "payment provider unavailable, please try again")
	default:
		respondInternal(w, r, err)
	}
}

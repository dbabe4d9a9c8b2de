// Package api exposes the storefront over HTTP: catalog reads, cart
// mutations, checkout session creation and status, and the contact form.
package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mfialho/artecheiro/internal/domain/cart"
	"github.com/mfialho/artecheiro/internal/domain/checkout"
	"github.com/mfialho/artecheiro/internal/domain/contact"
	"github.com/mfialho/artecheiro/internal/domain/product"
)

// CartIDHeader carries the opaque cart identifier between client and server.
// The server issues one on the first cart mutation and echoes it on every
// cart response.
const CartIDHeader = "X-Cart-ID"

// maxBodyBytes caps request bodies; the largest legitimate payload is a
// contact message.
const maxBodyBytes = 64 << 10

// HandlerConfig holds non-dependency configuration for the Handler.
type HandlerConfig struct {
	// ImageBaseURL is prepended to relative image paths in product
	// responses. When empty, image paths are returned as stored.
	ImageBaseURL string
}

// Handler wires the domain services into HTTP endpoints.
type Handler struct {
	products     product.Repository
	carts        *cart.Service
	checkouts    *checkout.Service
	contacts     *contact.Service
	imageBaseURL string
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	cfg HandlerConfig,
	products product.Repository,
	carts *cart.Service,
	checkouts *checkout.Service,
	contacts *contact.Service,
) *Handler {
	return &Handler{
		products:     products,
		carts:        carts,
		checkouts:    checkouts,
		contacts:     contacts,
		imageBaseURL: cfg.ImageBaseURL,
	}
}

// Register attaches every API route to the mux. Routes use method-qualified
// patterns, so unmatched methods get 405 from the mux itself.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)

	mux.HandleFunc("GET /api/cart", h.GetCart)
	mux.HandleFunc("POST /api/cart/items", h.AddCartItem)
	mux.HandleFunc("PATCH /api/cart/items/{productId}", h.UpdateCartItem)
	mux.HandleFunc("DELETE /api/cart/items/{productId}", h.RemoveCartItem)
	mux.HandleFunc("DELETE /api/cart", h.ClearCart)

	mux.HandleFunc("POST /api/checkout", h.CreateCheckoutSession)
	mux.HandleFunc("GET /api/checkout/sessions/{id}", h.GetCheckoutSession)

	mux.HandleFunc("POST /api/contact", h.SubmitContact)
}

// errorResponse is the uniform error body: a machine code mirroring the HTTP
// status plus a human-readable message, optionally with per-field details.
type errorResponse struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Fields  []fieldError `json:"fields,omitempty"`
}

type fieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Code: status, Message: message})
}

// respondInternal logs the underlying error and answers with a generic 500.
// Internal detail never reaches the client.
func respondInternal(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("Request failed", zap.Error(err))
	respondError(w, http.StatusInternalServerError, "internal error")
}

// decodeBody reads a size-limited JSON body into dst. Unknown fields are
// rejected so typos in client payloads fail loudly.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// Trailing garbage after the JSON value is also a malformed request.
	if dec.More() {
		return io.ErrUnexpectedEOF
	}
	return nil
}

// cartID extracts a valid cart ID from the request header, or issues a fresh
// one. The effective ID is always echoed on the response so the client can
// persist it.
func cartID(w http.ResponseWriter, r *http.Request) string {
	id := r.Header.Get(CartIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.New().String()
	}
	w.Header().Set(CartIDHeader, id)
	return id
}

// displayAmount renders a minor-unit amount as a fixed two-decimal string
// ("1000" centavos -> "10.00").
func displayAmount(minor int64) string {
	return decimal.NewFromInt(minor).Div(decimal.NewFromInt(100)).StringFixed(2)
}

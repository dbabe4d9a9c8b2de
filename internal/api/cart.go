package api

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/mfialho/artecheiro/internal/domain/cart"
	"github.com/mfialho/artecheiro/internal/domain/product"
)

type cartResponse struct {
	ID              string               `json:"id"`
	Items           []cartItemResponse   `json:"items"`
	Unresolved      []cartLineResponse   `json:"unresolved,omitempty"`
	Subtotal        int64                `json:"subtotal"`
	DisplaySubtotal string               `json:"displaySubtotal"`
}

type cartItemResponse struct {
	Product   productResponse `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal int64           `json:"lineTotal"`
}

type cartLineResponse struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type addCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart returns the resolved cart with totals. Lines whose product has
// disappeared from the catalog are listed separately and excluded from the
// subtotal.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	id := cartID(w, r)
	c, err := h.carts.Get(r.Context(), id)
	if err != nil {
		respondInternal(w, r, errors.Wrap(err, "get cart"))
		return
	}
	respondJSON(w, http.StatusOK, h.toCartResponse(c))
}

// AddCartItem adds quantity units of a product to the cart, creating the
// cart when the client does not yet carry an ID.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "productId required")
		return
	}

	id := cartID(w, r)
	err := h.carts.Add(r.Context(), id, req.ProductID, req.Quantity)
	if err != nil {
		h.respondCartError(w, r, err)
		return
	}
	h.respondCart(w, r, id)
}

// UpdateCartItem sets the quantity of an existing line. Quantity zero
// removes the line.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateCartItemRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	id := cartID(w, r)
	err := h.carts.Update(r.Context(), id, r.PathValue("productId"), req.Quantity)
	if err != nil {
		h.respondCartError(w, r, err)
		return
	}
	h.respondCart(w, r, id)
}

// RemoveCartItem deletes a line from the cart.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id := cartID(w, r)
	err := h.carts.Remove(r.Context(), id, r.PathValue("productId"))
	if err != nil {
		h.respondCartError(w, r, err)
		return
	}
	h.respondCart(w, r, id)
}

// ClearCart removes every line from the cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	id := cartID(w, r)
	if err := h.carts.Clear(r.Context(), id); err != nil {
		respondInternal(w, r, errors.Wrap(err, "clear cart"))
		return
	}
	h.respondCart(w, r, id)
}

// respondCart answers a successful mutation with the fresh cart state.
func (h *Handler) respondCart(w http.ResponseWriter, r *http.Request, id string) {
	c, err := h.carts.Get(r.Context(), id)
	if err != nil {
		respondInternal(w, r, errors.Wrap(err, "reload cart"))
		return
	}
	respondJSON(w, http.StatusOK, h.toCartResponse(c))
}

func (h *Handler) respondCartError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, product.ErrNotFound):
		respondError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, cart.ErrLineNotFound):
		respondError(w, http.StatusNotFound, "cart line not found")
	default:
		respondInternal(w, r, err)
	}
}

func (h *Handler) toCartResponse(c *cart.Cart) cartResponse {
	resp := cartResponse{
		ID:              c.ID,
		Items:           make([]cartItemResponse, len(c.Items)),
		Subtotal:        c.Subtotal,
		DisplaySubtotal: displayAmount(c.Subtotal),
	}
	for i, item := range c.Items {
		resp.Items[i] = cartItemResponse{
			Product:   h.toProductResponse(item.Product),
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		}
	}
	for _, l := range c.Unresolved {
		resp.Unresolved = append(resp.Unresolved, cartLineResponse{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
		})
	}
	return resp
}

package api

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/mfialho/artecheiro/internal/domain/product"
)

type productResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Price        int64  `json:"price"`
	DisplayPrice string `json:"displayPrice"`
	Image        string `json:"image"`
}

// ListProducts returns every product in the catalog.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		respondInternal(w, r, errors.Wrap(err, "list products"))
		return
	}

	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = h.toProductResponse(p)
	}
	respondJSON(w, http.StatusOK, out)
}

// GetProduct returns a single product by ID.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(w, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(w, r, errors.Wrap(err, "get product"))
		return
	}
	respondJSON(w, http.StatusOK, h.toProductResponse(*p))
}

// toProductResponse converts a domain product into its API shape. Image
// paths are prefixed with the configured imageBaseURL.
func (h *Handler) toProductResponse(p product.Product) productResponse {
	return productResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		DisplayPrice: displayAmount(p.Price),
		Image:        h.imageBaseURL + p.Image,
	}
}

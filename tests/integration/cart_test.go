//go:build integration

package integration

import (
	"net/http"
	"regexp"
	"testing"
)

var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

func TestCart_AddIssuesID(t *testing.T) {
	resp := doPost(t, "/api/cart/items", addCartItemRequest{
		ProductID: "sabonete-azul-tye-dye", Quantity: 1,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	id := resp.Header.Get(cartIDHeader)
	if !uuidPattern.MatchString(id) {
		t.Fatalf("cart ID %q is not a valid UUID", id)
	}

	c := decodeJSON[cartResponse](t, resp)
	if c.ID != id {
		t.Errorf("body cart ID %q differs from header %q", c.ID, id)
	}
	if len(c.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(c.Items))
	}
	if c.Subtotal != 1000 {
		t.Errorf("subtotal: got %d, want 1000", c.Subtotal)
	}
}

func TestCart_Flow(t *testing.T) {
	// Add two units of one product.
	resp := doPost(t, "/api/cart/items", addCartItemRequest{
		ProductID: "sabonete-azul-tye-dye", Quantity: 2,
	})
	id := resp.Header.Get(cartIDHeader)
	resp.Body.Close()

	// Add a second product to the same cart.
	resp = doRequest(t, http.MethodPost, "/api/cart/items", addCartItemRequest{
		ProductID: "sabonete-vermelho-do-amor", Quantity: 1,
	}, id)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second add: expected 200, got %d", resp.StatusCode)
	}
	c := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()

	if len(c.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(c.Items))
	}
	// 2x1000 + 1x700
	if c.Subtotal != 2700 {
		t.Errorf("subtotal: got %d, want 2700", c.Subtotal)
	}
	if c.DisplaySubtotal != "27.00" {
		t.Errorf("displaySubtotal: got %q, want %q", c.DisplaySubtotal, "27.00")
	}

	// Change the first line's quantity.
	resp = doRequest(t, http.MethodPatch, "/api/cart/items/sabonete-azul-tye-dye",
		updateCartItemRequest{Quantity: 1}, id)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", resp.StatusCode)
	}
	c = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if c.Subtotal != 1700 {
		t.Errorf("subtotal after update: got %d, want 1700", c.Subtotal)
	}

	// Remove the second line.
	resp = doRequest(t, http.MethodDelete, "/api/cart/items/sabonete-vermelho-do-amor", nil, id)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("remove: expected 200, got %d", resp.StatusCode)
	}
	c = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(c.Items) != 1 {
		t.Errorf("expected 1 item after remove, got %d", len(c.Items))
	}

	// Clear the cart.
	resp = doRequest(t, http.MethodDelete, "/api/cart", nil, id)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("clear: expected 200, got %d", resp.StatusCode)
	}
	c = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(c.Items) != 0 {
		t.Errorf("expected empty cart, got %d items", len(c.Items))
	}
	if c.Subtotal != 0 {
		t.Errorf("subtotal: got %d, want 0", c.Subtotal)
	}
}

func TestCart_Persistence(t *testing.T) {
	resp := doPost(t, "/api/cart/items", addCartItemRequest{
		ProductID: "sabonete-coracao-azul", Quantity: 3,
	})
	id := resp.Header.Get(cartIDHeader)
	resp.Body.Close()

	// A fresh GET with the same ID sees the persisted lines.
	resp = doRequest(t, http.MethodGet, "/api/cart", nil, id)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	c := decodeJSON[cartResponse](t, resp)
	if len(c.Items) != 1 || c.Items[0].Quantity != 3 {
		t.Fatalf("persisted cart mismatch: %+v", c.Items)
	}
}

func TestCart_UnknownCartIDRotated(t *testing.T) {
	// A malformed cart ID is replaced with a freshly issued one.
	resp := doRequest(t, http.MethodGet, "/api/cart", nil, "not-a-uuid")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if id := resp.Header.Get(cartIDHeader); !uuidPattern.MatchString(id) {
		t.Errorf("expected fresh UUID cart ID, got %q", id)
	}
}

func TestCart_AddUnknownProduct(t *testing.T) {
	resp := doPost(t, "/api/cart/items", addCartItemRequest{
		ProductID: "nonexistent", Quantity: 1,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCart_InvalidQuantity(t *testing.T) {
	resp := doPost(t, "/api/cart/items", addCartItemRequest{
		ProductID: "sabonete-azul-tye-dye", Quantity: -1,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

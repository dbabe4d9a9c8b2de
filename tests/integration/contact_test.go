//go:build integration

package integration

import (
	"net/http"
	"testing"
)

// The test environment points the notification webhook at an unreachable
// address, so these tests also verify that a failing notification channel
// stays invisible to the submitter.

func TestContact_Success(t *testing.T) {
	resp := doPost(t, "/api/contact", contactRequest{
		Name:    "Ana Souza",
		Email:   "ana@example.com",
		Subject: "Encomenda personalizada",
		Message: "Gostaria de encomendar sabonetes para um evento.",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[contactResponse](t, resp)
	if !body.Success {
		t.Error("expected success=true")
	}
	if body.Message == "" {
		t.Error("confirmation message is empty")
	}
}

func TestContact_ValidationFields(t *testing.T) {
	resp := doPost(t, "/api/contact", contactRequest{
		Name:    "A",
		Email:   "not-an-email",
		Subject: "hi",
		Message: "short",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if len(body.Fields) != 4 {
		t.Fatalf("expected 4 field errors, got %d: %+v", len(body.Fields), body.Fields)
	}
}

func TestContact_PhoneOptional(t *testing.T) {
	resp := doPost(t, "/api/contact", contactRequest{
		Name:    "Ana Souza",
		Email:   "ana@example.com",
		Subject: "Somente uma pergunta",
		Message: "O sabonete azul ainda tem em estoque?",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

package api

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/mfialho/artecheiro/internal/domain/contact"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type contactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SubmitContact validates and forwards a contact form submission. Validation
// failures come back with per-field detail; a notification-channel failure is
// invisible to the submitter.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	err := h.contacts.Submit(r.Context(), contact.Message{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Body:    req.Message,
	})
	if err != nil {
		var vErr *contact.ValidationError
		if errors.As(err, &vErr) {
			resp := errorResponse{
				Code:    http.StatusBadRequest,
				Message: "validation failed",
				Fields:  make([]fieldError, len(vErr.Fields)),
			}
			for i, f := range vErr.Fields {
				resp.Fields[i] = fieldError{Field: f.Field, Reason: f.Reason}
			}
			respondJSON(w, http.StatusBadRequest, resp)
			return
		}
		respondInternal(w, r, errors.Wrap(err, "submit contact"))
		return
	}

	respondJSON(w, http.StatusOK, contactResponse{
		Success: true,
		Message: "Mensagem enviada com sucesso! Entraremos em contato em breve.",
	})
}

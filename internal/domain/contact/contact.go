package contact

import (
	"context"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Minimum lengths for contact form fields, counted in runes.
const (
	minNameLen    = 2
	minSubjectLen = 5
	minBodyLen    = 10
)

// Message is a contact form submission. Phone is optional; all other fields
// are required.
type Message struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Body    string
}

// FieldError describes a single invalid field, suitable for inline display
// next to the offending form input.
type FieldError struct {
	Field  string
	Reason string
}

// ValidationError aggregates per-field failures of a contact submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	reasons := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		reasons[i] = f.Field + ": " + f.Reason
	}
	return "invalid contact message: " + strings.Join(reasons, "; ")
}

// Validate checks the message against the form rules: name at least 2
// characters, well-formed email, subject at least 5 characters, body at least
// 10 characters. It returns a *ValidationError listing every failing field,
// or nil when the message is valid.
func (m *Message) Validate() error {
	var fields []FieldError

	if utf8.RuneCountInString(strings.TrimSpace(m.Name)) < minNameLen {
		fields = append(fields, FieldError{Field: "name", Reason: "must be at least 2 characters"})
	}
	if !validEmail(m.Email) {
		fields = append(fields, FieldError{Field: "email", Reason: "must be a valid email address"})
	}
	if utf8.RuneCountInString(strings.TrimSpace(m.Subject)) < minSubjectLen {
		fields = append(fields, FieldError{Field: "subject", Reason: "must be at least 5 characters"})
	}
	if utf8.RuneCountInString(strings.TrimSpace(m.Body)) < minBodyLen {
		fields = append(fields, FieldError{Field: "message", Reason: "must be at least 10 characters"})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// validEmail accepts a bare address with a dotted domain. Display-name forms
// ("Ana <a@b.com>") and dotless domains parse fine under RFC 5322 but are
// not something a form field should ever hold.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	domain := s[strings.LastIndex(s, "@")+1:]
	return strings.Contains(domain, ".")
}

// Notifier is the owner-notification boundary, fire-and-forget from the
// core's perspective.
type Notifier interface {
	Notify(ctx context.Context, title, content string) error
}

package contact

import (
	"context"
	"fmt"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// Service validates contact submissions and forwards them to the owner
// notification channel.
type Service struct {
	notifier Notifier
}

// NewService creates a contact Service.
func NewService(notifier Notifier) *Service {
	return &Service{notifier: notifier}
}

// Submit validates the message and forwards it to the owner. A notification
// failure is logged and deliberately NOT surfaced to the submitter: from the
// user's perspective the message was sent, only the side-channel alert may be
// delayed. This is the documented exception to fail-loud.
func (s *Service) Submit(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	title := fmt.Sprintf("Nova mensagem de contato de %s", msg.Name)
	content := formatNotification(msg)

	if err := s.notifier.Notify(ctx, title, content); err != nil {
		zctx.From(ctx).Warn("Failed to notify owner about contact message",
			zap.String("from", msg.Email),
			zap.Error(err),
		)
	}
	return nil
}

func formatNotification(msg Message) string {
	phone := msg.Phone
	if phone == "" {
		phone = "Não fornecido"
	}
	return fmt.Sprintf(
		"Nome: %s\nE-mail: %s\nTelefone: %s\nAssunto: %s\n\nMensagem:\n%s\n",
		msg.Name, msg.Email, phone, msg.Subject, msg.Body,
	)
}

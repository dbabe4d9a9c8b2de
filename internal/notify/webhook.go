// Package notify forwards owner notifications to a webhook endpoint.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"

	"github.com/mfialho/artecheiro/internal/domain/contact"
)

var _ contact.Notifier = (*WebhookNotifier)(nil)

// WebhookNotifier posts notifications as JSON to a configured URL. The
// channel is fire-and-forget from the caller's perspective: the caller
// decides whether a delivery error matters.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier creates a notifier for the given webhook URL. A zero
// timeout defaults to 10 seconds.
func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type webhookPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Notify delivers one notification. Non-2xx responses count as failures.
func (n *WebhookNotifier) Notify(ctx context.Context, title, content string) error {
	body, err := json.Marshal(webhookPayload{Title: title, Content: content})
	if err != nil {
		return errors.Wrap(err, "marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "deliver notification")
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

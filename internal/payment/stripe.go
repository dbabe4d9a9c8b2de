// Package payment implements the checkout.Provider boundary against Stripe
// hosted checkout sessions.
package payment

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/mfialho/artecheiro/internal/domain/checkout"
)

var _ checkout.Provider = (*StripeProvider)(nil)

// StripeConfig holds the provider-side settings for hosted sessions.
type StripeConfig struct {
	// APIKey is the Stripe secret key.
	APIKey string
	// Currency is the ISO currency code for all line items (e.g. "brl").
	Currency string
	// SuccessURL and CancelURL are the redirect targets Stripe sends the
	// customer to after completing or abandoning payment.
	SuccessURL string
	CancelURL  string
}

// StripeProvider creates and retrieves hosted checkout sessions via the
// Stripe API.
type StripeProvider struct {
	sc  *client.API
	cfg StripeConfig
}

// NewStripeProvider constructs a provider with its own Stripe client.
func NewStripeProvider(cfg StripeConfig) *StripeProvider {
	sc := &client.API{}
	sc.Init(cfg.APIKey, nil)
	return &StripeProvider{sc: sc, cfg: cfg}
}

// CreateHostedSession opens a single-use hosted payment page for the given
// line items. Unit amounts are already in minor units, which is what Stripe
// expects. The session ID and redirect URL are returned verbatim.
func (p *StripeProvider) CreateHostedSession(ctx context.Context, params checkout.SessionParams) (*checkout.Session, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, len(params.Items))
	for i, item := range params.Items {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.Description != "" {
			productData.Description = stripe.String(item.Description)
		}
		if item.ImageURL != "" {
			productData.Images = stripe.StringSlice([]string{item.ImageURL})
		}

		lineItems[i] = &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(int64(item.Quantity)),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(p.cfg.Currency),
				UnitAmount:  stripe.Int64(item.UnitAmount),
				ProductData: productData,
			},
		}
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Params:     stripe.Params{Context: ctx},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(p.cfg.SuccessURL),
		CancelURL:  stripe.String(p.cfg.CancelURL),
	}
	if params.CustomerEmail != "" {
		sessionParams.CustomerEmail = stripe.String(params.CustomerEmail)
	}
	if params.CustomerName != "" {
		sessionParams.AddMetadata("customer_name", params.CustomerName)
	}

	sess, err := p.sc.CheckoutSessions.New(sessionParams)
	if err != nil {
		return nil, errors.Wrap(err, "create checkout session")
	}

	return &checkout.Session{
		ID:          sess.ID,
		RedirectURL: sess.URL,
	}, nil
}

// RetrieveSession queries Stripe for the authoritative state of a session.
// It returns checkout.ErrSessionNotFound when Stripe reports no such session.
func (p *StripeProvider) RetrieveSession(ctx context.Context, sessionID string) (*checkout.Status, error) {
	sess, err := p.sc.CheckoutSessions.Get(sessionID, &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) &&
			(stripeErr.HTTPStatusCode == http.StatusNotFound || stripeErr.Code == stripe.ErrorCodeResourceMissing) {
			return nil, checkout.ErrSessionNotFound
		}
		return nil, errors.Wrap(err, "retrieve checkout session")
	}

	status := &checkout.Status{
		PaymentStatus: string(sess.PaymentStatus),
		AmountTotal:   sess.AmountTotal,
		Currency:      string(sess.Currency),
		CustomerEmail: sess.CustomerEmail,
	}
	// Stripe fills CustomerDetails once the customer reaches the payment
	// page; prefer it over the email we originally passed in.
	if sess.CustomerDetails != nil && sess.CustomerDetails.Email != "" {
		status.CustomerEmail = sess.CustomerDetails.Email
	}
	return status, nil
}

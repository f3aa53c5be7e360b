// Package payment adapts Stripe hosted checkout to checkout.Provider.
package payment

import (
	"context"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"

	"github.com/ganot/nossoday/internal/domain/checkout"
)

var _ checkout.Provider = (*StripeProvider)(nil)

// StripeOptions configures the Stripe client.
type StripeOptions struct {
	SecretKey string
	// BaseURL overrides the API endpoint, used against stripe-mock or a
	// test server.
	BaseURL    string
	HTTPClient *http.Client
	MaxRetries int64
}

// StripeProvider creates one-off payment sessions on Stripe Checkout.
type StripeProvider struct {
	api *client.API
}

// NewStripeProvider creates a provider with its own backends so the
// package-level stripe.Key is never touched.
func NewStripeProvider(opts StripeOptions) (*StripeProvider, error) {
	if opts.SecretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}

	cfg := &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(opts.MaxRetries),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	if opts.BaseURL != "" {
		cfg.URL = stripe.String(opts.BaseURL)
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, cfg)
	api := client.New(opts.SecretKey, &stripe.Backends{
		API:     backend,
		Connect: backend,
		Uploads: backend,
	})
	return &StripeProvider{api: api}, nil
}

// CreateSession starts a card payment for a single unit of the price.
func (p *StripeProvider) CreateSession(ctx context.Context, req checkout.SessionRequest) (*checkout.Session, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	if req.ClientReference != "" {
		params.ClientReferenceID = stripe.String(req.ClientReference)
	}
	params.Context = ctx

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: %w", err)
	}
	return toSession(sess), nil
}

// GetSession retrieves a checkout session by id.
func (p *StripeProvider) GetSession(ctx context.Context, id string) (*checkout.Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := p.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: %w", err)
	}
	return toSession(sess), nil
}

func toSession(s *stripe.CheckoutSession) *checkout.Session {
	return &checkout.Session{
		ID:            s.ID,
		URL:           s.URL,
		PaymentStatus: string(s.PaymentStatus),
	}
}

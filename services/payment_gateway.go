package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// PaymentIntent is the handle the processor returns for one charge attempt.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

// WebhookEvent is a verified, parsed processor notification. Nothing here is
// populated before the signature check passed.
type WebhookEvent struct {
	ID       string
	Type     string
	IntentID string
}

const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// PaymentGateway is the single boundary to the payment processor. The Stripe
// implementation below is the only one used in production; tests swap in a
// fake.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (PaymentIntent, error)
	VerifyWebhook(payload []byte, sigHeader string) (WebhookEvent, error)
}

// StripeGateway wraps the official Stripe SDK. All requests carry the HTTP
// client timeout so a slow processor surfaces as an error instead of a hung
// request.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string, timeout time.Duration) *StripeGateway {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	cfg := &stripe.BackendConfig{HTTPClient: &http.Client{Timeout: timeout}}
	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, cfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, cfg),
	}
	api := &client.API{}
	api.Init(secretKey, backends)
	return &StripeGateway{api: api, webhookSecret: webhookSecret}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (PaymentIntent, error) {
	if amountCents <= 0 {
		return PaymentIntent{}, fmt.Errorf("%w: amount must be a positive number of cents", ErrValidation)
	}
	if currency == "" {
		currency = "eur"
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.IdempotencyKey = stripe.String(uuid.NewString())
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return PaymentIntent{}, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	return PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// VerifyWebhook checks the stripe-signature header against the shared secret
// before any of the payload is trusted. The raw body is never parsed as JSON
// until ConstructEvent has accepted it.
func (g *StripeGateway) VerifyWebhook(payload []byte, sigHeader string) (WebhookEvent, error) {
	// the endpoint's API version is pinned in the Stripe dashboard, not here
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return WebhookEvent{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := WebhookEvent{ID: event.ID, Type: string(event.Type)}
	switch out.Type {
	case EventPaymentSucceeded, EventPaymentFailed:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return WebhookEvent{}, fmt.Errorf("failed to decode payment intent event: %w", err)
		}
		out.IntentID = pi.ID
	}
	return out, nil
}

// Package stripe adapts the Stripe SDK to the checkout gateway and webhook ports.
package stripe

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	stripesdk "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"

	domcheckout "example.com/stripe-shop/app/internal/domain/checkout"
	dompayment "example.com/stripe-shop/app/internal/domain/payment"
)

type GatewayConfig struct {
	SecretKey  string
	SuccessURL string
	CancelURL  string
	// BackendURL overrides the Stripe API base, e.g. for stripe-mock.
	BackendURL string
	HTTPClient *http.Client
}

// Gateway creates hosted checkout sessions. It never retries.
type Gateway struct {
	sessions   *session.Client
	successURL string
	cancelURL  string
}

func NewGateway(cfg GatewayConfig) *Gateway {
	backendCfg := &stripesdk.BackendConfig{
		MaxNetworkRetries: stripesdk.Int64(0),
		LeveledLogger:     &stripesdk.LeveledLogger{Level: stripesdk.LevelError},
	}
	if cfg.BackendURL != "" {
		backendCfg.URL = stripesdk.String(cfg.BackendURL)
	}
	if cfg.HTTPClient != nil {
		backendCfg.HTTPClient = cfg.HTTPClient
	}

	return &Gateway{
		sessions: &session.Client{
			B:   stripesdk.GetBackendWithConfig(stripesdk.APIBackend, backendCfg),
			Key: cfg.SecretKey,
		},
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
	}
}

func (g *Gateway) CreateSession(ctx context.Context, req domcheckout.Request) (*dompayment.Session, error) {
	params := g.sessionParams(req)
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())

	s, err := g.sessions.New(params)
	if err != nil {
		return nil, toGatewayError(err)
	}
	return &dompayment.Session{ID: s.ID, URL: s.URL}, nil
}

func (g *Gateway) sessionParams(req domcheckout.Request) *stripesdk.CheckoutSessionParams {
	lineItems := make([]*stripesdk.CheckoutSessionLineItemParams, 0, len(req.LineItems))
	for _, item := range req.LineItems {
		productData := &stripesdk.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripesdk.String(item.Name),
		}
		// Stripe rejects an empty description string.
		if item.Description != "" {
			productData.Description = stripesdk.String(item.Description)
		}
		lineItems = append(lineItems, &stripesdk.CheckoutSessionLineItemParams{
			PriceData: &stripesdk.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripesdk.String(item.Currency),
				ProductData: productData,
				UnitAmount:  stripesdk.Int64(item.UnitAmount),
			},
			Quantity: stripesdk.Int64(item.Quantity),
		})
	}

	params := &stripesdk.CheckoutSessionParams{
		PaymentMethodTypes: stripesdk.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		Mode:               stripesdk.String(string(stripesdk.CheckoutSessionModePayment)),
		SuccessURL:         stripesdk.String(g.successURL),
		CancelURL:          stripesdk.String(g.cancelURL),
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripesdk.String(req.CustomerEmail)
	}
	return params
}

func toGatewayError(err error) error {
	var stripeErr *stripesdk.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return &dompayment.GatewayError{Message: stripeErr.Msg, Err: err}
	}
	return &dompayment.GatewayError{Message: err.Error(), Err: err}
}

package stripe

import (
	"encoding/json"
	"fmt"

	stripesdk "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	dompayment "example.com/stripe-shop/app/internal/domain/payment"
)

// VerifyEvent checks the Stripe-Signature header against the exact payload
// bytes and decodes the event. It matches usecase/webhook.VerifyFunc.
func VerifyEvent(payload []byte, signature, secret string) (dompayment.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return dompayment.Event{}, fmt.Errorf("%w: %w", dompayment.ErrVerification, err)
	}

	out := dompayment.Event{
		ID:   event.ID,
		Type: dompayment.EventType(event.Type),
	}
	if out.Type != dompayment.EventCheckoutSessionCompleted || event.Data == nil {
		return out, nil
	}

	var s stripesdk.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
		return dompayment.Event{}, fmt.Errorf("%w: decode checkout session: %w", dompayment.ErrVerification, err)
	}
	out.SessionID = s.ID
	out.CustomerEmail = s.CustomerEmail
	out.AmountTotal = s.AmountTotal
	out.Currency = string(s.Currency)
	if out.CustomerEmail == "" && s.CustomerDetails != nil {
		out.CustomerEmail = s.CustomerDetails.Email
	}
	return out, nil
}

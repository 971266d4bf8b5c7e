// Package webhook receives payment confirmations from the processor.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	dompayment "example.com/stripe-shop/app/internal/domain/payment"
)

// VerifyFunc authenticates a raw payload against its signature header.
type VerifyFunc func(payload []byte, signature, secret string) (dompayment.Event, error)

// Ledger records handled event ids. MarkProcessed returns false for repeats.
type Ledger interface {
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
}

// Notifier is told about each completed payment exactly once per ledger.
type Notifier interface {
	PaymentCompleted(ctx context.Context, ev dompayment.Event) error
}

type Service struct {
	verify    VerifyFunc
	secret    string
	ledger    Ledger
	notifiers []Notifier
	logger    *slog.Logger
}

func NewService(verify VerifyFunc, secret string, ledger Ledger, logger *slog.Logger, notifiers ...Notifier) *Service {
	return &Service{
		verify:    verify,
		secret:    secret,
		ledger:    ledger,
		notifiers: notifiers,
		logger:    logger,
	}
}

// Receive verifies and dispatches one delivery. Any verification failure
// wraps dompayment.ErrVerification and nothing is processed.
func (s *Service) Receive(ctx context.Context, payload []byte, signature string) (*dompayment.Ack, error) {
	if strings.TrimSpace(signature) == "" {
		return nil, fmt.Errorf("%w: %w", dompayment.ErrVerification, dompayment.ErrMissingSignature)
	}

	ev, err := s.verify(payload, signature, s.secret)
	if err != nil {
		s.logger.Warn("webhook rejected", "error", err)
		if errors.Is(err, dompayment.ErrVerification) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", dompayment.ErrVerification, err)
	}

	switch ev.Type {
	case dompayment.EventCheckoutSessionCompleted:
		if err := s.handleCompleted(ctx, ev); err != nil {
			return nil, err
		}
	default:
		s.logger.Info("webhook event ignored", "event_id", ev.ID, "type", ev.Type)
	}

	return &dompayment.Ack{Received: true}, nil
}

func (s *Service) handleCompleted(ctx context.Context, ev dompayment.Event) error {
	first, err := s.ledger.MarkProcessed(ctx, ev.ID)
	if err != nil {
		return fmt.Errorf("record event %s: %w", ev.ID, err)
	}
	if !first {
		s.logger.Info("duplicate webhook event", "event_id", ev.ID)
		return nil
	}

	s.logger.Info("payment_completed",
		"event_id", ev.ID,
		"session_id", ev.SessionID,
		"customer_email", ev.CustomerEmail,
		"amount_total", ev.AmountTotal,
		"currency", ev.Currency,
	)

	// The event is already recorded, so a failed notifier must not make the
	// sender retry.
	for _, n := range s.notifiers {
		if err := n.PaymentCompleted(ctx, ev); err != nil {
			s.logger.Error("payment notifier failed", "event_id", ev.ID, "error", err)
		}
	}
	return nil
}

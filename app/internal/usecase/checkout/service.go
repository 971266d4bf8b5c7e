package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domcart "example.com/stripe-shop/app/internal/domain/cart"
	domcheckout "example.com/stripe-shop/app/internal/domain/checkout"
	dompayment "example.com/stripe-shop/app/internal/domain/payment"
)

type Gateway interface {
	CreateSession(ctx context.Context, req domcheckout.Request) (*dompayment.Session, error)
}

type Service struct {
	gateway  Gateway
	currency string
	timeout  time.Duration
	logger   *slog.Logger
}

// NewService wires the gateway. A zero timeout leaves the caller's deadline alone.
func NewService(gateway Gateway, currency string, timeout time.Duration, logger *slog.Logger) *Service {
	return &Service{
		gateway:  gateway,
		currency: currency,
		timeout:  timeout,
		logger:   logger,
	}
}

// Checkout builds a request from the cart and submits it once. The cart is
// left untouched whatever the outcome.
func (s *Service) Checkout(ctx context.Context, cart domcart.Cart, email string) (*dompayment.Session, error) {
	a := s.newAttempt(len(cart.Lines))

	a.transition(domcheckout.StateBuilding)
	req, err := domcheckout.Build(cart, email, s.currency)
	if err != nil {
		a.fail(err)
		return nil, err
	}

	a.transition(domcheckout.StateSubmitted)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	session, err := s.gateway.CreateSession(ctx, *req)
	if err != nil {
		a.fail(err)
		return nil, err
	}

	a.logger.Info("checkout session created", "session_id", session.ID)
	a.transition(domcheckout.StateRedirected)
	return session, nil
}

type attempt struct {
	state  domcheckout.State
	logger *slog.Logger
}

func (s *Service) newAttempt(lines int) *attempt {
	return &attempt{
		state:  domcheckout.StateIdle,
		logger: s.logger.With("attempt_id", uuid.NewString(), "lines", lines),
	}
}

func (a *attempt) transition(next domcheckout.State) {
	if !a.state.CanTransition(next) {
		panic(fmt.Sprintf("checkout: illegal transition %s -> %s", a.state, next))
	}
	a.logger.Debug("checkout state", "from", a.state, "to", next)
	a.state = next
}

func (a *attempt) fail(err error) {
	if domcheckout.IsValidationError(err) {
		a.logger.Info("checkout rejected", "error", err)
	} else {
		a.logger.Error("checkout failed", "error", err)
	}
	a.transition(domcheckout.StateFailed)
}

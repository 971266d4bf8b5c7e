package payment

import "errors"

var (
	ErrVerification     = errors.New("webhook signature verification failed")
	ErrMissingSignature = errors.New("missing signature header")
)

// GatewayError carries the upstream processor message verbatim.
type GatewayError struct {
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	return e.Message
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

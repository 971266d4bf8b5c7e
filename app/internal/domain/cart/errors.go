package cart

import "errors"

var (
	ErrInvalidCartToken = errors.New("invalid cart token")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
)

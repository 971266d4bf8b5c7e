package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidEmail    = errors.New("please enter a valid email before checkout")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// InvalidQuantityError names the cart line whose quantity is not positive.
type InvalidQuantityError struct {
	ProductID int64
	Quantity  int64
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for product %d", e.Quantity, e.ProductID)
}

func (e *InvalidQuantityError) Is(target error) bool {
	return target == ErrInvalidQuantity
}

// IsValidationError reports whether err is a client-correctable checkout error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrInvalidQuantity)
}

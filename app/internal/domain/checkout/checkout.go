package checkout

import (
	"strings"

	domcart "example.com/stripe-shop/app/internal/domain/cart"
)

// LineItem is one priced entry of a hosted checkout session.
type LineItem struct {
	Name        string
	Description string
	Currency    string
	UnitAmount  int64
	Quantity    int64
}

// Request is the gateway payload built from a cart snapshot. It is never stored.
type Request struct {
	CustomerEmail string
	Currency      string
	LineItems     []LineItem
}

// Build validates the cart and email and projects them into a Request.
//
// Checks run in order: email, emptiness, quantities. Unit prices are copied
// from the cart snapshot as-is and are not compared with the live catalog.
func Build(cart domcart.Cart, email, currency string) (*Request, error) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	for _, l := range cart.Lines {
		if l.Quantity < 1 || l.Quantity > domcart.MaxLineQuantity {
			return nil, &InvalidQuantityError{ProductID: l.ProductID, Quantity: l.Quantity}
		}
	}

	currency = strings.ToLower(strings.TrimSpace(currency))
	req := &Request{
		CustomerEmail: email,
		Currency:      currency,
		LineItems:     make([]LineItem, 0, len(cart.Lines)),
	}
	for _, l := range cart.Lines {
		req.LineItems = append(req.LineItems, LineItem{
			Name:        l.Name,
			Description: l.Description,
			Currency:    currency,
			UnitAmount:  l.Price,
			Quantity:    l.Quantity,
		})
	}
	return req, nil
}

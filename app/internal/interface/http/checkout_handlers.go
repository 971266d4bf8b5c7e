package http

import (
	"net/http"

	domcart "example.com/stripe-shop/app/internal/domain/cart"
)

type checkoutItemRequest struct {
	ID          int64  `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"gte=0"`
	Quantity    int64  `json:"quantity"`
}

// Quantities are checked by the checkout builder so the error names the product.
type createCheckoutSessionRequest struct {
	Items         []checkoutItemRequest `json:"items" validate:"required,min=1,dive"`
	CustomerEmail string                `json:"customer_email"`
}

type cartCheckoutRequest struct {
	CustomerEmail string `json:"customer_email"`
}

type checkoutResponse struct {
	URL string `json:"url"`
}

func (a *API) handleCreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req createCheckoutSessionRequest
	if err := a.decodeAndValidate(w, r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	c := domcart.Cart{Lines: make([]domcart.Line, 0, len(req.Items))}
	for _, it := range req.Items {
		c.Lines = append(c.Lines, domcart.Line{
			ProductID:   it.ID,
			Name:        it.Name,
			Description: it.Description,
			Price:       it.Price,
			Quantity:    it.Quantity,
		})
	}

	a.checkout(w, r, c, req.CustomerEmail)
}

// handleCartCheckout checks out the cart carried by the cart token. The token
// is not cleared; the client drops it after a successful payment.
func (a *API) handleCartCheckout(w http.ResponseWriter, r *http.Request) {
	var req cartCheckoutRequest
	if err := a.decodeAndValidate(w, r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	c, err := a.cartSvc.Load(cartToken(r))
	if err != nil {
		handleDomainError(w, err)
		return
	}

	a.checkout(w, r, c, req.CustomerEmail)
}

func (a *API) checkout(w http.ResponseWriter, r *http.Request, c domcart.Cart, email string) {
	session, err := a.checkoutSvc.Checkout(r.Context(), c, email)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkoutResponse{URL: session.URL})
}

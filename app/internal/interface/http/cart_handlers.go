package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	domcart "example.com/stripe-shop/app/internal/domain/cart"
	cartuc "example.com/stripe-shop/app/internal/usecase/cart"
)

type addCartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

type mergeCartItem struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"gte=0,lte=999"`
}

type mergeCartRequest struct {
	Items []mergeCartItem `json:"items" validate:"dive"`
}

type cartLineResponse struct {
	ProductID   int64  `json:"product_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Image       string `json:"image,omitempty"`
	Quantity    int64  `json:"quantity"`
}

type cartResponse struct {
	CartToken       string             `json:"cart_token"`
	Items           []cartLineResponse `json:"items"`
	TotalQuantity   int64              `json:"total_quantity"`
	Subtotal        int64              `json:"subtotal"`
	SubtotalDisplay string             `json:"subtotal_display"`
}

func (a *API) handleGetCart(w http.ResponseWriter, r *http.Request) {
	st, err := a.cartSvc.Get(r.Context(), cartToken(r))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeCart(w, http.StatusOK, st)
}

func (a *API) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := a.decodeAndValidate(w, r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	st, err := a.cartSvc.AddItem(r.Context(), cartToken(r), req.ProductID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeCart(w, http.StatusOK, st)
}

func (a *API) handleDecrementCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	st, err := a.cartSvc.DecrementItem(r.Context(), cartToken(r), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeCart(w, http.StatusOK, st)
}

func (a *API) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	st, err := a.cartSvc.RemoveItem(r.Context(), cartToken(r), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeCart(w, http.StatusOK, st)
}

func (a *API) handleMergeCart(w http.ResponseWriter, r *http.Request) {
	var req mergeCartRequest
	if err := a.decodeAndValidate(w, r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	items := make([]cartuc.MergeItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, cartuc.MergeItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	st, err := a.cartSvc.Merge(r.Context(), cartToken(r), items)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeCart(w, http.StatusOK, st)
}

func writeCart(w http.ResponseWriter, status int, st *cartuc.State) {
	w.Header().Set(cartTokenHeader, st.Token)
	writeJSON(w, status, mapCart(st.Token, st.Cart))
}

func mapCart(token string, c domcart.Cart) cartResponse {
	items := make([]cartLineResponse, 0, len(c.Lines))
	for _, l := range c.Lines {
		items = append(items, cartLineResponse{
			ProductID:   l.ProductID,
			Name:        l.Name,
			Description: l.Description,
			Price:       l.Price,
			Image:       l.Image,
			Quantity:    l.Quantity,
		})
	}
	subtotal := c.Subtotal()
	return cartResponse{
		CartToken:       token,
		Items:           items,
		TotalQuantity:   c.TotalQuantity(),
		Subtotal:        subtotal,
		SubtotalDisplay: decimal.New(subtotal, -2).StringFixed(2),
	}
}

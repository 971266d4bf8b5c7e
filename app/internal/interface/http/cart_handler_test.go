package http

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	domcart "example.com/stripe-shop/app/internal/domain/cart"
)

func (e *testEnv) cartRequest(t *testing.T, method, path, token string, body any) cartResponse {
	t.Helper()
	req := newJSONRequest(method, path, body)
	if token != "" {
		req.Header.Set(cartTokenHeader, token)
	}
	rec := e.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[cartResponse](t, rec)
	require.Equal(t, resp.CartToken, rec.Header().Get(cartTokenHeader))
	return resp
}

func TestGetCart_NoToken(t *testing.T) {
	env := setupAPI(t)

	cart := env.cartRequest(t, http.MethodGet, "/cart", "", nil)

	require.Empty(t, cart.Items)
	require.NotNil(t, cart.Items)
	require.Zero(t, cart.TotalQuantity)
	require.Equal(t, "0.00", cart.SubtotalDisplay)
	require.NotEmpty(t, cart.CartToken)
}

func TestGetCart_InvalidToken(t *testing.T) {
	env := setupAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(cartTokenHeader, "not-a-token")
	rec := env.do(req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid cart token")
}

func TestCartFlow(t *testing.T) {
	env := setupAPI(t)

	cart := env.cartRequest(t, http.MethodPost, "/cart/items", "", map[string]any{"product_id": 1})
	cart = env.cartRequest(t, http.MethodPost, "/cart/items", cart.CartToken, map[string]any{"product_id": 1})
	cart = env.cartRequest(t, http.MethodPost, "/cart/items", cart.CartToken, map[string]any{"product_id": 2})

	require.Len(t, cart.Items, 2)
	require.Equal(t, int64(2), cart.Items[0].Quantity)
	require.Equal(t, "Ceramic mug", cart.Items[0].Description)
	require.Equal(t, int64(3), cart.TotalQuantity)
	require.Equal(t, int64(3900), cart.Subtotal)
	require.Equal(t, "39.00", cart.SubtotalDisplay)

	cart = env.cartRequest(t, http.MethodPost, "/cart/items/1/decrement", cart.CartToken, nil)
	require.Equal(t, int64(1), cart.Items[0].Quantity)

	cart = env.cartRequest(t, http.MethodDelete, "/cart/items/1", cart.CartToken, nil)
	require.Len(t, cart.Items, 1)
	require.Equal(t, int64(2), cart.Items[0].ProductID)

	// Removing an absent product leaves the cart as it was.
	cart = env.cartRequest(t, http.MethodDelete, "/cart/items/1", cart.CartToken, nil)
	require.Len(t, cart.Items, 1)

	cart = env.cartRequest(t, http.MethodGet, "/cart", cart.CartToken, nil)
	require.Equal(t, int64(1500), cart.Subtotal)
}

func TestAddCartItem_Errors(t *testing.T) {
	env := setupAPI(t)

	tests := []struct {
		name     string
		body     any
		wantCode int
	}{
		{"unknown product", map[string]any{"product_id": 99}, http.StatusNotFound},
		{"missing product id", map[string]any{}, http.StatusBadRequest},
		{"negative product id", map[string]any{"product_id": -1}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(newJSONRequest(http.MethodPost, "/cart/items", tt.body))
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
}

func TestMergeCart(t *testing.T) {
	env := setupAPI(t)

	cart := env.cartRequest(t, http.MethodPost, "/cart/items", "", map[string]any{"product_id": 1})
	cart = env.cartRequest(t, http.MethodPost, "/cart/merge", cart.CartToken, map[string]any{
		"items": []map[string]any{
			{"product_id": 1, "quantity": 2},
			{"product_id": 3, "quantity": 4},
			{"product_id": 2, "quantity": 0},
		},
	})

	require.Len(t, cart.Items, 2)
	require.Equal(t, int64(3), cart.Items[0].Quantity)
	require.Equal(t, int64(3), cart.Items[1].ProductID)
	require.Equal(t, int64(4), cart.Items[1].Quantity)
	require.Equal(t, int64(7), cart.TotalQuantity)
}

func TestMergeCart_UnknownProduct(t *testing.T) {
	env := setupAPI(t)

	rec := env.do(newJSONRequest(http.MethodPost, "/cart/merge", map[string]any{
		"items": []map[string]any{{"product_id": 99, "quantity": 1}},
	}))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMergeCart_RejectsOversizedQuantity(t *testing.T) {
	env := setupAPI(t)

	for _, qty := range []int64{math.MaxInt64, math.MaxInt64 / 1000, domcart.MaxLineQuantity + 1, -1} {
		rec := env.do(newJSONRequest(http.MethodPost, "/cart/merge", map[string]any{
			"items": []map[string]any{{"product_id": 1, "quantity": qty}},
		}))
		require.Equal(t, http.StatusBadRequest, rec.Code, "quantity %d: %s", qty, rec.Body.String())
	}
}

func TestCartQuantityLimit(t *testing.T) {
	env := setupAPI(t)

	cart := env.cartRequest(t, http.MethodPost, "/cart/merge", "", map[string]any{
		"items": []map[string]any{{"product_id": 1, "quantity": domcart.MaxLineQuantity}},
	})
	require.Equal(t, domcart.MaxLineQuantity*1200, cart.Subtotal)

	req := newJSONRequest(http.MethodPost, "/cart/items", map[string]any{"product_id": 1})
	req.Header.Set(cartTokenHeader, cart.CartToken)
	rec := env.do(req)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	require.Empty(t, rec.Header().Get(cartTokenHeader))

	req = newJSONRequest(http.MethodPost, "/cart/merge", map[string]any{
		"items": []map[string]any{{"product_id": 1, "quantity": 1}},
	})
	req.Header.Set(cartTokenHeader, cart.CartToken)
	rec = env.do(req)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	// The previous token still works.
	cart = env.cartRequest(t, http.MethodGet, "/cart", cart.CartToken, nil)
	require.Equal(t, domcart.MaxLineQuantity, cart.Items[0].Quantity)
	require.Equal(t, "11988.00", cart.SubtotalDisplay)
}

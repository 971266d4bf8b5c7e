package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domcheckout "example.com/stripe-shop/app/internal/domain/checkout"
	dompayment "example.com/stripe-shop/app/internal/domain/payment"
	domproduct "example.com/stripe-shop/app/internal/domain/product"
	"example.com/stripe-shop/app/internal/infra/ledger"
	stripeinfra "example.com/stripe-shop/app/internal/infra/payment/stripe"
	"example.com/stripe-shop/app/internal/infra/security"
	"example.com/stripe-shop/app/internal/obs"
	cartuc "example.com/stripe-shop/app/internal/usecase/cart"
	checkoutuc "example.com/stripe-shop/app/internal/usecase/checkout"
	productuc "example.com/stripe-shop/app/internal/usecase/product"
	webhookuc "example.com/stripe-shop/app/internal/usecase/webhook"
)

const (
	testWebhookSecret = "whsec_test"
	testFrontendURL   = "http://localhost:5173"
)

// --- Mocks ---

type mockProductRepository struct {
	products []*domproduct.Product
	listErr  error
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{
		products: []*domproduct.Product{
			{ID: 1, Name: "Mug", Description: "Ceramic mug", Price: 1200, Image: "/img/mug.png"},
			{ID: 2, Name: "Cap", Description: "Baseball cap", Price: 1500},
			{ID: 3, Name: "Sticker", Price: 199},
		},
	}
}

func (m *mockProductRepository) List(ctx context.Context) ([]*domproduct.Product, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]*domproduct.Product, 0, len(m.products))
	for _, p := range m.products {
		cloned := *p
		result = append(result, &cloned)
	}
	return result, nil
}

func (m *mockProductRepository) GetByID(ctx context.Context, id int64) (*domproduct.Product, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	for _, p := range m.products {
		if p.ID == id {
			cloned := *p
			return &cloned, nil
		}
	}
	return nil, domproduct.ErrProductNotFound
}

type mockGateway struct {
	requests []domcheckout.Request
	err      error
}

func (m *mockGateway) CreateSession(ctx context.Context, req domcheckout.Request) (*dompayment.Session, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &dompayment.Session{ID: "cs_test_1", URL: "https://checkout.stripe.test/pay/cs_test_1"}, nil
}

type mockNotifier struct {
	events []dompayment.Event
}

func (m *mockNotifier) PaymentCompleted(ctx context.Context, ev dompayment.Event) error {
	m.events = append(m.events, ev)
	return nil
}

// --- Helpers ---

type testEnv struct {
	api      *API
	router   http.Handler
	products *mockProductRepository
	gateway  *mockGateway
	notifier *mockNotifier
	ledger   *ledger.MemoryLedger
}

func setupAPI(t *testing.T) *testEnv {
	t.Helper()

	products := newMockProductRepository()
	gateway := &mockGateway{}
	notifier := &mockNotifier{}
	l := ledger.NewMemoryLedger(time.Hour)
	logger := obs.Discard()

	api := NewAPI(Dependencies{
		ProductService:  productuc.NewService(products),
		CartService:     cartuc.NewService(security.NewCartTokenService("cart-secret", time.Hour), products),
		CheckoutService: checkoutuc.NewService(gateway, "usd", time.Second, logger),
		WebhookService:  webhookuc.NewService(stripeinfra.VerifyEvent, testWebhookSecret, l, logger, notifier),
		FrontendURL:     testFrontendURL,
		MaxBodyBytes:    4 << 10,
		Logger:          logger,
	})

	return &testEnv{
		api:      api,
		router:   api.Router(),
		products: products,
		gateway:  gateway,
		notifier: notifier,
		ledger:   l,
	}
}

func newJSONRequest(method, path string, body any) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// --- Router-level behavior ---

func TestHealth(t *testing.T) {
	env := setupAPI(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCORS_AllowsFrontendOrigin(t *testing.T) {
	env := setupAPI(t)

	req := httptest.NewRequest(http.MethodOptions, "/cart/items", nil)
	req.Header.Set("Origin", testFrontendURL)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, "+cartTokenHeader)
	rec := env.do(req)

	require.Contains(t, []int{http.StatusOK, http.StatusNoContent}, rec.Code)
	require.Equal(t, testFrontendURL, rec.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), cartTokenHeader)
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestCORS_ExposesCartToken(t *testing.T) {
	env := setupAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Origin", testFrontendURL)
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, testFrontendURL, rec.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), cartTokenHeader)
}

func TestCORS_RejectsOtherOrigin(t *testing.T) {
	env := setupAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestJSONBodyTooLarge(t *testing.T) {
	env := setupAPI(t)
	payload := `{"customer_email":"` + strings.Repeat("a", 8<<10) + `@b.com","items":[]}`

	for _, path := range []string{"/create-checkout-session", "/cart/checkout", "/cart/merge", "/cart/items"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		rec := env.do(req)

		require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, path)
		require.Empty(t, env.gateway.requests)
	}
}

func TestRejectsUnsupportedContentType(t *testing.T) {
	env := setupAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBufferString("product_id=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := env.do(req)

	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	domcart "example.com/stripe-shop/app/internal/domain/cart"
	domcheckout "example.com/stripe-shop/app/internal/domain/checkout"
	dompayment "example.com/stripe-shop/app/internal/domain/payment"
	domproduct "example.com/stripe-shop/app/internal/domain/product"
	cartuc "example.com/stripe-shop/app/internal/usecase/cart"
	checkoutuc "example.com/stripe-shop/app/internal/usecase/checkout"
	productuc "example.com/stripe-shop/app/internal/usecase/product"
	webhookuc "example.com/stripe-shop/app/internal/usecase/webhook"
)

const defaultMaxBodyBytes = 64 << 10

type API struct {
	productSvc   *productuc.Service
	cartSvc      *cartuc.Service
	checkoutSvc  *checkoutuc.Service
	webhookSvc   *webhookuc.Service
	validator    *validator.Validate
	frontendURL  string
	maxBodyBytes int64
	logger       *slog.Logger
}

type Dependencies struct {
	ProductService  *productuc.Service
	CartService     *cartuc.Service
	CheckoutService *checkoutuc.Service
	WebhookService  *webhookuc.Service
	// FrontendURL is the only origin allowed by CORS.
	FrontendURL  string
	MaxBodyBytes int64
	Logger       *slog.Logger
}

func NewAPI(deps Dependencies) *API {
	maxBody := deps.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		productSvc:   deps.ProductService,
		cartSvc:      deps.CartService,
		checkoutSvc:  deps.CheckoutService,
		webhookSvc:   deps.WebhookService,
		validator:    validator.New(),
		frontendURL:  deps.FrontendURL,
		maxBodyBytes: maxBody,
		logger:       logger,
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(corsHandler(a.frontendURL))
	r.Use(chimw.AllowContentType("application/json", "text/plain"))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/catalog", a.handleCatalogHealth)

	r.Get("/products", a.handleListProducts)
	r.Get("/products/{id}", a.handleGetProduct)

	r.Post("/create-checkout-session", a.handleCreateCheckoutSession)

	r.Route("/cart", func(cr chi.Router) {
		cr.Get("/", a.handleGetCart)
		cr.Post("/items", a.handleAddCartItem)
		cr.Post("/items/{id}/decrement", a.handleDecrementCartItem)
		cr.Delete("/items/{id}", a.handleRemoveCartItem)
		cr.Post("/merge", a.handleMergeCart)
		cr.Post("/checkout", a.handleCartCheckout)
	})

	r.Post("/webhook", a.handleWebhook)

	r.Get("/success", a.handleSuccessPage)
	r.Get("/canceled", a.handleCanceledPage)

	return r
}

func (a *API) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, a.maxBodyBytes)
	defer body.Close()
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return err
	}
	return a.validator.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func respondValidationError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondError(w, http.StatusRequestEntityTooLarge, err)
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Namespace()] = fe.Tag()
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request", Details: details})
}

func parseIDParam(r *http.Request, key string) (int64, error) {
	idStr := chi.URLParam(r, key)
	return strconv.ParseInt(idStr, 10, 64)
}

func handleDomainError(w http.ResponseWriter, err error) {
	var gwErr *dompayment.GatewayError
	switch {
	case domcheckout.IsValidationError(err),
		errors.Is(err, domcart.ErrInvalidCartToken),
		errors.Is(err, domcart.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, err)
	case errors.Is(err, domproduct.ErrProductNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, dompayment.ErrVerification):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Webhook Error: " + err.Error()})
	case errors.As(err, &gwErr):
		respondError(w, http.StatusInternalServerError, gwErr)
	case errors.Is(err, domproduct.ErrCatalogUnavailable):
		// Hide the file path or driver error behind the sentinel.
		respondError(w, http.StatusInternalServerError, domproduct.ErrCatalogUnavailable)
	default:
		respondError(w, http.StatusInternalServerError, err)
	}
}

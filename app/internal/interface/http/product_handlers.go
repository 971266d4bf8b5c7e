package http

import (
	"net/http"
)

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := a.productSvc.List(r.Context())
	if err != nil {
		a.logger.Error("list products", "error", err)
		handleDomainError(w, err)
		return
	}
	if products == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (a *API) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	p, err := a.productSvc.GetByID(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) handleCatalogHealth(w http.ResponseWriter, r *http.Request) {
	if err := a.productSvc.Check(r.Context()); err != nil {
		a.logger.Warn("catalog health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

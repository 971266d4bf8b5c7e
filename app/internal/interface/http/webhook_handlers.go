package http

import (
	"errors"
	"io"
	"net/http"
)

const stripeSignatureHeader = "Stripe-Signature"

// handleWebhook needs the exact bytes that were signed, so the body is read
// raw and never decoded before verification.
func (a *API) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, a.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		respondError(w, http.StatusBadRequest, err)
		return
	}

	ack, err := a.webhookSvc.Receive(r.Context(), body, r.Header.Get(stripeSignatureHeader))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ack)
}

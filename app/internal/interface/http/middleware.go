package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

const cartTokenHeader = "X-Cart-Token"

// corsHandler allows the storefront origin to call the API and read the
// rotated cart token. An empty frontend URL allows any origin.
func corsHandler(frontendURL string) func(http.Handler) http.Handler {
	origins := []string{"*"}
	if u := strings.TrimRight(frontendURL, "/"); u != "" {
		origins = []string{u}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", cartTokenHeader},
		ExposedHeaders: []string{cartTokenHeader},
		MaxAge:         600,
	})
}

func cartToken(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(cartTokenHeader))
}

package http

import (
	"html/template"
	"net/http"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<div class="container centered">
  <div class="card">
    <h2>{{.Title}}</h2>
    <p>{{.Message}}</p>
    {{- if .SessionID}}
    <p class="muted">Reference: {{.SessionID}}</p>
    {{- end}}
    <a href="{{.Link}}" class="button">{{.LinkText}}</a>
  </div>
</div>
</body>
</html>
`))

type page struct {
	Title     string
	Message   string
	SessionID string
	Link      string
	LinkText  string
}

// handleSuccessPage is informational only. Payment is confirmed by the webhook,
// never by reaching this page.
func (a *API) handleSuccessPage(w http.ResponseWriter, r *http.Request) {
	a.renderPage(w, page{
		Title:     "Payment Successful!",
		Message:   "Thank you for your purchase. A confirmation email has been sent to you.",
		SessionID: r.URL.Query().Get("session_id"),
		Link:      a.homeLink(),
		LinkText:  "Continue Shopping",
	})
}

func (a *API) handleCanceledPage(w http.ResponseWriter, r *http.Request) {
	a.renderPage(w, page{
		Title:    "Payment Canceled",
		Message:  "Your payment was not processed. Your cart has been saved, and you can try again anytime.",
		Link:     a.homeLink(),
		LinkText: "Back to Shop",
	})
}

func (a *API) homeLink() string {
	if a.frontendURL == "" {
		return "/"
	}
	return a.frontendURL + "/"
}

func (a *API) renderPage(w http.ResponseWriter, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := pageTemplate.Execute(w, p); err != nil {
		a.logger.Error("render page", "title", p.Title, "error", err)
	}
}

// Package handler contains the HTTP request handlers for the site.
//
// Handlers are the glue between HTTP and the rest of the app: parse the
// request, call the store or the gate, write the response. Business rules
// live elsewhere — the store owns subscriber semantics, the auth package owns
// the login gate.
package handler

import (
	"html/template"
	"log/slog"
	"net/http"
)

const (
	serviceName    = "prabhanshu-website"
	serviceVersion = "0.1.0"
)

// PageHandler serves the public marketing pages and the health check.
// Templates are parsed once at construction and reused on every request.
type PageHandler struct {
	home     *template.Template
	about    *template.Template
	notFound *template.Template
	logger   *slog.Logger
}

// NewPageHandler parses the public page templates.
func NewPageHandler(templateDir string, logger *slog.Logger) (*PageHandler, error) {
	home, err := parsePage(templateDir, "home.html")
	if err != nil {
		return nil, err
	}
	about, err := parsePage(templateDir, "about.html")
	if err != nil {
		return nil, err
	}
	notFound, err := parsePage(templateDir, "notfound.html")
	if err != nil {
		return nil, err
	}

	return &PageHandler{
		home:     home,
		about:    about,
		notFound: notFound,
		logger:   logger,
	}, nil
}

// HandleHome serves the landing page: hero, newsletter signup form, about and
// skills sections.
//
// HTTP: GET /
func (h *PageHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	renderPage(w, h.logger, h.home, http.StatusOK, map[string]any{
		"Title": "Home",
	})
}

// HandleAbout serves the detailed about page.
//
// HTTP: GET /about
func (h *PageHandler) HandleAbout(w http.ResponseWriter, r *http.Request) {
	renderPage(w, h.logger, h.about, http.StatusOK, map[string]any{
		"Title": "About",
	})
}

// HandleHealth is the monitoring endpoint — the one JSON route on the site.
//
// HTTP: GET /health
func (h *PageHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// HandleNotFound renders the custom 404 page for any unmatched path.
func (h *PageHandler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	renderPage(w, h.logger, h.notFound, http.StatusNotFound, map[string]any{
		"Title": "404 - Page Not Found",
	})
}

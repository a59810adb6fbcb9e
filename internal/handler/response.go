package handler

// Response helpers shared by all handlers. This app is server-rendered, so
// most responses are executed templates; the JSON path exists only for the
// /health endpoint.

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
)

// parsePage parses base.html together with one content template. Every page
// template defines a "content" block that base.html pulls in — Go's template
// composition model, similar to layout/extends in other stacks. Pages are
// parsed pairwise (rather than all at once) because each one defines the same
// "content" block.
func parsePage(templateDir, page string) (*template.Template, error) {
	return template.ParseFiles(
		filepath.Join(templateDir, "base.html"),
		filepath.Join(templateDir, page),
	)
}

// renderPage executes the "base" template with the given status and data.
// Headers must be written before the body, so the status goes out first; if
// execution fails after that there is nothing to do but log.
func renderPage(w http.ResponseWriter, logger *slog.Logger, tmpl *template.Template, status int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		logger.Error("failed to render template", slog.String("error", err.Error()))
	}
}

// errorPageData is what error.html renders: a heading and one line of text.
type errorPageData struct {
	Title   string
	Heading string
	Message string
}

// writeJSON sends a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/prabhanshu11/prabhanshu-space/internal/repository"
)

// NewsletterHandler owns the public signup form.
//
// Validation happens here, not in the store: the store's Add contract trusts
// its input, so a malformed address must never reach it.
type NewsletterHandler struct {
	store  repository.SubscriberRepository
	result *template.Template
	logger *slog.Logger
}

// NewNewsletterHandler parses the signup result template.
func NewNewsletterHandler(store repository.SubscriberRepository, templateDir string, logger *slog.Logger) (*NewsletterHandler, error) {
	result, err := parsePage(templateDir, "newsletter.html")
	if err != nil {
		return nil, err
	}
	return &NewsletterHandler{store: store, result: result, logger: logger}, nil
}

// newsletterData drives newsletter.html: the form is re-rendered with either
// an inline error or a success message.
type newsletterData struct {
	Title   string
	Email   string
	Error   string
	Message string
}

// HandleSubscribe processes a signup.
//
// HTTP: POST /newsletter/subscribe (form field "email")
//
// All three outcomes — invalid address, newly subscribed, already subscribed —
// re-render the form with HTTP 200. A bad email is a conversation with the
// visitor, not a protocol failure.
func (h *NewsletterHandler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	if !validEmail(email) {
		h.logger.Debug("rejected newsletter signup", slog.String("email", email))
		renderPage(w, h.logger, h.result, http.StatusOK, newsletterData{
			Title: "Newsletter",
			Email: email,
			Error: "Please enter a valid email address.",
		})
		return
	}

	_, created, err := h.store.Add(r.Context(), email)
	if err != nil {
		h.logger.Error("newsletter subscribe failed",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	msg := "You're already subscribed — nothing to do!"
	if created {
		msg = "Thanks for subscribing! You'll hear from me soon."
		h.logger.Info("new newsletter subscriber", slog.String("email", email))
	}

	renderPage(w, h.logger, h.result, http.StatusOK, newsletterData{
		Title:   "Newsletter",
		Email:   email,
		Message: msg,
	})
}

// validEmail is a syntax check, not a deliverability check. net/mail accepts
// RFC 5322 addresses, which includes bare local parts like "user@host" with
// display names — we additionally require a lone address whose domain has a
// dot, which is what a signup form actually wants.
func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return strings.Contains(email[at+1:], ".")
}

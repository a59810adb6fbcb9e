package handler

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"

	"github.com/prabhanshu11/prabhanshu-space/internal/apperror"
	"github.com/prabhanshu11/prabhanshu-space/internal/auth"
)

// exchangeTimeout bounds the two outbound GitHub calls (token exchange and
// user lookup). The flow is a single attempt — expiry reads as a failed
// exchange and the user restarts from /login.
const exchangeTimeout = 10 * time.Second

// githubExchanger is the slice of auth.Provider the handler needs. Tests
// substitute a fake so the callback flow can be driven without GitHub.
type githubExchanger interface {
	Configured() bool
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
}

// AuthHandler drives the login flow around the gate:
//
//   - HandleLoginPage     → the page with the "Login with GitHub" link
//   - HandleGitHubLogin   → redirect to GitHub's authorization page
//   - HandleCallback      → code exchange, allow-list check, session write
//   - HandleLogout        → clear the session
type AuthHandler struct {
	github  githubExchanger
	gate    *auth.Gate
	login   *template.Template
	errPage *template.Template
	logger  *slog.Logger
}

// NewAuthHandler parses the login and error page templates.
func NewAuthHandler(github githubExchanger, gate *auth.Gate, templateDir string, logger *slog.Logger) (*AuthHandler, error) {
	login, err := parsePage(templateDir, "login.html")
	if err != nil {
		return nil, err
	}
	errPage, err := parsePage(templateDir, "error.html")
	if err != nil {
		return nil, err
	}

	return &AuthHandler{
		github:  github,
		gate:    gate,
		login:   login,
		errPage: errPage,
		logger:  logger,
	}, nil
}

// HandleLoginPage renders the login page. No side effects.
//
// HTTP: GET /login
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, h.logger, h.login, http.StatusOK, map[string]any{
		"Title": "Login - My Zone",
	})
}

// HandleGitHubLogin starts the OAuth flow.
//
// HTTP: GET /auth/github/login
//
// The state nonce goes into a short-lived HttpOnly cookie and comes back as a
// query parameter on the callback; a mismatch means the callback wasn't
// started by this server (CSRF).
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	if !h.github.Configured() {
		h.renderError(w, http.StatusInternalServerError, "Error",
			"GitHub Client ID not configured.")
		return
	}

	state := xid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600, // long enough to approve on GitHub, short enough to limit risk
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusFound)
}

// HandleCallback completes the login flow. This is the security-critical
// handler: the session is written only after the code exchange succeeds AND
// the returned login is the allow-listed user. Every failure path leaves the
// session untouched.
//
// HTTP: GET /auth/callback?code=...&state=...
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		h.renderError(w, http.StatusBadRequest, "Error", "No code provided.")
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("auth callback: state mismatch")
		h.renderError(w, http.StatusBadRequest, "Error", "Invalid OAuth state.")
		return
	}

	// The state is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	ctx, cancel := context.WithTimeout(r.Context(), exchangeTimeout)
	defer cancel()

	login, err := h.github.Exchange(ctx, code)
	if err != nil {
		h.logger.Warn("auth callback: exchange failed", slog.String("error", err.Error()))
		if errors.Is(err, apperror.ErrUnauthorized) {
			h.renderError(w, http.StatusUnauthorized, "Error", "Failed to get access token.")
			return
		}
		h.renderError(w, http.StatusBadGateway, "Error", "Authentication failed.")
		return
	}

	if login != h.gate.AllowedUser() {
		h.logger.Warn("auth callback: login not on allow-list", slog.String("login", login))
		h.renderError(w, http.StatusUnauthorized, "Unauthorized",
			fmt.Sprintf("User '%s' is not allowed to access this area.", login))
		return
	}

	if err := h.gate.SignIn(w, r, login); err != nil {
		h.logger.Error("auth callback: saving session failed", slog.String("error", err.Error()))
		h.renderError(w, http.StatusInternalServerError, "Error", "Authentication failed.")
		return
	}

	h.logger.Info("user authenticated", slog.String("login", login))
	http.Redirect(w, r, "/myzone", http.StatusSeeOther)
}

// HandleLogout clears the session and sends the user back to the public home
// page.
//
// HTTP: GET /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.gate.SignOut(w, r); err != nil {
		h.logger.Error("logout: clearing session failed", slog.String("error", err.Error()))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) renderError(w http.ResponseWriter, status int, heading, message string) {
	renderPage(w, h.logger, h.errPage, status, errorPageData{
		Title:   heading,
		Heading: heading,
		Message: message,
	})
}

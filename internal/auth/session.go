package auth

import (
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
)

// DefaultAllowedUser is the one GitHub account permitted through the gate.
// My Zone is a single-tenant area — there is exactly one legitimate user, so
// the allow-list is a constant rather than a table.
const DefaultAllowedUser = "prabhanshu11"

// sessionName is the cookie the session rides in.
const sessionName = "myzone_session"

// userKey is the single value the session holds: the authenticated login.
const userKey = "user"

// Gate enforces the single-user authentication boundary.
//
// The session is a gorilla CookieStore cookie signed with SECRET_KEY — the
// server holds no session state of its own. SignIn records the login after a
// successful OAuth callback; CurrentUser reads it back; SignOut clears it.
// The authorization rule is a case-sensitive exact match against the
// allow-listed login, checked at the top of every protected handler.
type Gate struct {
	store       *sessions.CookieStore
	allowedUser string
}

// NewGate creates a Gate with the given signing secret and allow-listed
// login. An empty allowedUser falls back to DefaultAllowedUser.
func NewGate(secret, allowedUser string) (*Gate, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	if allowedUser == "" {
		allowedUser = DefaultAllowedUser
	}

	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true, // JavaScript can't read the cookie
		SameSite: http.SameSiteLaxMode,
		// Secure: true in production (requires HTTPS); false for local dev.
	}

	return &Gate{store: store, allowedUser: allowedUser}, nil
}

// AllowedUser returns the allow-listed login.
func (g *Gate) AllowedUser() string {
	return g.allowedUser
}

// CurrentUser returns the login stored in the session, if any.
//
// A tampered or unreadable cookie is treated the same as no cookie: the
// caller is anonymous. store.Get returns a fresh empty session alongside the
// error in that case, so reading Values from it is safe.
func (g *Gate) CurrentUser(r *http.Request) (string, bool) {
	session, _ := g.store.Get(r, sessionName)
	login, ok := session.Values[userKey].(string)
	return login, ok && login != ""
}

// IsAuthorized reports whether the request's session holds the allow-listed
// login. This is the single authorization checkpoint — every protected
// handler calls it before rendering anything, and redirects to /login when it
// returns false.
func (g *Gate) IsAuthorized(r *http.Request) bool {
	login, ok := g.CurrentUser(r)
	return ok && login == g.allowedUser
}

// SignIn writes the authenticated login into the session cookie. Called only
// after the OAuth callback has verified the identity against the allow-list.
func (g *Gate) SignIn(w http.ResponseWriter, r *http.Request, login string) error {
	session, _ := g.store.Get(r, sessionName)
	session.Values[userKey] = login
	return session.Save(r, w)
}

// SignOut clears all session state. MaxAge -1 tells the browser to drop the
// cookie immediately.
func (g *Gate) SignOut(w http.ResponseWriter, r *http.Request) error {
	session, _ := g.store.Get(r, sessionName)
	delete(session.Values, userKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

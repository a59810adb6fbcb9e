// Package auth implements the single-user GitHub login gate: the OAuth
// authorization-code exchange on one side, and the signed session cookie that
// records the result on the other.
//
// THE FLOW:
//  1. /auth/github/login redirects the browser to GitHub's authorization page.
//  2. GitHub redirects back to /auth/callback with a short-lived code.
//  3. The server exchanges the code for an access token (server-to-server,
//     using the client secret — the token never touches the browser).
//  4. The server uses the token once to fetch the user's login from the
//     GitHub API, then discards it.
//  5. If the login is the allow-listed user, the Gate writes it into the
//     session cookie. Anyone else stays anonymous.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/prabhanshu11/prabhanshu-space/internal/apperror"
)

// githubUser is the portion of the GitHub /user API response we care about.
// GitHub returns a much larger object — we only unmarshal the login.
type githubUser struct {
	Login string `json:"login"`
}

// Provider wraps golang.org/x/oauth2 for the GitHub Authorization Code flow.
//
// We request only the "read:user" scope: the gate needs the login name for the
// allow-list comparison and nothing else.
type Provider struct {
	config  *oauth2.Config
	userURL string // GitHub /user API endpoint; overridden in tests
}

// NewProvider creates a Provider with the given OAuth App credentials.
//
// ClientID and ClientSecret come from https://github.com/settings/developers →
// "OAuth Apps". callbackURL must match the app's configured authorization
// callback URL exactly.
func NewProvider(clientID, clientSecret, callbackURL string) *Provider {
	return &Provider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"read:user"},
			Endpoint:     github.Endpoint,
		},
		userURL: "https://api.github.com/user",
	}
}

// Configured reports whether OAuth credentials are present. The login handler
// refuses to start the flow without a client ID.
func (p *Provider) Configured() bool {
	return p.config.ClientID != ""
}

// AuthURL returns the GitHub authorization URL to redirect the user to.
// state is a per-flow nonce verified on callback.
func (p *Provider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange completes the OAuth flow: trades the authorization code for the
// GitHub login name of whoever approved it.
//
// A rejected code (invalid, expired, already used) surfaces as an
// apperror.Unauthorized, as does a token response with no access token —
// both mean "restart the flow from /login", not a server fault.
func (p *Provider) Exchange(ctx context.Context, code string) (string, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperror.Unauthorized("failed to get access token"), err)
	}
	if token.AccessToken == "" {
		return "", apperror.Unauthorized("failed to get access token")
	}

	// config.Client returns an *http.Client that adds the Authorization
	// header on every request. The token is used for this one call and then
	// dropped — it is never stored.
	client := p.config.Client(ctx, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userURL, nil)
	if err != nil {
		return "", fmt.Errorf("auth: building GitHub /user request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("auth: calling GitHub /user API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("auth: GitHub /user API returned status %d", resp.StatusCode)
	}

	var user githubUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return "", fmt.Errorf("auth: decoding GitHub /user response: %w", err)
	}
	if user.Login == "" {
		return "", fmt.Errorf("auth: GitHub returned a user with no login")
	}

	return user.Login, nil
}

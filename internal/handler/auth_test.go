package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prabhanshu11/prabhanshu-space/internal/apperror"
	"github.com/prabhanshu11/prabhanshu-space/internal/auth"
	"github.com/prabhanshu11/prabhanshu-space/internal/handler"
)

func newAuthHandler(t *testing.T, github *fakeExchanger, gate *auth.Gate) *handler.AuthHandler {
	t.Helper()
	h, err := handler.NewAuthHandler(github, gate, testTemplateDir, testLogger())
	require.NoError(t, err)
	return h
}

// callback drives HandleCallback with a well-formed state cookie/parameter
// pair, returning the recorder. An empty code leaves the parameter off.
func callback(h *handler.AuthHandler, code string) *httptest.ResponseRecorder {
	target := "/auth/callback?state=test-state"
	if code != "" {
		target += "&code=" + code
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "test-state"})
	rr := httptest.NewRecorder()
	h.HandleCallback(rr, req)
	return rr
}

// isAuthorizedAfter reports whether the cookies set on rr form an authorized
// session — i.e. whether the callback actually signed the caller in.
func isAuthorizedAfter(gate *auth.Gate, rr *httptest.ResponseRecorder) bool {
	req := httptest.NewRequest(http.MethodGet, "/myzone", nil)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
	return gate.IsAuthorized(req)
}

func TestLoginPage(t *testing.T) {
	h := newAuthHandler(t, &fakeExchanger{configured: true}, newTestGate(t))

	rr := httptest.NewRecorder()
	h.HandleLoginPage(rr, httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Login with GitHub")
}

func TestGitHubLogin_Redirects(t *testing.T) {
	h := newAuthHandler(t, &fakeExchanger{configured: true}, newTestGate(t))

	rr := httptest.NewRecorder()
	h.HandleGitHubLogin(rr, httptest.NewRequest(http.MethodGet, "/auth/github/login", nil))

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Contains(t, rr.Header().Get("Location"), "github.test/login/oauth/authorize")

	// The state nonce must ride along in a cookie for the callback check.
	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "oauth_state", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.Contains(t, rr.Header().Get("Location"), "state="+cookies[0].Value)
}

func TestGitHubLogin_NotConfigured(t *testing.T) {
	h := newAuthHandler(t, &fakeExchanger{configured: false}, newTestGate(t))

	rr := httptest.NewRecorder()
	h.HandleGitHubLogin(rr, httptest.NewRequest(http.MethodGet, "/auth/github/login", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "GitHub Client ID not configured")
}

func TestCallback_MissingCode(t *testing.T) {
	gate := newTestGate(t)
	h := newAuthHandler(t, &fakeExchanger{configured: true}, gate)

	rr := callback(h, "")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "No code provided")
	assert.False(t, isAuthorizedAfter(gate, rr))
}

func TestCallback_StateMismatch(t *testing.T) {
	gate := newTestGate(t)
	h := newAuthHandler(t, &fakeExchanger{configured: true, login: "prabhanshu11"}, gate)

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=evil", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "test-state"})
	rr := httptest.NewRecorder()
	h.HandleCallback(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, isAuthorizedAfter(gate, rr))
}

func TestCallback_TokenExchangeFails(t *testing.T) {
	gate := newTestGate(t)
	github := &fakeExchanger{
		configured: true,
		err:        apperror.Unauthorized("failed to get access token"),
	}
	h := newAuthHandler(t, github, gate)

	rr := callback(h, "stale-code")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to get access token")
	assert.False(t, isAuthorizedAfter(gate, rr), "failed exchange must not sign anyone in")
}

func TestCallback_LoginNotOnAllowList(t *testing.T) {
	gate := newTestGate(t)
	h := newAuthHandler(t, &fakeExchanger{configured: true, login: "someone_else"}, gate)

	rr := callback(h, "good-code")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "not allowed to access this area")
	assert.False(t, isAuthorizedAfter(gate, rr), "wrong identity must not sign anyone in")
}

func TestCallback_Success(t *testing.T) {
	gate := newTestGate(t)
	h := newAuthHandler(t, &fakeExchanger{configured: true, login: "prabhanshu11"}, gate)

	rr := callback(h, "good-code")

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/myzone", rr.Header().Get("Location"))
	assert.True(t, isAuthorizedAfter(gate, rr))
}

func TestLogout(t *testing.T) {
	gate := newTestGate(t)
	h := newAuthHandler(t, &fakeExchanger{configured: true}, gate)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	for _, c := range sessionCookies(t, gate, "prabhanshu11") {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h.HandleLogout(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	// The response must expire the session cookie.
	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

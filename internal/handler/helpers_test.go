package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prabhanshu11/prabhanshu-space/internal/auth"
	"github.com/prabhanshu11/prabhanshu-space/internal/model"
)

// Handler tests render the real templates; the path is relative to this
// package directory, which is where `go test` runs.
const testTemplateDir = "../../web/templates"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore is an in-memory SubscriberRepository. A fake (not a mock
// framework) keeps the tests readable — what it does is exactly what you see.
type fakeStore struct {
	subs   []model.Subscriber
	nextID int64
	// set to simulate a storage failure
	err error
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1}
}

func (f *fakeStore) Add(ctx context.Context, email string) (int64, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	for _, s := range f.subs {
		if s.Email == email {
			return s.ID, false, nil
		}
	}
	id := f.nextID
	f.nextID++
	f.subs = append(f.subs, model.Subscriber{
		ID:        id,
		Email:     email,
		CreatedAt: "2025-06-01T12:00:00Z",
		Status:    "active",
	})
	return id, true, nil
}

func (f *fakeStore) List(ctx context.Context) ([]model.Subscriber, error) {
	if f.err != nil {
		return nil, f.err
	}
	// Newest first, mirroring the real store's ordering contract.
	out := make([]model.Subscriber, len(f.subs))
	for i, s := range f.subs {
		out[len(f.subs)-1-i] = s
	}
	return out, nil
}

func (f *fakeStore) Delete(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	for i, s := range f.subs {
		if s.ID == id {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			return nil
		}
	}
	return nil // missing id is a no-op
}

func (f *fakeStore) Count(ctx context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.subs)), nil
}

// fakeExchanger stands in for the GitHub provider in callback-flow tests.
type fakeExchanger struct {
	configured bool
	login      string
	err        error
}

func (f *fakeExchanger) Configured() bool { return f.configured }

func (f *fakeExchanger) AuthURL(state string) string {
	return "https://github.test/login/oauth/authorize?state=" + state
}

func (f *fakeExchanger) Exchange(ctx context.Context, code string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.login, nil
}

func newTestGate(t *testing.T) *auth.Gate {
	t.Helper()
	gate, err := auth.NewGate("handler-test-secret-key-123456", "prabhanshu11")
	if err != nil {
		t.Fatalf("NewGate() error = %v", err)
	}
	return gate
}

// sessionCookies mints session cookies for the given login, compatible with
// the test gate.
func sessionCookies(t *testing.T, gate *auth.Gate, login string) []*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := gate.SignIn(rec, httptest.NewRequest(http.MethodGet, "/", nil), login); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	return rec.Result().Cookies()
}

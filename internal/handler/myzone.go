package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/prabhanshu11/prabhanshu-space/internal/auth"
	"github.com/prabhanshu11/prabhanshu-space/internal/repository"
)

// istZone is UTC+5:30. The dashboard offers exactly two renderings of the
// subscriber timestamps: UTC and IST. Anything else falls back to UTC.
var istZone = time.FixedZone("IST", 5*60*60+30*60)

// MyZoneHandler serves the private dashboard behind the gate.
//
// There is no auth middleware on purpose: the contract is a manual
// gate.IsAuthorized check at the top of every protected handler, with a
// redirect to /login (or a 403 for the delete POST) when it fails. With three
// handlers, a middleware layer would hide the one check that matters.
type MyZoneHandler struct {
	store      repository.SubscriberRepository
	gate       *auth.Gate
	dashboard  *template.Template
	subscriber *template.Template
	logger     *slog.Logger
}

// NewMyZoneHandler parses the dashboard templates.
func NewMyZoneHandler(store repository.SubscriberRepository, gate *auth.Gate, templateDir string, logger *slog.Logger) (*MyZoneHandler, error) {
	dashboard, err := parsePage(templateDir, "myzone.html")
	if err != nil {
		return nil, err
	}
	subscriber, err := parsePage(templateDir, "subscribers.html")
	if err != nil {
		return nil, err
	}

	return &MyZoneHandler{
		store:      store,
		gate:       gate,
		dashboard:  dashboard,
		subscriber: subscriber,
		logger:     logger,
	}, nil
}

// HandleDashboard renders the My Zone landing page with the subscriber count.
//
// HTTP: GET /myzone (protected)
func (h *MyZoneHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if !h.gate.IsAuthorized(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	count, err := h.store.Count(r.Context())
	if err != nil {
		h.logger.Error("dashboard: counting subscribers failed", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	user, _ := h.gate.CurrentUser(r)
	renderPage(w, h.logger, h.dashboard, http.StatusOK, map[string]any{
		"Title": "My Zone",
		"User":  user,
		"Count": count,
	})
}

// subscriberRow is one line of the dashboard listing, with the timestamp
// already rendered in the requested zone.
type subscriberRow struct {
	ID      int64
	Email   string
	Created string
	Status  string
}

// HandleSubscriberList lists every subscriber, newest first, with timestamps
// in the requested timezone.
//
// HTTP: GET /myzone/newsletter?tz=UTC|IST (protected)
func (h *MyZoneHandler) HandleSubscriberList(w http.ResponseWriter, r *http.Request) {
	if !h.gate.IsAuthorized(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	tz := r.URL.Query().Get("tz")
	loc := time.UTC
	if tz == "IST" {
		loc = istZone
	} else {
		tz = "UTC"
	}
	otherTZ := "IST"
	if tz == "IST" {
		otherTZ = "UTC"
	}

	subs, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("listing subscribers failed", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	rows := make([]subscriberRow, 0, len(subs))
	for _, s := range subs {
		rows = append(rows, subscriberRow{
			ID:      s.ID,
			Email:   s.Email,
			Created: renderTimestamp(s.CreatedAt, loc),
			Status:  s.Status,
		})
	}

	renderPage(w, h.logger, h.subscriber, http.StatusOK, map[string]any{
		"Title":       "Newsletter Subscribers",
		"Subscribers": rows,
		"TZ":          tz,
		"OtherTZ":     otherTZ,
	})
}

// HandleDelete removes a subscriber and returns to the listing.
//
// HTTP: POST /myzone/newsletter/delete/{id} (protected)
//
// Unlike the GET pages this returns 403 rather than a redirect — a POST from
// an unauthenticated session is a stale form or something hostile, not a user
// to usher to the login page.
func (h *MyZoneHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if !h.gate.IsAuthorized(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid subscriber id", http.StatusBadRequest)
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.logger.Error("deleting subscriber failed",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("subscriber deleted", slog.Int64("id", id))
	http.Redirect(w, r, "/myzone/newsletter", http.StatusSeeOther)
}

// renderTimestamp converts a stored RFC 3339 UTC string into the display
// zone. A value that doesn't parse (hand-edited database rows happen) is
// shown as-is rather than erroring the whole page.
func renderTimestamp(createdAt string, loc *time.Location) string {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return createdAt
	}
	return t.In(loc).Format("02 Jan 2006 15:04:05 MST")
}

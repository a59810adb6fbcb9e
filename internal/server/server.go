// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the wiring layer — the composition root where the database, the
// auth gate, the OAuth provider, and the handlers are assembled and bound to
// routes. main.go stays minimal; everything testable lives here or below.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/prabhanshu11/prabhanshu-space/internal/auth"
	"github.com/prabhanshu11/prabhanshu-space/internal/handler"
	"github.com/prabhanshu11/prabhanshu-space/internal/middleware"
	sqliteRepo "github.com/prabhanshu11/prabhanshu-space/internal/repository/sqlite"
)

// Config holds server configuration, loaded from the environment in main.
type Config struct {
	Host               string
	Port               int
	Debug              bool
	TemplateDir        string
	StaticDir          string
	DBPath             string
	SecretKey          string // session cookie signing secret
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
	AllowedUser        string // empty = auth.DefaultAllowedUser
}

// Server owns the router, the database connection, and the gate. The
// database is closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	gate   *auth.Gate
}

// New wires the whole dependency chain:
//
//	sqlite.DB → handlers (store interface)
//	Gate + Provider → auth handlers
//	chi router → routes
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	gate, err := auth.NewGate(cfg.SecretKey, cfg.AllowedUser)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating auth gate: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		gate:   gate,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Gate exposes the session gate, mainly so tests can mint session cookies
// compatible with the running server.
func (s *Server) Gate() *auth.Gate {
	return s.gate
}

// Handler returns the root handler, for tests driving the server through
// httptest without binding a real port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures middleware and the full route table.
//
// ROUTE TABLE:
//
//	GET  /                               home page
//	GET  /about                          about page
//	GET  /health                         JSON health check
//	POST /newsletter/subscribe           signup form target
//	GET  /login                          login page
//	GET  /auth/github/login              redirect to GitHub authorization
//	GET  /auth/callback                  OAuth callback
//	GET  /logout                         clear session
//	GET  /myzone                         dashboard        (protected)
//	GET  /myzone/newsletter              subscriber list  (protected)
//	POST /myzone/newsletter/delete/{id}  delete subscriber (protected)
//	GET  /static/*                       static assets
//	*                                    custom 404
func (s *Server) setupRoutes() error {
	// Middleware order matters: request ID and real IP first, panic recovery
	// before anything that could blow up, then our logger.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	pages, err := handler.NewPageHandler(s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating page handler: %w", err)
	}

	newsletter, err := handler.NewNewsletterHandler(s.db, s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating newsletter handler: %w", err)
	}

	provider := auth.NewProvider(
		s.config.GitHubClientID,
		s.config.GitHubClientSecret,
		s.config.GitHubCallbackURL,
	)
	authHandler, err := handler.NewAuthHandler(provider, s.gate, s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating auth handler: %w", err)
	}

	myzone, err := handler.NewMyZoneHandler(s.db, s.gate, s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating myzone handler: %w", err)
	}

	// Public pages
	s.router.Get("/", pages.HandleHome)
	s.router.Get("/about", pages.HandleAbout)
	s.router.Get("/health", pages.HandleHealth)
	s.router.Post("/newsletter/subscribe", newsletter.HandleSubscribe)

	// Login flow
	s.router.Get("/login", authHandler.HandleLoginPage)
	s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
	s.router.Get("/auth/callback", authHandler.HandleCallback)
	s.router.Get("/logout", authHandler.HandleLogout)

	// Protected area. No auth middleware — each handler checks the gate
	// itself and redirects (or 403s) on failure.
	s.router.Get("/myzone", myzone.HandleDashboard)
	s.router.Get("/myzone/newsletter", myzone.HandleSubscriberList)
	s.router.Post("/myzone/newsletter/delete/{id}", myzone.HandleDelete)

	// Everything else gets the custom 404 page.
	s.router.NotFound(pages.HandleNotFound)

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30 seconds,
// close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("database", s.config.DBPath),
			slog.Bool("debug", s.config.Debug),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

// Package main is the entry point for the personal website server.
//
// The main package stays minimal — its job is to:
// 1. Read configuration (from .env / environment variables)
// 2. Create dependencies (logger, database path, OAuth credentials)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server, internal/handler,
// internal/auth, etc.). This separation keeps the app testable and its
// components reusable.
package main

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"

	"github.com/prabhanshu11/prabhanshu-space/internal/server"
)

func main() {
	// === 1. LOAD .env ===
	// godotenv reads a .env file in the working directory into the process
	// environment. A missing file is fine — real env vars still apply, and in
	// production there usually is no .env at all.
	_ = godotenv.Load()

	// === 2. READ CONFIGURATION ===
	host := os.Getenv("HOST") // empty = all interfaces

	port := 8000
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid PORT value %q\n", portStr)
			os.Exit(1)
		}
	}

	debug := strings.EqualFold(os.Getenv("DEBUG"), "true")

	// === 3. SET UP LOGGING ===
	// DEBUG=true turns on debug-level logs; otherwise Info keeps the noise down.
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	// === 4. RESOLVE FILE PATHS ===
	// The "web" directory sits at the project root, so running from the root
	// (the normal `go run ./cmd/server` case) resolves these directly.
	templateDir, _ := filepath.Abs("web/templates")
	staticDir, _ := filepath.Abs("web/static")

	// === 5. DATABASE PATH ===
	// Default to "data/site.db" in the project root; DB_PATH overrides it for
	// deployments. The data directory is created if needed.
	dbPath := "data/site.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// === 6. SESSION SECRET ===
	// SECRET_KEY signs the session cookie. If it's unset we generate a random
	// one so the server still starts, but sessions won't survive a restart —
	// fine for local hacking, wrong for production.
	secretKey := os.Getenv("SECRET_KEY")
	if secretKey == "" {
		secretKey = hex.EncodeToString(securecookie.GenerateRandomKey(32))
		logger.Warn("SECRET_KEY not set — using a random key, sessions reset on restart")
	}

	// === 7. OAUTH CONFIGURATION ===
	// Credentials come from a GitHub OAuth App. If they're unset the public
	// pages still work; only the My Zone login flow refuses.
	githubClientID := os.Getenv("GITHUB_CLIENT_ID")
	githubClientSecret := os.Getenv("GITHUB_CLIENT_SECRET")
	if githubClientID == "" {
		logger.Warn("GITHUB_CLIENT_ID not set — My Zone login is unavailable")
	}
	githubCallbackURL := os.Getenv("GITHUB_CALLBACK_URL")
	if githubCallbackURL == "" {
		githubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/callback", port)
	}

	// === 8. CREATE AND START THE SERVER ===
	cfg := server.Config{
		Host:               host,
		Port:               port,
		Debug:              debug,
		TemplateDir:        templateDir,
		StaticDir:          staticDir,
		DBPath:             dbPath,
		SecretKey:          secretKey,
		GitHubClientID:     githubClientID,
		GitHubClientSecret: githubClientSecret,
		GitHubCallbackURL:  githubCallbackURL,
		AllowedUser:        os.Getenv("ALLOWED_USER"), // empty = built-in default
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

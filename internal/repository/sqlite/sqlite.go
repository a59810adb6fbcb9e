// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// SQLite is an embedded database — a single file, no separate server to run.
// That fits this site exactly: one process, one small table, no contention
// model worth speaking of.
//
// We use modernc.org/sqlite rather than github.com/mattn/go-sqlite3 because it
// is a pure Go translation of SQLite — no CGo, no C compiler, painless
// cross-compilation.
package sqlite

import (
	"database/sql"
	"fmt"

	// Blank import registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides the subscriber repository
// methods. The server owns the lifecycle: New creates it, Close releases it on
// shutdown.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/site.db" → file-based database (persistent)
//   - ":memory:"     → in-memory database (tests)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// SQLite allows one writer at a time, and a ":memory:" database exists
	// per connection — a pool of them would see different databases. A single
	// connection serves this workload fine.
	conn.SetMaxOpenConns(1)

	// sql.Open doesn't actually connect; Ping surfaces bad paths and
	// permission problems immediately instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode lets reads proceed while a write is in flight. Even a tiny
	// personal site gets concurrent requests.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the subscribers table if it doesn't exist.
//
// created_at is TEXT holding an RFC 3339 UTC timestamp — lexical order equals
// chronological order, so ORDER BY created_at works without any parsing.
//
// The UNIQUE index on email backs up the application-level duplicate check:
// two concurrent subscribes for the same address can both miss the lookup, but
// only one insert can win.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS subscribers (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			email      TEXT NOT NULL,
			created_at TEXT NOT NULL,
			status     TEXT NOT NULL DEFAULT 'active'
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_subscribers_email ON subscribers(email);
		CREATE INDEX IF NOT EXISTS idx_subscribers_created_at ON subscribers(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating subscribers table: %w", err)
	}

	return nil
}

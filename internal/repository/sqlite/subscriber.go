package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/prabhanshu11/prabhanshu-space/internal/model"
	"github.com/prabhanshu11/prabhanshu-space/internal/repository"
)

// Compile-time check that *DB implements repository.SubscriberRepository.
var _ repository.SubscriberRepository = (*DB)(nil)

// Add subscribes an email address, idempotently.
//
// The lookup-then-insert keeps the contract simple: an existing address
// returns its row id with created=false, a new one is inserted with
// created_at set to the current UTC time and status "active". The UNIQUE
// index on email (see migrate) closes the race where two concurrent requests
// both miss the lookup.
//
// The email is trusted to be syntactically valid — validation happens in the
// handler before the store is ever called.
func (db *DB) Add(ctx context.Context, email string) (int64, bool, error) {
	var id int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM subscribers WHERE email = ?`,
		email,
	).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if err != sql.ErrNoRows {
		return 0, false, fmt.Errorf("sqlite: looking up subscriber %s: %w", email, err)
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO subscribers (email, created_at, status) VALUES (?, ?, 'active')`,
		email,
		createdAt,
	)
	if err != nil {
		return 0, false, fmt.Errorf("sqlite: inserting subscriber: %w", err)
	}

	// LastInsertId maps to sqlite's last_insert_rowid() — the AUTOINCREMENT
	// primary key assigned to the new row.
	id, err = res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("sqlite: reading new subscriber id: %w", err)
	}

	return id, true, nil
}

// List returns every subscriber, most recent first.
//
// No paging — the dashboard shows the whole table. created_at is RFC 3339
// text, so DESC string order is DESC time order; id DESC breaks ties between
// rows created within the same second.
func (db *DB) List(ctx context.Context) ([]model.Subscriber, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, email, created_at, status
		 FROM subscribers
		 ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing subscribers: %w", err)
	}
	defer rows.Close()

	subscribers := []model.Subscriber{}
	for rows.Next() {
		var s model.Subscriber
		if err := rows.Scan(&s.ID, &s.Email, &s.CreatedAt, &s.Status); err != nil {
			return nil, fmt.Errorf("sqlite: scanning subscriber row: %w", err)
		}
		subscribers = append(subscribers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating subscribers: %w", err)
	}

	return subscribers, nil
}

// Delete removes a subscriber by id. Deleting an id that doesn't exist is a
// no-op, not an error — the dashboard's delete button should never 500 just
// because someone double-clicked it.
func (db *DB) Delete(ctx context.Context, id int64) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM subscribers WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting subscriber %d: %w", id, err)
	}
	return nil
}

// Count returns the total number of subscribers.
func (db *DB) Count(ctx context.Context) (int64, error) {
	var count int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscribers`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting subscribers: %w", err)
	}
	return count, nil
}

// Package model defines the data structures used throughout the application.
package model

// Subscriber represents one newsletter signup.
//
// WHY CreatedAt string (not time.Time)?
// The column stores an ISO-8601 UTC timestamp as TEXT, which sorts correctly
// as a plain string and round-trips through the database without driver
// conversion surprises. Handlers parse it only when they need to render it in
// a different timezone.
//
// Status is always "active" on creation. There is no other transition —
// unsubscribing is a hard delete from the My Zone dashboard.
type Subscriber struct {
	ID        int64  `json:"id"        db:"id"`
	Email     string `json:"email"     db:"email"`
	CreatedAt string `json:"createdAt" db:"created_at"` // RFC 3339, UTC
	Status    string `json:"status"    db:"status"`
}

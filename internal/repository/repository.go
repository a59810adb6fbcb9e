package repository

import (
	"context"

	"github.com/prabhanshu11/prabhanshu-space/internal/model"
)

// SubscriberRepository is the storage contract for newsletter subscribers.
//
// Add is idempotent on email: subscribing an address that already exists
// returns the existing row's id with created=false and never inserts a
// duplicate. Callers are expected to validate the email before calling Add —
// the store trusts its input.
type SubscriberRepository interface {
	Add(ctx context.Context, email string) (id int64, created bool, err error)
	List(ctx context.Context) ([]model.Subscriber, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

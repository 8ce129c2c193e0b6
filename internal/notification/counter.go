package notification

import (
	"context"

	"github.com/wichananm65/pet-shop-orders/internal/storage"
)

// PendingKey is the storage key of the cached pending-notification count.
const PendingKey = "notifications.pending"

// PendingSource reports the authoritative number of pending notifications.
type PendingSource interface {
	PendingCount(ctx context.Context) (int, error)
}

// Counter caches the pending count locally so it can be shown without a
// round trip.
type Counter struct {
	store  storage.Store
	source PendingSource
}

func NewCounter(store storage.Store, source PendingSource) *Counter {
	return &Counter{store: store, source: source}
}

// Cached returns the last stored count; missing or malformed values read as 0.
func (c *Counter) Cached(ctx context.Context) (int, error) {
	var n int
	if _, err := storage.LoadJSON(ctx, c.store, PendingKey, &n); err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, nil
	}
	return n, nil
}

// Refresh fetches the count from the source and stores it.
func (c *Counter) Refresh(ctx context.Context) (int, error) {
	n, err := c.source.PendingCount(ctx)
	if err != nil {
		return 0, err
	}
	if err := storage.SaveJSON(ctx, c.store, PendingKey, n); err != nil {
		return n, err
	}
	return n, nil
}

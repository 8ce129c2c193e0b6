// Package failedorder keeps order submissions that could not be delivered so
// they can be replayed on request.
package failedorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wichananm65/pet-shop-orders/internal/order"
	"github.com/wichananm65/pet-shop-orders/internal/storage"
)

// QueueKey is the storage key of the queue.
const QueueKey = "orders.failed"

var (
	ErrEntryNotFound   = errors.New("queued order not found")
	ErrRetryInProgress = errors.New("queued order is already being retried")
)

// Entry is one undelivered submission. Order is replayed unchanged.
type Entry struct {
	QueueID       string           `json:"queueId"`
	Order         order.Submission `json:"order"`
	EnqueuedAt    time.Time        `json:"enqueuedAt"`
	Attempts      int              `json:"attempts"`
	LastError     string           `json:"lastError,omitempty"`
	LastAttemptAt *time.Time       `json:"lastAttemptAt,omitempty"`
}

// Deliverer sends a submission to the order service.
type Deliverer interface {
	Deliver(ctx context.Context, sub order.Submission) (order.Summary, error)
}

// Queue is a persisted list of failed submissions. It never retries on its
// own.
type Queue struct {
	store  storage.Store
	logger *slog.Logger
	now    func() time.Time
	newID  func() string

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewQueue(store storage.Store, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		store:    store,
		logger:   logger,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
		inFlight: map[string]bool{},
	}
}

func (q *Queue) load(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if _, err := storage.LoadJSON(ctx, q.store, QueueKey, &entries); err != nil {
		return nil, err
	}
	valid := entries[:0]
	for _, e := range entries {
		if e.QueueID != "" {
			valid = append(valid, e)
		}
	}
	return valid, nil
}

func (q *Queue) save(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		if err := q.store.Delete(ctx, QueueKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		return nil
	}
	return storage.SaveJSON(ctx, q.store, QueueKey, entries)
}

// Enqueue appends sub with a fresh queue id. cause is recorded as the last
// error.
func (q *Queue) Enqueue(ctx context.Context, sub order.Submission, cause error) (Entry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	entries, err := q.load(ctx)
	if err != nil {
		return Entry{}, err
	}
	e := Entry{QueueID: q.newID(), Order: sub, EnqueuedAt: q.now().UTC()}
	if cause != nil {
		e.LastError = cause.Error()
	}
	if err := q.save(ctx, append(entries, e)); err != nil {
		return Entry{}, fmt.Errorf("enqueue failed order: %w", err)
	}
	q.logger.Warn("order queued for retry", "queue_id", e.QueueID, "total", sub.Total.String(), "cause", e.LastError)
	return e, nil
}

// List returns every entry, oldest first.
func (q *Queue) List(ctx context.Context) ([]Entry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	entries, err := q.load(ctx)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

func (q *Queue) Get(ctx context.Context, queueID string) (Entry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	entries, err := q.load(ctx)
	if err != nil {
		return Entry{}, err
	}
	for _, e := range entries {
		if e.QueueID == queueID {
			return e, nil
		}
	}
	return Entry{}, ErrEntryNotFound
}

func (q *Queue) Remove(ctx context.Context, queueID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.remove(ctx, queueID)
}

func (q *Queue) remove(ctx context.Context, queueID string) error {
	entries, err := q.load(ctx)
	if err != nil {
		return err
	}
	for i, e := range entries {
		if e.QueueID == queueID {
			return q.save(ctx, append(entries[:i], entries[i+1:]...))
		}
	}
	return ErrEntryNotFound
}

// Retry delivers the stored submission again. Success removes the entry;
// failure records the attempt and leaves it queued.
func (q *Queue) Retry(ctx context.Context, queueID string, d Deliverer) (order.Summary, error) {
	q.mu.Lock()
	if q.inFlight[queueID] {
		q.mu.Unlock()
		return order.Summary{}, ErrRetryInProgress
	}
	entries, err := q.load(ctx)
	if err != nil {
		q.mu.Unlock()
		return order.Summary{}, err
	}
	var entry *Entry
	for i := range entries {
		if entries[i].QueueID == queueID {
			entry = &entries[i]
			break
		}
	}
	if entry == nil {
		q.mu.Unlock()
		return order.Summary{}, ErrEntryNotFound
	}
	sub := entry.Order
	q.inFlight[queueID] = true
	q.mu.Unlock()

	summary, deliverErr := d.Deliver(ctx, sub)

	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.inFlight, queueID)

	if deliverErr == nil {
		if err := q.remove(ctx, queueID); err != nil && !errors.Is(err, ErrEntryNotFound) {
			q.logger.Error("delivered order could not be removed from queue", "queue_id", queueID, "error", err)
		}
		q.logger.Info("queued order delivered", "queue_id", queueID, "sale_id", summary.SaleID)
		return summary, nil
	}

	if err := q.recordAttempt(ctx, queueID, deliverErr); err != nil {
		q.logger.Error("retry attempt could not be recorded", "queue_id", queueID, "error", err)
	}
	return order.Summary{}, deliverErr
}

func (q *Queue) recordAttempt(ctx context.Context, queueID string, cause error) error {
	entries, err := q.load(ctx)
	if err != nil {
		return err
	}
	at := q.now().UTC()
	for i := range entries {
		if entries[i].QueueID == queueID {
			entries[i].Attempts++
			entries[i].LastError = cause.Error()
			entries[i].LastAttemptAt = &at
			return q.save(ctx, entries)
		}
	}
	return ErrEntryNotFound
}

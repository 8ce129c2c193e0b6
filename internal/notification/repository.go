package notification

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var ErrNotFound = errors.New("notification not found")

// Repository stores notifications. SaveStatus writes only the status fields.
type Repository interface {
	Create(ctx context.Context, n Notification) (Notification, error)
	Get(ctx context.Context, id int) (Notification, error)
	List(ctx context.Context, f Filter) ([]Notification, error)
	SaveStatus(ctx context.Context, n Notification) error
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int, error)
	CountByStatus(ctx context.Context, status Status) (int, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.RWMutex
	items  map[int]Notification
	nextID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{items: map[int]Notification{}, nextID: 1}
}

func (r *InMemoryRepository) Create(_ context.Context, n Notification) (Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = r.nextID
	r.nextID++
	r.items[n.ID] = n
	return n, nil
}

func (r *InMemoryRepository) Get(_ context.Context, id int) (Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.items[id]
	if !ok {
		return Notification{}, ErrNotFound
	}
	return n, nil
}

// List returns matches newest first.
func (r *InMemoryRepository) List(_ context.Context, f Filter) ([]Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Notification, 0, len(r.items))
	for _, n := range r.items {
		if f.Match(n) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *InMemoryRepository) SaveStatus(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[n.ID]
	if !ok {
		return ErrNotFound
	}
	cur.Status = n.Status
	cur.ViewedAt = n.ViewedAt
	cur.ResolvedAt = n.ResolvedAt
	cur.RejectionReason = n.RejectionReason
	r.items[n.ID] = cur
	return nil
}

func (r *InMemoryRepository) DeleteCreatedBefore(_ context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deleted := 0
	for id, n := range r.items {
		if n.CreatedAt.Before(cutoff) {
			delete(r.items, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *InMemoryRepository) CountByStatus(_ context.Context, status Status) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, n := range r.items {
		if n.Status == status {
			count++
		}
	}
	return count, nil
}

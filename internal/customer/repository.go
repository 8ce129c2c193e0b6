package customer

import (
	"context"
	"sync"
)

// Repository provides access to customer records on the order service.
type Repository interface {
	GetByUserID(ctx context.Context, userID int) (Record, error)
	Upsert(ctx context.Context, rec Record) (Record, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records []Record
	nextID  int
}

func NewInMemoryRepository(seed []Record) *InMemoryRepository {
	r := &InMemoryRepository{records: make([]Record, 0, len(seed)), nextID: 1}
	for _, rec := range seed {
		r.records = append(r.records, rec)
		if rec.CustomerID >= r.nextID {
			r.nextID = rec.CustomerID + 1
		}
	}
	return r
}

func (r *InMemoryRepository) GetByUserID(_ context.Context, userID int) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records {
		if rec.UserID == userID {
			return rec, nil
		}
	}
	return Record{}, ErrNotFound
}

func (r *InMemoryRepository) Upsert(_ context.Context, rec Record) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.records {
		if existing.UserID == rec.UserID {
			rec.CustomerID = existing.CustomerID
			r.records[i] = rec
			return rec, nil
		}
	}
	rec.CustomerID = r.nextID
	r.nextID++
	r.records = append(r.records, rec)
	return rec, nil
}

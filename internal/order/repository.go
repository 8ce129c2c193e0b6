package order

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("sale not found")

// Repository persists sales received by the order service.
type Repository interface {
	Create(ctx context.Context, sale Sale) (Sale, error)
	GetByID(ctx context.Context, id int) (Sale, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.RWMutex
	sales  map[int]Sale
	nextID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{sales: map[int]Sale{}, nextID: 1}
}

func (r *InMemoryRepository) Create(_ context.Context, sale Sale) (Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sale.SaleID = r.nextID
	r.nextID++
	r.sales[sale.SaleID] = sale
	return sale, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id int) (Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sale, ok := r.sales[id]
	if !ok {
		return Sale{}, ErrNotFound
	}
	return sale, nil
}

package cart

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DiscountClearer drops the active discount when the cart is emptied.
type DiscountClearer interface {
	Clear(ctx context.Context) error
}

// Event is published after every successful mutation with the new contents.
type Event struct {
	Items []Item
	At    time.Time
}

// Store owns the shopper's cart. Every mutation reads the full item list,
// applies the change and writes the full list back.
type Store struct {
	mu        sync.Mutex
	repo      Repository
	discounts DiscountClearer
	logger    *slog.Logger
	now       func() time.Time

	subMu  sync.Mutex
	nextID int
	subs   map[int]chan Event
}

func NewStore(repo Repository, discounts DiscountClearer, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		repo:      repo,
		discounts: discounts,
		logger:    logger,
		now:       time.Now,
		subs:      make(map[int]chan Event),
	}
}

// AddItem merges qty units of p into the cart. A qty below one adds a single unit.
func (s *Store) AddItem(ctx context.Context, p Product, qty int) ([]Item, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if qty < 1 {
		qty = 1
	}

	return s.mutate(ctx, func(items []Item) ([]Item, error) {
		for i := range items {
			if items[i].ID != p.ID {
				continue
			}
			// catalogue data is refreshed on every add
			ceiling := p.Stock
			next := items[i].Quantity + qty
			if err := checkStock(p.ID, next, ceiling); err != nil {
				return nil, err
			}
			items[i].Quantity = next
			items[i].StockCeiling = ceiling
			items[i].Name = p.Name
			items[i].UnitPrice = p.UnitPrice
			return items, nil
		}
		if err := checkStock(p.ID, qty, p.Stock); err != nil {
			return nil, err
		}
		return append(items, Item{
			ID:           p.ID,
			Name:         p.Name,
			UnitPrice:    p.UnitPrice,
			ImageRef:     p.ImageRef,
			Category:     p.Category,
			Quantity:     qty,
			StockCeiling: p.Stock,
			AddedAt:      s.now().UTC(),
		}), nil
	})
}

// UpdateQuantity sets the quantity of an item. A quantity below one removes it.
func (s *Store) UpdateQuantity(ctx context.Context, id, qty int) ([]Item, error) {
	if qty < 1 {
		return s.RemoveItem(ctx, id)
	}
	return s.mutate(ctx, func(items []Item) ([]Item, error) {
		for i := range items {
			if items[i].ID != id {
				continue
			}
			if err := checkStock(id, qty, items[i].StockCeiling); err != nil {
				return nil, err
			}
			items[i].Quantity = qty
			return items, nil
		}
		return nil, ErrItemNotFound
	})
}

// RemoveItem drops an item; removing an id that is not in the cart succeeds.
func (s *Store) RemoveItem(ctx context.Context, id int) ([]Item, error) {
	return s.mutate(ctx, func(items []Item) ([]Item, error) {
		out := items[:0]
		for _, it := range items {
			if it.ID != id {
				out = append(out, it)
			}
		}
		return out, nil
	})
}

// Clear empties the cart and drops the active discount.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.mutate(ctx, func([]Item) ([]Item, error) {
		return []Item{}, nil
	})
	if err != nil {
		return err
	}
	if s.discounts != nil {
		if err := s.discounts.Clear(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ListItems returns the valid items currently in the cart.
func (s *Store) ListItems(ctx context.Context) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Load(ctx)
}

func (s *Store) mutate(ctx context.Context, apply func([]Item) ([]Item, error)) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	next, err := apply(items)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, next); err != nil {
		s.logger.Error("cart save failed", "error", err)
		return nil, err
	}

	snapshot := make([]Item, len(next))
	copy(snapshot, next)
	s.publish(Event{Items: snapshot, At: s.now().UTC()})
	return snapshot, nil
}

// Subscribe returns a channel receiving cart change events and a cancel func
// that unsubscribes and closes the channel. Events are dropped for a
// subscriber whose buffer is full.
func (s *Store) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (s *Store) publish(ev Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for id, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			s.logger.Warn("cart subscriber lagging, event dropped", "subscriber", id)
		}
	}
}

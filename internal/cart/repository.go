package cart

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wichananm65/pet-shop-orders/internal/storage"
)

// ItemsKey is the storage key holding the cart's item array.
const ItemsKey = "cart.items"

// Repository persists the whole item list at once; there is no per-item write.
type Repository interface {
	Load(ctx context.Context) ([]Item, error)
	Save(ctx context.Context, items []Item) error
}

// StorageRepository keeps the cart as a JSON array in a storage.Store.
type StorageRepository struct {
	store storage.Store
}

func NewStorageRepository(s storage.Store) *StorageRepository {
	return &StorageRepository{store: s}
}

// storedItem mirrors Item with optional fields so entries written by older
// clients, or damaged by hand, can be detected and skipped.
type storedItem struct {
	ID           *int             `json:"id"`
	Name         *string          `json:"name"`
	UnitPrice    *decimal.Decimal `json:"unitPrice"`
	ImageRef     string           `json:"imageRef"`
	Category     string           `json:"category"`
	Quantity     int              `json:"quantity"`
	StockCeiling int              `json:"stockCeiling"`
	AddedAt      json.RawMessage  `json:"addedAt"`
}

func (s storedItem) toItem() (Item, bool) {
	if s.ID == nil || *s.ID <= 0 || s.Name == nil || *s.Name == "" || s.UnitPrice == nil || s.UnitPrice.IsNegative() {
		return Item{}, false
	}
	it := Item{
		ID:           *s.ID,
		Name:         *s.Name,
		UnitPrice:    *s.UnitPrice,
		ImageRef:     s.ImageRef,
		Category:     s.Category,
		Quantity:     s.Quantity,
		StockCeiling: s.StockCeiling,
	}
	if it.Quantity < 1 {
		it.Quantity = 1
	}
	if it.StockCeiling < 0 {
		it.StockCeiling = 0
	}
	var at time.Time
	if len(s.AddedAt) > 0 && json.Unmarshal(s.AddedAt, &at) == nil {
		it.AddedAt = at
	}
	return it, true
}

func (r *StorageRepository) Load(ctx context.Context) ([]Item, error) {
	var raw []json.RawMessage
	if _, err := storage.LoadJSON(ctx, r.store, ItemsKey, &raw); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(raw))
	seen := make(map[int]bool, len(raw))
	for _, entry := range raw {
		var s storedItem
		if err := json.Unmarshal(entry, &s); err != nil {
			continue
		}
		it, ok := s.toItem()
		if !ok || seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		items = append(items, it)
	}
	return items, nil
}

func (r *StorageRepository) Save(ctx context.Context, items []Item) error {
	if len(items) == 0 {
		return r.store.Delete(ctx, ItemsKey)
	}
	return storage.SaveJSON(ctx, r.store, ItemsKey, items)
}

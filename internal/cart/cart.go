package cart

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrStockExceeded  = errors.New("quantity exceeds available stock")
	ErrInvalidProduct = errors.New("invalid product")
	ErrItemNotFound   = errors.New("item not in cart")
)

// Item is one line of the cart. StockCeiling of zero means stock is not tracked.
type Item struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	ImageRef     string          `json:"imageRef,omitempty"`
	Category     string          `json:"category,omitempty"`
	Quantity     int             `json:"quantity"`
	StockCeiling int             `json:"stockCeiling"`
	AddedAt      time.Time       `json:"addedAt"`
}

// LineTotal is UnitPrice × Quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Product is what the catalogue hands to the cart when a shopper adds something.
type Product struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	ImageRef  string          `json:"imageRef,omitempty"`
	Category  string          `json:"category,omitempty"`
	Stock     int             `json:"stock"`
}

func (p Product) validate() error {
	switch {
	case p.ID <= 0:
		return fmt.Errorf("%w: missing id", ErrInvalidProduct)
	case p.Name == "":
		return fmt.Errorf("%w: missing name", ErrInvalidProduct)
	case p.UnitPrice.IsNegative():
		return fmt.Errorf("%w: negative price", ErrInvalidProduct)
	case p.Stock < 0:
		return fmt.Errorf("%w: negative stock", ErrInvalidProduct)
	}
	return nil
}

// StockError reports a quantity that would pass the item's stock ceiling.
type StockError struct {
	ItemID    int
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("item %d: requested %d, only %d in stock", e.ItemID, e.Requested, e.Available)
}

func (e *StockError) Is(target error) bool {
	return target == ErrStockExceeded
}

func checkStock(id, qty, ceiling int) error {
	if ceiling > 0 && qty > ceiling {
		return &StockError{ItemID: id, Requested: qty, Available: ceiling}
	}
	return nil
}

// Subtotal sums the line totals of items.
func Subtotal(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

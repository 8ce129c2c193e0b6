package discount

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wichananm65/pet-shop-orders/internal/storage"
)

// ActiveKey is the storage key holding the active discount.
const ActiveKey = "cart.discount"

// Application is a discount code accepted for the current cart.
type Application struct {
	Code    string          `json:"code"`
	Amount  decimal.Decimal `json:"amount"`
	Message string          `json:"message"`
}

// Result is the outcome of applying a code. Unknown codes are not errors.
type Result struct {
	OK      bool            `json:"success"`
	Code    string          `json:"code"`
	Amount  decimal.Decimal `json:"amount"`
	Message string          `json:"message"`
}

// DefaultCodes are the seeded codes and their fixed amounts.
var DefaultCodes = map[string]decimal.Decimal{
	"TEOCAT10":     decimal.NewFromInt(10000),
	"BIENVENIDO":   decimal.NewFromInt(5000),
	"MASCOTAFELIZ": decimal.NewFromInt(15000),
}

// Ledger validates codes against a fixed table and remembers the one active code.
type Ledger struct {
	store storage.Store
	codes map[string]decimal.Decimal
}

func NewLedger(s storage.Store, codes map[string]decimal.Decimal) *Ledger {
	if codes == nil {
		codes = DefaultCodes
	}
	normalized := make(map[string]decimal.Decimal, len(codes))
	for k, v := range codes {
		normalized[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	return &Ledger{store: s, codes: normalized}
}

// Apply looks code up case-insensitively. A known code replaces whatever was
// active before; an unknown one leaves it in place.
func (l *Ledger) Apply(ctx context.Context, code string) (Result, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	amount, ok := l.codes[normalized]
	if !ok {
		return Result{OK: false, Code: normalized, Amount: decimal.Zero, Message: "invalid discount code"}, nil
	}

	app := Application{
		Code:    normalized,
		Amount:  amount,
		Message: "discount of " + amount.StringFixed(0) + " applied",
	}
	if err := storage.SaveJSON(ctx, l.store, ActiveKey, app); err != nil {
		return Result{}, err
	}
	return Result{OK: true, Code: app.Code, Amount: app.Amount, Message: app.Message}, nil
}

// Active returns the persisted discount, or nil when none is active.
func (l *Ledger) Active(ctx context.Context) (*Application, error) {
	var app Application
	ok, err := storage.LoadJSON(ctx, l.store, ActiveKey, &app)
	if err != nil {
		return nil, err
	}
	if !ok || app.Code == "" || app.Amount.IsNegative() {
		return nil, nil
	}
	return &app, nil
}

// Amount returns the active discount amount, zero when none is active.
func (l *Ledger) Amount(ctx context.Context) (decimal.Decimal, string, error) {
	app, err := l.Active(ctx)
	if err != nil || app == nil {
		return decimal.Zero, "", err
	}
	return app.Amount, app.Code, nil
}

// Clear drops the active discount.
func (l *Ledger) Clear(ctx context.Context) error {
	return l.store.Delete(ctx, ActiveKey)
}

package checkout

import (
	"github.com/shopspring/decimal"
	"github.com/wichananm65/pet-shop-orders/internal/cart"
)

type Pricing struct {
	TaxRate               decimal.Decimal
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

func DefaultPricing() Pricing {
	return Pricing{
		TaxRate:               decimal.RequireFromString("0.19"),
		ShippingFee:           decimal.NewFromInt(5000),
		FreeShippingThreshold: decimal.NewFromInt(150000),
	}
}

type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Compute prices items. Shipping is waived once the subtotal reaches the
// threshold; the discount never takes the total below zero.
func (p Pricing) Compute(items []cart.Item, discount decimal.Decimal) Totals {
	t := Totals{Subtotal: cart.Subtotal(items)}
	t.Tax = t.Subtotal.Mul(p.TaxRate).Round(2)

	t.Shipping = p.ShippingFee
	if p.FreeShippingThreshold.IsPositive() && t.Subtotal.GreaterThanOrEqual(p.FreeShippingThreshold) {
		t.Shipping = decimal.Zero
	}

	gross := t.Subtotal.Add(t.Tax).Add(t.Shipping)
	t.Discount = decimal.Max(decimal.Zero, decimal.Min(discount, gross))
	t.Total = gross.Sub(t.Discount)
	return t
}

// Package checkout turns a shopper's cart into a delivered order, or into a
// queued one when the order service cannot take it.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wichananm65/pet-shop-orders/internal/cart"
	"github.com/wichananm65/pet-shop-orders/internal/customer"
	"github.com/wichananm65/pet-shop-orders/internal/failedorder"
	"github.com/wichananm65/pet-shop-orders/internal/order"
)

type Cart interface {
	ListItems(ctx context.Context) ([]cart.Item, error)
	Clear(ctx context.Context) error
}

type Discounts interface {
	Amount(ctx context.Context) (decimal.Decimal, string, error)
}

type Resolver interface {
	Resolve(ctx context.Context, s *customer.Session) (*customer.Profile, error)
}

type Queue interface {
	Enqueue(ctx context.Context, sub order.Submission, cause error) (failedorder.Entry, error)
	List(ctx context.Context) ([]failedorder.Entry, error)
	Retry(ctx context.Context, queueID string, d failedorder.Deliverer) (order.Summary, error)
}

// Deps are the collaborators of one shopper's checkout.
type Deps struct {
	Cart      Cart
	Discounts Discounts
	Resolver  Resolver
	Submitter failedorder.Deliverer
	Queue     Queue
	Pricing   Pricing
	Logger    *slog.Logger
}

type Orchestrator struct {
	cart      Cart
	discounts Discounts
	resolver  Resolver
	submitter failedorder.Deliverer
	queue     Queue
	pricing   Pricing
	logger    *slog.Logger
	now       func() time.Time
}

func NewOrchestrator(d Deps) *Orchestrator {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Pricing.TaxRate.IsZero() && d.Pricing.ShippingFee.IsZero() && d.Pricing.FreeShippingThreshold.IsZero() {
		d.Pricing = DefaultPricing()
	}
	return &Orchestrator{
		cart:      d.Cart,
		discounts: d.Discounts,
		resolver:  d.Resolver,
		submitter: d.Submitter,
		queue:     d.Queue,
		pricing:   d.Pricing,
		logger:    d.Logger,
		now:       time.Now,
	}
}

// Request is one checkout attempt. A nil Session checks out as a guest.
type Request struct {
	Session         *customer.Session
	Form            Form
	PaymentProofRef string
}

// Submit validates, prices and delivers the cart. Failed deliveries are
// queued and reported as *SubmissionFailedError with the cart left intact.
func (o *Orchestrator) Submit(ctx context.Context, req Request) (order.Summary, error) {
	items, err := o.cart.ListItems(ctx)
	if err != nil {
		return order.Summary{}, fmt.Errorf("load cart: %w", err)
	}
	if len(items) == 0 {
		return order.Summary{}, ErrEmptyCart
	}
	if err := req.Form.Validate(req.Session == nil); err != nil {
		return order.Summary{}, err
	}
	proof := strings.TrimSpace(req.PaymentProofRef)
	if proof == "" {
		return order.Summary{}, ErrMissingPaymentProof
	}

	buyer := req.Form.profile()
	resolved, err := o.resolver.Resolve(ctx, req.Session)
	if err != nil {
		return order.Summary{}, err
	}
	if resolved != nil {
		buyer = resolved.Merge(buyer)
	}

	amount, code, err := o.discounts.Amount(ctx)
	if err != nil {
		return order.Summary{}, fmt.Errorf("load discount: %w", err)
	}
	totals := o.pricing.Compute(items, amount)

	method := strings.TrimSpace(req.Form.PaymentMethod)
	if method == "" {
		method = order.DefaultPaymentMethod
	}
	sub := order.Submission{
		Items:           items,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		ShippingCost:    totals.Shipping,
		DiscountAmount:  totals.Discount,
		Total:           totals.Total,
		DiscountCode:    code,
		Customer:        buyer,
		PaymentProofRef: proof,
		PaymentMethod:   method,
		Status:          order.StatusPending,
		SubmittedAt:     o.now().UTC(),
	}

	summary, err := o.submitter.Deliver(ctx, sub)
	if err != nil {
		entry, qerr := o.queue.Enqueue(ctx, sub, err)
		if qerr != nil {
			o.logger.Error("undelivered order could not be queued", "deliver_error", err, "error", qerr)
			return order.Summary{}, fmt.Errorf("queue undelivered order: %w", qerr)
		}
		return order.Summary{}, &SubmissionFailedError{QueueID: entry.QueueID, Cause: err}
	}

	o.clearCart(ctx, summary.SaleID)
	return summary, nil
}

// Retry replays a queued submission unchanged. On success the entry is gone
// and the cart is cleared.
func (o *Orchestrator) Retry(ctx context.Context, queueID string) (order.Summary, error) {
	summary, err := o.queue.Retry(ctx, queueID, o.submitter)
	if err != nil {
		if errors.Is(err, failedorder.ErrEntryNotFound) || errors.Is(err, failedorder.ErrRetryInProgress) {
			return order.Summary{}, err
		}
		return order.Summary{}, &SubmissionFailedError{QueueID: queueID, Cause: err}
	}
	o.clearCart(ctx, summary.SaleID)
	return summary, nil
}

// Failed lists the shopper's queued submissions.
func (o *Orchestrator) Failed(ctx context.Context) ([]failedorder.Entry, error) {
	return o.queue.List(ctx)
}

func (o *Orchestrator) clearCart(ctx context.Context, saleID int) {
	if err := o.cart.Clear(ctx); err != nil {
		// the order is placed; a stale cart is only cosmetic
		o.logger.Error("cart not cleared after order", "sale_id", saleID, "error", err)
	}
}

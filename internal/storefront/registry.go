// Package storefront wires one set of cart, discount, queue, resolver and
// checkout components per shopper and serves them over HTTP.
package storefront

import (
	"container/list"
	"log/slog"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/wichananm65/pet-shop-orders/internal/cart"
	"github.com/wichananm65/pet-shop-orders/internal/checkout"
	"github.com/wichananm65/pet-shop-orders/internal/customer"
	"github.com/wichananm65/pet-shop-orders/internal/discount"
	"github.com/wichananm65/pet-shop-orders/internal/failedorder"
	"github.com/wichananm65/pet-shop-orders/internal/notification"
	"github.com/wichananm65/pet-shop-orders/internal/storage"
)

// Remote is the order service as seen by a storefront.
type Remote interface {
	customer.Lookup
	failedorder.Deliverer
}

type Options struct {
	Store   storage.Store
	Remote  Remote
	Tokens  customer.TokenValidator
	Pricing checkout.Pricing
	Codes   map[string]decimal.Decimal
	Logger  *slog.Logger

	// MaxSessions bounds the sessions kept in memory; the least recently used
	// one is dropped past it. Zero means DefaultMaxSessions.
	MaxSessions int

	// Notifications returns the pending-count source acting for a bearer
	// token. The pending-count route is not mounted when nil.
	Notifications func(token string) notification.PendingSource
}

// Session is the shopper state of one owner. Its keys live under
// shopper/<owner>/ in the shared store.
type Session struct {
	Owner    string
	Store    storage.Store
	Cart     *cart.Store
	Ledger   *discount.Ledger
	Queue    *failedorder.Queue
	Resolver *customer.Resolver
	Checkout *checkout.Orchestrator
}

// DefaultMaxSessions is the session bound used when Options leaves it unset.
const DefaultMaxSessions = 10000

// Registry hands out the Session of each owner, creating it on first use.
// Shopper state lives in the store, so an evicted session is rebuilt without
// loss on the owner's next request.
type Registry struct {
	opts Options

	mu       sync.Mutex
	sessions map[string]*list.Element
	lru      *list.List
}

func NewRegistry(opts Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	return &Registry{opts: opts, sessions: map[string]*list.Element{}, lru: list.New()}
}

func (r *Registry) Session(owner string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if el, ok := r.sessions[owner]; ok {
		r.lru.MoveToFront(el)
		return el.Value.(*Session)
	}

	logger := r.opts.Logger.With("owner", owner)
	scoped := storage.NewScoped(r.opts.Store, "shopper/"+owner)
	ledger := discount.NewLedger(scoped, r.opts.Codes)
	carts := cart.NewStore(cart.NewStorageRepository(scoped), ledger, logger)
	queue := failedorder.NewQueue(scoped, logger)
	resolver := customer.NewResolver(scoped, r.opts.Remote, r.opts.Tokens, logger)

	s := &Session{
		Owner:    owner,
		Store:    scoped,
		Cart:     carts,
		Ledger:   ledger,
		Queue:    queue,
		Resolver: resolver,
		Checkout: checkout.NewOrchestrator(checkout.Deps{
			Cart:      carts,
			Discounts: ledger,
			Resolver:  resolver,
			Submitter: r.opts.Remote,
			Queue:     queue,
			Pricing:   r.opts.Pricing,
			Logger:    logger,
		}),
	}
	r.sessions[owner] = r.lru.PushFront(s)
	for r.lru.Len() > r.opts.MaxSessions {
		oldest := r.lru.Back()
		r.lru.Remove(oldest)
		delete(r.sessions, oldest.Value.(*Session).Owner)
	}
	return s
}

// Len reports how many sessions are held in memory.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lru.Len()
}

func (r *Registry) sessionFor(c *fiber.Ctx) (*Session, Owner, error) {
	owner, err := ownerFromCtx(c)
	if err != nil {
		return nil, Owner{}, err
	}
	return r.Session(owner.Key), owner, nil
}

func (r *Registry) CartFor(c *fiber.Ctx) (*cart.Store, error) {
	s, _, err := r.sessionFor(c)
	if err != nil {
		return nil, err
	}
	return s.Cart, nil
}

func (r *Registry) LedgerFor(c *fiber.Ctx) (*discount.Ledger, error) {
	s, _, err := r.sessionFor(c)
	if err != nil {
		return nil, err
	}
	return s.Ledger, nil
}

func (r *Registry) CheckoutFor(c *fiber.Ctx) (*checkout.Orchestrator, *customer.Session, error) {
	s, owner, err := r.sessionFor(c)
	if err != nil {
		return nil, nil, err
	}
	return s.Checkout, owner.Session, nil
}

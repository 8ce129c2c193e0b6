package storefront

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/pet-shop-orders/internal/cart"
	"github.com/wichananm65/pet-shop-orders/internal/checkout"
	"github.com/wichananm65/pet-shop-orders/internal/customer"
	"github.com/wichananm65/pet-shop-orders/internal/discount"
	"github.com/wichananm65/pet-shop-orders/internal/notification"
)

// RegisterRoutes mounts the shopper routes behind RequireOwner.
func (r *Registry) RegisterRoutes(app fiber.Router) {
	api := app.Group("", RequireOwner(r.opts.Tokens))
	cart.NewHandler(r).RegisterRoutes(api)
	discount.NewHandler(r).RegisterRoutes(api)
	checkout.NewHandler(r).RegisterRoutes(api)
	api.Get("/api/v1/profile", r.getProfile)
	api.Put("/api/v1/profile", r.putProfile)
	if r.opts.Notifications != nil {
		api.Get("/api/v1/notifications/pending-count", r.pendingCount)
	}
}

// getProfile returns the signed-in shopper's profile, refreshing it from the
// order service when incomplete.
func (r *Registry) getProfile(c *fiber.Ctx) error {
	s, owner, err := r.sessionFor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}
	if owner.Session == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "guests have no stored profile"})
	}
	p, err := s.Resolver.Resolve(c.UserContext(), owner.Session)
	if err != nil {
		return profileError(c, err)
	}
	return c.JSON(p)
}

// putProfile stores edits made by the signed-in shopper on top of the cached
// profile.
func (r *Registry) putProfile(c *fiber.Ctx) error {
	s, owner, err := r.sessionFor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}
	if owner.Session == nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "sign in to save a profile"})
	}
	edit := new(customer.Profile)
	if err := c.BodyParser(edit); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if _, err := r.opts.Tokens.Validate(owner.Session.Token); err != nil {
		return profileError(c, customer.ErrSessionExpired)
	}

	cached, err := s.Resolver.Cached(c.UserContext(), owner.Session.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	// identity fields are owned by the order service
	edit.CustomerID, edit.UserID = 0, 0
	merged := cached.Merge(*edit)
	if err := s.Resolver.Remember(c.UserContext(), merged); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(merged)
}

// pendingCount serves the locally cached count of pending notifications.
// With refresh=true it asks the order service first and falls back to the
// cached value, flagged stale, when that fails.
func (r *Registry) pendingCount(c *fiber.Ctx) error {
	s, owner, err := r.sessionFor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}
	if owner.Session == nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "sign in to see notifications"})
	}
	if _, err := r.opts.Tokens.Validate(owner.Session.Token); err != nil {
		return profileError(c, customer.ErrSessionExpired)
	}

	counter := notification.NewCounter(s.Store, r.opts.Notifications(owner.Session.Token))
	if c.QueryBool("refresh") {
		n, err := counter.Refresh(c.UserContext())
		if err == nil {
			return c.JSON(fiber.Map{"count": n})
		}
		r.opts.Logger.Warn("refresh pending notifications", "owner", owner.Key, "error", err)
		cached, cerr := counter.Cached(c.UserContext())
		if cerr != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
		}
		return c.JSON(fiber.Map{"count": cached, "stale": true})
	}

	n, err := counter.Cached(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"count": n})
}

func profileError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, customer.ErrSessionExpired):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, customer.ErrIdentityLinkMissing):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
	}
}

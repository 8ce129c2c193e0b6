package cart

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Provider resolves the cart belonging to the shopper making the request.
type Provider interface {
	CartFor(c *fiber.Ctx) (*Store, error)
}

// Handler exposes the shopper's cart over HTTP.
type Handler struct {
	carts Provider
}

func NewHandler(p Provider) *Handler {
	return &Handler{carts: p}
}

func (h *Handler) RegisterRoutes(router fiber.Router) {
	router.Get("/api/v1/cart", h.getCart)
	router.Post("/api/v1/cart", h.addToCart)
	router.Delete("/api/v1/cart", h.clearCart)
	router.Patch("/api/v1/cart/:id<int>", h.updateQuantity)
	router.Delete("/api/v1/cart/:id<int>", h.removeItem)
}

type addRequest struct {
	Product
	Quantity int `json:"quantity,omitempty"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	Items    []Item `json:"items"`
	Subtotal string `json:"subtotal"`
}

func respond(c *fiber.Ctx, items []Item) error {
	if items == nil {
		items = []Item{}
	}
	return c.JSON(cartResponse{Items: items, Subtotal: Subtotal(items).StringFixed(2)})
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	store, err := h.carts.CartFor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}
	items, err := store.ListItems(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return respond(c, items)
}

func (h *Handler) addToCart(c *fiber.Ctx) error {
	payload := new(addRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	store, err := h.carts.CartFor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}

	items, err := store.AddItem(c.UserContext(), payload.Product, payload.Quantity)
	if err != nil {
		return mutationError(c, err)
	}
	return respond(c, items)
}

func (h *Handler) updateQuantity(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	payload := new(quantityRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	store, err := h.carts.CartFor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}

	items, err := store.UpdateQuantity(c.UserContext(), id, payload.Quantity)
	if err != nil {
		return mutationError(c, err)
	}
	return respond(c, items)
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	store, err := h.carts.CartFor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}

	items, err := store.RemoveItem(c.UserContext(), id)
	if err != nil {
		return mutationError(c, err)
	}
	return respond(c, items)
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	store, err := h.carts.CartFor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}
	if err := store.Clear(c.UserContext()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func mutationError(c *fiber.Ctx, err error) error {
	var stockErr *StockError
	switch {
	case errors.As(err, &stockErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message":   err.Error(),
			"available": stockErr.Available,
		})
	case errors.Is(err, ErrInvalidProduct):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrItemNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}

package discount

import (
	"github.com/gofiber/fiber/v2"
)

// Provider resolves the ledger of the shopper making the request.
type Provider interface {
	LedgerFor(c *fiber.Ctx) (*Ledger, error)
}

type Handler struct {
	ledgers Provider
}

func NewHandler(p Provider) *Handler {
	return &Handler{ledgers: p}
}

func (h *Handler) RegisterRoutes(router fiber.Router) {
	router.Get("/api/v1/cart/discount", h.getActive)
	router.Post("/api/v1/cart/discount", h.apply)
}

type applyRequest struct {
	Code string `json:"code"`
}

func (h *Handler) apply(c *fiber.Ctx) error {
	payload := new(applyRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "code is required"})
	}
	ledger, err := h.ledgers.LedgerFor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}

	res, err := ledger.Apply(c.UserContext(), payload.Code)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	if !res.OK {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(res)
	}
	return c.JSON(res)
}

func (h *Handler) getActive(c *fiber.Ctx) error {
	ledger, err := h.ledgers.LedgerFor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}
	app, err := ledger.Active(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	if app == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(app)
}

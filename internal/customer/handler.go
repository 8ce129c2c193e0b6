package customer

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/pet-shop-orders/internal/auth"
)

// Handler serves customer records to storefronts.
type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterProtectedRoutes(router fiber.Router) {
	router.Get("/api/customers/usuario/:userId", h.getByUser)
	router.Put("/api/customers/usuario/:userId", h.upsert)
}

// pathUser parses :userId and rejects callers whose token names another user.
// Requests without a token in Locals are left to the mounting middleware.
func pathUser(c *fiber.Ctx) (int, *fiber.Error) {
	userID, err := strconv.Atoi(c.Params("userId"))
	if err != nil || userID <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid userId")
	}
	if caller, err := auth.UserIDFromCtx(c); err == nil && caller != userID && !auth.IsAdmin(c) {
		return 0, fiber.NewError(fiber.StatusForbidden, "cannot access another user's customer record")
	}
	return userID, nil
}

func (h *Handler) getByUser(c *fiber.Ctx) error {
	userID, ferr := pathUser(c)
	if ferr != nil {
		return c.Status(ferr.Code).JSON(fiber.Map{"message": ferr.Message})
	}

	rec, err := h.repo.GetByUserID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "customer not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(rec)
}

// upsert links a user to a customer record, creating it when missing.
func (h *Handler) upsert(c *fiber.Ctx) error {
	userID, ferr := pathUser(c)
	if ferr != nil {
		return c.Status(ferr.Code).JSON(fiber.Map{"message": ferr.Message})
	}
	rec := new(Record)
	if err := c.BodyParser(rec); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	rec.UserID = userID

	saved, err := h.repo.Upsert(c.UserContext(), *rec)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(saved)
}

package order

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Handler serves the sale intake endpoint used at checkout.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

// RegisterPublicRoutes mounts sale intake, which accepts guest checkouts.
func (h *Handler) RegisterPublicRoutes(router fiber.Router) {
	router.Post("/api/carrito/crear", h.createSale)
}

func (h *Handler) RegisterProtectedRoutes(router fiber.Router) {
	router.Get("/api/carrito/ventas/:id<int>", h.getSale)
}

func (h *Handler) createSale(c *fiber.Ctx) error {
	raw := c.FormValue("ventaData")
	if raw == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "ventaData is required"})
	}
	var data SaleData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "ventaData is not valid JSON"})
	}

	sale, err := h.service.Create(c.UserContext(), data, c.FormValue("comprobanteUrl"))
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, ErrNoLines) || errors.Is(err, ErrMissingProof) ||
			errors.Is(err, ErrInvalidSaleTotal) || errors.Is(err, ErrUnexpectedStatus) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"ventaId": sale.SaleID,
		"message": "Venta registrada, pendiente de aprobación",
	})
}

func (h *Handler) getSale(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("id")
	sale, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "sale not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(sale)
}

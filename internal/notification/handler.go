package notification

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/pet-shop-orders/internal/auth"
)

// Handler exposes the notification review endpoints.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

// RegisterProtectedRoutes mounts the review inbox. Only the pending count is
// open to every signed-in caller; the rest needs the admin role.
func (h *Handler) RegisterProtectedRoutes(router fiber.Router) {
	g := router.Group("/notifications/notificaciones")
	admin := auth.RequireAdmin()
	g.Get("/pending-count", h.pendingCount)
	g.Get("/", admin, h.list)
	g.Post("/mark-all-read", admin, h.markAllRead)
	g.Post("/delete-old", admin, h.deleteOld)
	g.Get("/:id<int>", admin, h.get)
	g.Patch("/:id<int>/read", admin, h.markRead)
	g.Patch("/:id<int>/resolve", admin, h.resolve)
	g.Patch("/:id<int>/estado", admin, h.changeStatus)
}

type changeStatusRequest struct {
	NewStatus Status `json:"nuevoEstado"`
	Reason    string `json:"motivo"`
}

type deleteOldRequest struct {
	Days int `json:"days"`
}

func (h *Handler) list(c *fiber.Ctx) error {
	var f Filter
	for _, t := range splitQuery(c.Query("tipo")) {
		f.Types = append(f.Types, Type(t))
	}
	for _, s := range splitQuery(c.Query("estado")) {
		f.Statuses = append(f.Statuses, Status(s))
	}
	list, err := h.service.List(c.UserContext(), f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(list)
}

func (h *Handler) get(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("id")
	n, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(n)
}

func (h *Handler) markRead(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("id")
	n, err := h.service.MarkViewed(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(n)
}

func (h *Handler) resolve(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("id")
	n, err := h.service.MarkResolved(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(n)
}

func (h *Handler) changeStatus(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("id")
	req := new(changeStatusRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if req.NewStatus == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "nuevoEstado is required"})
	}
	n, err := h.service.ChangeStatus(c.UserContext(), id, req.NewStatus, req.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(n)
}

func (h *Handler) markAllRead(c *fiber.Ctx) error {
	changed, err := h.service.MarkAllViewed(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"updated": changed})
}

func (h *Handler) deleteOld(c *fiber.Ctx) error {
	req := new(deleteOldRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	deleted, err := h.service.PurgeOlderThan(c.UserContext(), req.Days)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

func (h *Handler) pendingCount(c *fiber.Ctx) error {
	count, err := h.service.PendingCount(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"count": count})
}

func writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrInvalidTransition):
		status = fiber.StatusConflict
	case errors.Is(err, ErrInvalidDays):
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{"message": err.Error()})
}

func splitQuery(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

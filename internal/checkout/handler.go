package checkout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/pet-shop-orders/internal/customer"
	"github.com/wichananm65/pet-shop-orders/internal/failedorder"
)

// Provider resolves the orchestrator and session of the requesting shopper.
// A nil session means a guest.
type Provider interface {
	CheckoutFor(c *fiber.Ctx) (*Orchestrator, *customer.Session, error)
}

type Handler struct {
	checkouts Provider
}

func NewHandler(p Provider) *Handler {
	return &Handler{checkouts: p}
}

func (h *Handler) RegisterRoutes(router fiber.Router) {
	router.Post("/api/v1/checkout", h.submit)
	router.Get("/api/v1/orders/failed", h.listFailed)
	router.Post("/api/v1/orders/failed/:queueId/retry", h.retry)
}

type submitRequest struct {
	Customer        Form   `json:"customer"`
	PaymentProofRef string `json:"paymentProofRef"`
}

func (h *Handler) submit(c *fiber.Ctx) error {
	payload := new(submitRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	orch, session, err := h.checkouts.CheckoutFor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}

	summary, err := orch.Submit(c.UserContext(), Request{
		Session:         session,
		Form:            payload.Customer,
		PaymentProofRef: payload.PaymentProofRef,
	})
	if err != nil {
		return checkoutError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": OutcomeOK.Message(),
		"order":   summary,
	})
}

func (h *Handler) listFailed(c *fiber.Ctx) error {
	orch, _, err := h.checkouts.CheckoutFor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}
	entries, err := orch.Failed(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(entries)
}

func (h *Handler) retry(c *fiber.Ctx) error {
	orch, _, err := h.checkouts.CheckoutFor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}
	summary, err := orch.Retry(c.UserContext(), c.Params("queueId"))
	switch {
	case errors.Is(err, failedorder.ErrEntryNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, failedorder.ErrRetryInProgress):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	case err != nil:
		return checkoutError(c, err)
	}
	return c.JSON(fiber.Map{"message": OutcomeOK.Message(), "order": summary})
}

func checkoutError(c *fiber.Ctx, err error) error {
	outcome := Classify(err)
	body := fiber.Map{"message": outcome.Message(), "outcome": outcome.String(), "error": err.Error()}

	var verr *ValidationError
	var failed *SubmissionFailedError
	switch {
	case errors.As(err, &verr):
		body["fields"] = verr.Fields
		return c.Status(fiber.StatusUnprocessableEntity).JSON(body)
	case errors.As(err, &failed):
		body["queueId"] = failed.QueueID
		return c.Status(fiber.StatusAccepted).JSON(body)
	case errors.Is(err, customer.ErrSessionExpired):
		return c.Status(fiber.StatusUnauthorized).JSON(body)
	case errors.Is(err, customer.ErrIdentityLinkMissing):
		return c.Status(fiber.StatusForbidden).JSON(body)
	case outcome == OutcomeFixData:
		return c.Status(fiber.StatusBadRequest).JSON(body)
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}
}

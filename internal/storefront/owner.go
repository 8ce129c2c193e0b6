package storefront

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/pet-shop-orders/internal/customer"
)

const (
	GuestHeader = "X-Guest-ID"
	ownerLocal  = "storefront.owner"
)

var (
	ErrNoOwner = errors.New("request carries neither a bearer token nor a guest id")

	guestIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)
)

// Owner identifies whose shopper state a request addresses. Session is nil
// for guests.
type Owner struct {
	Key     string
	Session *customer.Session
}

// OwnerFromRequest ties a request to a shopper. A bearer token must carry a
// valid signature; an expired one still addresses its user's cart, while
// checkout and profile routes validate it fully. Requests without a token fall
// back to the guest id header.
func OwnerFromRequest(c *fiber.Ctx, tokens customer.TokenValidator) (Owner, error) {
	if auth := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		id, err := tokens.Identify(token)
		if err != nil {
			return Owner{}, err
		}
		return Owner{
			Key:     "user:" + strconv.Itoa(id),
			Session: &customer.Session{UserID: id, Token: token},
		}, nil
	}
	if guest := strings.TrimSpace(c.Get(GuestHeader)); guestIDPattern.MatchString(guest) {
		return Owner{Key: "guest:" + guest}, nil
	}
	return Owner{}, ErrNoOwner
}

// RequireOwner rejects requests that cannot be tied to a shopper.
func RequireOwner(tokens customer.TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := OwnerFromRequest(c, tokens)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
		}
		c.Locals(ownerLocal, owner)
		return c.Next()
	}
}

func ownerFromCtx(c *fiber.Ctx) (Owner, error) {
	if owner, ok := c.Locals(ownerLocal).(Owner); ok {
		return owner, nil
	}
	return Owner{}, ErrNoOwner
}

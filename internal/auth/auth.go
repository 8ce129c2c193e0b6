// Package auth reads the JWT that jwtware leaves in c.Locals("user") and gates
// routes on it.
package auth

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
)

// RoleAdmin is the role claim of staff tokens.
const RoleAdmin = "admin"

// Middleware verifies HS256 bearer tokens and stores them in c.Locals("user").
func Middleware(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: []byte(secret),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "missing or invalid token"})
		},
	})
}

// ClaimsUserID reads the user_id claim, which issuers encode as a number or a
// numeric string.
func ClaimsUserID(claims jwt.MapClaims) (int, error) {
	raw, ok := claims["user_id"]
	if !ok {
		return 0, errors.New("user_id claim missing")
	}
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case string:
		return strconv.Atoi(v)
	default:
		return 0, fmt.Errorf("user_id claim has type %T", raw)
	}
}

func claimsFromCtx(c *fiber.Ctx) (jwt.MapClaims, bool) {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok || tok == nil {
		return nil, false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	return claims, ok
}

// UserIDFromCtx extracts the user_id claim of the request's token.
func UserIDFromCtx(c *fiber.Ctx) (int, error) {
	claims, ok := claimsFromCtx(c)
	if !ok {
		return 0, fiber.ErrUnauthorized
	}
	id, err := ClaimsUserID(claims)
	if err != nil {
		return 0, fiber.ErrUnauthorized
	}
	return id, nil
}

// IsAdmin reports whether the request's token carries the admin role.
func IsAdmin(c *fiber.Ctx) bool {
	claims, ok := claimsFromCtx(c)
	return ok && claims["role"] == RoleAdmin
}

// RequireAdmin answers 401 without a token and 403 for a non-admin one.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := claimsFromCtx(c); !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "missing or invalid token"})
		}
		if !IsAdmin(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin role required"})
		}
		return c.Next()
	}
}

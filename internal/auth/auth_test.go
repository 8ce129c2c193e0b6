package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "auth-secret"

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	claims["exp"] = time.Now().Add(time.Hour).Unix()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestClaimsUserID(t *testing.T) {
	cases := map[string]struct {
		claims jwt.MapClaims
		want   int
		ok     bool
	}{
		"float":   {jwt.MapClaims{"user_id": float64(5)}, 5, true},
		"string":  {jwt.MapClaims{"user_id": "6"}, 6, true},
		"missing": {jwt.MapClaims{}, 0, false},
		"bool":    {jwt.MapClaims{"user_id": true}, 0, false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := ClaimsUserID(tc.claims)
			if !tc.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMiddlewareAndRequireAdmin(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware(testSecret))
	app.Get("/me", func(c *fiber.Ctx) error {
		id, err := UserIDFromCtx(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"userId": id, "admin": IsAdmin(c)})
	})
	app.Get("/staff", RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	cases := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"no token", "/me", "", fiber.StatusUnauthorized},
		{"wrong key", "/me", sign(t, "other-secret", jwt.MapClaims{"user_id": 42}), fiber.StatusUnauthorized},
		{"shopper reads self", "/me", sign(t, testSecret, jwt.MapClaims{"user_id": 42}), fiber.StatusOK},
		{"shopper on staff route", "/staff", sign(t, testSecret, jwt.MapClaims{"user_id": 42}), fiber.StatusForbidden},
		{"admin on staff route", "/staff", sign(t, testSecret, jwt.MapClaims{"user_id": 1, "role": RoleAdmin}), fiber.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			res, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, res.StatusCode)
		})
	}
}

func TestRequireAdmin_NoTokenInLocals(t *testing.T) {
	app := fiber.New()
	app.Get("/staff", RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	res, err := app.Test(httptest.NewRequest("GET", "/staff", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

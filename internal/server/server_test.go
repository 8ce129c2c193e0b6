package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthAndRequestLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	app := New("test-service", logger)
	app.Get("/boom", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusInternalServerError).SendString("boom")
	})

	res, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	_, err = app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)

	dec := json.NewDecoder(&buf)
	var first, second map[string]any
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))
	assert.Equal(t, "/health", first["path"])
	assert.Equal(t, "INFO", first["level"])
	assert.EqualValues(t, 500, second["status"])
	assert.Equal(t, "ERROR", second["level"])
}

func TestCORSPreflight(t *testing.T) {
	app := New("test-service", slog.Default())
	req := httptest.NewRequest("OPTIONS", "/health", nil)
	req.Header.Set("Origin", "http://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", "PATCH")

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, res.StatusCode)
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
}

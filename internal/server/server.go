// Package server builds and runs the Fiber apps of both binaries.
package server

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const shutdownTimeout = 5 * time.Second

// New returns an app with CORS, request logging and GET /health.
func New(name string, logger *slog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{AppName: name, DisableStartupMessage: true})
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Guest-ID",
	}))
	app.Use(RequestLogger(logger))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": name})
	})
	return app
}

// RequestLogger logs one line per request once the handler chain returns.
func RequestLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
		level := slog.LevelInfo
		if status >= fiber.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.UserContext(), level, "request",
			"method", c.Method(),
			"path", c.OriginalURL(),
			"status", status,
			"duration", time.Since(start),
		)
		return err
	}
}

// Run serves app on addr until SIGINT or SIGTERM, then shuts down.
func Run(app *fiber.App, addr string, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errc <- app.Listen(addr)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	return app.ShutdownWithTimeout(shutdownTimeout)
}

// Command api runs the order service: sale intake, customer records and the
// notification inbox.
package main

import (
	"log/slog"
	"os"

	"github.com/wichananm65/pet-shop-orders/internal/auth"
	"github.com/wichananm65/pet-shop-orders/internal/config"
	"github.com/wichananm65/pet-shop-orders/internal/customer"
	"github.com/wichananm65/pet-shop-orders/internal/database"
	"github.com/wichananm65/pet-shop-orders/internal/notification"
	"github.com/wichananm65/pet-shop-orders/internal/order"
	"github.com/wichananm65/pet-shop-orders/internal/server"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	var (
		sales     order.Repository
		customers customer.Repository
		notes     notification.Repository
	)
	if cfg.DatabaseURL != "" {
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			logger.Error("open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := database.Migrate(db, logger); err != nil {
			logger.Error("migrate database", "error", err)
			os.Exit(1)
		}
		sales = order.NewPostgresRepository(db)
		customers = customer.NewPostgresRepository(db)
		notes = notification.NewPostgresRepository(db)
	} else {
		logger.Warn("DATABASE_URL is not set, using in-memory repositories")
		sales = order.NewInMemoryRepository()
		customers = customer.NewInMemoryRepository(nil)
		notes = notification.NewInMemoryRepository()
	}
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET is not set, every protected request will be rejected")
	}

	noteService := notification.NewService(notes, logger)
	orderHandler := order.NewHandler(order.NewService(sales, noteService, logger))

	app := server.New("pet-shop-orders", logger)

	// sale intake accepts guest checkouts
	orderHandler.RegisterPublicRoutes(app)

	app.Use(auth.Middleware(cfg.JWTSecret))

	orderHandler.RegisterProtectedRoutes(app)
	customer.NewHandler(customers).RegisterProtectedRoutes(app)
	notification.NewHandler(noteService).RegisterProtectedRoutes(app)

	if err := server.Run(app, cfg.OrderAPIAddr, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

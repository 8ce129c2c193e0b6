// Command app runs the storefront: carts, discounts, checkout and the failed
// order queue, delivering orders to the order service.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wichananm65/pet-shop-orders/internal/checkout"
	"github.com/wichananm65/pet-shop-orders/internal/config"
	"github.com/wichananm65/pet-shop-orders/internal/customer"
	"github.com/wichananm65/pet-shop-orders/internal/database"
	"github.com/wichananm65/pet-shop-orders/internal/notification"
	"github.com/wichananm65/pet-shop-orders/internal/remote"
	"github.com/wichananm65/pet-shop-orders/internal/server"
	"github.com/wichananm65/pet-shop-orders/internal/storage"
	"github.com/wichananm65/pet-shop-orders/internal/storefront"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	store, closeStore := mustOpenStore(cfg, logger)
	defer closeStore()

	client, err := remote.NewClient(cfg.OrderAPIURL, nil, remote.Options{
		BreakerFailures: uint32(cfg.BreakerFailures),
		Logger:          logger,
	})
	if err != nil {
		logger.Error("order service client", "error", err)
		os.Exit(1)
	}

	registry := storefront.NewRegistry(storefront.Options{
		Store:  store,
		Remote: client,
		Tokens: customer.NewJWTValidator(cfg.JWTSecret),
		Pricing: checkout.Pricing{
			TaxRate:               cfg.TaxRate,
			ShippingFee:           cfg.ShippingFee,
			FreeShippingThreshold: cfg.FreeShippingThreshold,
		},
		Logger:      logger,
		MaxSessions: cfg.MaxSessions,
		Notifications: func(token string) notification.PendingSource {
			return client.WithBearer(token)
		},
	})

	app := server.New("pet-shop-storefront", logger)
	registry.RegisterRoutes(app)

	if err := server.Run(app, cfg.Addr, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// mustOpenStore picks the shopper store named by STORE_BACKEND.
func mustOpenStore(cfg config.Config, logger *slog.Logger) (storage.Store, func()) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Error("redis ping", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		logger.Info("shopper store", "backend", config.BackendRedis, "addr", cfg.RedisAddr)
		return storage.NewRedisStore(rdb, "petshop"), func() { _ = rdb.Close() }
	case config.BackendPostgres:
		db := mustOpenDB(cfg, logger)
		logger.Info("shopper store", "backend", config.BackendPostgres)
		return storage.NewPostgresStore(db), func() { _ = db.Close() }
	default:
		if cfg.StoreBackend != config.BackendMemory {
			logger.Warn("unknown store backend, using memory", "backend", cfg.StoreBackend)
		}
		logger.Warn("shopper store is in memory, carts and queued orders are lost on restart")
		return storage.NewMemoryStore(), func() {}
	}
}

func mustOpenDB(cfg config.Config, logger *slog.Logger) *sql.DB {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db, logger); err != nil {
		logger.Error("migrate database", "error", err)
		os.Exit(1)
	}
	return db
}

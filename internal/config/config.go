package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Store backends understood by STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds environment-driven configuration for both binaries.
type Config struct {
	Addr         string
	OrderAPIAddr string
	OrderAPIURL  string
	DatabaseURL  string
	RedisAddr    string
	StoreBackend string
	JWTSecret    string

	// BreakerFailures is the number of consecutive failed deliveries before the
	// order delivery breaker opens.
	BreakerFailures int

	// MaxSessions bounds the shopper sessions a storefront keeps in memory.
	MaxSessions int

	TaxRate               decimal.Decimal
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

// Load reads configuration from the environment, loading a .env file first when present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:                  getenv("PET_SHOP_ADDR", ":8080"),
		OrderAPIAddr:          getenv("ORDER_API_ADDR", ":8081"),
		OrderAPIURL:           getenv("ORDER_API_URL", "http://localhost:8081"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		RedisAddr:             getenv("REDIS_ADDR", "localhost:6379"),
		StoreBackend:          getenv("STORE_BACKEND", BackendMemory),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		BreakerFailures:       getint("BREAKER_FAILURES", 5),
		MaxSessions:           getint("MAX_SESSIONS", 10000),
		TaxRate:               getdecimal("TAX_RATE", decimal.RequireFromString("0.19")),
		ShippingFee:           getdecimal("SHIPPING_FEE", decimal.NewFromInt(5000)),
		FreeShippingThreshold: getdecimal("FREE_SHIPPING_THRESHOLD", decimal.NewFromInt(150000)),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getdecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return fallback
	}
	return d
}

func getint(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

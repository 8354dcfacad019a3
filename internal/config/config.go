package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/GTDGit/gtd_storefront/internal/pricing"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string
	JWTTTL    time.Duration

	// CORSAllowedHosts lists frontend hosts allowed to call the API.
	CORSAllowedHosts []string

	DB       DatabaseConfig
	Redis    RedisConfig
	Catalog  CatalogConfig
	Checkout CheckoutConfig
	Worker   WorkerConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// CatalogConfig controls listing defaults.
type CatalogConfig struct {
	DefaultPageSize   int
	MaxPageSize       int
	LowStockThreshold int
}

// CheckoutConfig controls cart and order pricing.
type CheckoutConfig struct {
	DeliveryTiers pricing.DeliveryTable
	CartTTL       time.Duration
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	CouponExpiryInterval time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.CORSAllowedHosts = getEnvList("CORS_ALLOWED_HOSTS", "localhost:3000,127.0.0.1:3000")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),

		MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Catalog listings
	cfg.Catalog = CatalogConfig{
		DefaultPageSize:   getEnvInt("CATALOG_DEFAULT_PAGE_SIZE", 12),
		MaxPageSize:       getEnvInt("CATALOG_MAX_PAGE_SIZE", 100),
		LowStockThreshold: getEnvInt("CATALOG_LOW_STOCK_THRESHOLD", 10),
	}
	if cfg.Catalog.DefaultPageSize < 1 || cfg.Catalog.MaxPageSize < cfg.Catalog.DefaultPageSize {
		return nil, errors.New("catalog page sizes invalid: need 1 <= CATALOG_DEFAULT_PAGE_SIZE <= CATALOG_MAX_PAGE_SIZE")
	}

	// Checkout
	tiers, err := pricing.ParseDeliveryTiers(getEnv("DELIVERY_TIERS", pricing.DefaultDeliveryTiers))
	if err != nil {
		return nil, fmt.Errorf("invalid DELIVERY_TIERS: %w", err)
	}
	cfg.Checkout.DeliveryTiers = tiers
	if cfg.Checkout.CartTTL, err = parseDurationEnv("CART_TTL", "72h"); err != nil {
		return nil, fmt.Errorf("invalid CART_TTL: %w", err)
	}

	// Durations
	if cfg.DB.ConnMaxLifetime, err = parseDurationEnv("DB_CONN_MAX_LIFETIME", "5m"); err != nil {
		return nil, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %w", err)
	}
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	if cfg.Worker.CouponExpiryInterval, err = parseDurationEnv("COUPON_EXPIRY_INTERVAL", "10m"); err != nil {
		return nil, fmt.Errorf("invalid COUPON_EXPIRY_INTERVAL: %w", err)
	}

	// Basic validation for DB parameters.
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	// Validate JWT_SECRET
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// getEnvList splits a comma separated variable, dropping empty entries.
func getEnvList(key, def string) []string {
	var out []string
	for _, v := range strings.Split(getEnv(key, def), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}

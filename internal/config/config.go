package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	HTTPAddr     string

	BackendBaseURL string
	BackendTimeout time.Duration

	SessionTTL      time.Duration
	NotificationTTL time.Duration
	DialogTTL       time.Duration

	// Redis is optional; without it address lookups are cached in process.
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	AddressCacheTTL time.Duration

	CatalogRefreshSpec string
	CatalogPageSize    int
	RefreshTimeout     time.Duration

	SearchMaxPrice int
	SearchMinYear  int
	SearchMaxYear  int

	BookingServiceFee int
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING
	if cfg.IsProduction && cfg.ProdOrigins == "" {
		return nil, fmt.Errorf("PROD_ORIGINS is required in production")
	}

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Backend base URL is required
	cfg.BackendBaseURL = os.Getenv("BACKEND_BASE_URL")
	if cfg.BackendBaseURL == "" {
		return nil, fmt.Errorf("BACKEND_BASE_URL is required")
	}

	if cfg.BackendTimeout, err = getEnvAsDuration("BACKEND_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getEnvAsDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.NotificationTTL, err = getEnvAsDuration("NOTIFICATION_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.DialogTTL, err = getEnvAsDuration("DIALOG_TTL", 10*time.Minute); err != nil {
		return nil, err
	}

	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	if cfg.RedisDB, err = getEnvAsInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.AddressCacheTTL, err = getEnvAsDuration("ADDRESS_CACHE_TTL", time.Hour); err != nil {
		return nil, err
	}

	// Cron spec for the catalog and account refresh (default: every 5 minutes)
	cfg.CatalogRefreshSpec = getEnv("CATALOG_REFRESH_SPEC", "@every 5m")
	if cfg.CatalogPageSize, err = getEnvAsInt("CATALOG_PAGE_SIZE", 100); err != nil {
		return nil, err
	}
	if cfg.CatalogPageSize < 1 {
		return nil, fmt.Errorf("CATALOG_PAGE_SIZE must be positive")
	}
	if cfg.RefreshTimeout, err = getEnvAsDuration("REFRESH_TIMEOUT", time.Minute); err != nil {
		return nil, err
	}

	if cfg.SearchMaxPrice, err = getEnvAsInt("SEARCH_MAX_PRICE", 5_000_000); err != nil {
		return nil, err
	}
	if cfg.SearchMinYear, err = getEnvAsInt("SEARCH_MIN_YEAR", 2000); err != nil {
		return nil, err
	}
	if cfg.SearchMaxYear, err = getEnvAsInt("SEARCH_MAX_YEAR", 2025); err != nil {
		return nil, err
	}
	if cfg.SearchMinYear > cfg.SearchMaxYear {
		return nil, fmt.Errorf("SEARCH_MIN_YEAR must not exceed SEARCH_MAX_YEAR")
	}

	if cfg.BookingServiceFee, err = getEnvAsInt("BOOKING_SERVICE_FEE", 50_000); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		// Return 0 and a wrapped error to provide context
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsDuration parses values such as "15m" or "1h".
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid duration: %w", key, valStr, err)
	}
	if val <= 0 {
		return 0, fmt.Errorf("env %s must be positive", key)
	}
	return val, nil
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DatabasePath      string
	BaseCurrency      string
	QuoteProviderURL  string
	FXProviderURL     string
	QuoteSyncSchedule string // cron expression (with seconds field)
	LogLevel          string
	Port              int
	DevMode           bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnvAsInt("PORT", 8080),
		DevMode:           getEnvAsBool("DEV_MODE", false),
		DatabasePath:      getEnv("DATABASE_PATH", "./data/foliotrack.db"),
		BaseCurrency:      getEnv("BASE_CURRENCY", "GBP"),
		QuoteProviderURL:  getEnv("QUOTE_PROVIDER_URL", "https://query1.finance.yahoo.com"),
		FXProviderURL:     getEnv("FX_PROVIDER_URL", "https://api.frankfurter.app"),
		QuoteSyncSchedule: getEnv("QUOTE_SYNC_SCHEDULE", "0 0 * * * *"), // hourly
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}

	if c.BaseCurrency == "" {
		return fmt.Errorf("BASE_CURRENCY is required")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

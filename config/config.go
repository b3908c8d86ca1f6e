package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"swapBook/internal/adapters/logger"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	DBPath                 string
	LogLevel               logger.LogLevel
	ProjectionPollInterval time.Duration
	ProjectionBatchSize    int
}

// LoadConfig loads configuration from environment variables or a .env file.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file. Ignore error if it doesn't exist.
	_ = godotenv.Load()

	var errs []string

	cfg := &Config{
		DBPath:   getEnv("DB_PATH", "./data/trade_store.db"),
		LogLevel: logger.ParseLevel(getEnv("LOG_LEVEL", "INFO")),
	}

	pollMs := getEnvAsInt("PROJECTION_POLL_MS", 250, &errs)
	if pollMs <= 0 {
		errs = append(errs, fmt.Sprintf("PROJECTION_POLL_MS must be positive, got %d", pollMs))
	}
	cfg.ProjectionPollInterval = time.Duration(pollMs) * time.Millisecond

	cfg.ProjectionBatchSize = getEnvAsInt("PROJECTION_BATCH_SIZE", 100, &errs)
	if cfg.ProjectionBatchSize <= 0 {
		errs = append(errs, fmt.Sprintf("PROJECTION_BATCH_SIZE must be positive, got %d", cfg.ProjectionBatchSize))
	}

	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must not be empty")
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
// Appends an error message to errs if parsing fails.
func getEnvAsInt(key string, defaultValue int, errs *[]string) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid integer value for %s: '%s'", key, valueStr))
		return defaultValue
	}
	return value
}

package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	// Database
	DatabaseDriver string // "postgres" or "sqlite"
	DatabaseURL    string
	SQLitePath     string
	TablePrefix    string
	CORSOrigins    string
	// Provider configuration
	GeminiAPIKey    string
	AnthropicAPIKey string
	DefaultModel    string
	ProviderTimeout time.Duration
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    env,
		DatabaseDriver: getEnv("DATABASE_DRIVER", "postgres"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		SQLitePath:     getEnv("SQLITE_PATH", "data/arbor.db"),
		TablePrefix:    tablePrefix,
		CORSOrigins:    getEnv("CORS_ORIGINS", "http://localhost:3000"),
		// Provider configuration
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		DefaultModel:    getEnv("DEFAULT_MODEL", "gemini-1.5-flash"),
		ProviderTimeout: getDurationEnv("PROVIDER_TIMEOUT_SECONDS", 60*time.Second),
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	// Auto-generate based on environment
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv reads a duration expressed in whole seconds
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	secs, err := strconv.Atoi(value)
	if err != nil || secs <= 0 {
		return defaultValue
	}
	return time.Duration(secs) * time.Second
}

package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Persistence
	DatabaseURL string
	UsePostgres bool

	// Document file storage
	UploadDir string

	// Cache
	CacheTTL  time.Duration
	RedisAddr string // empty means in-process cache

	// Request handling
	WorkerCount int // upper bound on concurrently handled requests

	// Observability
	OTLPEndpoint string

	// Dev mode
	DevMode bool // DEV_MODE=true enables debug logging defaults
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	cfg := &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		UsePostgres: getEnv("USE_POSTGRES", "false") == "true",

		UploadDir: getEnv("UPLOAD_DIR", "uploads"),

		CacheTTL:  getEnvDuration("CACHE_TTL", 5*time.Minute),
		RedisAddr: getEnv("REDIS_ADDR", ""),

		WorkerCount: getEnvInt("WORKER_COUNT", 50),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		DevMode: getEnv("DEV_MODE", "false") == "true",
	}

	if cfg.DevMode && os.Getenv("LOG_LEVEL") == "" {
		cfg.LogLevel = "debug"
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

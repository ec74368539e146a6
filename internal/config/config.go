package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Prediction service
	PredictionURL     string
	PredictionTimeout time.Duration
	// CSRFToken is forwarded to the prediction service when a session is
	// created without one.
	CSRFToken       string
	BreakerFailures int
	BreakerCooldown time.Duration

	// Roster registry: a JSON file or the team_players table
	RosterFile  string
	PostgresURL string

	// Optional backends
	RedisURL      string
	ClickHouseURL string

	// Sessions
	SessionTTL time.Duration

	// Audit pool
	AuditWorkers       int
	AuditQueueSize     int
	AuditBatchSize     int
	AuditFlushInterval time.Duration
}

// Load loads configuration from environment variables, after reading a .env
// file if one exists. It returns an error if critical configuration is missing.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Port: getEnvInt("PORT", 8080),
		Env:  getEnv("ENV", "development"),

		PredictionURL:     getEnv("PREDICTION_URL", "http://localhost:8000/predict/"),
		PredictionTimeout: getEnvDuration("PREDICTION_TIMEOUT", 30*time.Second),
		CSRFToken:         getEnv("PREDICTION_CSRF_TOKEN", ""),
		BreakerFailures:   getEnvInt("BREAKER_FAILURES", 5),
		BreakerCooldown:   getEnvDuration("BREAKER_COOLDOWN", 30*time.Second),

		RosterFile:  getEnv("ROSTER_FILE", ""),
		PostgresURL: getEnv("POSTGRES_URL", ""),

		RedisURL:      getEnv("REDIS_URL", ""),
		ClickHouseURL: getEnv("CLICKHOUSE_URL", ""),

		SessionTTL: getEnvDuration("SESSION_TTL", 30*time.Minute),

		AuditWorkers:       getEnvInt("AUDIT_WORKERS", 2),
		AuditQueueSize:     getEnvInt("AUDIT_QUEUE_SIZE", 1000),
		AuditBatchSize:     getEnvInt("AUDIT_BATCH_SIZE", 100),
		AuditFlushInterval: getEnvDuration("AUDIT_FLUSH_INTERVAL", 5*time.Second),
	}

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	for _, o := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	// Critical configuration - fail if missing
	if cfg.RosterFile == "" && cfg.PostgresURL == "" {
		return nil, fmt.Errorf("missing roster source: set ROSTER_FILE or POSTGRES_URL")
	}
	if cfg.PredictionURL == "" {
		return nil, fmt.Errorf("missing required environment variable: PREDICTION_URL")
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

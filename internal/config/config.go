package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds all runtime settings for the booklist service and CLI.
type Config struct {
	// HTTP
	HTTPPort    int
	CORSOrigins []string

	// Storage
	DatabaseURL  string
	RedisURL     string
	BookCacheTTL time.Duration

	// Credentials
	JWTSecret  string
	JWTExpiry  time.Duration
	BcryptCost int

	// Identity policy: when true, requests carrying an invalid bearer token
	// are rejected instead of being treated as anonymous.
	RejectInvalidTokens bool

	// Logging and telemetry
	LogLevel     string
	LogFormat    string
	OtelEnabled  bool
	OtelEndpoint string
}

// LoadConfig reads configuration from the environment, after loading an
// optional .env file from the working directory.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg := &Config{}

	if err := loadEnvInt(&cfg.HTTPPort, "HTTP_PORT", 8080); err != nil {
		return nil, err
	}
	loadEnvStringSlice(&cfg.CORSOrigins, "CORS_ORIGINS", []string{"*"})

	loadEnvString(&cfg.DatabaseURL, "DATABASE_URL", "./booklist.db")
	loadEnvString(&cfg.RedisURL, "REDIS_URL", "")
	if err := loadEnvDuration(&cfg.BookCacheTTL, "BOOK_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}

	if err := loadEnvStringRequired(&cfg.JWTSecret, "JWT_SECRET"); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&cfg.JWTExpiry, "JWT_EXPIRY", 24*time.Hour); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&cfg.BcryptCost, "BCRYPT_COST", bcrypt.DefaultCost); err != nil {
		return nil, err
	}

	if err := loadEnvBool(&cfg.RejectInvalidTokens, "REJECT_INVALID_TOKENS", false); err != nil {
		return nil, err
	}

	loadEnvString(&cfg.LogLevel, "LOG_LEVEL", "info")
	loadEnvString(&cfg.LogFormat, "LOG_FORMAT", "text")
	if err := loadEnvBool(&cfg.OtelEnabled, "OTEL_ENABLED", false); err != nil {
		return nil, err
	}
	loadEnvString(&cfg.OtelEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT", "otel-collector:4317")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvString(target *string, key, defaultValue string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
}

func loadEnvStringRequired(target *string, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return fmt.Errorf("required environment variable %s is not set", key)
	}
	*target = value
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %w", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvBool(target *bool, key string, defaultValue bool) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %w", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %w", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvStringSlice(target *[]string, key string, defaultValue []string) {
	value := os.Getenv(key)
	if value == "" {
		*target = defaultValue
		return
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*target = out
}

// Validate checks the loaded values for ranges the rest of the service relies on.
func (c *Config) Validate() error {
	var problems []string

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		problems = append(problems, "HTTP_PORT must be between 1 and 65535")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		problems = append(problems, fmt.Sprintf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.JWTExpiry <= 0 {
		problems = append(problems, "JWT_EXPIRY must be positive")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}
	validLogFormats := []string{"text", "json"}
	if !slices.Contains(validLogFormats, c.LogFormat) {
		problems = append(problems, fmt.Sprintf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", ")))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

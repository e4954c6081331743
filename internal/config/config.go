package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultJWTSecret     = "dev-secret-change-in-production"
	defaultAdminPassword = "admin123"
)

// Config holds all configuration for the application
type Config struct {
	// HTTP Configuration
	HTTP HTTPConfig

	// Database Configuration
	Database DatabaseConfig

	// Auth Configuration
	Auth AuthConfig

	// Seed Configuration
	Seed SeedConfig

	// Logging Configuration
	Logging LoggingConfig
}

// HTTPConfig holds listener and CORS configuration
type HTTPConfig struct {
	Port        string
	CORSOrigins []string

	// Proxies whose X-Forwarded-For is believed when resolving the client
	// IP. Empty means the socket address is always used.
	TrustedProxies []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string // sqlite file path or postgres:// URL
}

// AuthConfig holds token and credential endpoint settings
type AuthConfig struct {
	JWTSecret string
	JWTExpiry time.Duration

	// Requests per second allowed per client IP on login/register endpoints
	LoginRateLimit float64
	LoginBurst     int
}

// SeedConfig holds the bootstrap admin account
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	expiryHours, err := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY_HOURS: %w", err)
	}

	rateLimit, err := strconv.ParseFloat(getEnv("LOGIN_RATE_LIMIT", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_RATE_LIMIT: %w", err)
	}

	burst, err := strconv.Atoi(getEnv("LOGIN_RATE_BURST", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_RATE_BURST: %w", err)
	}

	cfg := &Config{
		HTTP: HTTPConfig{
			Port:           getEnv("PORT", "8001"),
			CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
			TrustedProxies: splitList(os.Getenv("TRUSTED_PROXIES")),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", "portal.sqlite"),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("JWT_SECRET", defaultJWTSecret),
			JWTExpiry:      time.Duration(expiryHours) * time.Hour,
			LoginRateLimit: rateLimit,
			LoginBurst:     burst,
		},
		Seed: SeedConfig{
			AdminEmail:    getEnv("ADMIN_EMAIL", "admin@gurukulschool.net"),
			AdminPassword: getEnv("ADMIN_PASSWORD", defaultAdminPassword),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if getEnv("ENV", "development") == "production" {
		if cfg.Auth.JWTSecret == defaultJWTSecret {
			return nil, fmt.Errorf("JWT_SECRET must be set in production environment")
		}
		if cfg.Seed.AdminPassword == defaultAdminPassword {
			return nil, fmt.Errorf("ADMIN_PASSWORD must be set in production environment")
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

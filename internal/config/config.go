package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Log       LogConfig
	Import    ImportConfig
	Stock     StockConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig selects the log level and encoder
type LogConfig struct {
	Level       string
	Environment string
}

// ImportConfig limits statement uploads
type ImportConfig struct {
	MaxUploadBytes int64
}

// StockConfig configures the remote stock lookup API
type StockConfig struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// SessionConfig controls session lifetime and the key used to encrypt auth codes.
// SecretKey is a base64 fernet key; an empty value makes the server generate one at startup.
type SessionConfig struct {
	TTL           time.Duration
	PurgeSchedule string
	SecretKey     string
}

// RateLimitConfig configures the inbound token bucket
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	var errs []string
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	maxUpload, err := getEnvInt("IMPORT_MAX_UPLOAD_BYTES", 10<<20)
	collect(err)
	stockTimeout, err := getEnvDuration("STOCK_API_TIMEOUT", 10*time.Second)
	collect(err)
	cacheTTL, err := getEnvDuration("STOCK_CACHE_TTL", time.Hour)
	collect(err)
	sessionTTL, err := getEnvDuration("SESSION_TTL", 30*24*time.Hour)
	collect(err)
	rps, err := getEnvFloat("RATE_LIMIT_RPS", 10)
	collect(err)
	burst, err := getEnvInt("RATE_LIMIT_BURST", 30)
	collect(err)

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/shoken_receipts.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Import: ImportConfig{
			MaxUploadBytes: int64(maxUpload),
		},
		Stock: StockConfig{
			BaseURL:  getEnv("STOCK_API_URL", "https://shoken-webapp-api-b4a1.shuttle.app"),
			Timeout:  stockTimeout,
			CacheTTL: cacheTTL,
		},
		Session: SessionConfig{
			TTL:           sessionTTL,
			PurgeSchedule: getEnv("SESSION_PURGE_SCHEDULE", "@hourly"),
			SecretKey:     os.Getenv("SESSION_SECRET_KEY"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: rps,
			Burst:             burst,
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package common

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Extract  ExtractConfig
	Ledger   LedgerConfig
	Metrics  MetricsConfig
	Log      LogConfig
}

// DatabaseConfig holds ledger store configuration. An empty DSN selects an
// in-memory SQLite database.
type DatabaseConfig struct {
	DSN             string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	DialTimeout     time.Duration
}

// ExtractConfig holds pdftotext-related configuration
type ExtractConfig struct {
	Pdftotext string
	Layout    bool
	Timeout   time.Duration
}

// LedgerConfig holds parse/consolidation run configuration
type LedgerConfig struct {
	Workers       int
	DefaultFormat string
	TokensDir     string
}

// MetricsConfig holds batch metrics output configuration
type MetricsConfig struct {
	TextfilePath string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string // "text" | "json"
}

// LoadConfig loads configuration from an optional .env file and environment variables
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Database: DatabaseConfig{
			DSN:             getEnv("LEDGER_DB_URL", ""),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Extract: ExtractConfig{
			Pdftotext: getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Layout:    getEnvAsBool("PDFTOTEXT_LAYOUT", false),
			Timeout:   getEnvAsDuration("EXTRACT_TIMEOUT", 30*time.Second),
		},
		Ledger: LedgerConfig{
			Workers:       getEnvAsInt("LEDGER_WORKERS", 4),
			DefaultFormat: getEnv("LEDGER_DEFAULT_FORMAT", ""),
			TokensDir:     getEnv("LEDGER_TOKENS_DIR", ""),
		},
		Metrics: MetricsConfig{
			TextfilePath: getEnv("METRICS_TEXTFILE", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// Helper functions for environment variable parsing
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
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Ledger.Workers <= 0 {
		return NewAppError(CodeConfig, "LEDGER_WORKERS must be positive", ErrInvalidInput)
	}
	if c.Extract.Pdftotext == "" {
		return NewAppError(CodeConfig, "PDFTOTEXT_BIN is required", ErrInvalidInput)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return NewAppError(CodeConfig, "LOG_FORMAT must be text or json", ErrInvalidInput)
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// Every value has a default, so the binary runs with no environment at all.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Input / output files
	Input  InputConfig
	Output OutputConfig

	// External API
	Yahoo YahooConfig

	// Collection loop
	Collect CollectConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// InputConfig holds ticker list input configuration
type InputConfig struct {
	Path string
}

// OutputConfig holds CSV output configuration
type OutputConfig struct {
	Path string
}

// YahooConfig holds Yahoo Finance API configuration
type YahooConfig struct {
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	RequestsPerSec float64
	Burst          int
}

// CollectConfig holds orchestration loop configuration
type CollectConfig struct {
	// Randomized sleep between tickers falls in [MinDelay, MaxDelay]
	MinDelay time.Duration
	MaxDelay time.Duration

	// Limit > 0 processes only the first N tickers (test mode)
	Limit int

	// Cron expression used by the schedule command (six fields, with seconds)
	Schedule string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Input: InputConfig{
			Path: getEnv("ESG_INPUT_FILE", "sp500_tickers.csv"),
		},

		Output: OutputConfig{
			Path: getEnv("ESG_OUTPUT_FILE", "historical_esg_data.csv"),
		},

		Yahoo: YahooConfig{
			BaseURL:        getEnv("YAHOO_BASE_URL", "https://query2.finance.yahoo.com"),
			Timeout:        getEnvAsDuration("YAHOO_TIMEOUT", "10s"),
			MaxRetries:     getEnvAsInt("YAHOO_MAX_RETRIES", 3),
			InitialBackoff: getEnvAsDuration("YAHOO_INITIAL_BACKOFF", "2s"),
			MaxBackoff:     getEnvAsDuration("YAHOO_MAX_BACKOFF", "30s"),
			RequestsPerSec: getEnvAsFloat("YAHOO_REQUESTS_PER_SEC", 1.0),
			Burst:          getEnvAsInt("YAHOO_BURST", 1),
		},

		Collect: CollectConfig{
			MinDelay: getEnvAsDuration("COLLECT_MIN_DELAY", "2s"),
			MaxDelay: getEnvAsDuration("COLLECT_MAX_DELAY", "5s"),
			Limit:    getEnvAsInt("COLLECT_LIMIT", 0),
			Schedule: getEnv("COLLECT_SCHEDULE", "0 30 6 * * *"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		// Monitoring
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are consistent
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Input.Path == "" {
		return fmt.Errorf("ESG_INPUT_FILE must not be empty")
	}

	if c.Output.Path == "" {
		return fmt.Errorf("ESG_OUTPUT_FILE must not be empty")
	}

	if c.Yahoo.MaxRetries < 0 {
		return fmt.Errorf("YAHOO_MAX_RETRIES must not be negative")
	}

	if c.Collect.MinDelay > c.Collect.MaxDelay {
		return fmt.Errorf("COLLECT_MIN_DELAY must not exceed COLLECT_MAX_DELAY")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

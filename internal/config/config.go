// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"lottery-tool-middleware/internal/models"
)

const (
	defaultPort           = "9732"
	defaultWebhookTimeout = 30 * time.Second
)

// Config holds all configuration values for the application.
type Config struct {
	// Lottery system
	LotteryWebhookURL   string
	LotteryWebhookToken string

	// Power Automate
	PowerAutomateWebhookURL string

	// Outbound
	WebhookTimeout time.Duration

	// Inbound
	Host               string
	Port               string
	WebhookSources     []string
	CORSAllowedOrigins []string

	// Application
	Timezone *time.Location
	Stage    string
	Version  string
	LogLevel string
	LogFile  string
}

// Load loads configuration from environment variables.
// Missing lottery settings are reported as an error; the caller must not start.
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	cfg := &Config{
		// Lottery system
		LotteryWebhookURL:   getEnv("LOTTERY_WEBHOOK_URL", ""),
		LotteryWebhookToken: getEnv("LOTTERY_WEBHOOK_TOKEN", ""),

		// Power Automate
		PowerAutomateWebhookURL: getEnv("POWER_AUTOMATE_WEBHOOK_URL", ""),

		// Outbound
		WebhookTimeout: getEnvDuration("WEBHOOK_TIMEOUT", defaultWebhookTimeout),

		// Inbound
		Host:               getEnv("HOST", "0.0.0.0"),
		Port:               getEnv("PORT", defaultPort),
		WebhookSources:     getEnvList("WEBHOOK_SOURCES", []string{"jinshan"}),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		// Application
		Stage:    getEnv("STAGE", "dev"),
		Version:  getEnv("SERVICE_VERSION", "1.0.0"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}

	loc, err := loadLocation(getEnv("TIMEZONE", ""))
	if err != nil {
		return nil, err
	}
	cfg.Timezone = loc

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the settings required at startup are present.
func (c *Config) Validate() error {
	if c.LotteryWebhookURL == "" {
		return models.ErrMissingLotteryURL
	}
	if c.LotteryWebhookToken == "" {
		return models.ErrMissingLotteryToken
	}
	return nil
}

// PowerAutomateConfigured reports whether the optional automation endpoint is set.
func (c *Config) PowerAutomateConfigured() bool {
	return c.PowerAutomateWebhookURL != ""
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", name, err)
	}
	return loc, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves an environment variable as a duration or returns a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated environment variable, dropping empty items.
func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

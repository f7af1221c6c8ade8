// Package config provides application configuration management.
// It loads settings from a .env file and environment variables and applies
// defaults and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Dedup backends.
const (
	DedupBackendSQLite = "sqlite"
	DedupBackendRedis  = "redis"
)

// Config holds all application configuration
type Config struct {
	// LINE Bot Configuration
	LineChannelToken  string
	LineChannelSecret string

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Data Configuration
	DataDir string

	// Duplicate suppression
	DedupBackend string
	RedisURL     string
	DedupTTL     time.Duration

	// LLM providers. Empty model lists select the package defaults.
	LLMProviders []string
	GeminiAPIKey string
	GeminiModels []string
	OpenAIAPIKey string
	OpenAIModels []string
	GroqAPIKey   string
	GroqModels   []string

	// Error tracking and log shipping
	SentryDSN           string
	SentryEnvironment   string
	SentrySampleRate    float64
	BetterStackToken    string
	BetterStackEndpoint string

	// Metrics Authentication (empty password = no auth)
	MetricsUsername string
	MetricsPassword string

	Bot BotConfig
}

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	// Missing .env is fine: production sets real environment variables.
	_ = godotenv.Load()

	defaults := DefaultBotConfig()

	cfg := &Config{
		LineChannelToken:  getEnv(EnvLineChannelAccessToken, ""),
		LineChannelSecret: getEnv(EnvLineChannelSecret, ""),

		Port:            getEnv(EnvPort, "10000"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, GracefulShutdown),

		DataDir: getEnv(EnvDataDir, getDefaultDataDir()),

		DedupBackend: strings.ToLower(getEnv(EnvDedupBackend, DedupBackendSQLite)),
		RedisURL:     getEnv(EnvRedisURL, ""),
		DedupTTL:     getDurationEnv(EnvDedupTTL, DedupTTL),

		LLMProviders: getListEnv(EnvLLMProviders, []string{"gemini", "openai", "groq"}),
		GeminiAPIKey: getEnv(EnvGeminiAPIKey, ""),
		GeminiModels: getListEnv(EnvGeminiModels, nil),
		OpenAIAPIKey: getEnv(EnvOpenAIAPIKey, ""),
		OpenAIModels: getListEnv(EnvOpenAIModels, nil),
		GroqAPIKey:   getEnv(EnvGroqAPIKey, ""),
		GroqModels:   getListEnv(EnvGroqModels, nil),

		SentryDSN:           getEnv(EnvSentryDSN, ""),
		SentryEnvironment:   getEnv(EnvSentryEnvironment, "production"),
		SentrySampleRate:    getFloatEnv(EnvSentrySampleRate, 1.0),
		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),

		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),

		Bot: BotConfig{
			WebhookTimeout:      getDurationEnv(EnvWebhookTimeout, defaults.WebhookTimeout),
			MaxEventsPerWebhook: defaults.MaxEventsPerWebhook,
			UserRateBurst:       getFloatEnv(EnvUserRateBurst, defaults.UserRateBurst),
			UserRateRefill:      getFloatEnv(EnvUserRateRefill, defaults.UserRateRefill),
			LLMRateBurst:        getFloatEnv(EnvLLMRateBurst, defaults.LLMRateBurst),
			LLMRateRefill:       getFloatEnv(EnvLLMRateRefill, defaults.LLMRateRefill),
			LLMRateDaily:        getIntEnv(EnvLLMRateDaily, defaults.LLMRateDaily),
			GlobalRateRPS:       getFloatEnv(EnvGlobalRateRPS, defaults.GlobalRateRPS),
			ProviderTimeout:     getDurationEnv(EnvProviderTimeout, defaults.ProviderTimeout),
			WeatherLocations:    getListEnv(EnvWeatherLocations, defaults.WeatherLocations),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.LineChannelToken == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvLineChannelAccessToken))
	}
	if c.LineChannelSecret == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvLineChannelSecret))
	}
	if c.Port == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvPort))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvShutdownTimeout, c.ShutdownTimeout))
	}
	if c.DataDir == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvDataDir))
	}

	switch c.DedupBackend {
	case DedupBackendSQLite:
	case DedupBackendRedis:
		if c.RedisURL == "" {
			errs = append(errs, fmt.Errorf("%s is required when %s=redis", EnvRedisURL, EnvDedupBackend))
		}
	default:
		errs = append(errs, fmt.Errorf("%s must be sqlite or redis, got %q", EnvDedupBackend, c.DedupBackend))
	}
	if c.DedupTTL <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvDedupTTL, c.DedupTTL))
	}

	if c.SentrySampleRate < 0 || c.SentrySampleRate > 1 {
		errs = append(errs, fmt.Errorf("%s must be within [0, 1], got %v", EnvSentrySampleRate, c.SentrySampleRate))
	}

	if err := c.Bot.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("bot config: %w", err))
	}

	return errors.Join(errs...)
}

// SQLitePath returns the full path to the SQLite database file
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "umigame.db")
}

// HasLLMProvider returns true if at least one LLM provider is configured.
func (c *Config) HasLLMProvider() bool {
	return c.GeminiAPIKey != "" || c.OpenAIAPIKey != "" || c.GroqAPIKey != ""
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getListEnv splits a comma-separated variable, dropping blank items and
// keeping order. Full-width commas are accepted for Japanese input.
func getListEnv(key string, defaultValue []string) []string {
	value := strings.ReplaceAll(os.Getenv(key), "、", ",")
	value = strings.ReplaceAll(value, "，", ",")

	var items []string
	for item := range strings.SplitSeq(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

// getDefaultDataDir returns platform-specific default data directory
func getDefaultDataDir() string {
	if runtime.GOOS == "windows" {
		return "./data"
	}
	return "/data"
}

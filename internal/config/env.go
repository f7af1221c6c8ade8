// Package config defines environment variable keys for configuration.
package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Core (Required)
	EnvLineChannelAccessToken = "LINE_CHANNEL_ACCESS_TOKEN"
	EnvLineChannelSecret      = "LINE_CHANNEL_SECRET"

	// Server
	EnvPort            = "PORT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	// Data
	EnvDataDir = "DATA_DIR"

	// Webhook
	EnvWebhookTimeout = "WEBHOOK_TIMEOUT"

	// Rate Limits
	EnvGlobalRateRPS  = "GLOBAL_RATE_RPS"
	EnvUserRateBurst  = "USER_RATE_BURST"
	EnvUserRateRefill = "USER_RATE_REFILL"
	EnvLLMRateBurst   = "LLM_RATE_BURST"
	EnvLLMRateRefill  = "LLM_RATE_REFILL"
	EnvLLMRateDaily   = "LLM_RATE_DAILY"

	// Duplicate suppression
	EnvDedupBackend = "DEDUP_BACKEND"
	EnvRedisURL     = "REDIS_URL"
	EnvDedupTTL     = "DEDUP_TTL"

	// LLM providers
	EnvLLMProviders    = "LLM_PROVIDERS"
	EnvProviderTimeout = "PROVIDER_TIMEOUT"
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
	EnvGeminiModels    = "GEMINI_MODELS"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvOpenAIModels    = "OPENAI_MODELS"
	EnvGroqAPIKey      = "GROQ_API_KEY"
	EnvGroqModels      = "GROQ_MODELS"

	// Content providers
	EnvWeatherLocations = "WEATHER_LOCATIONS"

	// Sentry
	EnvSentryDSN         = "SENTRY_DSN"
	EnvSentryEnvironment = "SENTRY_ENVIRONMENT"
	EnvSentrySampleRate  = "SENTRY_SAMPLE_RATE"

	// Better Stack
	EnvBetterStackToken    = "BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "BETTERSTACK_ENDPOINT"

	// Metrics
	EnvMetricsUsername = "METRICS_USERNAME"
	EnvMetricsPassword = "METRICS_PASSWORD"
)

package config

import (
	"errors"
	"fmt"
	"time"
)

// BotConfig holds webhook processing and rate limit settings.
type BotConfig struct {
	// WebhookTimeout bounds the processing of a single event.
	WebhookTimeout time.Duration
	// MaxEventsPerWebhook truncates oversized batches.
	MaxEventsPerWebhook int

	// Per-sender limiter applied to every inbound event.
	UserRateBurst  float64
	UserRateRefill float64 // tokens per second

	// Per-sender limiter applied to provider-consuming intents.
	LLMRateBurst  float64
	LLMRateRefill float64 // tokens per second
	LLMRateDaily  int     // rolling 24h cap, 0 disables

	// GlobalRateRPS bounds outbound messaging API calls.
	GlobalRateRPS float64

	// ProviderTimeout bounds one completion operation.
	ProviderTimeout time.Duration

	// WeatherLocations is the ordered location list for the weather summary.
	WeatherLocations []string
}

// DefaultBotConfig returns default configuration values.
func DefaultBotConfig() BotConfig {
	return BotConfig{
		WebhookTimeout:      WebhookProcessing,
		MaxEventsPerWebhook: 100,
		UserRateBurst:       10,
		UserRateRefill:      0.5, // 1 token per 2s
		LLMRateBurst:        20,
		LLMRateRefill:       20.0 / 3600, // 20 per hour
		LLMRateDaily:        200,
		GlobalRateRPS:       1000, // platform allows 2000 req/s per channel
		ProviderTimeout:     ProviderCall,
		WeatherLocations:    []string{"東京", "大阪", "名古屋", "札幌", "福岡"},
	}
}

// Validate checks if the configuration is valid.
func (c *BotConfig) Validate() error {
	var errs []error

	if c.WebhookTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvWebhookTimeout, c.WebhookTimeout))
	}
	if c.MaxEventsPerWebhook < 1 {
		errs = append(errs, fmt.Errorf("max events per webhook must be positive, got %d", c.MaxEventsPerWebhook))
	}
	if c.UserRateBurst < 1 {
		errs = append(errs, fmt.Errorf("%s must be at least 1, got %v", EnvUserRateBurst, c.UserRateBurst))
	}
	if c.UserRateRefill <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvUserRateRefill, c.UserRateRefill))
	}
	if c.LLMRateBurst < 1 {
		errs = append(errs, fmt.Errorf("%s must be at least 1, got %v", EnvLLMRateBurst, c.LLMRateBurst))
	}
	if c.LLMRateRefill <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvLLMRateRefill, c.LLMRateRefill))
	}
	if c.LLMRateDaily < 0 {
		errs = append(errs, fmt.Errorf("%s cannot be negative, got %d", EnvLLMRateDaily, c.LLMRateDaily))
	}
	if c.GlobalRateRPS <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvGlobalRateRPS, c.GlobalRateRPS))
	}
	if c.ProviderTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvProviderTimeout, c.ProviderTimeout))
	}
	if len(c.WeatherLocations) == 0 {
		errs = append(errs, fmt.Errorf("%s must name at least one location", EnvWeatherLocations))
	}

	return errors.Join(errs...)
}

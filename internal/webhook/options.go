package webhook

import (
	"time"

	"github.com/garyellow/umigame-linebot-go/internal/config"
)

// HandlerOption is a functional option for configuring Handler.
type HandlerOption func(*Handler)

// WithBotConfig applies the webhook limits from the bot configuration.
func WithBotConfig(cfg *config.BotConfig) HandlerOption {
	return func(h *Handler) {
		if cfg.WebhookTimeout > 0 {
			WithWebhookTimeout(cfg.WebhookTimeout)(h)
		}
		if cfg.MaxEventsPerWebhook > 0 {
			WithMaxEventsPerWebhook(cfg.MaxEventsPerWebhook)(h)
		}
	}
}

// WithWebhookTimeout sets the per-event processing timeout.
func WithWebhookTimeout(timeout time.Duration) HandlerOption {
	return func(h *Handler) {
		h.webhookTimeout = timeout
	}
}

// WithMaxEventsPerWebhook caps how many events of one batch are processed.
func WithMaxEventsPerWebhook(n int) HandlerOption {
	return func(h *Handler) {
		h.maxEventsPerWebhook = n
	}
}

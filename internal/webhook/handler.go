// Package webhook receives LINE webhook callbacks, filters and normalizes the
// events, and hands them to the bot router.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/garyellow/umigame-linebot-go/internal/bot"
	"github.com/garyellow/umigame-linebot-go/internal/config"
	"github.com/garyellow/umigame-linebot-go/internal/ctxutil"
	"github.com/garyellow/umigame-linebot-go/internal/dedup"
	"github.com/garyellow/umigame-linebot-go/internal/logger"
	"github.com/garyellow/umigame-linebot-go/internal/metrics"
	"github.com/garyellow/umigame-linebot-go/internal/sentry"
	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"golang.org/x/text/unicode/norm"
)

// Event kinds used in logs and metric labels.
const (
	kindMessage  = "message"
	kindPostback = "postback"
	kindFollow   = "follow"
	kindJoin     = "join"
)

// EventRouter consumes normalized events. *bot.Router implements it.
type EventRouter interface {
	Route(ctx context.Context, ev bot.MessageEvent)
	RoutePostback(ctx context.Context, ev bot.PostbackEvent)
	Welcome(ctx context.Context, replyToken string, src bot.Source)
	RateLimited(ctx context.Context, replyToken string, src bot.Source)
}

// LoadingIndicator shows the typing animation in a one-on-one chat.
type LoadingIndicator interface {
	ShowLoading(ctx context.Context, chatID string) error
}

// Handler handles LINE webhook events
type Handler struct {
	channelSecret string
	router        EventRouter
	loading       LoadingIndicator
	dedup         *dedup.Filter
	userLimiter   bot.KeyLimiter
	metrics       *metrics.Metrics
	logger        *logger.Logger
	wg            sync.WaitGroup // tracks async event processing

	webhookTimeout      time.Duration
	maxEventsPerWebhook int
}

// HandlerConfig holds configuration for creating a new Handler.
// Loading, Dedup, UserLimiter and Metrics are optional.
type HandlerConfig struct {
	ChannelSecret string
	Router        EventRouter
	Loading       LoadingIndicator
	Dedup         *dedup.Filter
	UserLimiter   bot.KeyLimiter
	Metrics       *metrics.Metrics
	Logger        *logger.Logger
}

// NewHandler creates a new webhook handler.
func NewHandler(cfg HandlerConfig, opts ...HandlerOption) (*Handler, error) {
	if cfg.ChannelSecret == "" {
		return nil, errors.New("webhook: channel secret is required")
	}
	if cfg.Router == nil {
		return nil, errors.New("webhook: router is required")
	}
	if cfg.Logger == nil {
		return nil, errors.New("webhook: logger is required")
	}

	defaults := config.DefaultBotConfig()
	h := &Handler{
		channelSecret:       cfg.ChannelSecret,
		router:              cfg.Router,
		loading:             cfg.Loading,
		dedup:               cfg.Dedup,
		userLimiter:         cfg.UserLimiter,
		metrics:             cfg.Metrics,
		logger:              cfg.Logger.WithModule("webhook"),
		webhookTimeout:      defaults.WebhookTimeout,
		maxEventsPerWebhook: defaults.MaxEventsPerWebhook,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Handle is the Gin handler for the webhook endpoint
func (h *Handler) Handle(c *gin.Context) {
	// 1. Parse request
	cb, err := webhook.ParseRequest(h.channelSecret, c.Request)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			h.logger.Warn("Invalid webhook signature")
			c.Status(http.StatusBadRequest)
		} else {
			h.logger.WithError(err).Error("Failed to parse webhook request")
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	// 2. Return 200 OK immediately; the platform does not wait for replies
	c.Status(http.StatusOK)

	if len(cb.Events) == 0 {
		return
	}

	// 3. Process events asynchronously
	if len(cb.Events) > h.maxEventsPerWebhook {
		h.logger.WithField("event_count", len(cb.Events)).
			WithField("limit", h.maxEventsPerWebhook).
			Warn("Too many events in webhook batch; truncating")
		cb.Events = cb.Events[:h.maxEventsPerWebhook]
	}

	// Copy events to avoid race condition after HTTP response completes
	events := make([]webhook.EventInterface, len(cb.Events))
	copy(events, cb.Events)

	// Events of one batch run in order so a sender's messages are not reordered.
	h.wg.Go(func() {
		defer func() {
			if r := recover(); r != nil {
				h.logger.WithField("panic", r).Error("Panic in async event processing")
			}
		}()

		for _, event := range events {
			h.processEvent(event)
		}
	})
}

// eventMeta is the routing-relevant part of an SDK event.
type eventMeta struct {
	id         string
	kind       string
	replyToken string
	source     bot.Source
	redelivery bool
}

// processEvent handles a single webhook event under its own deadline.
func (h *Handler) processEvent(event webhook.EventInterface) {
	start := time.Now()

	meta, ok := describeEvent(event)
	if !ok {
		h.logger.WithField("event_type", fmt.Sprintf("%T", event)).Debug("Unsupported event type")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.webhookTimeout)
	defer cancel()

	log := h.logger.WithField("event_type", meta.kind)
	if meta.id != "" {
		ctx = ctxutil.WithRequestID(ctx, meta.id)
		log = log.WithRequestID(meta.id)
	}
	if meta.redelivery {
		log = log.WithField("is_redelivery", true)
	}

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Panic while handling event")
			sentry.RecoverEvent(ctx, meta.id, meta.kind, r)
			h.metrics.RecordWebhook(meta.kind, "panic", time.Since(start).Seconds())
		}
	}()

	status := h.dispatchEvent(ctx, event, meta, log)
	h.metrics.RecordWebhook(meta.kind, status, time.Since(start).Seconds())

	log.WithField("status", status).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Debug("Event processed")
}

// dispatchEvent applies duplicate and rate filtering, then routes the event.
// It returns the status label recorded for the event.
func (h *Handler) dispatchEvent(ctx context.Context, event webhook.EventInterface, meta eventMeta, log *logger.Logger) string {
	if h.dedup.IsDuplicate(ctx, meta.id) {
		return "duplicate"
	}

	switch e := event.(type) {
	case webhook.MessageEvent:
		content, ok := e.Message.(webhook.TextMessageContent)
		if !ok {
			log.WithField("message_type", e.Message.GetType()).Debug("Ignoring non-text message")
			return "ignored"
		}
		text := normalizeText(content)
		if text == "" {
			return "ignored"
		}
		if !h.admit(ctx, meta, log) {
			return "rate_limited"
		}
		h.showLoading(ctx, meta.source, log)
		h.router.Route(ctx, bot.MessageEvent{
			EventID:    meta.id,
			ReplyToken: meta.replyToken,
			Source:     meta.source,
			Text:       text,
		})

	case webhook.PostbackEvent:
		if e.Postback == nil || e.Postback.Data == "" {
			return "ignored"
		}
		if !h.admit(ctx, meta, log) {
			return "rate_limited"
		}
		h.showLoading(ctx, meta.source, log)
		h.router.RoutePostback(ctx, bot.PostbackEvent{
			EventID:    meta.id,
			ReplyToken: meta.replyToken,
			Source:     meta.source,
			Data:       e.Postback.Data,
		})

	case webhook.FollowEvent, webhook.JoinEvent:
		h.router.Welcome(ctx, meta.replyToken, meta.source)
	}

	return "success"
}

// admit consumes one token from the sender's bucket. Personal chats are told
// when they are throttled; groups are dropped silently.
func (h *Handler) admit(ctx context.Context, meta eventMeta, log *logger.Logger) bool {
	if h.userLimiter == nil {
		return true
	}
	if h.userLimiter.Allow(meta.source.RateKey()) {
		return true
	}

	log.WithField("personal", meta.source.Personal).Warn("User rate limit exceeded")
	if meta.source.Personal {
		h.router.RateLimited(ctx, meta.replyToken, meta.source)
	}
	return false
}

// showLoading starts the loading animation. The platform supports it in
// one-on-one chats only.
func (h *Handler) showLoading(ctx context.Context, src bot.Source, log *logger.Logger) {
	if h.loading == nil || !src.Personal {
		return
	}
	if err := h.loading.ShowLoading(ctx, src.ChatID); err != nil {
		log.WithError(err).Warn("Failed to show loading animation")
	}
}

// describeEvent extracts the metadata of supported event types.
func describeEvent(event webhook.EventInterface) (eventMeta, bool) {
	var (
		meta eventMeta
		src  webhook.SourceInterface
		dc   *webhook.DeliveryContext
	)

	switch e := event.(type) {
	case webhook.MessageEvent:
		meta = eventMeta{id: e.WebhookEventId, kind: kindMessage, replyToken: e.ReplyToken}
		src, dc = e.Source, e.DeliveryContext
	case webhook.PostbackEvent:
		meta = eventMeta{id: e.WebhookEventId, kind: kindPostback, replyToken: e.ReplyToken}
		src, dc = e.Source, e.DeliveryContext
	case webhook.FollowEvent:
		meta = eventMeta{id: e.WebhookEventId, kind: kindFollow, replyToken: e.ReplyToken}
		src, dc = e.Source, e.DeliveryContext
	case webhook.JoinEvent:
		meta = eventMeta{id: e.WebhookEventId, kind: kindJoin, replyToken: e.ReplyToken}
		src, dc = e.Source, e.DeliveryContext
	default:
		return eventMeta{}, false
	}

	meta.source = convertSource(src)
	meta.redelivery = dc != nil && dc.IsRedelivery
	return meta, true
}

// convertSource maps an SDK source to bot.Source. Group and room members who
// have not added the bot arrive without a user ID.
func convertSource(src webhook.SourceInterface) bot.Source {
	switch s := src.(type) {
	case webhook.UserSource:
		return bot.Source{UserID: s.UserId, ChatID: s.UserId, Personal: true}
	case webhook.GroupSource:
		return bot.Source{UserID: s.UserId, ChatID: s.GroupId}
	case webhook.RoomSource:
		return bot.Source{UserID: s.UserId, ChatID: s.RoomId}
	default:
		return bot.Source{}
	}
}

// normalizeText strips bot mentions, composes the text to NFC and trims it.
// Mentions are removed first because their offsets refer to the raw text.
func normalizeText(content webhook.TextMessageContent) string {
	text := removeBotMentions(content.Text, content.Mention)
	return strings.TrimSpace(norm.NFC.String(text))
}

// Shutdown waits for all async event processing to complete.
// It returns an error if the context is canceled before completion.
func (h *Handler) Shutdown(ctx context.Context) error {
	c := make(chan struct{})
	go func() {
		defer close(c)
		h.wg.Wait()
	}()

	select {
	case <-c:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

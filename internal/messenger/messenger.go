// Package messenger sends replies, pushes and loading indicators through the
// LINE Messaging API.
package messenger

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/garyellow/umigame-linebot-go/internal/logger"
	"github.com/garyellow/umigame-linebot-go/internal/metrics"
	"github.com/garyellow/umigame-linebot-go/internal/ratelimit"
	"github.com/google/uuid"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// loadingSeconds is the platform maximum (5-60, multiple of 5).
const loadingSeconds int32 = 60

// Config holds configuration for creating a Client
type Config struct {
	ChannelToken string
	// Endpoint overrides the API base URL. Empty uses the SDK default.
	Endpoint   string
	HTTPClient *http.Client
	// GlobalRPS bounds outbound calls per second across all chats.
	GlobalRPS float64
	Metrics   *metrics.Metrics
	Logger    *logger.Logger
}

// Client implements bot.Messenger on top of the SDK client.
type Client struct {
	api         *messaging_api.MessagingApiAPI
	limiter     *ratelimit.Limiter
	metrics     *metrics.Metrics
	logger      *logger.Logger
	newRetryKey func() string
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if cfg.ChannelToken == "" {
		return nil, errors.New("channel access token is required")
	}
	if cfg.GlobalRPS <= 0 {
		return nil, fmt.Errorf("global rate must be positive, got %v", cfg.GlobalRPS)
	}

	var opts []messaging_api.MessagingApiAPIOption
	if cfg.Endpoint != "" {
		opts = append(opts, messaging_api.WithEndpoint(cfg.Endpoint))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, messaging_api.WithHTTPClient(cfg.HTTPClient))
	}

	api, err := messaging_api.NewMessagingApiAPI(cfg.ChannelToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("create messaging API client: %w", err)
	}

	log := cfg.Logger
	if log == nil {
		log = logger.New("info")
	}

	return &Client{
		api:         api,
		limiter:     ratelimit.New(cfg.GlobalRPS, cfg.GlobalRPS),
		metrics:     cfg.Metrics,
		logger:      log.WithModule("messenger"),
		newRetryKey: uuid.NewString,
	}, nil
}

// Reply answers an event with its one-shot reply token.
func (c *Client) Reply(ctx context.Context, replyToken string, msgs []messaging_api.MessageInterface) error {
	if err := c.acquire(ctx); err != nil {
		return err
	}
	_, err := c.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   msgs,
	})
	if err != nil {
		return fmt.Errorf("reply message: %w", err)
	}
	return nil
}

// Push sends messages to a user without a reply token. Each call carries a
// fresh retry key so the platform can discard accidental duplicates.
func (c *Client) Push(ctx context.Context, to string, msgs []messaging_api.MessageInterface) error {
	if to == "" {
		return errors.New("push target is required")
	}
	if err := c.acquire(ctx); err != nil {
		return err
	}
	_, err := c.api.PushMessage(&messaging_api.PushMessageRequest{
		To:       to,
		Messages: msgs,
	}, c.newRetryKey())
	if err != nil {
		return fmt.Errorf("push message: %w", err)
	}
	return nil
}

// DisplayName returns the user's profile name.
func (c *Client) DisplayName(ctx context.Context, userID string) (string, error) {
	if err := c.acquire(ctx); err != nil {
		return "", err
	}
	profile, err := c.api.GetProfile(userID)
	if err != nil {
		return "", fmt.Errorf("get profile: %w", err)
	}
	return profile.DisplayName, nil
}

// ShowLoading starts the typing indicator in a personal chat. It disappears
// when the next message arrives or after loadingSeconds.
func (c *Client) ShowLoading(ctx context.Context, chatID string) error {
	if chatID == "" {
		return nil
	}
	if err := c.acquire(ctx); err != nil {
		return err
	}
	_, err := c.api.ShowLoadingAnimation(&messaging_api.ShowLoadingAnimationRequest{
		ChatId:         chatID,
		LoadingSeconds: loadingSeconds,
	})
	if err != nil {
		return fmt.Errorf("failed to show loading animation: %w", err)
	}
	return nil
}

// acquire takes a token from the global limiter, waiting if the bucket is empty.
func (c *Client) acquire(ctx context.Context) error {
	if c.limiter.Allow() {
		return nil
	}

	c.logger.WarnContext(ctx, "Global rate limit exceeded; waiting")
	start := time.Now()
	err := c.limiter.Wait(ctx)
	c.metrics.RecordRateLimiterWait("global", time.Since(start).Seconds())
	if err != nil {
		c.metrics.RecordRateLimiterDrop("global")
		return fmt.Errorf("wait for rate limiter: %w", err)
	}
	return nil
}

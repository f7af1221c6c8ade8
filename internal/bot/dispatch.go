package bot

import (
	"context"
	"strings"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/garyellow/umigame-linebot-go/internal/lineutil"
	"github.com/garyellow/umigame-linebot-go/internal/logger"
	"github.com/garyellow/umigame-linebot-go/internal/metrics"
)

// Dispatcher delivers a reply, falling back to a push message when the reply
// token is missing, expired or already consumed.
type Dispatcher struct {
	messenger Messenger
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

// NewDispatcher creates a Dispatcher. m may be nil.
func NewDispatcher(messenger Messenger, m *metrics.Metrics, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		messenger: messenger,
		metrics:   m,
		logger:    log.WithModule("dispatch"),
	}
}

// Send replies with msgs, then pushes them to userID if the reply fails.
// Failures are logged and never returned.
func (d *Dispatcher) Send(ctx context.Context, replyToken, userID string, msgs []messaging_api.MessageInterface) {
	if len(msgs) == 0 {
		return
	}
	if len(msgs) > lineutil.MaxMessagesPerReply {
		d.logger.WarnContext(ctx, "message count exceeds reply limit; truncating",
			"message_count", len(msgs),
			"limit", lineutil.MaxMessagesPerReply)
		msgs = msgs[:lineutil.MaxMessagesPerReply]
	}

	if replyToken != "" {
		err := d.messenger.Reply(ctx, replyToken, msgs)
		if err == nil {
			d.metrics.RecordDispatch("reply", "success")
			return
		}
		d.metrics.RecordDispatch("reply", "error")
		if strings.Contains(err.Error(), "Invalid reply token") {
			d.logger.DebugContext(ctx, "reply token already used or expired", "error", err)
		} else {
			d.logger.WarnContext(ctx, "reply failed", "error", err)
		}
	}

	if userID == "" {
		d.logger.WarnContext(ctx, "no user ID for push fallback; message dropped",
			"message_count", len(msgs))
		return
	}

	if err := d.messenger.Push(ctx, userID, msgs); err != nil {
		d.metrics.RecordDispatch("push", "error")
		d.logger.ErrorContext(ctx, "push fallback failed", "error", err)
		return
	}
	d.metrics.RecordDispatch("push", "success")
}

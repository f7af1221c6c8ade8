// Package dedup suppresses redelivered webhook events.
//
// The platform redelivers an event when the first delivery was not
// acknowledged in time, so the same webhookEventId can arrive more than once.
// A Store remembers recently seen IDs; the Filter in front of it turns store
// failures into "first seen" so that an outage never drops user messages.
package dedup

import (
	"context"

	"github.com/garyellow/umigame-linebot-go/internal/logger"
	"github.com/garyellow/umigame-linebot-go/internal/metrics"
)

// Store remembers event IDs.
type Store interface {
	// FirstSeen atomically records eventID and reports whether it had not
	// been recorded before.
	FirstSeen(ctx context.Context, eventID string) (bool, error)
}

// Filter decides whether an event should be processed.
type Filter struct {
	store   Store
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewFilter wraps store. A nil store lets every event through.
func NewFilter(store Store, m *metrics.Metrics, log *logger.Logger) *Filter {
	return &Filter{
		store:   store,
		metrics: m,
		logger:  log.WithModule("dedup"),
	}
}

// IsDuplicate reports whether eventID was already processed. Empty IDs and
// store errors are never treated as duplicates.
func (f *Filter) IsDuplicate(ctx context.Context, eventID string) bool {
	if f == nil || f.store == nil || eventID == "" {
		return false
	}

	first, err := f.store.FirstSeen(ctx, eventID)
	if err != nil {
		f.logger.WarnContext(ctx, "dedup store unavailable, processing event",
			"event_id", eventID,
			"error", err)
		return false
	}
	if !first {
		f.metrics.RecordDuplicateEvent()
		f.logger.InfoContext(ctx, "dropping duplicate event", "event_id", eventID)
		return true
	}
	return false
}

package dedup

import (
	"context"
	"time"

	"github.com/garyellow/umigame-linebot-go/internal/logger"
	"github.com/garyellow/umigame-linebot-go/internal/storage"
)

// SQLiteStore keeps event IDs in the webhook_events table.
type SQLiteStore struct {
	db  *storage.DB
	ttl time.Duration
	now func() time.Time
}

// NewSQLiteStore creates a store whose entries expire after ttl once
// Cleanup has run.
func NewSQLiteStore(db *storage.DB, ttl time.Duration) *SQLiteStore {
	return &SQLiteStore{db: db, ttl: ttl, now: time.Now}
}

// FirstSeen implements Store.
func (s *SQLiteStore) FirstSeen(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return true, nil
	}
	return s.db.MarkEventSeen(ctx, eventID)
}

// Cleanup deletes event IDs older than the TTL.
func (s *SQLiteStore) Cleanup(ctx context.Context) (int64, error) {
	return s.db.DeleteEventsBefore(ctx, s.now().Add(-s.ttl))
}

// RunCleanup calls Cleanup every interval until ctx is canceled.
func (s *SQLiteStore) RunCleanup(ctx context.Context, interval time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Cleanup(ctx)
			if err != nil {
				log.WithError(err).Warn("Dedup cleanup failed")
				continue
			}
			if n > 0 {
				log.WithField("deleted", n).Debug("Dedup cleanup completed")
			}
		}
	}
}

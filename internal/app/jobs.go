package app

import (
	"context"

	"github.com/garyellow/umigame-linebot-go/internal/config"
)

// dedupCleanup purges expired event IDs from SQLite until ctx is canceled.
// Redis expires keys on its own.
func (a *Application) dedupCleanup(ctx context.Context) {
	log := a.logger.WithModule("dedup")
	log.Debug("Dedup cleanup job started")
	defer log.Debug("Dedup cleanup job stopped")

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Panic in dedup cleanup job")
		}
	}()

	a.sqliteDedup.RunCleanup(ctx, config.DedupCleanupInterval, log)
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates all necessary tables and indexes.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if err := createWebhookEventsTable(ctx, db); err != nil {
		return err
	}
	return createMealFeedbackTable(ctx, db)
}

func createWebhookEventsTable(ctx context.Context, db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS webhook_events (
		event_id TEXT PRIMARY KEY,
		seen_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_webhook_events_seen_at ON webhook_events(seen_at);
	`

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create webhook_events table: %w", err)
	}

	return nil
}

func createMealFeedbackTable(ctx context.Context, db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS meal_feedback (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tracking_id TEXT NOT NULL,
		user_id TEXT NOT NULL DEFAULT '',
		rating TEXT CHECK(rating IN ('good', 'bad')) NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_meal_feedback_tracking_id ON meal_feedback(tracking_id);
	`

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create meal_feedback table: %w", err)
	}

	return nil
}

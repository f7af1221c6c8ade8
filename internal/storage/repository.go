package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Meal ratings accepted by SaveMealFeedback.
const (
	RatingGood = "good"
	RatingBad  = "bad"
)

// ErrInvalidRating is returned for ratings other than RatingGood and RatingBad.
var ErrInvalidRating = errors.New("invalid meal rating")

// MarkEventSeen records a webhook event ID. It reports true when the ID was
// not recorded before, false when it is a duplicate.
func (db *DB) MarkEventSeen(ctx context.Context, eventID string) (bool, error) {
	query := `INSERT INTO webhook_events (event_id, seen_at) VALUES (?, ?) ON CONFLICT(event_id) DO NOTHING`

	start := time.Now()
	res, err := db.conn.ExecContext(ctx, query, eventID, db.now().Unix())
	if err != nil {
		return false, fmt.Errorf("failed to mark event seen: %w", err)
	}
	warnSlow(ctx, "MarkEventSeen", start)

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n == 1, nil
}

// DeleteEventsBefore removes event IDs recorded before cutoff and returns the
// number of rows deleted.
func (db *DB) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM webhook_events WHERE seen_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n, nil
}

// SaveMealFeedback stores one rating for a meal suggestion.
func (db *DB) SaveMealFeedback(ctx context.Context, trackingID, userID, rating string) error {
	if rating != RatingGood && rating != RatingBad {
		return fmt.Errorf("%w: %q", ErrInvalidRating, rating)
	}
	if trackingID == "" {
		return errors.New("tracking id is required")
	}

	query := `INSERT INTO meal_feedback (tracking_id, user_id, rating, created_at) VALUES (?, ?, ?, ?)`

	start := time.Now()
	if _, err := db.conn.ExecContext(ctx, query, trackingID, userID, rating, db.now().Unix()); err != nil {
		slog.ErrorContext(ctx, "failed to save meal feedback",
			"tracking_id", trackingID,
			"error", err)
		return fmt.Errorf("failed to save meal feedback: %w", err)
	}
	warnSlow(ctx, "SaveMealFeedback", start)
	return nil
}

func warnSlow(ctx context.Context, op string, start time.Time) {
	if d := time.Since(start); d > slowQueryThreshold {
		slog.WarnContext(ctx, "slow database operation",
			"operation", op,
			"duration_ms", d.Milliseconds())
	}
}

package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/stridr-app/stridr/internal/domain"
)

// InsertNotification queues a notification in the outbox.
func (d *DB) InsertNotification(ctx context.Context, userID string, n domain.Notification) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO notifications (id, user_id, category, title, body, created_at, shown)
		 VALUES (?, ?, ?, ?, ?, ?, 0)`,
		n.ID, userID, string(n.Category), n.Title, n.Body, n.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListPendingNotifications returns unshown notifications, oldest first.
func (d *DB) ListPendingNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, category, title, body, created_at, shown FROM notifications
		 WHERE user_id = ? AND shown = 0 ORDER BY created_at ASC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var cat string
		var ts int64
		if err := rows.Scan(&n.ID, &cat, &n.Title, &n.Body, &ts, &n.Shown); err != nil {
			return nil, err
		}
		n.Category = domain.Category(cat)
		n.CreatedAt = time.Unix(ts, 0)
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationShown marks one notification as delivered.
func (d *DB) MarkNotificationShown(ctx context.Context, id string) error {
	_, err := d.db.ExecContext(ctx, `UPDATE notifications SET shown = 1 WHERE id = ?`, id)
	return err
}

// NotificationCountSince counts notifications created at or after t.
// The dispatcher uses midnight for its per-day cap.
func (d *DB) NotificationCountSince(ctx context.Context, userID string, t time.Time) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND created_at >= ?`,
		userID, t.Unix(),
	).Scan(&count)
	return count, err
}

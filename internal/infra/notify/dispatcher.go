// Package notify implements the category-gated notification
// dispatcher. Sends are fire-and-forget: the reconciler calls Notify
// only after its state commit, and a failed or suppressed send never
// affects the committed state.
package notify

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stridr-app/stridr/internal/domain"
	"github.com/stridr-app/stridr/internal/infra/metrics"
	"github.com/stridr-app/stridr/internal/infra/sqlite"
)

// Dispatcher queues notifications in the outbox, honoring per-user
// category toggles, quiet hours, and a per-day cap.
type Dispatcher struct {
	db     *sqlite.DB
	policy domain.NotificationPolicy
}

// NewDispatcher creates a dispatcher with the default policy.
func NewDispatcher(db *sqlite.DB) *Dispatcher {
	return &Dispatcher{db: db, policy: domain.DefaultNotificationPolicy()}
}

// NewDispatcherWithPolicy creates a dispatcher with a custom policy.
func NewDispatcherWithPolicy(db *sqlite.DB, policy domain.NotificationPolicy) *Dispatcher {
	return &Dispatcher{db: db, policy: policy}
}

// Notify queues n for delivery. Suppression (toggle off, quiet hours,
// daily cap) is not an error. Queue failures are returned so callers
// can log them, but callers must treat them as non-fatal.
func (d *Dispatcher) Notify(ctx context.Context, userID string, n domain.Notification) error {
	prefs, err := d.db.GetPreferences(ctx, userID)
	if err != nil {
		return fmt.Errorf("load toggles: %w", err)
	}
	if !prefs.Notifications.Enabled(n.Category) {
		metrics.NotificationsSuppressed.WithLabelValues("toggle").Inc()
		return nil
	}

	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	if d.isQuietHour(n.CreatedAt) {
		metrics.NotificationsSuppressed.WithLabelValues("quiet_hours").Inc()
		return nil
	}

	if d.policy.MaxPerDay > 0 {
		midnight := time.Date(n.CreatedAt.Year(), n.CreatedAt.Month(), n.CreatedAt.Day(), 0, 0, 0, 0, n.CreatedAt.Location())
		count, err := d.db.NotificationCountSince(ctx, userID, midnight)
		if err != nil {
			return fmt.Errorf("count today: %w", err)
		}
		if count >= d.policy.MaxPerDay {
			log.Printf("[notify] daily cap reached for %s, dropping %s", userID, n.Category)
			metrics.NotificationsSuppressed.WithLabelValues("daily_cap").Inc()
			return nil
		}
	}

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if err := d.db.InsertNotification(ctx, userID, n); err != nil {
		return err
	}
	metrics.NotificationsQueued.WithLabelValues(string(n.Category)).Inc()
	return nil
}

// Pending returns the unshown outbox for the app to drain.
func (d *Dispatcher) Pending(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	return d.db.ListPendingNotifications(ctx, userID, limit)
}

// MarkShown marks a notification as delivered.
func (d *Dispatcher) MarkShown(ctx context.Context, id string) error {
	return d.db.MarkNotificationShown(ctx, id)
}

// Policy returns the active dispatch policy.
func (d *Dispatcher) Policy() domain.NotificationPolicy {
	return d.policy
}

// isQuietHour reports whether t falls inside the quiet window.
func (d *Dispatcher) isQuietHour(t time.Time) bool {
	startHour, startMin := parseHHMM(d.policy.QuietStart)
	endHour, endMin := parseHHMM(d.policy.QuietEnd)

	timeMinutes := t.Hour()*60 + t.Minute()
	startMinutes := startHour*60 + startMin
	endMinutes := endHour*60 + endMin

	if startMinutes > endMinutes {
		// Wraps midnight: e.g. 22:00 – 07:00
		return timeMinutes >= startMinutes || timeMinutes < endMinutes
	}
	return timeMinutes >= startMinutes && timeMinutes < endMinutes
}

// parseHHMM parses "HH:MM" into hour and minute.
func parseHHMM(s string) (int, int) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return h, m
}

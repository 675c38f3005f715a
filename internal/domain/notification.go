package domain

import "time"

// Category gates notifications against per-user toggles.
type Category string

const (
	CategoryGoal       Category = "goal_achieved"
	CategoryBadge      Category = "badge_unlock"
	CategoryMilestone  Category = "milestone"
	CategoryLandmark   Category = "landmark"
	CategoryInactivity Category = "inactivity"
	CategoryReminder   Category = "daily_reminder"
)

// Notification is a user-facing message queued in the outbox for the
// app to deliver. Emission is best-effort: a failed send never rolls
// back the state transition it was derived from.
type Notification struct {
	ID        string    `json:"id"`
	Category  Category  `json:"category"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	Shown     bool      `json:"shown"`
}

// NotificationPolicy bounds dispatch volume: a hard per-day cap plus
// quiet hours during which nothing is delivered.
type NotificationPolicy struct {
	MaxPerDay  int    `json:"max_per_day"`
	QuietStart string `json:"quiet_start"` // "22:00"
	QuietEnd   string `json:"quiet_end"`   // "07:00"
}

// DefaultNotificationPolicy returns the shipping policy.
func DefaultNotificationPolicy() NotificationPolicy {
	return NotificationPolicy{
		MaxPerDay:  12,
		QuietStart: "22:00",
		QuietEnd:   "07:00",
	}
}

package domain

import (
	"context"
	"time"
)

// StepSource is the pedometer collaborator. A source may report
// unavailability (no sensor, permission denied); the orchestrator
// skips that cycle without advancing the watermark and retries on the
// next trigger.
type StepSource interface {
	IsAvailable(ctx context.Context) bool
	RequestPermission(ctx context.Context) (bool, error)

	// StepsBetween returns the step count recorded in (start, end].
	StepsBetween(ctx context.Context, userID string, start, end time.Time) (int64, error)

	// DailyHistory returns per-day totals for the trailing window of
	// days ending at now, oldest first.
	DailyHistory(ctx context.Context, userID string, days int, now time.Time) ([]DailyLog, error)

	// YearlyHistory returns per-day totals for a calendar year.
	YearlyHistory(ctx context.Context, userID string, year int) ([]DailyLog, error)
}

// ProgressStore is the durable, strongly consistent per-user document
// store. GetProgress returns ErrNoProgress when the user has no
// document yet.
type ProgressStore interface {
	GetProgress(ctx context.Context, userID string) (*UserProgress, error)
	SaveProgress(ctx context.Context, p *UserProgress) error

	SaveDailyLog(ctx context.Context, userID string, log DailyLog) error
	GetDailyLogs(ctx context.Context, userID, fromDay, toDay string) ([]DailyLog, error)

	GetPreferences(ctx context.Context, userID string) (Preferences, error)
	SavePreferences(ctx context.Context, userID string, prefs Preferences) error
}

// Notifier dispatches category-gated, fire-and-forget notifications.
// Implementations must not block state persistence; callers invoke it
// only after a successful commit and log failures.
type Notifier interface {
	Notify(ctx context.Context, userID string, n Notification) error
}

// TrailCatalog is the static trail reference data.
type TrailCatalog interface {
	Trail(id string) (Trail, bool)
	All() []Trail
}

// Identity supplies the session's user and the account-creation floor
// for the initial sync watermark.
type Identity struct {
	UserID           string
	AccountCreatedAt time.Time
}

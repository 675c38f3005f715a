// Package domain holds the pure Stridr types and collaborator
// interfaces. The progress aggregate is exclusively mutated by the
// reconciliation orchestrator; everything else reads snapshots.
package domain

import "time"

// DayKey is a calendar day in the caller's local calendar, formatted
// as "2006-01-02". Streaks and daily logs compare at day granularity.
const DayLayout = "2006-01-02"

// Day returns the DayKey for t in t's location.
func Day(t time.Time) string {
	return t.Format(DayLayout)
}

// UserStats are lifetime counters. Monotonically non-decreasing and
// never reset; they survive trail switches and completions.
type UserStats struct {
	TotalStepsLifetime          int64   `json:"total_steps_lifetime"`
	TotalDistanceMetersLifetime float64 `json:"total_distance_meters_lifetime"`
	CompletedTrailsCount        int     `json:"completed_trails_count"`
}

// MonthlyProgress tracks badge counters for one calendar month.
// Archived into PastMonths and replaced with a zeroed instance when
// the wall clock rolls into a new month.
type MonthlyProgress struct {
	Year                    int      `json:"year"`
	Month                   int      `json:"month"` // 1–12
	StepsThisMonth          int64    `json:"steps_this_month"`
	DistanceMetersThisMonth float64  `json:"distance_meters_this_month"`
	UnlockedBadgeIDs        []string `json:"unlocked_badge_ids"`
	MonthlyBadgeEarned      bool     `json:"monthly_badge_earned"`
}

// NewMonthlyProgress returns a zeroed month for the given wall-clock time.
func NewMonthlyProgress(now time.Time) MonthlyProgress {
	return MonthlyProgress{
		Year:  now.Year(),
		Month: int(now.Month()),
	}
}

// Matches reports whether this record belongs to now's calendar month.
func (m MonthlyProgress) Matches(now time.Time) bool {
	return m.Year == now.Year() && m.Month == int(now.Month())
}

// HasBadge reports whether a monthly badge id is already unlocked.
func (m MonthlyProgress) HasBadge(id string) bool {
	for _, b := range m.UnlockedBadgeIDs {
		if b == id {
			return true
		}
	}
	return false
}

// YearlyProgress counts Monthly Master months toward the Yearly Champion.
type YearlyProgress struct {
	Year                int   `json:"year"`
	MonthlyBadgesEarned []int `json:"monthly_badges_earned"` // month numbers, unique
	YearlyBadgeEarned   bool  `json:"yearly_badge_earned"`
}

// HasMonth reports whether the given month number is already recorded.
func (y YearlyProgress) HasMonth(month int) bool {
	for _, m := range y.MonthlyBadgesEarned {
		if m == month {
			return true
		}
	}
	return false
}

// CompletedTrail is the immutable record created exactly once per
// trail completion.
type CompletedTrail struct {
	ID               string    `json:"id"`
	TrailID          string    `json:"trail_id"`
	CompletedDate    time.Time `json:"completed_date"`
	StartDate        time.Time `json:"start_date"`
	TotalSteps       int64     `json:"total_steps"`
	TotalDays        int       `json:"total_days"` // always ≥ 1
	AvgStepsPerDay   int64     `json:"avg_steps_per_day"`
	MaxStepsInOneDay int64     `json:"max_steps_in_one_day"`
}

// UserProgress is the root aggregate, one per user, persisted as a
// single versioned document.
type UserProgress struct {
	UserID string `json:"user_id"`

	// Trail attempt window. Trail-scoped counters reset to zero on
	// trail switch, cancel, and completion.
	SelectedTrailID       string     `json:"selected_trail_id,omitempty"`
	TrailStartDate        *time.Time `json:"trail_start_date,omitempty"`
	TargetDays            int        `json:"target_days"`
	TotalStepsValid       int64      `json:"total_steps_valid"`
	CurrentDistanceMeters float64    `json:"current_distance_meters"`

	Stats UserStats `json:"stats"`

	// LastSyncTime is the watermark: reconciliation only processes
	// the step delta in (LastSyncTime, now].
	LastSyncTime time.Time `json:"last_sync_time"`

	Monthly    MonthlyProgress   `json:"monthly_progress"`
	PastMonths []MonthlyProgress `json:"past_months"`
	Yearly     []YearlyProgress  `json:"yearly_progress"`

	TrailBadges     []string         `json:"trail_badges"`
	CompletedTrails []CompletedTrail `json:"completed_trails"`

	CurrentStreak int    `json:"current_streak"`
	LastLogDate   string `json:"last_log_date,omitempty"` // DayKey

	// Notification de-dup watermarks. Persisted so restarts do not
	// re-fire landmark or daily-goal notifications.
	LandmarksNotified []string `json:"landmarks_notified,omitempty"`
	GoalNotifiedDate  string   `json:"goal_notified_date,omitempty"` // DayKey
}

// NewUserProgress initializes a fresh aggregate. The watermark starts
// at account creation so steps recorded on-device before signup are
// never credited.
func NewUserProgress(userID string, accountCreatedAt time.Time) *UserProgress {
	return &UserProgress{
		UserID:       userID,
		LastSyncTime: accountCreatedAt,
		Monthly:      NewMonthlyProgress(accountCreatedAt),
	}
}

// HasTrailBadge reports whether a lifetime trail badge is unlocked.
func (p *UserProgress) HasTrailBadge(id string) bool {
	for _, b := range p.TrailBadges {
		if b == id {
			return true
		}
	}
	return false
}

// HasCompletedTrail reports whether trailID is already archived.
// Guards against double-crediting a completion.
func (p *UserProgress) HasCompletedTrail(trailID string) bool {
	for _, c := range p.CompletedTrails {
		if c.TrailID == trailID {
			return true
		}
	}
	return false
}

// HasNotifiedLandmark reports whether a landmark event was already
// emitted for the current trail attempt.
func (p *UserProgress) HasNotifiedLandmark(landmarkID string) bool {
	for _, id := range p.LandmarksNotified {
		if id == landmarkID {
			return true
		}
	}
	return false
}

// YearlyFor returns the yearly record for the given year, or nil.
func (p *UserProgress) YearlyFor(year int) *YearlyProgress {
	for i := range p.Yearly {
		if p.Yearly[i].Year == year {
			return &p.Yearly[i]
		}
	}
	return nil
}

// ClearTrail resets the four trail-scoped fields and the per-attempt
// landmark watermarks. Lifetime stats are untouched.
func (p *UserProgress) ClearTrail() {
	p.SelectedTrailID = ""
	p.TrailStartDate = nil
	p.TargetDays = 0
	p.TotalStepsValid = 0
	p.CurrentDistanceMeters = 0
	p.LandmarksNotified = nil
}

// TrailPercent returns completion percent (0–100) against a total
// trail distance, clamped.
func (p *UserProgress) TrailPercent(totalDistanceMeters float64) float64 {
	if totalDistanceMeters <= 0 {
		return 0
	}
	pct := p.CurrentDistanceMeters / totalDistanceMeters * 100
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}

// DailyLog is one day of recorded activity.
type DailyLog struct {
	Date           string  `json:"date"` // DayKey
	Steps          int64   `json:"steps"`
	DistanceMeters float64 `json:"distance_meters"`
}

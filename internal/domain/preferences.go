package domain

// UnitSystem selects the display units for distances.
type UnitSystem string

const (
	UnitsMetric   UnitSystem = "metric"
	UnitsImperial UnitSystem = "imperial"
)

// NotificationToggles are the per-category opt-outs.
type NotificationToggles struct {
	GoalAchieved  bool `json:"goal_achieved"`
	BadgeUnlocks  bool `json:"badge_unlocks"`
	Milestones    bool `json:"milestones"`
	Landmarks     bool `json:"landmarks"`
	Inactivity    bool `json:"inactivity"`
	DailyReminder bool `json:"daily_reminder"`
}

// Preferences is the per-user settings document. Missing fields from
// older schema versions are backfilled with these defaults on load.
type Preferences struct {
	Units         UnitSystem          `json:"units"`
	DailyStepGoal int64               `json:"daily_step_goal"`
	ReminderTime  string              `json:"reminder_time"` // "HH:MM" local
	Notifications NotificationToggles `json:"notifications"`
}

// DefaultPreferences returns the settings a fresh account starts with.
func DefaultPreferences() Preferences {
	return Preferences{
		Units:         UnitsMetric,
		DailyStepGoal: 8000,
		ReminderTime:  "19:00",
		Notifications: NotificationToggles{
			GoalAchieved:  true,
			BadgeUnlocks:  true,
			Milestones:    true,
			Landmarks:     true,
			Inactivity:    true,
			DailyReminder: false,
		},
	}
}

// Enabled reports whether a notification category is switched on.
func (t NotificationToggles) Enabled(c Category) bool {
	switch c {
	case CategoryGoal:
		return t.GoalAchieved
	case CategoryBadge:
		return t.BadgeUnlocks
	case CategoryMilestone:
		return t.Milestones
	case CategoryLandmark:
		return t.Landmarks
	case CategoryInactivity:
		return t.Inactivity
	case CategoryReminder:
		return t.DailyReminder
	}
	return false
}

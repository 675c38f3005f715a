// Package badge implements the Stridr badge catalog and the pure rule
// engine that decides which badges newly unlock for a set of counters.
package badge

import "github.com/stridr-app/stridr/internal/domain"

// MonthlyMasterRequirement is how many of the month's badges must be
// unlocked before the Monthly Master meta-badge is earned.
const MonthlyMasterRequirement = 10

// MonthlyBadgeCount is the total pool of monthly step+distance badges.
const MonthlyBadgeCount = 15

// MonthlyStepBadges reset their availability every calendar month.
func MonthlyStepBadges() []domain.Badge {
	return []domain.Badge{
		{ID: "step-5k", Name: "First Steps", Icon: "👟", ConditionType: domain.CondMonthlySteps, ConditionValue: 5_000},
		{ID: "step-10k", Name: "Warming Up", Icon: "🚶", ConditionType: domain.CondMonthlySteps, ConditionValue: 10_000},
		{ID: "step-25k", Name: "Steady Strider", Icon: "🥾", ConditionType: domain.CondMonthlySteps, ConditionValue: 25_000},
		{ID: "step-50k", Name: "Pathfinder", Icon: "🧭", ConditionType: domain.CondMonthlySteps, ConditionValue: 50_000},
		{ID: "step-100k", Name: "Trailblazer", Icon: "🔥", ConditionType: domain.CondMonthlySteps, ConditionValue: 100_000},
		{ID: "step-150k", Name: "Road Warrior", Icon: "⚔️", ConditionType: domain.CondMonthlySteps, ConditionValue: 150_000},
		{ID: "step-200k", Name: "Marathon Mind", Icon: "🏃", ConditionType: domain.CondMonthlySteps, ConditionValue: 200_000},
		{ID: "step-300k", Name: "Step Legend", Icon: "🏆", ConditionType: domain.CondMonthlySteps, ConditionValue: 300_000},
	}
}

// MonthlyDistanceBadges are measured in meters of simulated distance.
func MonthlyDistanceBadges() []domain.Badge {
	return []domain.Badge{
		{ID: "distance-5km", Name: "Around the Block", Icon: "🏘️", ConditionType: domain.CondMonthlyDistance, ConditionValue: 5_000},
		{ID: "distance-10km", Name: "City Crosser", Icon: "🌆", ConditionType: domain.CondMonthlyDistance, ConditionValue: 10_000},
		{ID: "distance-25km", Name: "Valley Walker", Icon: "🏞️", ConditionType: domain.CondMonthlyDistance, ConditionValue: 25_000},
		{ID: "distance-50km", Name: "Ridge Runner", Icon: "⛰️", ConditionType: domain.CondMonthlyDistance, ConditionValue: 50_000},
		{ID: "distance-75km", Name: "Long Hauler", Icon: "🛤️", ConditionType: domain.CondMonthlyDistance, ConditionValue: 75_000},
		{ID: "distance-100km", Name: "Century Hiker", Icon: "💯", ConditionType: domain.CondMonthlyDistance, ConditionValue: 100_000},
		{ID: "distance-150km", Name: "Distance Demon", Icon: "🌋", ConditionType: domain.CondMonthlyDistance, ConditionValue: 150_000},
	}
}

// TrailBadges are lifetime badges for completed trails. The trail-all
// sentinel unlocks only when every catalog trail is completed.
func TrailBadges() []domain.Badge {
	return []domain.Badge{
		{ID: "trail-1", Name: "First Summit", Icon: "🚩", ConditionType: domain.CondTrailsCompleted, ConditionValue: 1},
		{ID: "trail-3", Name: "Triple Crown", Icon: "👑", ConditionType: domain.CondTrailsCompleted, ConditionValue: 3},
		{ID: "trail-5", Name: "Seasoned Hiker", Icon: "🎒", ConditionType: domain.CondTrailsCompleted, ConditionValue: 5},
		{ID: "trail-10", Name: "Peak Collector", Icon: "🗻", ConditionType: domain.CondTrailsCompleted, ConditionValue: 10},
		{ID: "trail-15", Name: "Range Rover", Icon: "🦅", ConditionType: domain.CondTrailsCompleted, ConditionValue: 15},
		{ID: "trail-25", Name: "World Wanderer", Icon: "🌍", ConditionType: domain.CondTrailsCompleted, ConditionValue: 25},
		{ID: "trail-all", Name: "Every Path Taken", Icon: "✨", ConditionType: domain.CondTrailsCompleted, ConditionValue: domain.AllTrailsSentinel},
	}
}

// MetaBadges are the two meta-badges derived from other badges.
func MetaBadges() []domain.Badge {
	return []domain.Badge{
		{ID: "monthly-master", Name: "Monthly Master", Icon: "🌟", ConditionType: domain.CondMonthlyMaster, ConditionValue: MonthlyMasterRequirement},
		{ID: "yearly-champion", Name: "Yearly Champion", Icon: "🏅", ConditionType: domain.CondYearlyChampion, ConditionValue: 12},
	}
}

// AllMonthlyBadges returns the 15 step+distance monthly badges in
// catalog order. Order is stable: ties in next-badge selection keep
// the first-encountered entry.
func AllMonthlyBadges() []domain.Badge {
	return append(MonthlyStepBadges(), MonthlyDistanceBadges()...)
}

// Catalog returns every badge Stridr defines.
func Catalog() []domain.Badge {
	all := AllMonthlyBadges()
	all = append(all, TrailBadges()...)
	all = append(all, MetaBadges()...)
	return all
}

// Find returns a badge by id from the full catalog.
func Find(id string) (domain.Badge, bool) {
	for _, b := range Catalog() {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Badge{}, false
}

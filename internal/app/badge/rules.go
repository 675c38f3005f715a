package badge

import "github.com/stridr-app/stridr/internal/domain"

// The rule functions are pure, idempotent, and order-independent:
// re-invoking with equal-or-larger counters against an unchanged
// unlocked set never un-unlocks a badge and never double-adds one.

// CheckMonthlyStepBadges returns the step badges newly qualified by
// stepsThisMonth that are not already in alreadyUnlocked.
func CheckMonthlyStepBadges(stepsThisMonth int64, alreadyUnlocked []string) []string {
	return checkThreshold(MonthlyStepBadges(), float64(stepsThisMonth), alreadyUnlocked)
}

// CheckMonthlyDistanceBadges is the distance twin of
// CheckMonthlyStepBadges; the counter is meters.
func CheckMonthlyDistanceBadges(distanceMeters float64, alreadyUnlocked []string) []string {
	return checkThreshold(MonthlyDistanceBadges(), distanceMeters, alreadyUnlocked)
}

// CheckAllMonthlyBadges unions the step and distance checks against a
// month's counters.
func CheckAllMonthlyBadges(m domain.MonthlyProgress) []string {
	newly := CheckMonthlyStepBadges(m.StepsThisMonth, m.UnlockedBadgeIDs)
	newly = append(newly, CheckMonthlyDistanceBadges(m.DistanceMetersThisMonth, m.UnlockedBadgeIDs)...)
	return newly
}

// CheckMonthlyMaster reports whether the Monthly Master meta-badge is
// newly achieved. Returns false once earned; the flag never resets
// within a month, so the meta-badge cannot re-trigger.
func CheckMonthlyMaster(m domain.MonthlyProgress) bool {
	if m.MonthlyBadgeEarned {
		return false
	}
	return len(m.UnlockedBadgeIDs) >= MonthlyMasterRequirement
}

// CheckTrailBadges returns the lifetime trail badges newly qualified
// by completedCount. The trail-all sentinel unlocks only when every
// catalog trail is completed and the catalog is non-empty.
func CheckTrailBadges(completedCount, totalTrailCount int, alreadyUnlocked []string) []string {
	var newly []string
	for _, b := range TrailBadges() {
		if contains(alreadyUnlocked, b.ID) {
			continue
		}
		if b.ConditionValue == domain.AllTrailsSentinel {
			if totalTrailCount > 0 && completedCount >= totalTrailCount {
				newly = append(newly, b.ID)
			}
			continue
		}
		if float64(completedCount) >= b.ConditionValue {
			newly = append(newly, b.ID)
		}
	}
	return newly
}

// CheckYearlyChampion reports whether the Yearly Champion meta-badge
// is newly achieved: Monthly Master in all 12 months of the year.
func CheckYearlyChampion(y domain.YearlyProgress) bool {
	if y.YearlyBadgeEarned {
		return false
	}
	months := make(map[int]bool, len(y.MonthlyBadgesEarned))
	for _, m := range y.MonthlyBadgesEarned {
		months[m] = true
	}
	return len(months) >= 12
}

func checkThreshold(catalog []domain.Badge, counter float64, alreadyUnlocked []string) []string {
	var newly []string
	for _, b := range catalog {
		if contains(alreadyUnlocked, b.ID) {
			continue
		}
		if counter >= b.ConditionValue {
			newly = append(newly, b.ID)
		}
	}
	return newly
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

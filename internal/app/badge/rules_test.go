package badge_test

import (
	"testing"

	"github.com/stridr-app/stridr/internal/app/badge"
	"github.com/stridr-app/stridr/internal/domain"
)

func TestMonthlyStepBadges_Thresholds(t *testing.T) {
	newly := badge.CheckMonthlyStepBadges(25_000, nil)

	want := map[string]bool{"step-5k": true, "step-10k": true, "step-25k": true}
	if len(newly) != len(want) {
		t.Fatalf("expected %d badges, got %v", len(want), newly)
	}
	for _, id := range newly {
		if !want[id] {
			t.Errorf("unexpected badge %q", id)
		}
	}
	for _, id := range newly {
		if id == "step-50k" {
			t.Error("step-50k must not unlock at 25000 steps")
		}
	}
}

func TestMonthlyStepBadges_SkipsAlreadyUnlocked(t *testing.T) {
	newly := badge.CheckMonthlyStepBadges(25_000, []string{"step-5k", "step-10k"})
	if len(newly) != 1 || newly[0] != "step-25k" {
		t.Errorf("expected only step-25k, got %v", newly)
	}
}

func TestMonthlyStepBadges_Idempotent(t *testing.T) {
	first := badge.CheckMonthlyStepBadges(100_000, nil)

	// Re-run with a larger counter and everything already unlocked
	second := badge.CheckMonthlyStepBadges(150_000, first)
	for _, id := range second {
		for _, prev := range first {
			if id == prev {
				t.Errorf("badge %q double-awarded", id)
			}
		}
	}
}

func TestMonthlyDistanceBadges(t *testing.T) {
	newly := badge.CheckMonthlyDistanceBadges(26_000, nil) // 26 km
	want := map[string]bool{"distance-5km": true, "distance-10km": true, "distance-25km": true}
	if len(newly) != len(want) {
		t.Fatalf("expected %d badges, got %v", len(want), newly)
	}
	for _, id := range newly {
		if !want[id] {
			t.Errorf("unexpected badge %q", id)
		}
	}
}

func TestCheckAllMonthlyBadges_Union(t *testing.T) {
	m := domain.MonthlyProgress{
		Year: 2024, Month: 3,
		StepsThisMonth:          12_000,
		DistanceMetersThisMonth: 9_144, // 12000 steps worth
	}
	newly := badge.CheckAllMonthlyBadges(m)

	want := map[string]bool{"step-5k": true, "step-10k": true, "distance-5km": true}
	if len(newly) != len(want) {
		t.Fatalf("expected %d badges, got %v", len(want), newly)
	}
}

func TestMonthlyMaster(t *testing.T) {
	m := domain.MonthlyProgress{UnlockedBadgeIDs: make([]string, 9)}
	if badge.CheckMonthlyMaster(m) {
		t.Error("9 badges must not earn Monthly Master")
	}

	m.UnlockedBadgeIDs = make([]string, 10)
	if !badge.CheckMonthlyMaster(m) {
		t.Error("10 badges should earn Monthly Master")
	}

	// Once earned it never re-triggers
	m.MonthlyBadgeEarned = true
	m.UnlockedBadgeIDs = make([]string, 15)
	if badge.CheckMonthlyMaster(m) {
		t.Error("Monthly Master must not re-trigger")
	}
}

func TestTrailBadges_Thresholds(t *testing.T) {
	newly := badge.CheckTrailBadges(5, 50, nil)
	want := map[string]bool{"trail-1": true, "trail-3": true, "trail-5": true}
	if len(newly) != len(want) {
		t.Fatalf("expected %d badges, got %v", len(want), newly)
	}
}

func TestTrailBadges_AllTrailsSentinel(t *testing.T) {
	newly := badge.CheckTrailBadges(50, 50, nil)
	found := false
	for _, id := range newly {
		if id == "trail-all" {
			found = true
		}
	}
	if !found {
		t.Error("trail-all should unlock at 50/50 completions")
	}

	newly = badge.CheckTrailBadges(49, 50, nil)
	for _, id := range newly {
		if id == "trail-all" {
			t.Error("trail-all must not unlock at 49/50")
		}
	}

	// Empty catalog never unlocks the sentinel
	newly = badge.CheckTrailBadges(0, 0, nil)
	for _, id := range newly {
		if id == "trail-all" {
			t.Error("trail-all must not unlock with an empty catalog")
		}
	}
}

func TestYearlyChampion(t *testing.T) {
	y := domain.YearlyProgress{Year: 2024, MonthlyBadgesEarned: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}}
	if badge.CheckYearlyChampion(y) {
		t.Error("11 months must not earn Yearly Champion")
	}

	y.MonthlyBadgesEarned = append(y.MonthlyBadgesEarned, 12)
	if !badge.CheckYearlyChampion(y) {
		t.Error("12 months should earn Yearly Champion")
	}

	y.YearlyBadgeEarned = true
	if badge.CheckYearlyChampion(y) {
		t.Error("Yearly Champion must not re-trigger")
	}
}

func TestYearlyChampion_DuplicateMonths(t *testing.T) {
	// 12 entries but only 6 distinct months
	y := domain.YearlyProgress{Year: 2024, MonthlyBadgesEarned: []int{1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6}}
	if badge.CheckYearlyChampion(y) {
		t.Error("duplicate month numbers must not count toward 12")
	}
}

func TestCatalogShape(t *testing.T) {
	if n := len(badge.AllMonthlyBadges()); n != badge.MonthlyBadgeCount {
		t.Errorf("monthly badge pool is %d, want %d", n, badge.MonthlyBadgeCount)
	}

	seen := map[string]bool{}
	for _, b := range badge.Catalog() {
		if seen[b.ID] {
			t.Errorf("duplicate badge id %q", b.ID)
		}
		seen[b.ID] = true
	}
}

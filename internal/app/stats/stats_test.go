package stats_test

import (
	"testing"
	"time"

	"github.com/stridr-app/stridr/internal/app/stats"
	"github.com/stridr-app/stridr/internal/domain"
)

func TestCalculateStreak(t *testing.T) {
	tests := []struct {
		name    string
		current int
		lastLog string
		now     time.Time
		want    int
	}{
		{"next day extends", 5, "2024-01-01", time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC), 6},
		{"gap resets", 5, "2024-01-01", time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC), 1},
		{"same day unchanged", 5, "2024-01-01", time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC), 5},
		{"two day gap resets", 3, "2024-01-01", time.Date(2024, 1, 3, 0, 30, 0, 0, time.UTC), 1},
		{"no prior log starts at one", 0, "", time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), 1},
		{"month boundary extends", 2, "2024-01-31", time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stats.CalculateStreak(tt.current, tt.lastLog, tt.now)
			if got != tt.want {
				t.Errorf("CalculateStreak(%d, %q, %v) = %d, want %d",
					tt.current, tt.lastLog, tt.now, got, tt.want)
			}
		})
	}
}

func trailOf(meters float64) domain.Trail {
	return domain.Trail{ID: "test-trail", Name: "Test Trail", TotalDistanceMeters: meters}
}

func TestCheckTrailCompletion_NotYetReached(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &domain.UserProgress{
		SelectedTrailID:       "test-trail",
		TrailStartDate:        &start,
		CurrentDistanceMeters: 999,
		TotalStepsValid:       2000,
	}

	if rec := stats.CheckTrailCompletion(p, trailOf(1000), start.AddDate(0, 0, 4), nil); rec != nil {
		t.Errorf("expected nil before full distance, got %+v", rec)
	}
}

func TestCheckTrailCompletion_Record(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	p := &domain.UserProgress{
		SelectedTrailID:       "test-trail",
		TrailStartDate:        &start,
		CurrentDistanceMeters: 1000,
		TotalStepsValid:       2000,
	}
	logs := []domain.DailyLog{{Date: "2024-01-03", Steps: 1000}}

	rec := stats.CheckTrailCompletion(p, trailOf(1000), now, logs)
	if rec == nil {
		t.Fatal("expected completion record")
	}
	if rec.TotalDays != 5 {
		t.Errorf("TotalDays = %d, want 5", rec.TotalDays)
	}
	if rec.AvgStepsPerDay != 400 {
		t.Errorf("AvgStepsPerDay = %d, want 400", rec.AvgStepsPerDay)
	}
	if rec.MaxStepsInOneDay != 1000 {
		t.Errorf("MaxStepsInOneDay = %d, want 1000", rec.MaxStepsInOneDay)
	}
	if rec.TrailID != "test-trail" {
		t.Errorf("TrailID = %q", rec.TrailID)
	}
	if rec.ID == "" {
		t.Error("record must carry an id")
	}
}

func TestCheckTrailCompletion_DuplicateGuard(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &domain.UserProgress{
		SelectedTrailID:       "test-trail",
		TrailStartDate:        &start,
		CurrentDistanceMeters: 1500,
		TotalStepsValid:       2000,
		CompletedTrails:       []domain.CompletedTrail{{TrailID: "test-trail"}},
	}

	if rec := stats.CheckTrailCompletion(p, trailOf(1000), start.AddDate(0, 0, 2), nil); rec != nil {
		t.Error("already-archived trail must not complete twice")
	}
}

func TestCheckTrailCompletion_MinimumOneDay(t *testing.T) {
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	now := start.Add(2 * time.Hour) // same day
	p := &domain.UserProgress{
		SelectedTrailID:       "test-trail",
		TrailStartDate:        &start,
		CurrentDistanceMeters: 1000,
		TotalStepsValid:       1400,
	}

	rec := stats.CheckTrailCompletion(p, trailOf(1000), now, nil)
	if rec == nil {
		t.Fatal("expected completion record")
	}
	if rec.TotalDays != 1 {
		t.Errorf("TotalDays = %d, want 1 minimum", rec.TotalDays)
	}
	// No logs in range: max falls back to the average, never zero
	if rec.MaxStepsInOneDay != rec.AvgStepsPerDay {
		t.Errorf("MaxStepsInOneDay = %d, want fallback to avg %d", rec.MaxStepsInOneDay, rec.AvgStepsPerDay)
	}
}

func TestCheckTrailCompletion_IgnoresLogsOutsideWindow(t *testing.T) {
	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	now := start.AddDate(0, 0, 3)
	p := &domain.UserProgress{
		SelectedTrailID:       "test-trail",
		TrailStartDate:        &start,
		CurrentDistanceMeters: 1000,
		TotalStepsValid:       3000,
	}
	logs := []domain.DailyLog{
		{Date: "2024-03-01", Steps: 9999}, // before the attempt
		{Date: "2024-03-11", Steps: 1200},
	}

	rec := stats.CheckTrailCompletion(p, trailOf(1000), now, logs)
	if rec == nil {
		t.Fatal("expected completion record")
	}
	if rec.MaxStepsInOneDay != 1200 {
		t.Errorf("MaxStepsInOneDay = %d, want 1200 (pre-attempt log excluded)", rec.MaxStepsInOneDay)
	}
}

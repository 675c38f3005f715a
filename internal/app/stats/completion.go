package stats

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/stridr-app/stridr/internal/domain"
)

// CheckTrailCompletion decides whether the active trail attempt just
// finished and, if so, computes the immutable completion record.
//
// Returns nil when the trail distance is not yet covered, or when the
// trail is already archived in CompletedTrails (duplicate guard: the
// check may legitimately run twice against the same crossed
// threshold).
func CheckTrailCompletion(p *domain.UserProgress, trail domain.Trail, now time.Time, dailyLogs []domain.DailyLog) *domain.CompletedTrail {
	if p.CurrentDistanceMeters < trail.TotalDistanceMeters {
		return nil
	}
	if p.HasCompletedTrail(trail.ID) {
		return nil
	}

	start := now
	if p.TrailStartDate != nil {
		start = *p.TrailStartDate
	}

	totalDays := int(math.Ceil(now.Sub(start).Hours() / 24))
	if totalDays < 1 {
		totalDays = 1
	}

	avg := int64(math.Round(float64(p.TotalStepsValid) / float64(totalDays)))

	// Best single day within the attempt window. Missing history
	// falls back to the average so the record never reports zero.
	maxDay := maxStepsInRange(dailyLogs, domain.Day(start), domain.Day(now))
	if maxDay == 0 {
		maxDay = avg
	}

	return &domain.CompletedTrail{
		ID:               uuid.NewString(),
		TrailID:          trail.ID,
		CompletedDate:    now,
		StartDate:        start,
		TotalSteps:       p.TotalStepsValid,
		TotalDays:        totalDays,
		AvgStepsPerDay:   avg,
		MaxStepsInOneDay: maxDay,
	}
}

// maxStepsInRange scans logs for the largest single-day step count
// with fromDay ≤ date ≤ toDay. DayKeys compare lexicographically.
func maxStepsInRange(logs []domain.DailyLog, fromDay, toDay string) int64 {
	var best int64
	for _, l := range logs {
		if l.Date < fromDay || l.Date > toDay {
			continue
		}
		if l.Steps > best {
			best = l.Steps
		}
	}
	return best
}

// Package stats implements the streak and trail-completion engine.
// Everything here is pure: the orchestrator feeds it snapshots and
// folds the results back into the progress document.
package stats

import (
	"time"

	"github.com/stridr-app/stridr/internal/domain"
)

// CalculateStreak returns the consecutive-day walking streak after a
// sync at now. Dates compare at day granularity in now's local
// calendar:
//   - already logged today → unchanged (idempotent re-entry)
//   - last log was yesterday → streak + 1
//   - gap of two or more days, or no prior log → 1
func CalculateStreak(currentStreak int, lastLogDate string, now time.Time) int {
	if lastLogDate == "" {
		return 1
	}

	today := domain.Day(now)
	if lastLogDate == today {
		return currentStreak
	}

	yesterday := domain.Day(now.AddDate(0, 0, -1))
	if lastLogDate == yesterday {
		return currentStreak + 1
	}

	return 1
}

// Package dashboard derives read-side statistics from the daily
// step-history series. It owns no persisted state: callers pass a
// history snapshot and a progress snapshot and get values back.
package dashboard

import (
	"math"
	"time"

	"github.com/stridr-app/stridr/internal/app/badge"
	"github.com/stridr-app/stridr/internal/domain"
)

// Trend is the direction of the week-over-week change.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendSame Trend = "same"
)

// WeeklyComparison sums this calendar week against last week.
// Weeks start on Sunday in the caller's local calendar.
type WeeklyComparison struct {
	ThisWeek      int64 `json:"this_week"`
	LastWeek      int64 `json:"last_week"`
	ChangePercent int   `json:"change_percent"`
	Trend         Trend `json:"trend"`
}

// GoalRate is goal achievement over the trailing 14 days.
type GoalRate struct {
	DaysHit int `json:"days_hit"`
	Days    int `json:"days"`
	Rate    int `json:"rate"` // always within [0, 100]
}

// Record is a single personal best.
type Record struct {
	Period string `json:"period"` // DayKey, week-start DayKey, or "YYYY-MM"
	Steps  int64  `json:"steps"`
}

// PersonalRecords are running maxima over the whole history.
// Ties keep the first-encountered entry.
type PersonalRecords struct {
	BestDay   Record `json:"best_day"`
	BestWeek  Record `json:"best_week"`
	BestMonth Record `json:"best_month"`
}

// NextBadge is the not-yet-unlocked monthly badge closest to
// unlocking, by completion percentage.
type NextBadge struct {
	Badge   domain.Badge `json:"badge"`
	Percent int          `json:"percent"`
	Current float64      `json:"current"`
}

// goalWindowDays is the trailing window for goal achievement rate.
const goalWindowDays = 14

// Weekly computes the week-over-week comparison at now.
func Weekly(history []domain.DailyLog, now time.Time) WeeklyComparison {
	thisStart := weekStart(now)
	lastStart := thisStart.AddDate(0, 0, -7)

	thisKey := domain.Day(thisStart)
	lastKey := domain.Day(lastStart)
	nowKey := domain.Day(now)

	var c WeeklyComparison
	for _, l := range history {
		switch {
		case l.Date >= thisKey && l.Date <= nowKey:
			c.ThisWeek += l.Steps
		case l.Date >= lastKey && l.Date < thisKey:
			c.LastWeek += l.Steps
		}
	}

	switch {
	case c.LastWeek == 0 && c.ThisWeek > 0:
		c.ChangePercent = 100
	case c.LastWeek == 0:
		c.ChangePercent = 0
	default:
		c.ChangePercent = int(math.Round(float64(c.ThisWeek-c.LastWeek) / float64(c.LastWeek) * 100))
	}

	switch {
	case c.ThisWeek > c.LastWeek:
		c.Trend = TrendUp
	case c.ThisWeek < c.LastWeek:
		c.Trend = TrendDown
	default:
		c.Trend = TrendSame
	}
	return c
}

// MonthlyTotal sums entries on or after the first of now's month.
func MonthlyTotal(history []domain.DailyLog, now time.Time) int64 {
	first := domain.Day(time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()))
	var total int64
	for _, l := range history {
		if l.Date >= first {
			total += l.Steps
		}
	}
	return total
}

// GoalAchievementRate counts goal days over the trailing 14 days,
// inclusive of today.
func GoalAchievementRate(history []domain.DailyLog, dailyGoal int64, now time.Time) GoalRate {
	from := domain.Day(now.AddDate(0, 0, -(goalWindowDays - 1)))
	to := domain.Day(now)

	r := GoalRate{Days: goalWindowDays}
	for _, l := range history {
		if l.Date < from || l.Date > to {
			continue
		}
		if dailyGoal > 0 && l.Steps >= dailyGoal {
			r.DaysHit++
		}
	}
	r.Rate = int(math.Round(float64(r.DaysHit) / float64(goalWindowDays) * 100))
	if r.Rate > 100 {
		r.Rate = 100
	}
	return r
}

// Records computes personal bests by linear scan with running maxima.
func Records(history []domain.DailyLog) PersonalRecords {
	var rec PersonalRecords

	weeks := map[string]int64{}
	months := map[string]int64{}
	var weekOrder, monthOrder []string

	for _, l := range history {
		if l.Steps > rec.BestDay.Steps {
			rec.BestDay = Record{Period: l.Date, Steps: l.Steps}
		}

		day, err := time.Parse(domain.DayLayout, l.Date)
		if err != nil {
			continue
		}
		wk := domain.Day(weekStart(day))
		if _, ok := weeks[wk]; !ok {
			weekOrder = append(weekOrder, wk)
		}
		weeks[wk] += l.Steps

		mo := l.Date[:7] // "YYYY-MM"
		if _, ok := months[mo]; !ok {
			monthOrder = append(monthOrder, mo)
		}
		months[mo] += l.Steps
	}

	// Iteration-order-stable: first-encountered period wins ties.
	for _, wk := range weekOrder {
		if weeks[wk] > rec.BestWeek.Steps {
			rec.BestWeek = Record{Period: wk, Steps: weeks[wk]}
		}
	}
	for _, mo := range monthOrder {
		if months[mo] > rec.BestMonth.Steps {
			rec.BestMonth = Record{Period: mo, Steps: months[mo]}
		}
	}
	return rec
}

// LandmarksReached counts the landmarks passed on the active trail
// plus every landmark of every completed trail: completion implies
// full traversal regardless of where the distance counter stopped.
func LandmarksReached(p *domain.UserProgress, trails domain.TrailCatalog) int {
	count := 0

	if p.SelectedTrailID != "" {
		if t, ok := trails.Trail(p.SelectedTrailID); ok {
			for _, lm := range t.Landmarks {
				if lm.DistanceMeters <= p.CurrentDistanceMeters {
					count++
				}
			}
		}
	}

	for _, c := range p.CompletedTrails {
		if t, ok := trails.Trail(c.TrailID); ok {
			count += len(t.Landmarks)
		}
	}
	return count
}

// NextBadgeProgress selects the not-yet-unlocked monthly badge with
// the highest completion percentage. Ties break by catalog order.
// Returns nil when every monthly badge is already unlocked.
func NextBadgeProgress(m domain.MonthlyProgress) *NextBadge {
	var best *NextBadge
	for _, b := range badge.AllMonthlyBadges() {
		if m.HasBadge(b.ID) {
			continue
		}

		var current float64
		switch b.ConditionType {
		case domain.CondMonthlySteps:
			current = float64(m.StepsThisMonth)
		case domain.CondMonthlyDistance:
			current = m.DistanceMetersThisMonth
		}

		pct := 0
		if b.ConditionValue > 0 {
			pct = int(math.Round(current / b.ConditionValue * 100))
			if pct > 100 {
				pct = 100
			}
		}

		if best == nil || pct > best.Percent {
			nb := NextBadge{Badge: b, Percent: pct, Current: current}
			best = &nb
		}
	}
	return best
}

// ChartSeries returns a fixed-length trailing window of days ending
// today, zero-filling dates missing from history. Sparse data never
// drops days.
func ChartSeries(history []domain.DailyLog, days int, now time.Time) []domain.DailyLog {
	byDay := make(map[string]domain.DailyLog, len(history))
	for _, l := range history {
		byDay[l.Date] = l
	}

	series := make([]domain.DailyLog, 0, days)
	for i := days - 1; i >= 0; i-- {
		key := domain.Day(now.AddDate(0, 0, -i))
		if l, ok := byDay[key]; ok {
			series = append(series, l)
		} else {
			series = append(series, domain.DailyLog{Date: key})
		}
	}
	return series
}

// weekStart truncates t to the preceding Sunday at day granularity.
func weekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -int(day.Weekday()))
}

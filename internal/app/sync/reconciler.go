// Package sync implements the progress reconciliation orchestrator:
// the single state-transition routine that folds a new step delta into
// the persisted progress document, runs the badge and completion
// engines, and emits notification side effects exactly once per event.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log"
	gosync "sync"
	"time"

	"github.com/stridr-app/stridr/internal/app/badge"
	"github.com/stridr-app/stridr/internal/app/stats"
	"github.com/stridr-app/stridr/internal/domain"
	"github.com/stridr-app/stridr/internal/infra/metrics"
)

// milestoneThresholds are the trail-percent marks that fire a
// milestone notification, checked ascending.
var milestoneThresholds = []float64{25, 50, 75}

// Reconciler is the exclusive mutator of the progress aggregate.
// At most one reconciliation runs per user at a time; concurrent
// triggers are rejected with ErrSyncInFlight and coalesce onto the
// next cycle.
type Reconciler struct {
	store    domain.ProgressStore
	source   domain.StepSource
	notifier domain.Notifier
	catalog  domain.TrailCatalog

	mu       gosync.Mutex
	inFlight map[string]bool
}

// New wires the orchestrator to its collaborators.
func New(store domain.ProgressStore, source domain.StepSource, notifier domain.Notifier, catalog domain.TrailCatalog) *Reconciler {
	return &Reconciler{
		store:    store,
		source:   source,
		notifier: notifier,
		catalog:  catalog,
	}
}

// Result summarizes one reconciliation run.
type Result struct {
	Synced           bool     `json:"synced"`
	NewSteps         int64    `json:"new_steps"`
	BadgesUnlocked   []string `json:"badges_unlocked,omitempty"`
	CompletedTrailID string   `json:"completed_trail_id,omitempty"`
	Milestone        float64  `json:"milestone,omitempty"` // 25, 50 or 75; 0 when none fired
	LandmarksReached []string `json:"landmarks_reached,omitempty"`
	GoalAchieved     bool     `json:"goal_achieved"`
	Streak           int      `json:"streak"`
}

// Reconcile runs the full sync state machine for id's user at now.
//
// The transition is all-or-nothing: nothing is persisted until every
// step has run, and notifications are dispatched only after the save
// commits. A context cancellation before the save leaves the stored
// state untouched.
func (r *Reconciler) Reconcile(ctx context.Context, id domain.Identity, now time.Time) (*Result, error) {
	if !r.acquire(id.UserID) {
		return nil, domain.ErrSyncInFlight
	}
	defer r.release(id.UserID)

	started := time.Now()
	res, err := r.reconcile(ctx, id, now)
	metrics.SyncDuration.Observe(time.Since(started).Seconds())
	switch {
	case err != nil:
		metrics.SyncsTotal.WithLabelValues("error").Inc()
	case !res.Synced:
		metrics.SyncsTotal.WithLabelValues("skipped").Inc()
	default:
		metrics.SyncsTotal.WithLabelValues("ok").Inc()
		metrics.LastSyncAge.Set(0)
	}
	return res, err
}

func (r *Reconciler) reconcile(ctx context.Context, id domain.Identity, now time.Time) (*Result, error) {
	p, err := r.loadOrCreate(ctx, id)
	if err != nil {
		return nil, err
	}

	// Clock regression or duplicate invocation: the watermark already
	// covers now, so there is nothing to fold in.
	if !now.After(p.LastSyncTime) {
		return &Result{Synced: false, Streak: p.CurrentStreak}, nil
	}

	// Permission-gated skip. The watermark does not advance, so the
	// window is retried in full on the next trigger.
	if !r.source.IsAvailable(ctx) {
		log.Printf("[sync] step source unavailable for user %s, skipping cycle", id.UserID)
		return &Result{Synced: false, Streak: p.CurrentStreak}, domain.ErrStepSourceUnavailable
	}

	newSteps, err := r.source.StepsBetween(ctx, id.UserID, p.LastSyncTime, now)
	if err != nil {
		return nil, fmt.Errorf("query step delta: %w", err)
	}

	// Month rollover happens before accumulation so a delta straddling
	// the boundary is credited entirely to the new month.
	r.rolloverMonth(p, now)

	// Zero-step syncs still advance the watermark; otherwise the same
	// empty window would be re-queried forever with growing cost.
	if newSteps == 0 {
		p.LastSyncTime = now
		if err := r.store.SaveProgress(ctx, p); err != nil {
			return nil, fmt.Errorf("save progress: %w", err)
		}
		return &Result{Synced: true, Streak: p.CurrentStreak}, nil
	}

	res := &Result{Synced: true, NewSteps: newSteps}
	var events []domain.Notification

	meters := domain.StepsToMeters(newSteps)
	prevDistance := p.CurrentDistanceMeters

	p.Stats.TotalStepsLifetime += newSteps
	p.Stats.TotalDistanceMetersLifetime += meters
	p.Monthly.StepsThisMonth += newSteps
	p.Monthly.DistanceMetersThisMonth += meters

	// Trail-scoped accrual only while a trail is selected. Steps
	// walked with no active trail still count toward lifetime and
	// monthly totals.
	trailActive := p.SelectedTrailID != ""
	if trailActive {
		p.TotalStepsValid += newSteps
		p.CurrentDistanceMeters += meters
	}

	p.CurrentStreak = stats.CalculateStreak(p.CurrentStreak, p.LastLogDate, now)
	p.LastLogDate = domain.Day(now)
	res.Streak = p.CurrentStreak

	todayLog, err := r.upsertTodayLog(ctx, id.UserID, now, newSteps, meters)
	if err != nil {
		return nil, err
	}

	// Monthly badge checks against the possibly rolled-over month.
	newly := badge.CheckAllMonthlyBadges(p.Monthly)
	p.Monthly.UnlockedBadgeIDs = append(p.Monthly.UnlockedBadgeIDs, newly...)
	res.BadgesUnlocked = append(res.BadgesUnlocked, newly...)
	for _, badgeID := range newly {
		events = append(events, badgeEvent(badgeID, now))
	}

	// Meta-badges: monthly master, then yearly champion.
	if badge.CheckMonthlyMaster(p.Monthly) {
		p.Monthly.MonthlyBadgeEarned = true
		res.BadgesUnlocked = append(res.BadgesUnlocked, "monthly-master")
		events = append(events, badgeEvent("monthly-master", now))

		yearly := p.YearlyFor(p.Monthly.Year)
		if yearly == nil {
			p.Yearly = append(p.Yearly, domain.YearlyProgress{Year: p.Monthly.Year})
			yearly = &p.Yearly[len(p.Yearly)-1]
		}
		if !yearly.HasMonth(p.Monthly.Month) {
			yearly.MonthlyBadgesEarned = append(yearly.MonthlyBadgesEarned, p.Monthly.Month)
		}
		if badge.CheckYearlyChampion(*yearly) {
			yearly.YearlyBadgeEarned = true
			res.BadgesUnlocked = append(res.BadgesUnlocked, "yearly-champion")
			events = append(events, badgeEvent("yearly-champion", now))
		}
	}

	// Trail completion supersedes milestone and landmark events for
	// the same delta: a just-finished trail fires only its completion.
	if trailActive {
		trail, ok := r.catalog.Trail(p.SelectedTrailID)
		if !ok {
			// Catalog drift: the selected trail no longer ships.
			// Drop the selection rather than accrue forever.
			log.Printf("[sync] selected trail %s not in catalog, clearing", p.SelectedTrailID)
			p.ClearTrail()
		} else if rec := r.checkCompletion(ctx, p, trail, now); rec != nil {
			p.CompletedTrails = append(p.CompletedTrails, *rec)
			p.Stats.CompletedTrailsCount = len(p.CompletedTrails)

			newTrailBadges := badge.CheckTrailBadges(len(p.CompletedTrails), len(r.catalog.All()), p.TrailBadges)
			p.TrailBadges = append(p.TrailBadges, newTrailBadges...)
			res.BadgesUnlocked = append(res.BadgesUnlocked, newTrailBadges...)
			for _, badgeID := range newTrailBadges {
				events = append(events, badgeEvent(badgeID, now))
			}

			p.ClearTrail()
			res.CompletedTrailID = trail.ID
			events = append(events, domain.Notification{
				Category:  domain.CategoryMilestone,
				Title:     "Trail completed!",
				Body:      fmt.Sprintf("You finished the %s. %d days, %d steps.", trail.Name, rec.TotalDays, rec.TotalSteps),
				CreatedAt: now,
			})
			metrics.TrailCompletions.WithLabelValues(trail.ID).Inc()
		} else {
			// Milestone: at most one per sync, first threshold crossed
			// in ascending order.
			prevPct := percentOf(prevDistance, trail.TotalDistanceMeters)
			newPct := percentOf(p.CurrentDistanceMeters, trail.TotalDistanceMeters)
			for _, t := range milestoneThresholds {
				if prevPct < t && newPct >= t {
					res.Milestone = t
					events = append(events, domain.Notification{
						Category:  domain.CategoryMilestone,
						Title:     fmt.Sprintf("%.0f%% of %s", t, trail.Name),
						Body:      fmt.Sprintf("You've covered %.1f of %.1f km.", domain.MetersToKm(p.CurrentDistanceMeters), domain.MetersToKm(trail.TotalDistanceMeters)),
						CreatedAt: now,
					})
					break
				}
			}

			// Landmarks: every newly passed checkpoint, de-duplicated
			// by the persisted per-attempt watermark.
			for _, lm := range trail.Landmarks {
				if lm.DistanceMeters > p.CurrentDistanceMeters || p.HasNotifiedLandmark(lm.ID) {
					continue
				}
				p.LandmarksNotified = append(p.LandmarksNotified, lm.ID)
				res.LandmarksReached = append(res.LandmarksReached, lm.ID)
				events = append(events, domain.Notification{
					Category:  domain.CategoryLandmark,
					Title:     "Landmark reached",
					Body:      fmt.Sprintf("You reached %s on the %s.", lm.Name, trail.Name),
					CreatedAt: now,
				})
			}
		}
	}

	// Daily goal: at most once per calendar day, de-duplicated by the
	// persisted watermark.
	prefs, err := r.store.GetPreferences(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	today := domain.Day(now)
	if todayLog.Steps >= prefs.DailyStepGoal && p.GoalNotifiedDate != today {
		p.GoalNotifiedDate = today
		res.GoalAchieved = true
		events = append(events, domain.Notification{
			Category:  domain.CategoryGoal,
			Title:     "Daily goal achieved!",
			Body:      fmt.Sprintf("%d steps today — goal of %d reached.", todayLog.Steps, prefs.DailyStepGoal),
			CreatedAt: now,
		})
	}

	p.LastSyncTime = now
	if err := r.store.SaveProgress(ctx, p); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}

	metrics.StepsProcessed.Add(float64(newSteps))
	metrics.StreakLength.Set(float64(p.CurrentStreak))
	for _, badgeID := range res.BadgesUnlocked {
		metrics.BadgesUnlocked.WithLabelValues(badgeID).Inc()
	}

	// Side effects fire only after the commit, best-effort. A failed
	// send is logged and never rolls back the transition.
	for _, n := range events {
		if err := r.notifier.Notify(ctx, id.UserID, n); err != nil {
			log.Printf("[sync] notification dispatch failed (%s): %v", n.Category, err)
		}
	}

	return res, nil
}

// loadOrCreate fetches the progress document, initializing a fresh one
// with the account-creation watermark on first sync.
func (r *Reconciler) loadOrCreate(ctx context.Context, id domain.Identity) (*domain.UserProgress, error) {
	p, err := r.store.GetProgress(ctx, id.UserID)
	if errors.Is(err, domain.ErrNoProgress) {
		return domain.NewUserProgress(id.UserID, id.AccountCreatedAt), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return p, nil
}

// rolloverMonth archives the current month and starts a zeroed one
// when the wall clock has moved past it. Runs before accumulation.
func (r *Reconciler) rolloverMonth(p *domain.UserProgress, now time.Time) {
	if p.Monthly.Matches(now) {
		return
	}
	p.PastMonths = append(p.PastMonths, p.Monthly)
	p.Monthly = domain.NewMonthlyProgress(now)
}

// upsertTodayLog folds the delta into today's daily log row and
// returns the updated row.
func (r *Reconciler) upsertTodayLog(ctx context.Context, userID string, now time.Time, steps int64, meters float64) (domain.DailyLog, error) {
	today := domain.Day(now)
	existing, err := r.store.GetDailyLogs(ctx, userID, today, today)
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("load daily log: %w", err)
	}

	row := domain.DailyLog{Date: today}
	if len(existing) > 0 {
		row = existing[0]
	}
	row.Steps += steps
	row.DistanceMeters += meters

	if err := r.store.SaveDailyLog(ctx, userID, row); err != nil {
		return domain.DailyLog{}, fmt.Errorf("save daily log: %w", err)
	}
	return row, nil
}

// checkCompletion gathers the attempt window's daily logs and runs the
// completion engine. A log-fetch failure degrades to an empty history;
// the engine falls back to the average for the best-day stat.
func (r *Reconciler) checkCompletion(ctx context.Context, p *domain.UserProgress, trail domain.Trail, now time.Time) *domain.CompletedTrail {
	var logs []domain.DailyLog
	if p.TrailStartDate != nil {
		var err error
		logs, err = r.store.GetDailyLogs(ctx, p.UserID, domain.Day(*p.TrailStartDate), domain.Day(now))
		if err != nil {
			log.Printf("[sync] daily log fetch for completion failed: %v", err)
		}
	}
	return stats.CheckTrailCompletion(p, trail, now, logs)
}

func (r *Reconciler) acquire(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inFlight == nil {
		r.inFlight = make(map[string]bool)
	}
	if r.inFlight[userID] {
		return false
	}
	r.inFlight[userID] = true
	return true
}

func (r *Reconciler) release(userID string) {
	r.mu.Lock()
	delete(r.inFlight, userID)
	r.mu.Unlock()
}

func percentOf(meters, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return meters / total * 100
}

func badgeEvent(badgeID string, now time.Time) domain.Notification {
	title := "Badge unlocked!"
	body := badgeID
	if b, ok := badge.Find(badgeID); ok {
		body = fmt.Sprintf("%s — %s", b.Name, b.Description)
	}
	return domain.Notification{
		Category:  domain.CategoryBadge,
		Title:     title,
		Body:      body,
		CreatedAt: now,
	}
}

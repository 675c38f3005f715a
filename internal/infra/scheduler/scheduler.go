// Package scheduler drives the background triggers: the periodic
// reconciliation cycle, the daily walk reminder, and the inactivity
// nudge. Jobs run on a gocron scheduler owned by the daemon.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	appsync "github.com/stridr-app/stridr/internal/app/sync"
	"github.com/stridr-app/stridr/internal/domain"
)

// Syncer runs one reconciliation cycle.
type Syncer interface {
	Reconcile(ctx context.Context, id domain.Identity, now time.Time) (*appsync.Result, error)
}

// Config bounds the trigger cadence.
type Config struct {
	SyncInterval        time.Duration // default 1h
	InactivityAfterDays int           // nudge after this many idle days (default 3)
}

// DefaultConfig returns the shipping trigger cadence.
func DefaultConfig() Config {
	return Config{
		SyncInterval:        time.Hour,
		InactivityAfterDays: 3,
	}
}

// Triggers owns the recurring jobs for one user session.
type Triggers struct {
	cfg      Config
	syncer   Syncer
	store    domain.ProgressStore
	notifier domain.Notifier
	identity domain.Identity

	sched gocron.Scheduler
}

// New builds the trigger set. Start must be called to arm the jobs.
func New(cfg Config, syncer Syncer, store domain.ProgressStore, notifier domain.Notifier, identity domain.Identity) *Triggers {
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = time.Hour
	}
	if cfg.InactivityAfterDays <= 0 {
		cfg.InactivityAfterDays = 3
	}
	return &Triggers{
		cfg:      cfg,
		syncer:   syncer,
		store:    store,
		notifier: notifier,
		identity: identity,
	}
}

// Start arms the recurring jobs. The reminder job is scheduled at the
// user's configured reminder time; preference changes take effect on
// the next daemon restart.
func (t *Triggers) Start(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	t.sched = sched

	_, err = sched.NewJob(
		gocron.DurationJob(t.cfg.SyncInterval),
		gocron.NewTask(func() { t.RunSync(ctx) }),
	)
	if err != nil {
		return fmt.Errorf("register sync job: %w", err)
	}

	prefs, err := t.store.GetPreferences(ctx, t.identity.UserID)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	hour, minute := parseHHMM(prefs.ReminderTime)

	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(uint(hour), uint(minute), 0))),
		gocron.NewTask(func() { t.RunDailyReminder(ctx) }),
	)
	if err != nil {
		return fmt.Errorf("register reminder job: %w", err)
	}

	// Inactivity is checked once a day, mid-morning.
	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(10, 0, 0))),
		gocron.NewTask(func() { t.RunInactivityCheck(ctx) }),
	)
	if err != nil {
		return fmt.Errorf("register inactivity job: %w", err)
	}

	sched.Start()
	log.Printf("[scheduler] armed: sync every %s, reminder at %02d:%02d", t.cfg.SyncInterval, hour, minute)
	return nil
}

// Stop shuts the scheduler down, waiting for running jobs.
func (t *Triggers) Stop() error {
	if t.sched == nil {
		return nil
	}
	return t.sched.Shutdown()
}

// RunSync is the periodic reconciliation job body.
func (t *Triggers) RunSync(ctx context.Context) {
	res, err := t.syncer.Reconcile(ctx, t.identity, time.Now())
	switch {
	case errors.Is(err, domain.ErrSyncInFlight):
		// A manual sync is running; this cycle coalesces onto it.
	case errors.Is(err, domain.ErrStepSourceUnavailable):
		log.Printf("[scheduler] sync skipped: step source unavailable")
	case err != nil:
		log.Printf("[scheduler] sync failed: %v", err)
	case res.Synced:
		log.Printf("[scheduler] sync ok: %d new steps, streak %d", res.NewSteps, res.Streak)
	}
}

// RunDailyReminder sends the walk reminder. The dispatcher suppresses
// it when the user has the category switched off.
func (t *Triggers) RunDailyReminder(ctx context.Context) {
	err := t.notifier.Notify(ctx, t.identity.UserID, domain.Notification{
		Category:  domain.CategoryReminder,
		Title:     "Time for a walk",
		Body:      "Log some steps toward today's goal.",
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Printf("[scheduler] reminder dispatch failed: %v", err)
	}
}

// RunInactivityCheck nudges the user after a run of idle days. Runs
// daily, so at most one nudge per day.
func (t *Triggers) RunInactivityCheck(ctx context.Context) {
	idle, err := t.IdleDays(ctx, time.Now())
	if err != nil {
		log.Printf("[scheduler] inactivity check failed: %v", err)
		return
	}
	if idle < t.cfg.InactivityAfterDays {
		return
	}

	err = t.notifier.Notify(ctx, t.identity.UserID, domain.Notification{
		Category:  domain.CategoryInactivity,
		Title:     "We miss you on the trail",
		Body:      fmt.Sprintf("No steps logged for %d days. A short walk keeps the streak alive.", idle),
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Printf("[scheduler] nudge dispatch failed: %v", err)
	}
}

// IdleDays returns how many whole days have passed since the last
// logged activity. A user with no progress yet is idle zero days.
func (t *Triggers) IdleDays(ctx context.Context, now time.Time) (int, error) {
	p, err := t.store.GetProgress(ctx, t.identity.UserID)
	if errors.Is(err, domain.ErrNoProgress) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if p.LastLogDate == "" {
		return 0, nil
	}

	last, err := time.ParseInLocation(domain.DayLayout, p.LastLogDate, now.Location())
	if err != nil {
		return 0, fmt.Errorf("parse last log date: %w", err)
	}

	today, _ := time.ParseInLocation(domain.DayLayout, domain.Day(now), now.Location())
	idle := int(today.Sub(last).Hours() / 24)
	if idle < 0 {
		idle = 0
	}
	return idle, nil
}

func parseHHMM(s string) (int, int) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 19, 0
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 19, 0
	}
	return h, m
}

package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stridr-app/stridr/internal/domain"
)

// ─── Fakes ──────────────────────────────────────────────────────────────────

type fakeStore struct {
	progress map[string]*domain.UserProgress
	logs     map[string]map[string]domain.DailyLog // userID → day → log
	prefs    map[string]domain.Preferences
	saveErr  error
	saves    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		progress: make(map[string]*domain.UserProgress),
		logs:     make(map[string]map[string]domain.DailyLog),
		prefs:    make(map[string]domain.Preferences),
	}
}

func (s *fakeStore) GetProgress(_ context.Context, userID string) (*domain.UserProgress, error) {
	p, ok := s.progress[userID]
	if !ok {
		return nil, domain.ErrNoProgress
	}
	cp := *p
	return &cp, nil
}

func (s *fakeStore) SaveProgress(_ context.Context, p *domain.UserProgress) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	cp := *p
	s.progress[p.UserID] = &cp
	s.saves++
	return nil
}

func (s *fakeStore) SaveDailyLog(_ context.Context, userID string, log domain.DailyLog) error {
	if s.logs[userID] == nil {
		s.logs[userID] = make(map[string]domain.DailyLog)
	}
	s.logs[userID][log.Date] = log
	return nil
}

func (s *fakeStore) GetDailyLogs(_ context.Context, userID, fromDay, toDay string) ([]domain.DailyLog, error) {
	var out []domain.DailyLog
	for day, l := range s.logs[userID] {
		if day >= fromDay && (toDay == "" || day <= toDay) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *fakeStore) GetPreferences(_ context.Context, userID string) (domain.Preferences, error) {
	if p, ok := s.prefs[userID]; ok {
		return p, nil
	}
	return domain.DefaultPreferences(), nil
}

func (s *fakeStore) SavePreferences(_ context.Context, userID string, prefs domain.Preferences) error {
	s.prefs[userID] = prefs
	return nil
}

type fakeSource struct {
	available bool
	steps     int64
	err       error
}

func (s *fakeSource) IsAvailable(context.Context) bool { return s.available }

func (s *fakeSource) RequestPermission(context.Context) (bool, error) { return s.available, nil }

func (s *fakeSource) StepsBetween(context.Context, string, time.Time, time.Time) (int64, error) {
	return s.steps, s.err
}

func (s *fakeSource) DailyHistory(context.Context, string, int, time.Time) ([]domain.DailyLog, error) {
	return nil, nil
}

func (s *fakeSource) YearlyHistory(context.Context, string, int) ([]domain.DailyLog, error) {
	return nil, nil
}

type fakeNotifier struct {
	sent []domain.Notification
	err  error
}

func (n *fakeNotifier) Notify(_ context.Context, _ string, msg domain.Notification) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *fakeNotifier) byCategory(c domain.Category) []domain.Notification {
	var out []domain.Notification
	for _, m := range n.sent {
		if m.Category == c {
			out = append(out, m)
		}
	}
	return out
}

type fakeCatalog struct{ trails []domain.Trail }

func (f *fakeCatalog) Trail(id string) (domain.Trail, bool) {
	for _, t := range f.trails {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Trail{}, false
}

func (f *fakeCatalog) All() []domain.Trail { return f.trails }

// ─── Harness ────────────────────────────────────────────────────────────────

var testTrail = domain.Trail{
	ID:                  "short-loop",
	Name:                "Short Loop",
	TotalDistanceMeters: 1000,
	SuggestedDays:       2,
	Landmarks: []domain.Landmark{
		{ID: "sl-bridge", Name: "Old Bridge", DistanceMeters: 300},
		{ID: "sl-summit", Name: "Summit", DistanceMeters: 800},
	},
}

type harness struct {
	store    *fakeStore
	source   *fakeSource
	notifier *fakeNotifier
	rec      *Reconciler
	id       domain.Identity
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := newFakeStore()
	source := &fakeSource{available: true}
	notifier := &fakeNotifier{}
	cat := &fakeCatalog{trails: []domain.Trail{testTrail}}
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &harness{
		store:    store,
		source:   source,
		notifier: notifier,
		rec:      New(store, source, notifier, cat),
		id:       domain.Identity{UserID: "u1", AccountCreatedAt: created},
	}
}

func (h *harness) sync(t *testing.T, steps int64, now time.Time) *Result {
	t.Helper()
	h.source.steps = steps
	res, err := h.rec.Reconcile(context.Background(), h.id, now)
	if err != nil {
		t.Fatalf("Reconcile() error: %v", err)
	}
	return res
}

func (h *harness) progress(t *testing.T) *domain.UserProgress {
	t.Helper()
	p, err := h.store.GetProgress(context.Background(), h.id.UserID)
	if err != nil {
		t.Fatalf("GetProgress() error: %v", err)
	}
	return p
}

// ─── Core transitions ───────────────────────────────────────────────────────

func TestFirstSyncCreatesProgress(t *testing.T) {
	h := newHarness(t)
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

	res := h.sync(t, 5000, now)
	if !res.Synced || res.NewSteps != 5000 {
		t.Fatalf("unexpected result: %+v", res)
	}

	p := h.progress(t)
	if p.Stats.TotalStepsLifetime != 5000 {
		t.Errorf("lifetime steps = %d, want 5000", p.Stats.TotalStepsLifetime)
	}
	wantMeters := domain.StepsToMeters(5000)
	if p.Stats.TotalDistanceMetersLifetime != wantMeters {
		t.Errorf("lifetime distance = %f, want %f", p.Stats.TotalDistanceMetersLifetime, wantMeters)
	}
	if !p.LastSyncTime.Equal(now) {
		t.Errorf("watermark = %v, want %v", p.LastSyncTime, now)
	}
	if p.CurrentStreak != 1 {
		t.Errorf("streak = %d, want 1", p.CurrentStreak)
	}
	// step-5k unlocks at exactly 5000
	if !p.Monthly.HasBadge("step-5k") {
		t.Error("step-5k not unlocked at 5000 monthly steps")
	}
}

func TestIdempotentResync(t *testing.T) {
	h := newHarness(t)
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

	h.sync(t, 5000, now)
	before := h.progress(t)

	// Same now: watermark already covers it, second call is a no-op.
	res := h.sync(t, 5000, now)
	if res.Synced {
		t.Fatal("second sync at same now should not process")
	}
	after := h.progress(t)
	if after.Stats.TotalStepsLifetime != before.Stats.TotalStepsLifetime {
		t.Error("lifetime steps changed on idempotent re-sync")
	}

	// Earlier now (clock regression): also a no-op.
	res = h.sync(t, 5000, now.Add(-time.Hour))
	if res.Synced {
		t.Fatal("sync with regressed clock should not process")
	}
}

func TestWatermarkAdvancesOnZeroSteps(t *testing.T) {
	h := newHarness(t)
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

	res := h.sync(t, 0, now)
	if !res.Synced {
		t.Fatal("zero-step sync should still commit the watermark")
	}
	p := h.progress(t)
	if !p.LastSyncTime.Equal(now) {
		t.Errorf("watermark = %v, want %v", p.LastSyncTime, now)
	}
	if p.Stats.TotalStepsLifetime != 0 {
		t.Errorf("lifetime steps = %d, want 0", p.Stats.TotalStepsLifetime)
	}
	if p.CurrentStreak != 0 {
		t.Errorf("streak = %d, want 0 (no steps logged)", p.CurrentStreak)
	}
}

func TestUnavailableSourceSkipsWithoutAdvancing(t *testing.T) {
	h := newHarness(t)
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	h.sync(t, 1000, now)

	h.source.available = false
	h.source.steps = 9999
	_, err := h.rec.Reconcile(context.Background(), h.id, now.Add(time.Hour))
	if !errors.Is(err, domain.ErrStepSourceUnavailable) {
		t.Fatalf("err = %v, want ErrStepSourceUnavailable", err)
	}

	p := h.progress(t)
	if !p.LastSyncTime.Equal(now) {
		t.Errorf("watermark advanced on unavailable source: %v", p.LastSyncTime)
	}
	if p.Stats.TotalStepsLifetime != 1000 {
		t.Errorf("lifetime steps = %d, want 1000", p.Stats.TotalStepsLifetime)
	}
}

func TestWatermarkMonotonic(t *testing.T) {
	h := newHarness(t)
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	var last time.Time
	for i := 0; i < 10; i++ {
		now = now.Add(3 * time.Hour)
		h.sync(t, 500, now)
		p := h.progress(t)
		if p.LastSyncTime.Before(last) {
			t.Fatalf("watermark went backwards: %v < %v", p.LastSyncTime, last)
		}
		if p.LastSyncTime.After(now) {
			t.Fatalf("watermark %v ahead of now %v", p.LastSyncTime, now)
		}
		last = p.LastSyncTime
	}
}

func TestLifetimeStatsMonotonic(t *testing.T) {
	h := newHarness(t)
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	var lastSteps int64
	var lastMeters float64
	deltas := []int64{100, 0, 2500, 0, 1}
	for _, d := range deltas {
		now = now.Add(6 * time.Hour)
		h.sync(t, d, now)
		p := h.progress(t)
		if p.Stats.TotalStepsLifetime < lastSteps {
			t.Fatalf("lifetime steps decreased: %d < %d", p.Stats.TotalStepsLifetime, lastSteps)
		}
		if p.Stats.TotalDistanceMetersLifetime < lastMeters {
			t.Fatalf("lifetime distance decreased")
		}
		lastSteps = p.Stats.TotalStepsLifetime
		lastMeters = p.Stats.TotalDistanceMetersLifetime
	}
}

func TestStreakAcrossDays(t *testing.T) {
	h := newHarness(t)

	h.sync(t, 100, time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC))
	if got := h.progress(t).CurrentStreak; got != 1 {
		t.Fatalf("day 1 streak = %d, want 1", got)
	}

	h.sync(t, 100, time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC))
	if got := h.progress(t).CurrentStreak; got != 2 {
		t.Fatalf("day 2 streak = %d, want 2", got)
	}

	// Second sync same day leaves the streak alone.
	h.sync(t, 100, time.Date(2024, 1, 3, 18, 0, 0, 0, time.UTC))
	if got := h.progress(t).CurrentStreak; got != 2 {
		t.Fatalf("same-day re-sync streak = %d, want 2", got)
	}

	// Gap of two days resets.
	h.sync(t, 100, time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC))
	if got := h.progress(t).CurrentStreak; got != 1 {
		t.Fatalf("post-gap streak = %d, want 1", got)
	}
}

// ─── Month rollover ─────────────────────────────────────────────────────────

func TestMonthRolloverCreditsNewMonth(t *testing.T) {
	h := newHarness(t)

	h.sync(t, 7000, time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC))
	p := h.progress(t)
	if p.Monthly.StepsThisMonth != 7000 {
		t.Fatalf("january steps = %d, want 7000", p.Monthly.StepsThisMonth)
	}

	// Window straddles Jan 31 23:00 → Feb 1 01:00. The full delta is
	// credited to February.
	h.sync(t, 3000, time.Date(2024, 2, 1, 1, 0, 0, 0, time.UTC))
	p = h.progress(t)
	if p.Monthly.Year != 2024 || p.Monthly.Month != 2 {
		t.Fatalf("current month = %d-%d, want 2024-2", p.Monthly.Year, p.Monthly.Month)
	}
	if p.Monthly.StepsThisMonth != 3000 {
		t.Errorf("february steps = %d, want 3000", p.Monthly.StepsThisMonth)
	}
	if len(p.PastMonths) != 1 {
		t.Fatalf("archived months = %d, want 1", len(p.PastMonths))
	}
	if p.PastMonths[0].Month != 1 || p.PastMonths[0].StepsThisMonth != 7000 {
		t.Errorf("archived january = %+v", p.PastMonths[0])
	}
	if p.Stats.TotalStepsLifetime != 10000 {
		t.Errorf("lifetime steps = %d, want 10000", p.Stats.TotalStepsLifetime)
	}
}

func TestMonthRolloverOnZeroStepSync(t *testing.T) {
	h := newHarness(t)

	h.sync(t, 500, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))
	h.sync(t, 0, time.Date(2024, 2, 2, 12, 0, 0, 0, time.UTC))

	p := h.progress(t)
	if p.Monthly.Month != 2 {
		t.Errorf("month = %d, want 2 (rollover must run on zero-step syncs)", p.Monthly.Month)
	}
	if len(p.PastMonths) != 1 {
		t.Errorf("archived months = %d, want 1", len(p.PastMonths))
	}
}

// ─── Badges ─────────────────────────────────────────────────────────────────

func TestBadgeMonotonicity(t *testing.T) {
	h := newHarness(t)
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	h.source.steps = 12000
	h.rec.Reconcile(context.Background(), h.id, now.Add(time.Hour))
	first := h.progress(t).Monthly.UnlockedBadgeIDs

	seen := make(map[string]bool)
	for _, id := range first {
		if seen[id] {
			t.Fatalf("duplicate badge id %q", id)
		}
		seen[id] = true
	}

	h.sync(t, 20000, now.Add(2*time.Hour))
	second := h.progress(t).Monthly.UnlockedBadgeIDs
	for _, id := range first {
		found := false
		for _, id2 := range second {
			if id == id2 {
				found = true
			}
		}
		if !found {
			t.Fatalf("badge %q disappeared after later sync", id)
		}
	}
	p := h.progress(t)
	if !p.Monthly.HasBadge("step-25k") {
		t.Error("step-25k not unlocked at 32000 monthly steps")
	}
}

func TestBadgeNotificationsDispatched(t *testing.T) {
	h := newHarness(t)
	h.sync(t, 10000, time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC))

	// 10000 steps = 7620 m → step-5k, step-10k, distance-5km
	unlocks := h.notifier.byCategory(domain.CategoryBadge)
	if len(unlocks) != 3 {
		t.Fatalf("badge notifications = %d, want 3: %+v", len(unlocks), unlocks)
	}
}

func TestNotifierFailureDoesNotBlockCommit(t *testing.T) {
	h := newHarness(t)
	h.notifier.err = errors.New("queue full")

	res := h.sync(t, 10000, time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC))
	if !res.Synced {
		t.Fatal("sync should succeed despite notifier failure")
	}
	p := h.progress(t)
	if p.Stats.TotalStepsLifetime != 10000 {
		t.Errorf("state not committed: lifetime steps = %d", p.Stats.TotalStepsLifetime)
	}
}

// ─── Trail progression ──────────────────────────────────────────────────────

func TestTrailScopedAccrualOnlyWhenSelected(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	// Steps with no trail: lifetime only.
	h.sync(t, 200, time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC))
	p := h.progress(t)
	if p.TotalStepsValid != 0 || p.CurrentDistanceMeters != 0 {
		t.Fatalf("trail counters accrued with no trail: %+v", p)
	}

	if _, err := h.rec.SelectTrail(ctx, h.id, testTrail.ID, time.Date(2024, 1, 2, 11, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("SelectTrail() error: %v", err)
	}

	h.sync(t, 200, time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC))
	p = h.progress(t)
	if p.TotalStepsValid != 200 {
		t.Errorf("trail steps = %d, want 200", p.TotalStepsValid)
	}
	if p.CurrentDistanceMeters != domain.StepsToMeters(200) {
		t.Errorf("trail distance = %f", p.CurrentDistanceMeters)
	}
	if p.Stats.TotalStepsLifetime != 400 {
		t.Errorf("lifetime steps = %d, want 400", p.Stats.TotalStepsLifetime)
	}
}

func TestMilestoneFiresOnceAscending(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.rec.SelectTrail(ctx, h.id, testTrail.ID, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))

	// 400 steps = 304.8 m = 30.5% of 1000 m: crosses 25 only, even
	// though the delta spans from 0.
	res := h.sync(t, 400, time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC))
	if res.Milestone != 25 {
		t.Fatalf("milestone = %v, want 25", res.Milestone)
	}

	// 400 more → 609.6 m = 61%: crossed 50 but not 75. One event.
	res = h.sync(t, 400, time.Date(2024, 1, 2, 14, 0, 0, 0, time.UTC))
	if res.Milestone != 50 {
		t.Fatalf("milestone = %v, want 50", res.Milestone)
	}

	// Within the same band: no milestone.
	res = h.sync(t, 10, time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC))
	if res.Milestone != 0 {
		t.Fatalf("milestone = %v, want none", res.Milestone)
	}
}

func TestLandmarksNotifiedOncePerAttempt(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.rec.SelectTrail(ctx, h.id, testTrail.ID, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))

	// 500 steps = 381 m: past the 300 m bridge landmark.
	res := h.sync(t, 500, time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC))
	if len(res.LandmarksReached) != 1 || res.LandmarksReached[0] != "sl-bridge" {
		t.Fatalf("landmarks = %v, want [sl-bridge]", res.LandmarksReached)
	}

	// Next sync stays past the bridge but short of the summit.
	res = h.sync(t, 100, time.Date(2024, 1, 2, 14, 0, 0, 0, time.UTC))
	if len(res.LandmarksReached) != 0 {
		t.Fatalf("landmarks re-fired: %v", res.LandmarksReached)
	}

	// The watermark is persisted: a fresh reconciler (process restart)
	// still suppresses the duplicate.
	h2 := New(h.store, h.source, h.notifier, &fakeCatalog{trails: []domain.Trail{testTrail}})
	h.source.steps = 100
	res2, err := h2.Reconcile(ctx, h.id, time.Date(2024, 1, 2, 16, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Reconcile() error: %v", err)
	}
	if len(res2.LandmarksReached) != 0 {
		t.Fatalf("landmark re-fired after restart: %v", res2.LandmarksReached)
	}
}

func TestTrailCompletionSupersedesMilestones(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	h.rec.SelectTrail(ctx, h.id, testTrail.ID, start)

	// 1400 steps = 1066.8 m ≥ 1000 m: completes in one delta. The same
	// delta crosses 25/50/75 and the summit landmark, but completion
	// supersedes them all.
	res := h.sync(t, 1400, time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC))
	if res.CompletedTrailID != testTrail.ID {
		t.Fatalf("completed trail = %q, want %q", res.CompletedTrailID, testTrail.ID)
	}
	if res.Milestone != 0 {
		t.Errorf("milestone fired alongside completion: %v", res.Milestone)
	}
	if len(res.LandmarksReached) != 0 {
		t.Errorf("landmarks fired alongside completion: %v", res.LandmarksReached)
	}

	p := h.progress(t)
	if len(p.CompletedTrails) != 1 {
		t.Fatalf("completed trails = %d, want 1", len(p.CompletedTrails))
	}
	rec := p.CompletedTrails[0]
	if rec.TotalDays != 2 {
		t.Errorf("totalDays = %d, want 2", rec.TotalDays)
	}
	if rec.TotalSteps != 1400 {
		t.Errorf("totalSteps = %d, want 1400", rec.TotalSteps)
	}
	if p.Stats.CompletedTrailsCount != 1 {
		t.Errorf("completedTrailsCount = %d", p.Stats.CompletedTrailsCount)
	}

	// Trail-scoped fields cleared, lifetime preserved.
	if p.SelectedTrailID != "" || p.TrailStartDate != nil || p.TotalStepsValid != 0 || p.CurrentDistanceMeters != 0 {
		t.Errorf("trail fields not cleared: %+v", p)
	}
	if p.Stats.TotalStepsLifetime != 1400 {
		t.Errorf("lifetime steps = %d, want 1400", p.Stats.TotalStepsLifetime)
	}

	// First completion unlocks trail-1.
	if !p.HasTrailBadge("trail-1") {
		t.Error("trail-1 badge not unlocked")
	}
}

func TestCompletionNotDoubleCreditedOnResync(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.rec.SelectTrail(ctx, h.id, testTrail.ID, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	h.sync(t, 1400, time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC))

	// More steps after completion: no trail is active, nothing accrues
	// to a trail and no second completion appears.
	h.sync(t, 1400, time.Date(2024, 1, 4, 12, 0, 0, 0, time.UTC))
	p := h.progress(t)
	if len(p.CompletedTrails) != 1 {
		t.Fatalf("completed trails = %d, want 1", len(p.CompletedTrails))
	}
	if p.Stats.CompletedTrailsCount != 1 {
		t.Errorf("completedTrailsCount = %d, want 1", p.Stats.CompletedTrailsCount)
	}
}

// ─── Daily goal ─────────────────────────────────────────────────────────────

func TestDailyGoalNotifiedOncePerDay(t *testing.T) {
	h := newHarness(t)
	day := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)

	// Default goal is 8000.
	res := h.sync(t, 5000, day)
	if res.GoalAchieved {
		t.Fatal("goal fired below threshold")
	}

	res = h.sync(t, 4000, day.Add(4*time.Hour))
	if !res.GoalAchieved {
		t.Fatal("goal not fired at 9000 steps for the day")
	}

	// Later same-day sync does not re-fire.
	res = h.sync(t, 1000, day.Add(8*time.Hour))
	if res.GoalAchieved {
		t.Fatal("goal re-fired within the same day")
	}

	// Next day it can fire again.
	res = h.sync(t, 9000, day.AddDate(0, 0, 1))
	if !res.GoalAchieved {
		t.Fatal("goal did not fire on the next day")
	}
}

// ─── Concurrency & failure ──────────────────────────────────────────────────

func TestInFlightCoalescing(t *testing.T) {
	h := newHarness(t)

	if !h.rec.acquire(h.id.UserID) {
		t.Fatal("first acquire failed")
	}
	_, err := h.rec.Reconcile(context.Background(), h.id, time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC))
	if !errors.Is(err, domain.ErrSyncInFlight) {
		t.Fatalf("err = %v, want ErrSyncInFlight", err)
	}
	h.rec.release(h.id.UserID)

	// Other users are unaffected.
	other := domain.Identity{UserID: "u2", AccountCreatedAt: h.id.AccountCreatedAt}
	h.source.steps = 100
	if _, err := h.rec.Reconcile(context.Background(), other, time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("other user blocked: %v", err)
	}
}

func TestSaveFailureCommitsNothing(t *testing.T) {
	h := newHarness(t)
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	h.sync(t, 1000, now)

	h.store.saveErr = errors.New("disk full")
	_, err := h.rec.Reconcile(context.Background(), h.id, now.Add(time.Hour))
	if err == nil {
		t.Fatal("expected save error to propagate")
	}

	p := h.progress(t)
	if p.Stats.TotalStepsLifetime != 1000 {
		t.Errorf("stored state mutated despite failed save: %d", p.Stats.TotalStepsLifetime)
	}
	if !p.LastSyncTime.Equal(now) {
		t.Errorf("watermark advanced despite failed save")
	}
	if len(h.notifier.sent) != 0 {
		t.Errorf("notifications sent for uncommitted transition: %+v", h.notifier.sent)
	}
}

// ─── Trail selection ────────────────────────────────────────────────────────

func TestSelectTrail(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	if _, err := h.rec.SelectTrail(ctx, h.id, "nope", now); !errors.Is(err, domain.ErrTrailNotFound) {
		t.Fatalf("err = %v, want ErrTrailNotFound", err)
	}

	p, err := h.rec.SelectTrail(ctx, h.id, testTrail.ID, now)
	if err != nil {
		t.Fatalf("SelectTrail() error: %v", err)
	}
	if p.SelectedTrailID != testTrail.ID || p.TargetDays != testTrail.SuggestedDays {
		t.Fatalf("selection not recorded: %+v", p)
	}
	if p.TrailStartDate == nil || !p.TrailStartDate.Equal(now) {
		t.Fatalf("start date = %v", p.TrailStartDate)
	}

	if _, err := h.rec.SelectTrail(ctx, h.id, testTrail.ID, now); !errors.Is(err, domain.ErrTrailAlreadyActive) {
		t.Fatalf("err = %v, want ErrTrailAlreadyActive", err)
	}
}

func TestCancelTrailResetsScopedCounters(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.rec.SelectTrail(ctx, h.id, testTrail.ID, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	h.sync(t, 500, time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC))

	p, err := h.rec.CancelTrail(ctx, h.id)
	if err != nil {
		t.Fatalf("CancelTrail() error: %v", err)
	}
	if p.SelectedTrailID != "" || p.TotalStepsValid != 0 || p.CurrentDistanceMeters != 0 {
		t.Fatalf("trail counters not reset: %+v", p)
	}
	if p.Stats.TotalStepsLifetime != 500 {
		t.Errorf("lifetime steps lost on cancel: %d", p.Stats.TotalStepsLifetime)
	}

	if _, err := h.rec.CancelTrail(ctx, h.id); !errors.Is(err, domain.ErrNoActiveTrail) {
		t.Fatalf("err = %v, want ErrNoActiveTrail", err)
	}
}

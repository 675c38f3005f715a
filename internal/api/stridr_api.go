package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stridr-app/stridr/internal/app/badge"
	"github.com/stridr-app/stridr/internal/app/dashboard"
	"github.com/stridr-app/stridr/internal/domain"
	"github.com/stridr-app/stridr/internal/infra/metrics"
)

// ─── Progress & sync ────────────────────────────────────────────────────────

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	p, err := s.loadProgress(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := map[string]any{"progress": p}
	if p.SelectedTrailID != "" {
		if trail, ok := s.catalog.Trail(p.SelectedTrailID); ok {
			resp["trail"] = trail
			resp["trail_percent"] = p.TrailPercent(trail.TotalDistanceMeters)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	res, err := s.reconciler.Reconcile(r.Context(), s.identity, time.Now())
	switch {
	case errors.Is(err, domain.ErrSyncInFlight):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrStepSourceUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, res)
	}
}

// --- POST /api/steps (pedometer sample ingestion) ---

type ingestRequest struct {
	Samples []domain.StepSample `json:"samples"`
}

func (s *Server) handleIngestSteps(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Samples) == 0 {
		writeError(w, http.StatusBadRequest, "no samples")
		return
	}

	if err := s.db.InsertStepSamples(r.Context(), s.identity.UserID, req.Samples); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.SamplesIngested.Add(float64(len(req.Samples)))
	writeJSON(w, http.StatusAccepted, map[string]any{"accepted": len(req.Samples)})
}

// ─── Dashboard ──────────────────────────────────────────────────────────────

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := time.Now()

	p, err := s.loadProgress(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	prefs, err := s.db.GetPreferences(ctx, s.identity.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	history, err := s.db.GetDailyLogs(ctx, s.identity.UserID, "", "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"weekly":            dashboard.Weekly(history, now),
		"monthly_total":     dashboard.MonthlyTotal(history, now),
		"goal_rate":         dashboard.GoalAchievementRate(history, prefs.DailyStepGoal, now),
		"records":           dashboard.Records(history),
		"landmarks_reached": dashboard.LandmarksReached(p, s.catalog),
		"next_badge":        dashboard.NextBadgeProgress(p.Monthly),
		"chart":             dashboard.ChartSeries(history, 14, now),
		"streak":            p.CurrentStreak,
	})
}

// ─── Badges ─────────────────────────────────────────────────────────────────

func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	p, err := s.loadProgress(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type badgeStatus struct {
		domain.Badge
		Unlocked bool `json:"unlocked"`
	}

	all := badge.Catalog()
	out := make([]badgeStatus, len(all))
	for i, b := range all {
		out[i] = badgeStatus{Badge: b, Unlocked: badgeUnlocked(p, b)}
	}
	writeJSON(w, http.StatusOK, map[string]any{"badges": out})
}

func badgeUnlocked(p *domain.UserProgress, b domain.Badge) bool {
	switch b.ConditionType {
	case domain.CondMonthlySteps, domain.CondMonthlyDistance:
		return p.Monthly.HasBadge(b.ID)
	case domain.CondTrailsCompleted:
		return p.HasTrailBadge(b.ID)
	case domain.CondMonthlyMaster:
		return p.Monthly.MonthlyBadgeEarned
	case domain.CondYearlyChampion:
		for _, y := range p.Yearly {
			if y.YearlyBadgeEarned {
				return true
			}
		}
	}
	return false
}

// ─── Trails ─────────────────────────────────────────────────────────────────

func (s *Server) handleListTrails(w http.ResponseWriter, r *http.Request) {
	p, err := s.loadProgress(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type trailStatus struct {
		domain.Trail
		Active    bool `json:"active"`
		Completed bool `json:"completed"`
	}

	all := s.catalog.All()
	out := make([]trailStatus, len(all))
	for i, t := range all {
		out[i] = trailStatus{
			Trail:     t,
			Active:    p.SelectedTrailID == t.ID,
			Completed: p.HasCompletedTrail(t.ID),
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"trails": out})
}

func (s *Server) handleShowTrail(w http.ResponseWriter, r *http.Request) {
	trail, ok := s.catalog.Trail(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, domain.ErrTrailNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, trail)
}

func (s *Server) handleSelectTrail(w http.ResponseWriter, r *http.Request) {
	p, err := s.reconciler.SelectTrail(r.Context(), s.identity, chi.URLParam(r, "id"), time.Now())
	switch {
	case errors.Is(err, domain.ErrTrailNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrTrailAlreadyActive):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, map[string]any{"progress": p})
	}
}

func (s *Server) handleCancelTrail(w http.ResponseWriter, r *http.Request) {
	p, err := s.reconciler.CancelTrail(r.Context(), s.identity)
	switch {
	case errors.Is(err, domain.ErrNoActiveTrail):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, map[string]any{"progress": p})
	}
}

// ─── Notifications ──────────────────────────────────────────────────────────

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	pending, err := s.notifier.Pending(r.Context(), s.identity.UserID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": pending})
}

func (s *Server) handleNotificationShown(w http.ResponseWriter, r *http.Request) {
	if err := s.notifier.MarkShown(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ─── Preferences ────────────────────────────────────────────────────────────

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.db.GetPreferences(r.Context(), s.identity.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (s *Server) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	// Decode over the stored document so a partial update keeps the
	// untouched fields.
	prefs, err := s.db.GetPreferences(r.Context(), s.identity.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if prefs.DailyStepGoal <= 0 {
		writeError(w, http.StatusBadRequest, "daily step goal must be positive")
		return
	}

	if err := s.db.SavePreferences(r.Context(), s.identity.UserID, prefs); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// loadProgress fetches the user's progress, substituting a fresh
// zero-state document before the first sync.
func (s *Server) loadProgress(r *http.Request) (*domain.UserProgress, error) {
	p, err := s.db.GetProgress(r.Context(), s.identity.UserID)
	if errors.Is(err, domain.ErrNoProgress) {
		return domain.NewUserProgress(s.identity.UserID, s.identity.AccountCreatedAt), nil
	}
	return p, err
}

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestSyncMetrics(t *testing.T) {
	SyncsTotal.WithLabelValues("ok").Inc()
	SyncsTotal.WithLabelValues("skipped").Inc()
	SyncDuration.Observe(0.03)
	StepsProcessed.Add(8421)

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}

	expected := []string{
		"stridr_syncs_total",
		"stridr_sync_duration_seconds",
		"stridr_steps_processed_total",
	}
	for _, name := range expected {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestEngagementMetrics(t *testing.T) {
	BadgesUnlocked.WithLabelValues("step-10k").Inc()
	TrailCompletions.WithLabelValues("cinque-terre").Inc()
	StreakLength.Set(14)

	families, _ := prometheus.DefaultGatherer.Gather()
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}

	expected := []string{
		"stridr_badges_unlocked_total",
		"stridr_trail_completions_total",
		"stridr_streak_length_days",
	}
	for _, name := range expected {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestNotificationMetrics(t *testing.T) {
	NotificationsQueued.WithLabelValues("badge_unlock").Inc()
	NotificationsSuppressed.WithLabelValues("quiet_hours").Inc()

	families, _ := prometheus.DefaultGatherer.Gather()
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}

	if !names["stridr_notifications_queued_total"] {
		t.Error("stridr_notifications_queued_total not found")
	}
	if !names["stridr_notifications_suppressed_total"] {
		t.Error("stridr_notifications_suppressed_total not found")
	}
}

func TestHealthMetrics(t *testing.T) {
	HealthCheckStatus.WithLabelValues("sqlite").Set(1)
	HealthCheckStatus.WithLabelValues("disk_space").Set(1)
	LastSyncAge.Set(120)

	families, _ := prometheus.DefaultGatherer.Gather()
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}

	if !names["stridr_health_check_status"] {
		t.Error("stridr_health_check_status not found")
	}
	if !names["stridr_last_sync_age_seconds"] {
		t.Error("stridr_last_sync_age_seconds not found")
	}
}

func TestAllMetricsGatherable(t *testing.T) {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}

	stridrMetrics := 0
	for _, f := range families {
		if len(f.GetName()) > 7 && f.GetName()[:7] == "stridr_" {
			stridrMetrics++
		}
	}

	if stridrMetrics < 8 {
		t.Errorf("expected at least 8 stridr_ metrics, got %d", stridrMetrics)
	}
}

// Package metrics provides Prometheus metrics for Stridr: counters,
// gauges, and histograms for syncs, step ingestion, badges, trails,
// notifications, and health.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Sync ───────────────────────────────────────────────────────────────────

// SyncsTotal tracks reconciliation runs by outcome.
var SyncsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "stridr",
	Name:      "syncs_total",
	Help:      "Total reconciliation runs by outcome.",
}, []string{"outcome"})

// SyncDuration tracks reconciliation duration in seconds.
var SyncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "stridr",
	Name:      "sync_duration_seconds",
	Help:      "Reconciliation run duration in seconds.",
	Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
})

// StepsProcessed tracks step counts credited by reconciliation.
var StepsProcessed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "stridr",
	Name:      "steps_processed_total",
	Help:      "Total steps credited to progress.",
})

// ─── Ingest ─────────────────────────────────────────────────────────────────

// SamplesIngested tracks raw pedometer samples accepted via the API.
var SamplesIngested = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "stridr",
	Name:      "samples_ingested_total",
	Help:      "Total step samples accepted for ingestion.",
})

// ─── Engagement ─────────────────────────────────────────────────────────────

// BadgesUnlocked tracks badge unlocks by badge id.
var BadgesUnlocked = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "stridr",
	Name:      "badges_unlocked_total",
	Help:      "Total badge unlocks.",
}, []string{"badge"})

// TrailCompletions tracks completed trails by trail id.
var TrailCompletions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "stridr",
	Name:      "trail_completions_total",
	Help:      "Total trail completions.",
}, []string{"trail"})

// StreakLength tracks the current daily-goal streak length.
var StreakLength = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "stridr",
	Name:      "streak_length_days",
	Help:      "Current consecutive-day goal streak.",
})

// ─── Notifications ──────────────────────────────────────────────────────────

// NotificationsQueued tracks notifications queued by category.
var NotificationsQueued = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "stridr",
	Name:      "notifications_queued_total",
	Help:      "Total notifications accepted into the outbox.",
}, []string{"category"})

// NotificationsSuppressed tracks notifications dropped by policy.
var NotificationsSuppressed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "stridr",
	Name:      "notifications_suppressed_total",
	Help:      "Total notifications suppressed by preference or policy.",
}, []string{"reason"})

// ─── Health ─────────────────────────────────────────────────────────────────

// HealthCheckStatus tracks health check results (1=healthy, 0=unhealthy).
var HealthCheckStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "stridr",
	Name:      "health_check_status",
	Help:      "Health check result per component (1=healthy, 0=unhealthy).",
}, []string{"check"})

// LastSyncAge tracks seconds since the last successful reconciliation.
var LastSyncAge = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "stridr",
	Name:      "last_sync_age_seconds",
	Help:      "Seconds since the last successful reconciliation.",
})

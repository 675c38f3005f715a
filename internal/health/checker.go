// Package health provides the daemon's periodic self-checks: database
// reachability, data directory sanity, and sync staleness.
package health

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/stridr-app/stridr/internal/domain"
	"github.com/stridr-app/stridr/internal/infra/metrics"
	"github.com/stridr-app/stridr/internal/infra/sqlite"
)

// staleSyncAfter is how long without a successful reconciliation
// before the sync check reports unhealthy.
const staleSyncAfter = 6 * time.Hour

// Check defines a single health check.
type Check struct {
	Name    string
	CheckFn func(ctx context.Context) error
}

// Status represents the result of a health check.
type Status struct {
	Name      string    `json:"name"`
	Healthy   bool      `json:"healthy"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Checker runs periodic health checks.
type Checker struct {
	mu       sync.RWMutex
	checks   []Check
	statuses []Status
	interval time.Duration
}

// NewChecker creates a checker with the standard checks for one user's
// daemon.
func NewChecker(db *sqlite.DB, dataDir, userID string) *Checker {
	return &Checker{
		interval: 60 * time.Second,
		checks: []Check{
			{
				Name: "sqlite",
				CheckFn: func(ctx context.Context) error {
					return db.Ping()
				},
			},
			{
				Name: "data_dir",
				CheckFn: func(ctx context.Context) error {
					return checkDataDir(dataDir)
				},
			},
			{
				Name: "sync_staleness",
				CheckFn: func(ctx context.Context) error {
					return checkSyncStaleness(ctx, db, userID)
				},
			},
		},
	}
}

// Run starts the health check loop. Call in a goroutine.
func (c *Checker) Run(ctx context.Context) {
	c.runAll(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.runAll(ctx)
		}
	}
}

func (c *Checker) runAll(ctx context.Context) {
	statuses := make([]Status, len(c.checks))
	for i, check := range c.checks {
		s := Status{
			Name:      check.Name,
			CheckedAt: time.Now(),
		}
		if err := check.CheckFn(ctx); err != nil {
			s.Healthy = false
			s.Error = err.Error()
			metrics.HealthCheckStatus.WithLabelValues(check.Name).Set(0)
		} else {
			s.Healthy = true
			metrics.HealthCheckStatus.WithLabelValues(check.Name).Set(1)
		}
		statuses[i] = s
	}

	c.mu.Lock()
	c.statuses = statuses
	c.mu.Unlock()
}

// Statuses returns the latest health check results.
func (c *Checker) Statuses() []Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]Status, len(c.statuses))
	copy(result, c.statuses)
	return result
}

// IsHealthy returns true if all checks pass.
func (c *Checker) IsHealthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.statuses {
		if !s.Healthy {
			return false
		}
	}
	return true
}

// ─── Check Implementations ──────────────────────────────────────────────────

func checkDataDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // created lazily on first write
		}
		return fmt.Errorf("check data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// checkSyncStaleness flags a watermark that has not advanced for too
// long; an armed scheduler reconciles hourly even with zero steps.
// A user with no progress document yet is healthy.
func checkSyncStaleness(ctx context.Context, db *sqlite.DB, userID string) error {
	p, err := db.GetProgress(ctx, userID)
	if errors.Is(err, domain.ErrNoProgress) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}

	age := time.Since(p.LastSyncTime)
	metrics.LastSyncAge.Set(age.Seconds())
	if age > staleSyncAfter {
		return fmt.Errorf("last sync %s ago", age.Round(time.Minute))
	}
	return nil
}

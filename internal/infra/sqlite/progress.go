package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stridr-app/stridr/internal/domain"
)

// progressSchemaVersion is the version this binary writes. Older
// documents are repaired through the upgrade chain on load, never
// rejected.
const progressSchemaVersion = 3

// SaveProgress writes the full aggregate as one document. The write
// is the commit point of a reconciliation: in-memory state is not
// considered committed until this returns nil.
func (d *DB) SaveProgress(ctx context.Context, p *domain.UserProgress) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	_, err = d.db.ExecContext(ctx,
		`INSERT INTO progress (user_id, version, doc, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET version=excluded.version, doc=excluded.doc, updated_at=excluded.updated_at`,
		p.UserID, progressSchemaVersion, string(doc), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// GetProgress loads and, if needed, upgrades the user's document.
// Returns domain.ErrNoProgress when the user has none yet.
func (d *DB) GetProgress(ctx context.Context, userID string) (*domain.UserProgress, error) {
	var version int
	var doc string
	err := d.db.QueryRowContext(ctx,
		`SELECT version, doc FROM progress WHERE user_id = ?`, userID,
	).Scan(&version, &doc)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNoProgress
	}
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	p, err := decodeProgress([]byte(doc), version)
	if err != nil {
		return nil, err
	}
	p.UserID = userID
	return p, nil
}

// ─── Versioned document loader ──────────────────────────────────────────────
// Legacy documents pass through a chain of pure upgrade steps, one per
// schema bump, and come out fully populated. Business logic never sees
// a missing field.

// progressUpgrades[n] upgrades a version n+1 document to n+2.
var progressUpgrades = []func(map[string]any){
	upgradeProgressV1, // v1 → v2
	upgradeProgressV2, // v2 → v3
}

func decodeProgress(raw []byte, version int) (*domain.UserProgress, error) {
	if version < 1 {
		version = 1
	}
	if version > progressSchemaVersion {
		return nil, fmt.Errorf("%w: document v%d, binary v%d",
			domain.ErrUnknownDocSchema, version, progressSchemaVersion)
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProgressCorrupt, err)
	}

	for v := version; v < progressSchemaVersion; v++ {
		progressUpgrades[v-1](m)
	}

	upgraded, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProgressCorrupt, err)
	}

	var p domain.UserProgress
	if err := json.Unmarshal(upgraded, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProgressCorrupt, err)
	}
	return &p, nil
}

// upgradeProgressV1 lifts the flat lifetime counters of the first
// schema into the stats sub-document.
func upgradeProgressV1(m map[string]any) {
	if _, ok := m["stats"]; ok {
		return
	}
	stats := map[string]any{
		"total_steps_lifetime":           m["total_steps"],
		"total_distance_meters_lifetime": m["total_distance_meters"],
		"completed_trails_count":         len(asSlice(m["completed_trails"])),
	}
	delete(m, "total_steps")
	delete(m, "total_distance_meters")
	m["stats"] = stats
}

// upgradeProgressV2 adds the persisted notification watermarks that
// replaced the old process-lifetime trackers.
func upgradeProgressV2(m map[string]any) {
	if _, ok := m["landmarks_notified"]; !ok {
		m["landmarks_notified"] = []any{}
	}
	if _, ok := m["goal_notified_date"]; !ok {
		m["goal_notified_date"] = ""
	}
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// ─── Preferences ────────────────────────────────────────────────────────────

// SavePreferences stores the settings document.
func (d *DB) SavePreferences(ctx context.Context, userID string, prefs domain.Preferences) error {
	doc, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	_, err = d.db.ExecContext(ctx,
		`INSERT INTO preferences (user_id, doc) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET doc=excluded.doc`,
		userID, string(doc),
	)
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// GetPreferences loads settings, backfilling any missing field with
// its default. A user with no document gets pure defaults.
func (d *DB) GetPreferences(ctx context.Context, userID string) (domain.Preferences, error) {
	prefs := domain.DefaultPreferences()

	var doc string
	err := d.db.QueryRowContext(ctx,
		`SELECT doc FROM preferences WHERE user_id = ?`, userID,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return prefs, nil
	}
	if err != nil {
		return prefs, fmt.Errorf("load preferences: %w", err)
	}

	// Decoding over the default value leaves absent fields at their
	// defaults, the migration-on-load contract.
	if err := json.Unmarshal([]byte(doc), &prefs); err != nil {
		return domain.DefaultPreferences(), nil
	}
	return prefs, nil
}

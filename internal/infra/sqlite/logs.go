package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/stridr-app/stridr/internal/domain"
)

// ─── Daily logs ─────────────────────────────────────────────────────────────

// SaveDailyLog writes one day's totals (full-row upsert).
func (d *DB) SaveDailyLog(ctx context.Context, userID string, log domain.DailyLog) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO daily_logs (user_id, day, steps, distance_m) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, day) DO UPDATE SET steps=excluded.steps, distance_m=excluded.distance_m`,
		userID, log.Date, log.Steps, log.DistanceMeters,
	)
	if err != nil {
		return fmt.Errorf("save daily log: %w", err)
	}
	return nil
}

// GetDailyLogs returns logs with fromDay ≤ day ≤ toDay, oldest first.
// Empty bounds mean unbounded.
func (d *DB) GetDailyLogs(ctx context.Context, userID, fromDay, toDay string) ([]domain.DailyLog, error) {
	if toDay == "" {
		toDay = "9999-12-31"
	}
	rows, err := d.db.QueryContext(ctx,
		`SELECT day, steps, distance_m FROM daily_logs
		 WHERE user_id = ? AND day >= ? AND day <= ? ORDER BY day ASC`,
		userID, fromDay, toDay,
	)
	if err != nil {
		return nil, fmt.Errorf("query daily logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.DailyLog
	for rows.Next() {
		var l domain.DailyLog
		if err := rows.Scan(&l.Date, &l.Steps, &l.DistanceMeters); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// ─── Step samples ───────────────────────────────────────────────────────────

// InsertStepSamples appends a batch of raw pedometer readings.
func (d *DB) InsertStepSamples(ctx context.Context, userID string, samples []domain.StepSample) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO step_samples (user_id, recorded_at, steps) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range samples {
		if s.Steps < 0 {
			continue
		}
		if _, err := stmt.ExecContext(ctx, userID, s.RecordedAt.Unix(), s.Steps); err != nil {
			return fmt.Errorf("insert sample: %w", err)
		}
	}
	return tx.Commit()
}

// SumSteps returns the step total recorded in (start, end].
func (d *DB) SumSteps(ctx context.Context, userID string, start, end time.Time) (int64, error) {
	var total int64
	err := d.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(steps), 0) FROM step_samples
		 WHERE user_id = ? AND recorded_at > ? AND recorded_at <= ?`,
		userID, start.Unix(), end.Unix(),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum steps: %w", err)
	}
	return total, nil
}

// SamplesBetween returns samples recorded in (start, end], oldest first.
func (d *DB) SamplesBetween(ctx context.Context, userID string, start, end time.Time) ([]domain.StepSample, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT recorded_at, steps FROM step_samples
		 WHERE user_id = ? AND recorded_at > ? AND recorded_at <= ?
		 ORDER BY recorded_at ASC`,
		userID, start.Unix(), end.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var samples []domain.StepSample
	for rows.Next() {
		var ts int64
		var s domain.StepSample
		if err := rows.Scan(&ts, &s.Steps); err != nil {
			return nil, err
		}
		s.RecordedAt = time.Unix(ts, 0)
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

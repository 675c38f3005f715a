// Package steps provides StepSource implementations. The production
// source reads the raw pedometer samples the device pushes into the
// store; the mock source backs tests and the demo CLI.
package steps

import (
	"context"
	"time"

	"github.com/stridr-app/stridr/internal/domain"
	"github.com/stridr-app/stridr/internal/infra/sqlite"
)

// StoreSource is the sample-store backed step source.
type StoreSource struct {
	db *sqlite.DB
}

// NewStoreSource creates a source over the sample store.
func NewStoreSource(db *sqlite.DB) *StoreSource {
	return &StoreSource{db: db}
}

// IsAvailable reports whether the sample store is reachable.
func (s *StoreSource) IsAvailable(ctx context.Context) bool {
	return s.db.Ping() == nil
}

// RequestPermission always succeeds: consent is collected on-device
// before samples ever reach the daemon.
func (s *StoreSource) RequestPermission(ctx context.Context) (bool, error) {
	return true, nil
}

// StepsBetween sums samples recorded in (start, end].
func (s *StoreSource) StepsBetween(ctx context.Context, userID string, start, end time.Time) (int64, error) {
	return s.db.SumSteps(ctx, userID, start, end)
}

// DailyHistory buckets samples by local day for the trailing window
// of days ending at now, oldest first. Days without samples are
// omitted; read-side consumers zero-fill.
func (s *StoreSource) DailyHistory(ctx context.Context, userID string, days int, now time.Time) ([]domain.DailyLog, error) {
	start := now.AddDate(0, 0, -days)
	samples, err := s.db.SamplesBetween(ctx, userID, start, now)
	if err != nil {
		return nil, err
	}
	return bucketByDay(samples), nil
}

// YearlyHistory buckets a calendar year of samples by local day.
func (s *StoreSource) YearlyHistory(ctx context.Context, userID string, year int) ([]domain.DailyLog, error) {
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(1, 0, 0)
	samples, err := s.db.SamplesBetween(ctx, userID, from.Add(-time.Second), to)
	if err != nil {
		return nil, err
	}
	return bucketByDay(samples), nil
}

func bucketByDay(samples []domain.StepSample) []domain.DailyLog {
	totals := map[string]int64{}
	var order []string
	for _, s := range samples {
		key := domain.Day(s.RecordedAt)
		if _, ok := totals[key]; !ok {
			order = append(order, key)
		}
		totals[key] += s.Steps
	}

	logs := make([]domain.DailyLog, 0, len(order))
	for _, key := range order {
		logs = append(logs, domain.DailyLog{
			Date:           key,
			Steps:          totals[key],
			DistanceMeters: domain.StepsToMeters(totals[key]),
		})
	}
	return logs
}

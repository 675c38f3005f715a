package steps

import (
	"context"
	"sync"
	"time"

	"github.com/stridr-app/stridr/internal/domain"
)

// MockSource is an in-memory StepSource for tests and demos. Feed it
// samples with Record; toggle Available/Permission to exercise the
// orchestrator's denial paths.
type MockSource struct {
	mu         sync.Mutex
	samples    map[string][]domain.StepSample
	Available  bool
	Permission bool
}

// NewMockSource creates an available, permitted mock.
func NewMockSource() *MockSource {
	return &MockSource{
		samples:    make(map[string][]domain.StepSample),
		Available:  true,
		Permission: true,
	}
}

// Record adds a sample for a user.
func (m *MockSource) Record(userID string, at time.Time, steps int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples[userID] = append(m.samples[userID], domain.StepSample{RecordedAt: at, Steps: steps})
}

func (m *MockSource) IsAvailable(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Available
}

func (m *MockSource) RequestPermission(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Permission, nil
}

func (m *MockSource) StepsBetween(ctx context.Context, userID string, start, end time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, s := range m.samples[userID] {
		if s.RecordedAt.After(start) && !s.RecordedAt.After(end) {
			total += s.Steps
		}
	}
	return total, nil
}

func (m *MockSource) DailyHistory(ctx context.Context, userID string, days int, now time.Time) ([]domain.DailyLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	start := now.AddDate(0, 0, -days)
	var window []domain.StepSample
	for _, s := range m.samples[userID] {
		if s.RecordedAt.After(start) && !s.RecordedAt.After(now) {
			window = append(window, s)
		}
	}
	return bucketByDay(window), nil
}

func (m *MockSource) YearlyHistory(ctx context.Context, userID string, year int) ([]domain.DailyLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var window []domain.StepSample
	for _, s := range m.samples[userID] {
		if s.RecordedAt.Year() == year {
			window = append(window, s)
		}
	}
	return bucketByDay(window), nil
}

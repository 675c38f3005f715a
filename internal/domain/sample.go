package domain

import "time"

// StepSample is one raw pedometer reading pushed by the device. The
// sample store is the daemon-side step source: StepsBetween sums
// samples in a window, daily history buckets them by local day.
type StepSample struct {
	RecordedAt time.Time `json:"recorded_at"`
	Steps      int64     `json:"steps"`
}

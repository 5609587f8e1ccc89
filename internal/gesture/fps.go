package gesture

import "time"

// FPSWindowSize is the number of instantaneous frame-rate samples retained.
const FPSWindowSize = 30

// FPSTracker maintains a rolling average of instantaneous frame rates.
// It shares the bounded-window pattern of the Stabilizer but is fed by
// frame timing, independent of landmark data.
type FPSTracker struct {
	samples []float64
}

// NewFPSTracker creates an empty tracker.
func NewFPSTracker() *FPSTracker {
	return &FPSTracker{samples: make([]float64, 0, FPSWindowSize)}
}

// Update records one frame's duration. Non-positive durations are skipped
// so the tracker never divides by zero.
func (t *FPSTracker) Update(frameTime time.Duration) {
	if frameTime <= 0 {
		return
	}
	if len(t.samples) == FPSWindowSize {
		copy(t.samples, t.samples[1:])
		t.samples = t.samples[:FPSWindowSize-1]
	}
	t.samples = append(t.samples, 1.0/frameTime.Seconds())
}

// Average returns the arithmetic mean of the window, or 0 when empty.
func (t *FPSTracker) Average() float64 {
	if len(t.samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range t.samples {
		sum += s
	}
	return sum / float64(len(t.samples))
}

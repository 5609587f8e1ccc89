package gesture

import (
	"errors"
	"fmt"
)

// AdmissionPolicy decides which per-frame labels enter the rolling window.
type AdmissionPolicy string

const (
	// AdmitAll pushes every per-frame label, UNKNOWN included.
	AdmitAll AdmissionPolicy = "all"

	// AdmitThreshold pushes only labels whose classifier confidence meets
	// the configured threshold; the window is untouched otherwise.
	AdmitThreshold AdmissionPolicy = "threshold"
)

// ReportPolicy decides when the majority label is reported.
type ReportPolicy string

const (
	// ReportMajority reports the majority label only when it holds a strict
	// majority of the window; otherwise the raw per-frame label is passed
	// through.
	ReportMajority ReportPolicy = "majority"

	// ReportAlways reports the majority label and its ratio unconditionally;
	// the ratio carries the uncertainty instead of withholding the label.
	ReportAlways ReportPolicy = "always"
)

// ErrConfig is returned for invalid stabilizer or session configuration.
// Configuration is validated at construction, never at per-frame call time.
var ErrConfig = errors.New("invalid configuration")

// Stabilizer suppresses frame-to-frame label jitter with a bounded FIFO
// window and a majority vote. One stabilizer serves one tracked hand slot
// and is owned exclusively by its session; no locking, no I/O.
type Stabilizer struct {
	capacity  int
	threshold float64
	admission AdmissionPolicy
	report    ReportPolicy
	window    []Label // insertion order, oldest first
}

// NewStabilizer creates a Stabilizer. Capacity must be positive and the
// threshold must lie in [0,1].
func NewStabilizer(capacity int, threshold float64, admission AdmissionPolicy, report ReportPolicy) (*Stabilizer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: window capacity %d, must be positive", ErrConfig, capacity)
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: confidence threshold %v, must be in [0,1]", ErrConfig, threshold)
	}
	return &Stabilizer{
		capacity:  capacity,
		threshold: threshold,
		admission: admission,
		report:    report,
		window:    make([]Label, 0, capacity),
	}, nil
}

// Observe feeds one per-frame classification into the window and returns
// the stabilized label with its stability ratio (majority count over window
// length).
func (s *Stabilizer) Observe(label Label, confidence float64) (Label, float64) {
	if s.admission != AdmitThreshold || confidence >= s.threshold {
		if len(s.window) == s.capacity {
			copy(s.window, s.window[1:])
			s.window = s.window[:s.capacity-1]
		}
		s.window = append(s.window, label)
	}

	if len(s.window) == 0 {
		// No admitted history yet.
		if s.report == ReportAlways {
			return NoHand, 0
		}
		return label, 0
	}

	majority, count := s.majority()
	ratio := float64(count) / float64(len(s.window))

	if s.report == ReportMajority && count <= len(s.window)/2 {
		// No strict majority; pass the raw label through.
		return label, ratio
	}
	return majority, ratio
}

// majority tallies the window and returns the most frequent label. Ties
// break toward the earliest-inserted label still in the window, which keeps
// the result reproducible rather than depending on map iteration order.
func (s *Stabilizer) majority() (Label, int) {
	counts := make(map[Label]int, len(s.window))
	order := make([]Label, 0, len(s.window))
	for _, l := range s.window {
		if counts[l] == 0 {
			order = append(order, l)
		}
		counts[l]++
	}

	best := order[0]
	for _, l := range order[1:] {
		if counts[l] > counts[best] {
			best = l
		}
	}
	return best, counts[best]
}

// Len returns the current window length.
func (s *Stabilizer) Len() int {
	return len(s.window)
}

// Reset clears the window.
func (s *Stabilizer) Reset() {
	s.window = s.window[:0]
}

package gesture

import (
	"errors"
	"math"
	"testing"
)

func mustStabilizer(t *testing.T, capacity int, threshold float64, admission AdmissionPolicy, report ReportPolicy) *Stabilizer {
	t.Helper()
	s, err := NewStabilizer(capacity, threshold, admission, report)
	if err != nil {
		t.Fatalf("NewStabilizer: %v", err)
	}
	return s
}

func TestNewStabilizer_ConfigErrors(t *testing.T) {
	tests := []struct {
		name      string
		capacity  int
		threshold float64
	}{
		{"zero capacity", 0, 0.7},
		{"negative capacity", -3, 0.7},
		{"threshold below range", 5, -0.1},
		{"threshold above range", 5, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStabilizer(tt.capacity, tt.threshold, AdmitAll, ReportMajority)
			if !errors.Is(err, ErrConfig) {
				t.Errorf("NewStabilizer error = %v, want ErrConfig", err)
			}
		})
	}
}

func TestStabilizer_SteadyInput(t *testing.T) {
	// Feeding the same label repeatedly must converge to ratio 1.0 and stay
	// there: the vote is idempotent on a uniform window.
	s := mustStabilizer(t, 5, 0, AdmitAll, ReportMajority)

	for i := 0; i < 20; i++ {
		label, ratio := s.Observe(Rock, 0.95)
		if label != Rock {
			t.Fatalf("frame %d: label = %s, want %s", i, label, Rock)
		}
		if ratio != 1.0 {
			t.Fatalf("frame %d: ratio = %v, want 1.0", i, ratio)
		}
	}
	if s.Len() != 5 {
		t.Errorf("Len() = %d, want window capped at 5", s.Len())
	}
}

func TestStabilizer_SuppressesJitter(t *testing.T) {
	// A flickering minority label never displaces the majority.
	s := mustStabilizer(t, 6, 0, AdmitAll, ReportMajority)

	seq := []Label{Rock, Paper, Rock, Rock, Paper, Rock}
	var label Label
	var ratio float64
	for _, l := range seq {
		label, ratio = s.Observe(l, 0.9)
	}

	if label != Rock {
		t.Errorf("stable label = %s, want %s", label, Rock)
	}
	want := 4.0 / 6.0
	if math.Abs(ratio-want) > 1e-9 {
		t.Errorf("ratio = %v, want %v", ratio, want)
	}
}

func TestStabilizer_MajorityRequired_PassesRawOnSplit(t *testing.T) {
	// An even split holds no strict majority; the raw per-frame label passes
	// through instead of a vote winner.
	s := mustStabilizer(t, 4, 0, AdmitAll, ReportMajority)

	s.Observe(Rock, 0.9)
	s.Observe(Rock, 0.9)
	s.Observe(Paper, 0.9)
	label, ratio := s.Observe(Paper, 0.9)

	if label != Paper {
		t.Errorf("label = %s, want raw %s on split vote", label, Paper)
	}
	if ratio != 0.5 {
		t.Errorf("ratio = %v, want 0.5", ratio)
	}
}

func TestStabilizer_ReportAlways_TieBreaksToOldest(t *testing.T) {
	// Under always-report the vote winner is reported even on a tie, and the
	// tie breaks toward the earliest-inserted label still in the window.
	s := mustStabilizer(t, 4, 0, AdmitAll, ReportAlways)

	s.Observe(Rock, 0.9)
	s.Observe(Rock, 0.9)
	s.Observe(Paper, 0.9)
	label, ratio := s.Observe(Paper, 0.9)

	if label != Rock {
		t.Errorf("label = %s, want %s (earliest inserted wins ties)", label, Rock)
	}
	if ratio != 0.5 {
		t.Errorf("ratio = %v, want 0.5", ratio)
	}
}

func TestStabilizer_EvictionShiftsTieBreak(t *testing.T) {
	// Once the older label's entries age out, the tie-break follows the
	// window contents, not global history.
	s := mustStabilizer(t, 2, 0, AdmitAll, ReportAlways)

	s.Observe(Rock, 0.9)
	s.Observe(Rock, 0.9)
	s.Observe(Paper, 0.9) // window now [Rock, Paper]
	label, _ := s.Observe(Scissors, 0.9)

	// Window is [Paper, Scissors]: tied, Paper is oldest.
	if label != Paper {
		t.Errorf("label = %s, want %s", label, Paper)
	}
}

func TestStabilizer_ThresholdAdmission(t *testing.T) {
	s := mustStabilizer(t, 5, 0.7, AdmitThreshold, ReportMajority)

	s.Observe(Rock, 0.9)
	s.Observe(Rock, 0.9)
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}

	// Low-confidence frames must not mutate the window.
	label, ratio := s.Observe(Paper, 0.3)
	if s.Len() != 2 {
		t.Errorf("Len() = %d after rejected frame, want 2", s.Len())
	}
	if label != Rock {
		t.Errorf("label = %s, want window majority %s", label, Rock)
	}
	if ratio != 1.0 {
		t.Errorf("ratio = %v, want 1.0", ratio)
	}
}

func TestStabilizer_EmptyWindow(t *testing.T) {
	t.Run("majority-required passes raw label through", func(t *testing.T) {
		s := mustStabilizer(t, 5, 0.7, AdmitThreshold, ReportMajority)
		label, ratio := s.Observe(Paper, 0.1)
		if label != Paper {
			t.Errorf("label = %s, want raw %s", label, Paper)
		}
		if ratio != 0 {
			t.Errorf("ratio = %v, want 0", ratio)
		}
	})

	t.Run("always-report yields no-hand", func(t *testing.T) {
		s := mustStabilizer(t, 5, 0.7, AdmitThreshold, ReportAlways)
		label, ratio := s.Observe(Paper, 0.1)
		if label != NoHand {
			t.Errorf("label = %s, want %s", label, NoHand)
		}
		if ratio != 0 {
			t.Errorf("ratio = %v, want 0", ratio)
		}
	})
}

func TestStabilizer_Reset(t *testing.T) {
	s := mustStabilizer(t, 5, 0, AdmitAll, ReportMajority)
	s.Observe(Rock, 0.9)
	s.Observe(Rock, 0.9)
	s.Reset()
	if s.Len() != 0 {
		t.Errorf("Len() = %d after Reset, want 0", s.Len())
	}

	label, ratio := s.Observe(Paper, 0.9)
	if label != Paper || ratio != 1.0 {
		t.Errorf("Observe after Reset = (%s, %v), want (%s, 1.0)", label, ratio, Paper)
	}
}

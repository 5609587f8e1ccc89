package gesture

import (
	"testing"

	"github.com/ayusman/mudra/internal/detector"
)

func TestExtractor_States_BothPolicies(t *testing.T) {
	// Every fixture must produce the same boolean conclusions under both
	// extension policies; only the internal scores differ.
	fixtures := []struct {
		name string
		hand detector.HandLandmarks
		want FingerState
	}{
		{"fist", detector.FistLandmarks(), FingerState{false, false, false, false, false}},
		{"open palm", detector.OpenPalmLandmarks(), FingerState{true, true, true, true, true}},
		{"peace", detector.PeaceLandmarks(), FingerState{false, true, true, false, false}},
		{"pointing", detector.PointingLandmarks(), FingerState{false, true, false, false, false}},
		{"middle finger", detector.MiddleFingerLandmarks(), FingerState{false, false, true, false, false}},
		{"thumbs up", detector.ThumbsUpLandmarks(), FingerState{true, false, false, false, false}},
		{"ok sign", detector.OKSignLandmarks(), FingerState{true, true, false, false, false}},
		{"three fingers", detector.ThreeFingerLandmarks(), FingerState{false, true, true, true, false}},
	}

	policies := []ExtensionPolicy{PolicyWristRelative, PolicySegmentStraightness}

	for _, policy := range policies {
		for _, fx := range fixtures {
			t.Run(string(policy)+"/"+fx.name, func(t *testing.T) {
				e := NewExtractor(policy, ThumbRefIP)
				got := e.States(&fx.hand)
				if got != fx.want {
					t.Errorf("States() = %v, want %v", got, fx.want)
				}
			})
		}
	}
}

func TestExtractor_ThumbReferences(t *testing.T) {
	// The two thumb reference joints must agree on the unambiguous fixtures.
	for _, ref := range []ThumbReference{ThumbRefIP, ThumbRefMCP} {
		t.Run(string(ref), func(t *testing.T) {
			e := NewExtractor(PolicySegmentStraightness, ref)

			open := detector.OpenPalmLandmarks()
			if got := e.States(&open); !got[Thumb] {
				t.Error("open palm thumb should be extended")
			}

			fist := detector.FistLandmarks()
			if got := e.States(&fist); got[Thumb] {
				t.Error("fist thumb should be flexed")
			}

			up := detector.ThumbsUpLandmarks()
			if got := e.States(&up); !got[Thumb] {
				t.Error("thumbs-up thumb should be extended")
			}
		})
	}
}

func TestExtractor_DegenerateGeometry(t *testing.T) {
	// All landmarks coincident: every reference distance collapses. The
	// extractor must report flexed everywhere, never panic or divide by zero.
	hand := detector.NewHand()

	for _, policy := range []ExtensionPolicy{PolicyWristRelative, PolicySegmentStraightness} {
		for _, ref := range []ThumbReference{ThumbRefIP, ThumbRefMCP} {
			e := NewExtractor(policy, ref)
			got := e.States(&hand)
			if got != (FingerState{}) {
				t.Errorf("policy %s ref %s: degenerate hand should be all flexed, got %v", policy, ref, got)
			}
		}
	}
}

func TestExtractor_ReportsPolicies(t *testing.T) {
	e := NewExtractor(PolicyWristRelative, ThumbRefMCP)
	if e.Policy() != PolicyWristRelative {
		t.Errorf("Policy() = %v, want %v", e.Policy(), PolicyWristRelative)
	}
	if e.ThumbReference() != ThumbRefMCP {
		t.Errorf("ThumbReference() = %v, want %v", e.ThumbReference(), ThumbRefMCP)
	}
}

func TestFingerState_Counts(t *testing.T) {
	tests := []struct {
		name     string
		state    FingerState
		extended int
		nonThumb int
	}{
		{"none", FingerState{}, 0, 0},
		{"thumb only", FingerState{true, false, false, false, false}, 1, 0},
		{"all", FingerState{true, true, true, true, true}, 5, 4},
		{"peace", FingerState{false, true, true, false, false}, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.ExtendedCount(); got != tt.extended {
				t.Errorf("ExtendedCount() = %d, want %d", got, tt.extended)
			}
			if got := tt.state.NonThumbCount(); got != tt.nonThumb {
				t.Errorf("NonThumbCount() = %d, want %d", got, tt.nonThumb)
			}
		})
	}
}

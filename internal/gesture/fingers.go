package gesture

import (
	"github.com/ayusman/mudra/internal/detector"
)

// Finger indexes a FingerState entry. The order is anatomically fixed.
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
	NumFingers
)

// FingerState holds the extended/flexed verdict per finger, in the fixed
// order thumb, index, middle, ring, pinky. It is recomputed every frame and
// has no lifetime of its own.
type FingerState [NumFingers]bool

// ExtendedCount returns the number of extended fingers, thumb included.
func (f FingerState) ExtendedCount() int {
	n := 0
	for _, ext := range f {
		if ext {
			n++
		}
	}
	return n
}

// NonThumbCount returns the number of extended fingers excluding the thumb.
func (f FingerState) NonThumbCount() int {
	n := 0
	for _, ext := range f[Index:] {
		if ext {
			n++
		}
	}
	return n
}

// ExtensionPolicy selects how non-thumb finger extension is decided.
// The two heuristics reach comparable boolean conclusions; their internal
// scores are not comparable.
type ExtensionPolicy string

const (
	// PolicyWristRelative marks a finger extended when its tip is farther
	// from the wrist than its PIP joint (with a small straightness floor).
	PolicyWristRelative ExtensionPolicy = "wrist-relative"

	// PolicySegmentStraightness marks a finger extended when the tip-to-MCP
	// distance approaches the summed segment lengths, i.e. the finger is
	// straight. More robust to hand rotation than the wrist heuristic.
	PolicySegmentStraightness ExtensionPolicy = "segment-straightness"
)

// ThumbReference names the denominator joint of the thumb extension rule.
// The choice changes sensitivity materially, so it is a policy, not a
// hard-coded constant.
type ThumbReference string

const (
	// ThumbRefIP compares the tip-to-indexMCP distance against the
	// IP-to-indexMCP distance, factor 1.1.
	ThumbRefIP ThumbReference = "ip"

	// ThumbRefMCP compares the tip-to-indexMCP distance against the thumb
	// length (tip to thumb MCP), factor 0.8.
	ThumbRefMCP ThumbReference = "mcp"
)

// Extension rule constants. See the policy docs above for which rule each
// belongs to.
const (
	wristRatioK      = 0.95
	straightnessMinK = 0.05
	segmentRatioK    = 0.85
	thumbIPRefK      = 1.1
	thumbMCPRefK     = 0.8

	// degenerateDist guards ratio comparisons against a collapsed reference
	// segment; below it the finger is reported flexed rather than dividing
	// into noise.
	degenerateDist = 1e-6
)

// fingerJoints maps each non-thumb finger to its tip/pip/mcp landmark indices.
var fingerJoints = map[Finger][3]int{
	Index:  {detector.IndexTip, detector.IndexPIP, detector.IndexMCP},
	Middle: {detector.MiddleTip, detector.MiddlePIP, detector.MiddleMCP},
	Ring:   {detector.RingTip, detector.RingPIP, detector.RingMCP},
	Pinky:  {detector.PinkyTip, detector.PinkyPIP, detector.PinkyMCP},
}

// Extractor derives a FingerState from one hand's landmarks according to a
// fixed extension policy and thumb reference. Extractors are stateless and
// side-effect free.
type Extractor struct {
	policy   ExtensionPolicy
	thumbRef ThumbReference
}

// NewExtractor creates an Extractor with the given policies.
func NewExtractor(policy ExtensionPolicy, thumbRef ThumbReference) *Extractor {
	return &Extractor{policy: policy, thumbRef: thumbRef}
}

// Policy reports the active extension policy.
func (e *Extractor) Policy() ExtensionPolicy {
	return e.policy
}

// ThumbReference reports the active thumb reference joint.
func (e *Extractor) ThumbReference() ThumbReference {
	return e.thumbRef
}

// States computes the per-finger extended/flexed vector for one hand.
// The hand must carry exactly detector.NumLandmarks points.
func (e *Extractor) States(hand *detector.HandLandmarks) FingerState {
	var state FingerState
	state[Thumb] = e.thumbExtended(hand)
	for finger, joints := range fingerJoints {
		state[finger] = e.fingerExtended(hand, joints[0], joints[1], joints[2])
	}
	return state
}

func (e *Extractor) fingerExtended(hand *detector.HandLandmarks, tipIdx, pipIdx, mcpIdx int) bool {
	tip := hand.Points[tipIdx]
	pip := hand.Points[pipIdx]
	mcp := hand.Points[mcpIdx]

	switch e.policy {
	case PolicySegmentStraightness:
		tipToMCP := detector.Distance(tip, mcp)
		segments := detector.Distance(tip, pip) + detector.Distance(pip, mcp)
		if segments < degenerateDist {
			return false
		}
		return tipToMCP > segments*segmentRatioK

	default: // PolicyWristRelative
		wrist := hand.Points[detector.Wrist]
		tipToWrist := detector.Distance(tip, wrist)
		pipToWrist := detector.Distance(pip, wrist)
		tipToMCP := detector.Distance(tip, mcp)
		return tipToWrist > pipToWrist*wristRatioK && tipToMCP > straightnessMinK
	}
}

// thumbExtended applies the dedicated thumb rule: the thumb anatomy is
// roughly orthogonal to the other fingers, so extension is measured as
// distance from the index MCP rather than from the wrist.
func (e *Extractor) thumbExtended(hand *detector.HandLandmarks) bool {
	thumbTip := hand.Points[detector.ThumbTip]
	indexMCP := hand.Points[detector.IndexMCP]
	tipToIndex := detector.Distance(thumbTip, indexMCP)

	var reference float64
	var factor float64
	switch e.thumbRef {
	case ThumbRefMCP:
		reference = detector.Distance(thumbTip, hand.Points[detector.ThumbMCP])
		factor = thumbMCPRefK
	default: // ThumbRefIP
		reference = detector.Distance(hand.Points[detector.ThumbIP], indexMCP)
		factor = thumbIPRefK
	}

	if reference < degenerateDist {
		return false
	}
	return tipToIndex > reference*factor
}

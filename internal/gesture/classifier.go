package gesture

import (
	"github.com/ayusman/mudra/internal/detector"
)

// Ruleset selects which ordered rule table the classifier uses. Rulesets
// differ only in which rules are present and how the two-finger gesture is
// named, so they are data here, not separate code paths.
type Ruleset string

const (
	// RulesetExtended recognizes the full eight-gesture set.
	RulesetExtended Ruleset = "extended"

	// RulesetRPS recognizes only rock, paper and scissors.
	RulesetRPS Ruleset = "rps"
)

// ThreePolicy decides the label for the ambiguous three-fingers-extended
// pose, which has no single right answer.
type ThreePolicy string

const (
	// ThreeAsThree labels the pose THREE.
	ThreeAsThree ThreePolicy = "three"

	// ThreeAsUnknown labels the pose UNKNOWN.
	ThreeAsUnknown ThreePolicy = "unknown"

	// ThreeAsPaperWithThumb labels the pose PAPER when the thumb is among
	// the extended fingers, UNKNOWN otherwise.
	ThreeAsPaperWithThumb ThreePolicy = "paper-with-thumb"
)

// okTipDistance is the maximum thumb-tip-to-index-tip distance (normalized
// units) for the OK sign's finger circle.
const okTipDistance = 0.05

// Rule-specific confidence levels. These express rule certainty, not
// calibrated probabilities.
const (
	confFistClean    = 0.95
	confFistThumbOut = 0.85
	confTwoClean     = 0.95
	confTwoNoisy     = 0.75
	confOpenClean    = 0.95
	confOpenPartial  = 0.85
	confNamedFinger  = 0.85
	confThreeFinger  = 0.6
	confAmbiguous    = 0.5
)

// rule is one entry of the ordered, first-match classification table.
type rule struct {
	match func(f FingerState, hand *detector.HandLandmarks) (Label, float64, bool)
}

// Classifier maps a finger state vector (plus raw landmarks for the
// sub-classified special cases) to a gesture label and confidence.
type Classifier struct {
	ruleset Ruleset
	rules   []rule
}

// NewClassifier builds the ordered rule table for the given ruleset and
// three-finger policy. Rule order encodes priority and is fixed.
func NewClassifier(rs Ruleset, threePolicy ThreePolicy) *Classifier {
	c := &Classifier{ruleset: rs}

	twoFingerLabel := Peace
	if rs == RulesetRPS {
		twoFingerLabel = Scissors
	}

	if rs != RulesetRPS {
		// Named single-finger and pinch gestures, highest priority.
		c.rules = append(c.rules,
			rule{func(f FingerState, _ *detector.HandLandmarks) (Label, float64, bool) {
				if f[Middle] && !f[Index] && !f[Ring] && !f[Pinky] && !f[Thumb] {
					return MiddleFinger, confNamedFinger, true
				}
				return "", 0, false
			}},
			rule{func(f FingerState, _ *detector.HandLandmarks) (Label, float64, bool) {
				if f[Index] && !f[Middle] && !f[Ring] && !f[Pinky] && !f[Thumb] {
					return Pointing, confNamedFinger, true
				}
				return "", 0, false
			}},
		)
	}

	// Two fingers: peace/scissors. The thumb is a confidence modifier, not
	// a gate; a stray thumb degrades the verdict to the noisy level.
	c.rules = append(c.rules,
		rule{func(f FingerState, _ *detector.HandLandmarks) (Label, float64, bool) {
			if f[Index] && f[Middle] && !f[Ring] && !f[Pinky] {
				if f[Thumb] {
					return twoFingerLabel, confTwoNoisy, true
				}
				return twoFingerLabel, confTwoClean, true
			}
			return "", 0, false
		}},
	)

	if rs != RulesetRPS {
		c.rules = append(c.rules,
			rule{func(f FingerState, _ *detector.HandLandmarks) (Label, float64, bool) {
				if f[Thumb] && f.NonThumbCount() == 0 {
					return ThumbsUp, confNamedFinger, true
				}
				return "", 0, false
			}},
			rule{func(f FingerState, hand *detector.HandLandmarks) (Label, float64, bool) {
				if f[Thumb] && f[Index] && !f[Middle] && !f[Ring] && !f[Pinky] {
					tipGap := detector.Distance(
						hand.Points[detector.ThumbTip],
						hand.Points[detector.IndexTip],
					)
					if tipGap < okTipDistance {
						return OK, confNamedFinger, true
					}
				}
				return "", 0, false
			}},
		)
	}

	// Count-based rules, lowest priority.
	c.rules = append(c.rules,
		rule{func(f FingerState, _ *detector.HandLandmarks) (Label, float64, bool) {
			if f.ExtendedCount() > 1 {
				return "", 0, false
			}
			switch {
			case f.ExtendedCount() == 0:
				return Rock, confFistClean, true
			case f[Thumb]:
				return Rock, confFistThumbOut, true
			default:
				// One stray non-thumb finger; still a fist, but barely.
				return Rock, confAmbiguous, true
			}
		}},
		rule{func(f FingerState, _ *detector.HandLandmarks) (Label, float64, bool) {
			if f.ExtendedCount() < 4 {
				return "", 0, false
			}
			if f.NonThumbCount() == 4 {
				return Paper, confOpenClean, true
			}
			return Paper, confOpenPartial, true
		}},
		rule{func(f FingerState, _ *detector.HandLandmarks) (Label, float64, bool) {
			if f.ExtendedCount() != 3 {
				return "", 0, false
			}
			switch threePolicy {
			case ThreeAsUnknown:
				return Unknown, confThreeFinger, true
			case ThreeAsPaperWithThumb:
				if f[Thumb] {
					return Paper, confOpenPartial, true
				}
				return Unknown, confThreeFinger, true
			default:
				return Three, confThreeFinger, true
			}
		}},
	)

	return c
}

// Ruleset reports which rule table is active.
func (c *Classifier) Ruleset() Ruleset {
	return c.ruleset
}

// Classify runs the rule table top to bottom and returns the first match.
// Falls back to UNKNOWN when no rule matches; UNKNOWN is an ordinary
// outcome, not an error.
func (c *Classifier) Classify(f FingerState, hand *detector.HandLandmarks) (Label, float64) {
	for _, r := range c.rules {
		if label, conf, ok := r.match(f, hand); ok {
			return label, conf
		}
	}
	return Unknown, confAmbiguous
}

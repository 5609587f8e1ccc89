package gesture

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/detector"
)

// Config holds the full configuration surface of a classification session.
type Config struct {
	// WindowCapacity is the stabilization window length per hand slot.
	WindowCapacity int

	// ConfidenceThreshold gates window admission under AdmitThreshold.
	ConfidenceThreshold float64

	// ExtensionPolicy selects the finger extension heuristic.
	ExtensionPolicy ExtensionPolicy

	// ThumbReference selects the thumb rule's denominator joint.
	ThumbReference ThumbReference

	// Admission selects the window admission policy.
	Admission AdmissionPolicy

	// Report selects when the majority label is reported.
	Report ReportPolicy

	// Ruleset selects the classification rule table.
	Ruleset Ruleset

	// ThreePolicy resolves the ambiguous three-finger pose.
	ThreePolicy ThreePolicy

	// MaxHands is the number of tracked hand slots.
	MaxHands int

	// Logger receives input-validation warnings. Defaults to a no-op logger.
	Logger *zap.Logger
}

// DefaultConfig returns the configuration used by the reference pipeline:
// threshold-gated admission into a 7-frame window, majority-required
// reporting, segment-straightness extension, single tracked hand.
func DefaultConfig() Config {
	return Config{
		WindowCapacity:      7,
		ConfidenceThreshold: 0.7,
		ExtensionPolicy:     PolicySegmentStraightness,
		ThumbReference:      ThumbRefIP,
		Admission:           AdmitThreshold,
		Report:              ReportMajority,
		Ruleset:             RulesetExtended,
		ThreePolicy:         ThreeAsThree,
		MaxHands:            1,
	}
}

// validateEnums rejects unrecognized enum strings so a config typo (for
// example from an environment variable) fails construction instead of
// silently falling through to a default branch.
func validateEnums(config Config) error {
	switch config.ExtensionPolicy {
	case PolicyWristRelative, PolicySegmentStraightness:
	default:
		return fmt.Errorf("%w: unknown extension policy %q", ErrConfig, config.ExtensionPolicy)
	}
	switch config.ThumbReference {
	case ThumbRefIP, ThumbRefMCP:
	default:
		return fmt.Errorf("%w: unknown thumb reference %q", ErrConfig, config.ThumbReference)
	}
	switch config.Admission {
	case AdmitAll, AdmitThreshold:
	default:
		return fmt.Errorf("%w: unknown admission policy %q", ErrConfig, config.Admission)
	}
	switch config.Report {
	case ReportMajority, ReportAlways:
	default:
		return fmt.Errorf("%w: unknown report policy %q", ErrConfig, config.Report)
	}
	switch config.Ruleset {
	case RulesetExtended, RulesetRPS:
	default:
		return fmt.Errorf("%w: unknown ruleset %q", ErrConfig, config.Ruleset)
	}
	switch config.ThreePolicy {
	case ThreeAsThree, ThreeAsUnknown, ThreeAsPaperWithThumb:
	default:
		return fmt.Errorf("%w: unknown three-finger policy %q", ErrConfig, config.ThreePolicy)
	}
	return nil
}

// Session owns the classification state for one video stream: the finger
// extractor, the rule table and one stabilizer per tracked hand slot.
// Sessions are single-threaded by contract; one frame is fully processed
// before the next is accepted, and no state is shared between sessions.
type Session struct {
	id          string
	config      Config
	extractor   *Extractor
	classifier  *Classifier
	stabilizers []*Stabilizer
	fps         *FPSTracker
	logger      *zap.Logger
	closed      bool
}

// NewSession validates the configuration and constructs a session.
// All configuration errors surface here, never at per-frame call time.
func NewSession(config Config) (*Session, error) {
	if config.WindowCapacity <= 0 {
		return nil, fmt.Errorf("%w: window capacity %d, must be positive", ErrConfig, config.WindowCapacity)
	}
	if config.ConfidenceThreshold < 0 || config.ConfidenceThreshold > 1 {
		return nil, fmt.Errorf("%w: confidence threshold %v, must be in [0,1]", ErrConfig, config.ConfidenceThreshold)
	}
	if config.MaxHands <= 0 {
		return nil, fmt.Errorf("%w: max hands %d, must be positive", ErrConfig, config.MaxHands)
	}
	if err := validateEnums(config); err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	stabilizers := make([]*Stabilizer, config.MaxHands)
	for i := range stabilizers {
		st, err := NewStabilizer(config.WindowCapacity, config.ConfidenceThreshold, config.Admission, config.Report)
		if err != nil {
			return nil, err
		}
		stabilizers[i] = st
	}

	return &Session{
		id:          uuid.New().String(),
		config:      config,
		extractor:   NewExtractor(config.ExtensionPolicy, config.ThumbReference),
		classifier:  NewClassifier(config.Ruleset, config.ThreePolicy),
		stabilizers: stabilizers,
		fps:         NewFPSTracker(),
		logger:      logger,
	}, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Config returns the session configuration.
func (s *Session) Config() Config {
	return s.config
}

// FPS returns the session's frame-rate tracker.
func (s *Session) FPS() *FPSTracker {
	return s.fps
}

// Classify processes one frame's detected hands and returns one Result per
// tracked hand slot that received input. With zero hands it returns a single
// NO_HAND result and leaves every stabilization window untouched.
//
// A hand violating the 21-landmark contract degrades to UNKNOWN with
// confidence 0 for that hand (logged); under threshold-gated admission that
// never reaches the window.
func (s *Session) Classify(hands []detector.HandLandmarks) []Result {
	if len(hands) == 0 {
		return []Result{{Label: NoHand, Confidence: 0, Stable: NoHand, Stability: 0}}
	}

	if len(hands) > s.config.MaxHands {
		hands = hands[:s.config.MaxHands]
	}

	results := make([]Result, 0, len(hands))
	for i := range hands {
		hand := &hands[i]

		var label Label
		var confidence float64
		if err := hand.Validate(); err != nil {
			s.logger.Warn("rejecting malformed hand",
				zap.Int("slot", i),
				zap.Error(err),
			)
			label, confidence = Unknown, 0
		} else {
			label, confidence = s.classifier.Classify(s.extractor.States(hand), hand)
		}

		stable, stability := s.stabilizers[i].Observe(label, confidence)
		results = append(results, Result{
			Label:      label,
			Confidence: confidence,
			Stable:     stable,
			Stability:  stability,
			Handedness: hand.Handedness,
		})
	}
	return results
}

// Close releases the session. Further Classify calls are undefined; the
// session holds no external resources, so Close mainly marks the lifecycle
// boundary for callers.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	for _, st := range s.stabilizers {
		st.Reset()
	}
	return nil
}

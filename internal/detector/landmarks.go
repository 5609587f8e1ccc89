// Package detector provides hand detection interfaces and types for gesture recognition.
package detector

import (
	"errors"
	"fmt"
	"math"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// ErrInputShape is returned when a hand record does not carry exactly
// NumLandmarks points. It signals a detector contract violation, not a
// classification ambiguity.
var ErrInputShape = errors.New("hand does not contain exactly 21 landmarks")

// Point3D represents a 3D point in normalized image coordinates.
// X and Y are typically in [0,1]; Z is a relative, detector-defined depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents one detected hand: the 21 MediaPipe landmarks
// plus handedness and detection score. Landmarks are produced fresh each
// frame and never mutated downstream.
type HandLandmarks struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"` // "Left" or "Right"
	Score      float64   `json:"score"`
}

// NewHand returns a HandLandmarks with all NumLandmarks points allocated
// and zeroed. Fixture builders and detector adapters start from this.
func NewHand() HandLandmarks {
	return HandLandmarks{Points: make([]Point3D, NumLandmarks)}
}

// Validate checks the detector contract: exactly NumLandmarks points.
func (h *HandLandmarks) Validate() error {
	if h == nil {
		return fmt.Errorf("%w: nil hand", ErrInputShape)
	}
	if len(h.Points) != NumLandmarks {
		return fmt.Errorf("%w: got %d", ErrInputShape, len(h.Points))
	}
	return nil
}

// Distance calculates the Euclidean distance between two 3D points.
func Distance(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Normalize normalizes the hand landmarks relative to wrist position and hand size.
// The normalized landmarks have the wrist at origin (0,0,0) and are scaled
// so that the distance from wrist to middle finger MCP is 1.0.
// Returns a new HandLandmarks instance with normalized points, or nil if the
// hand is malformed.
func (h *HandLandmarks) Normalize() *HandLandmarks {
	if h == nil || len(h.Points) != NumLandmarks {
		return nil
	}

	normalized := &HandLandmarks{
		Points:     make([]Point3D, NumLandmarks),
		Handedness: h.Handedness,
		Score:      h.Score,
	}

	// Translate all points relative to the wrist
	wrist := h.Points[Wrist]
	for i := 0; i < NumLandmarks; i++ {
		normalized.Points[i] = Point3D{
			X: h.Points[i].X - wrist.X,
			Y: h.Points[i].Y - wrist.Y,
			Z: h.Points[i].Z - wrist.Z,
		}
	}

	// Scale so wrist-to-middle-MCP is 1.0
	scale := Distance(Point3D{}, normalized.Points[MiddleMCP])
	if scale < 1e-10 {
		return normalized
	}

	for i := 0; i < NumLandmarks; i++ {
		normalized.Points[i].X /= scale
		normalized.Points[i].Y /= scale
		normalized.Points[i].Z /= scale
	}

	return normalized
}

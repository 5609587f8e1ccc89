package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Fixture builders below produce geometrically plausible right hands for
// each supported pose. The wrist sits at (0.5, 0.8); finger columns run at
// x 0.55 (index) through 0.40 (pinky), with Y decreasing toward the
// fingertips. The poses are deliberately unambiguous so that both the
// wrist-relative and segment-straightness extension heuristics agree on
// every finger.

// setExtendedFinger places an extended, roughly vertical finger in column x.
func setExtendedFinger(h *HandLandmarks, mcp int, x float64) {
	h.Points[mcp+0] = Point3D{X: x, Y: 0.68}
	h.Points[mcp+1] = Point3D{X: x, Y: 0.55}
	h.Points[mcp+2] = Point3D{X: x, Y: 0.45}
	h.Points[mcp+3] = Point3D{X: x, Y: 0.35}
}

// setCurledFinger places a flexed finger in column x, tip folded back
// toward the palm.
func setCurledFinger(h *HandLandmarks, mcp int, x float64) {
	h.Points[mcp+0] = Point3D{X: x, Y: 0.68}
	h.Points[mcp+1] = Point3D{X: x, Y: 0.62}
	h.Points[mcp+2] = Point3D{X: x - 0.02, Y: 0.66}
	h.Points[mcp+3] = Point3D{X: x - 0.03, Y: 0.70}
}

// setExtendedThumb places the thumb out to the side of the palm.
func setExtendedThumb(h *HandLandmarks) {
	h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75}
	h.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70}
	h.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.66}
	h.Points[ThumbTip] = Point3D{X: 0.74, Y: 0.62}
}

// setCurledThumb folds the thumb across the fingers: the IP joint stays out
// at the knuckle ridge while the tip presses in near the index MCP.
func setCurledThumb(h *HandLandmarks) {
	h.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.77}
	h.Points[ThumbMCP] = Point3D{X: 0.60, Y: 0.74}
	h.Points[ThumbIP] = Point3D{X: 0.62, Y: 0.72}
	h.Points[ThumbTip] = Point3D{X: 0.51, Y: 0.71}
}

func baseHand() HandLandmarks {
	h := NewHand()
	h.Handedness = "Right"
	h.Score = 0.95
	h.Points[Wrist] = Point3D{X: 0.5, Y: 0.8}
	return h
}

// FistLandmarks returns a closed fist: all fingers curled, thumb folded.
func FistLandmarks() HandLandmarks {
	h := baseHand()
	setCurledThumb(&h)
	setCurledFinger(&h, IndexMCP, 0.55)
	setCurledFinger(&h, MiddleMCP, 0.50)
	setCurledFinger(&h, RingMCP, 0.45)
	setCurledFinger(&h, PinkyMCP, 0.40)
	return h
}

// OpenPalmLandmarks returns an open hand with all five fingers extended.
func OpenPalmLandmarks() HandLandmarks {
	h := baseHand()
	setExtendedThumb(&h)
	setExtendedFinger(&h, IndexMCP, 0.55)
	setExtendedFinger(&h, MiddleMCP, 0.50)
	h.Points[MiddleTip].Y = 0.30 // middle finger is the longest
	setExtendedFinger(&h, RingMCP, 0.45)
	setExtendedFinger(&h, PinkyMCP, 0.40)
	return h
}

// PeaceLandmarks returns index and middle fingers extended, the rest curled.
func PeaceLandmarks() HandLandmarks {
	h := baseHand()
	setCurledThumb(&h)
	setExtendedFinger(&h, IndexMCP, 0.55)
	setExtendedFinger(&h, MiddleMCP, 0.50)
	setCurledFinger(&h, RingMCP, 0.45)
	setCurledFinger(&h, PinkyMCP, 0.40)
	return h
}

// PointingLandmarks returns only the index finger extended.
func PointingLandmarks() HandLandmarks {
	h := baseHand()
	setCurledThumb(&h)
	setExtendedFinger(&h, IndexMCP, 0.55)
	setCurledFinger(&h, MiddleMCP, 0.50)
	setCurledFinger(&h, RingMCP, 0.45)
	setCurledFinger(&h, PinkyMCP, 0.40)
	return h
}

// MiddleFingerLandmarks returns only the middle finger extended.
func MiddleFingerLandmarks() HandLandmarks {
	h := baseHand()
	setCurledThumb(&h)
	setCurledFinger(&h, IndexMCP, 0.55)
	setExtendedFinger(&h, MiddleMCP, 0.50)
	setCurledFinger(&h, RingMCP, 0.45)
	setCurledFinger(&h, PinkyMCP, 0.40)
	return h
}

// ThumbsUpLandmarks returns the thumb extended upward with all other
// fingers curled.
func ThumbsUpLandmarks() HandLandmarks {
	h := baseHand()
	h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75}
	h.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.65}
	h.Points[ThumbIP] = Point3D{X: 0.58, Y: 0.52}
	h.Points[ThumbTip] = Point3D{X: 0.58, Y: 0.40}
	setCurledFinger(&h, IndexMCP, 0.55)
	setCurledFinger(&h, MiddleMCP, 0.50)
	setCurledFinger(&h, RingMCP, 0.45)
	setCurledFinger(&h, PinkyMCP, 0.40)
	return h
}

// OKSignLandmarks returns thumb and index extended with their tips nearly
// touching, the remaining fingers curled.
func OKSignLandmarks() HandLandmarks {
	h := baseHand()
	h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75}
	h.Points[ThumbMCP] = Point3D{X: 0.60, Y: 0.70}
	h.Points[ThumbIP] = Point3D{X: 0.63, Y: 0.62}
	h.Points[ThumbTip] = Point3D{X: 0.64, Y: 0.53}
	h.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68}
	h.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.58}
	h.Points[IndexDIP] = Point3D{X: 0.60, Y: 0.52}
	h.Points[IndexTip] = Point3D{X: 0.63, Y: 0.50}
	setCurledFinger(&h, MiddleMCP, 0.50)
	setCurledFinger(&h, RingMCP, 0.45)
	setCurledFinger(&h, PinkyMCP, 0.40)
	return h
}

// ThreeFingerLandmarks returns index, middle and ring extended.
func ThreeFingerLandmarks() HandLandmarks {
	h := baseHand()
	setCurledThumb(&h)
	setExtendedFinger(&h, IndexMCP, 0.55)
	setExtendedFinger(&h, MiddleMCP, 0.50)
	setExtendedFinger(&h, RingMCP, 0.45)
	setCurledFinger(&h, PinkyMCP, 0.40)
	return h
}

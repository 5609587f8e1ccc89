// Package gesture implements rule-based hand gesture classification and
// temporal stabilization over MediaPipe-style hand landmarks.
package gesture

// Label identifies a recognized hand gesture. The set is closed; UNKNOWN
// covers landmarks that matched no rule, NO_HAND covers frames where the
// detector supplied no hand at all. The two are never conflated.
type Label string

const (
	Rock         Label = "ROCK"
	Paper        Label = "PAPER"
	Scissors     Label = "SCISSORS"
	Peace        Label = "PEACE"
	Three        Label = "THREE"
	Pointing     Label = "POINTING"
	ThumbsUp     Label = "THUMBS_UP"
	MiddleFinger Label = "MIDDLE_FINGER"
	OK           Label = "OK"
	Unknown      Label = "UNKNOWN"
	NoHand       Label = "NO_HAND"
)

// Result is the per-hand, per-frame output of a classification session:
// the raw classifier verdict plus the temporally stabilized label.
type Result struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
	Stable     Label   `json:"stable"`
	Stability  float64 `json:"stability"`
	Handedness string  `json:"handedness,omitempty"`
}

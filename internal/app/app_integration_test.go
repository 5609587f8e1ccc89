package app

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/platform/metrics"
	"github.com/ayusman/mudra/internal/store"
)

func testApp(t *testing.T, config Config) *App {
	t.Helper()
	a, err := New(config)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func newTestSession(t *testing.T) *gesture.Session {
	t.Helper()
	s, err := gesture.NewSession(gesture.DefaultConfig())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestNew_RequiredCollaborators(t *testing.T) {
	cam := capture.NewMockCamera(nil, true)
	det := detector.NewMockDetector()
	sess := newTestSession(t)

	tests := []struct {
		name   string
		config Config
	}{
		{"missing camera", Config{Detector: det, Session: sess}},
		{"missing detector", Config{Camera: cam, Session: sess}},
		{"missing session", Config{Camera: cam, Detector: det}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.config); err == nil {
				t.Error("New should fail without required collaborators")
			}
		})
	}
}

func TestApp_EnableToggle(t *testing.T) {
	a := testApp(t, Config{
		Camera:   capture.NewMockCamera(nil, true),
		Detector: detector.NewMockDetector(),
		Session:  newTestSession(t),
	})

	if !a.IsEnabled() {
		t.Error("app should start enabled")
	}
	a.SetEnabled(false)
	if a.IsEnabled() {
		t.Error("SetEnabled(false) should disable")
	}
}

func TestApp_StartStopIdempotent(t *testing.T) {
	a := testApp(t, Config{
		Camera:   capture.NewMockCamera(nil, true),
		Detector: detector.NewMockDetector(),
		Session:  newTestSession(t),
	})

	if err := a.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := a.Start(); err != nil {
		t.Errorf("second Start: %v", err)
	}

	a.Stop()
	a.Stop() // must not panic or block
}

func TestApp_PipelineEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	// Alternating dark and bright frames keep the motion gate open.
	dark := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer dark.Close()
	bright := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), 120, 160, gocv.MatTypeCV8UC3)
	defer bright.Close()

	cam := capture.NewMockCamera([]*gocv.Mat{&dark, &bright}, true)

	det := detector.NewMockDetector()
	det.SetHands([]detector.HandLandmarks{detector.FistLandmarks()})

	st, err := store.New(filepath.Join(t.TempDir(), "app-test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	defer st.Close()

	sess := newTestSession(t)

	var mu sync.Mutex
	var got []gesture.Result
	resultCh := make(chan struct{}, 1)

	a := testApp(t, Config{
		Camera:   cam,
		Detector: det,
		Session:  sess,
		Store:    st,
		Metrics:  metrics.New(),
		OnResult: func(sessionID string, results []gesture.Result, fps float64) {
			mu.Lock()
			got = append(got, results...)
			mu.Unlock()
			select {
			case resultCh <- struct{}{}:
			default:
			}
		},
	})

	if err := a.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case <-resultCh:
	case <-time.After(10 * time.Second):
		a.Stop()
		t.Fatal("pipeline produced no results")
	}

	a.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(got) == 0 {
		t.Fatal("no results collected")
	}
	if got[0].Label != gesture.Rock {
		t.Errorf("label = %s, want %s", got[0].Label, gesture.Rock)
	}

	// The session record exists and is closed.
	rec, err := st.Sessions().GetByID(sess.ID())
	if err != nil {
		t.Fatalf("session record: %v", err)
	}
	if rec.EndedAt == nil {
		t.Error("session should be marked ended after Stop")
	}

	// The stable ROCK transition was persisted exactly once.
	events, err := st.Events().ListBySession(sess.ID())
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1 (transitions only, not per-frame)", len(events))
	}
	if events[0].Label != string(gesture.Rock) {
		t.Errorf("event label = %s, want ROCK", events[0].Label)
	}
}

// Package app wires the capture, detection, classification and persistence
// layers into the frame pipeline.
package app

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/platform/metrics"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline timing defaults.
const (
	// IdleFPS is the frame rate while no motion is present.
	IdleFPS = capture.DefaultIdleFPS
	// ActiveFPS is the frame rate during active detection.
	ActiveFPS = capture.DefaultActiveFPS
	// IdleTimeout is how long without motion before dropping back to idle.
	IdleTimeout = 2 * time.Second
)

// ResultFunc receives each processed frame's classification results, for
// broadcast or display.
type ResultFunc func(sessionID string, results []gesture.Result, fps float64)

// Config holds the pipeline's collaborators. Camera, Detector and Session
// are required; the rest degrade gracefully when nil.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector
	Session  *gesture.Session

	Store   *store.Store
	Metrics *metrics.Metrics
	Logger  *zap.Logger

	// MotionThreshold is the changed-pixel percentage that counts as
	// motion; non-positive falls back to the capture default.
	MotionThreshold float64

	// OnResult is called after every classified frame.
	OnResult ResultFunc
}

// App owns the detection pipeline lifecycle.
type App struct {
	config  Config
	camera  capture.Camera
	motion  *capture.MotionDetector
	session *gesture.Session
	logger  *zap.Logger

	mu      sync.Mutex
	stopCh  chan struct{}
	doneCh  chan struct{}
	enabled bool

	// lastStable tracks the previous stable label per hand slot so only
	// transitions are persisted.
	lastStable []gesture.Label
}

// New validates the configuration and creates the App.
func New(config Config) (*App, error) {
	if config.Camera == nil {
		return nil, errors.New("app: camera is required")
	}
	if config.Detector == nil {
		return nil, errors.New("app: detector is required")
	}
	if config.Session == nil {
		return nil, errors.New("app: session is required")
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &App{
		config:     config,
		camera:     config.Camera,
		motion:     capture.NewMotionDetector(config.MotionThreshold),
		session:    config.Session,
		logger:     logger,
		enabled:    true,
		lastStable: make([]gesture.Label, config.Session.Config().MaxHands),
	}, nil
}

// SetEnabled toggles classification without stopping the capture loop.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled reports whether classification is running.
func (a *App) IsEnabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enabled
}

// Session returns the classification session.
func (a *App) Session() *gesture.Session {
	return a.session
}

// Start opens the camera, records the session and launches the pipeline.
// Starting a running app is a no-op.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(IdleFPS)

	if a.config.Store != nil {
		cfg := a.session.Config()
		err := a.config.Store.Sessions().Create(&store.Session{
			ID:                  a.session.ID(),
			Ruleset:             string(cfg.Ruleset),
			ExtensionPolicy:     string(cfg.ExtensionPolicy),
			WindowCapacity:      cfg.WindowCapacity,
			ConfidenceThreshold: cfg.ConfidenceThreshold,
		})
		if err != nil {
			a.camera.Close()
			return err
		}
	}

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	a.logger.Info("pipeline started",
		zap.String("session_id", a.session.ID()),
		zap.Int("idle_fps", IdleFPS),
		zap.Int("active_fps", ActiveFPS),
	)
	return nil
}

// Stop halts the pipeline, closes the session's record and releases
// resources. Safe to call more than once.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh == nil {
		return
	}
	close(a.stopCh)
	<-a.doneCh
	a.stopCh = nil
	a.doneCh = nil

	if err := a.camera.Close(); err != nil {
		a.logger.Warn("closing camera", zap.Error(err))
	}
	a.motion.Close()
	if err := a.config.Detector.Close(); err != nil {
		a.logger.Warn("closing detector", zap.Error(err))
	}

	if a.config.Store != nil {
		if err := a.config.Store.Sessions().End(a.session.ID(), time.Now()); err != nil {
			a.logger.Warn("recording session end", zap.Error(err))
		}
	}
	a.session.Close()

	a.logger.Info("pipeline stopped", zap.String("session_id", a.session.ID()))
}

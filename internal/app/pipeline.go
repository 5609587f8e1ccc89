package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// runPipeline is the frame loop. It idles at IdleFPS until motion appears,
// classifies at ActiveFPS while motion persists, and falls back to idle
// after IdleTimeout without motion.
func (a *App) runPipeline(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	activeMode := false
	lastMotion := time.Now()
	lastFrame := time.Time{}

	interval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				a.logger.Warn("reading frame", zap.Error(err))
				continue
			}

			motion, _ := a.motion.Detect(frame)
			if motion {
				lastMotion = time.Now()
				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					ticker.Reset(time.Second / time.Duration(ActiveFPS))
					a.logger.Debug("switched to active mode")
				}
			} else if activeMode && time.Since(lastMotion) > IdleTimeout {
				activeMode = false
				a.camera.SetFPS(IdleFPS)
				ticker.Reset(time.Second / time.Duration(IdleFPS))
				lastFrame = time.Time{}
				a.logger.Debug("switched to idle mode")
			}

			if !activeMode {
				frame.Close()
				continue
			}

			now := time.Now()
			if !lastFrame.IsZero() {
				a.session.FPS().Update(now.Sub(lastFrame))
			}
			lastFrame = now

			hands, err := a.config.Detector.Detect(frame)
			frame.Close()
			if err != nil {
				if a.config.Metrics != nil {
					a.config.Metrics.IncDetectErrors()
				}
				a.logger.Warn("detecting hands", zap.Error(err))
				continue
			}

			results := a.session.Classify(hands)
			fps := a.session.FPS().Average()

			if a.config.Metrics != nil {
				a.config.Metrics.IncFrames()
				a.config.Metrics.AddHandsDetected(len(hands))
				a.config.Metrics.SetPipelineFPS(fps)
			}

			if len(hands) > 0 {
				a.recordTransitions(results)
			}

			if a.config.OnResult != nil {
				a.config.OnResult(a.session.ID(), results, fps)
			}
		}
	}
}

// recordTransitions persists each hand slot's stable-label change. Only
// transitions are stored, never the per-frame stream, and NO_HAND gaps do
// not count as gestures.
func (a *App) recordTransitions(results []gesture.Result) {
	for i, r := range results {
		if i >= len(a.lastStable) {
			break
		}
		if r.Stable == a.lastStable[i] {
			continue
		}
		a.lastStable[i] = r.Stable

		if r.Stable == gesture.NoHand || r.Stable == "" {
			continue
		}

		if a.config.Metrics != nil {
			a.config.Metrics.IncRecognitions(string(r.Stable))
		}

		if a.config.Store != nil {
			err := a.config.Store.Events().Create(&store.Event{
				SessionID:  a.session.ID(),
				Label:      string(r.Stable),
				Confidence: r.Confidence,
				Stability:  r.Stability,
				Handedness: r.Handedness,
			})
			if err != nil {
				a.logger.Warn("persisting event", zap.Error(err))
			}
		}

		a.logger.Info("stable gesture",
			zap.String("label", string(r.Stable)),
			zap.Float64("stability", r.Stability),
			zap.Int("slot", i),
		)
	}
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/platform/config"
	"github.com/ayusman/mudra/internal/platform/logger"
	"github.com/ayusman/mudra/internal/platform/metrics"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = config.Load()

	port := config.GetEnv("MUDRA_PORT", "8080")
	logLevel := config.GetEnv("MUDRA_LOG_LEVEL", "info")
	logFormat := config.GetEnv("MUDRA_LOG_FORMAT", "console")

	log, err := logger.New(logLevel, logFormat)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	st, err := store.New(dbPath(log))
	if err != nil {
		log.Fatal("opening store", zap.Error(err))
	}
	defer st.Close()

	sessionConfig := sessionConfigFromEnv(log)
	session, err := gesture.NewSession(sessionConfig)
	if err != nil {
		log.Fatal("invalid session configuration", zap.Error(err))
	}

	cam := capture.NewCamera(capture.Config{
		DeviceID: config.GetEnvInt("MUDRA_CAMERA_ID", 0),
		Width:    config.GetEnvInt("MUDRA_FRAME_WIDTH", capture.DefaultWidth),
		Height:   config.GetEnvInt("MUDRA_FRAME_HEIGHT", capture.DefaultHeight),
		FPS:      capture.DefaultIdleFPS,
		Mirror:   config.GetEnvBool("MUDRA_MIRROR", true),
	})

	det := newDetector(log)
	met := metrics.New()

	srv := server.New(server.Config{
		Store:     st,
		Camera:    cam,
		Metrics:   met,
		Logger:    log,
		StaticDir: config.GetEnv("MUDRA_STATIC_DIR", ""),
	})

	pipeline, err := app.New(app.Config{
		Camera:          cam,
		Detector:        det,
		Session:         session,
		Store:           st,
		Metrics:         met,
		Logger:          log,
		MotionThreshold: config.GetEnvFloat("MUDRA_MOTION_THRESHOLD", capture.DefaultMotionPercent),
		OnResult: func(sessionID string, results []gesture.Result, fps float64) {
			srv.Hub().Publish(server.Update{
				SessionID: sessionID,
				Results:   results,
				FPS:       fps,
			})
		},
	})
	if err != nil {
		log.Fatal("building pipeline", zap.Error(err))
	}

	if err := pipeline.Start(); err != nil {
		log.Fatal("starting pipeline", zap.Error(err))
	}

	go func() {
		log.Info("server starting",
			zap.String("port", port),
			zap.String("session_id", session.ID()),
			zap.String("ruleset", string(sessionConfig.Ruleset)),
		)
		if err := srv.ListenAndServe(":" + port); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received")

	pipeline.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}

	log.Info("stopped")
}

// dbPath resolves the database file, defaulting to ~/.mudra/mudra.db.
func dbPath(log *zap.Logger) string {
	if p := config.GetEnv("MUDRA_DB_PATH", ""); p != "" {
		return p
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatal("resolving home directory", zap.Error(err))
	}

	dir := filepath.Join(homeDir, ".mudra")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatal("creating data directory", zap.Error(err))
	}
	return filepath.Join(dir, "mudra.db")
}

// sessionConfigFromEnv builds the session configuration from MUDRA_* vars.
func sessionConfigFromEnv(log *zap.Logger) gesture.Config {
	cfg := gesture.DefaultConfig()
	cfg.Logger = log

	cfg.WindowCapacity = config.GetEnvInt("MUDRA_WINDOW_CAPACITY", cfg.WindowCapacity)
	cfg.ConfidenceThreshold = config.GetEnvFloat("MUDRA_CONFIDENCE_THRESHOLD", cfg.ConfidenceThreshold)
	cfg.MaxHands = config.GetEnvInt("MUDRA_MAX_HANDS", cfg.MaxHands)

	cfg.Ruleset = gesture.Ruleset(config.GetEnv("MUDRA_RULESET", string(cfg.Ruleset)))
	cfg.ExtensionPolicy = gesture.ExtensionPolicy(config.GetEnv("MUDRA_EXTENSION_POLICY", string(cfg.ExtensionPolicy)))
	cfg.ThumbReference = gesture.ThumbReference(config.GetEnv("MUDRA_THUMB_REFERENCE", string(cfg.ThumbReference)))
	cfg.Admission = gesture.AdmissionPolicy(config.GetEnv("MUDRA_ADMISSION", string(cfg.Admission)))
	cfg.Report = gesture.ReportPolicy(config.GetEnv("MUDRA_REPORT", string(cfg.Report)))
	cfg.ThreePolicy = gesture.ThreePolicy(config.GetEnv("MUDRA_THREE_POLICY", string(cfg.ThreePolicy)))

	return cfg
}

// newDetector prefers the MediaPipe service, falling back to the mock so the
// HTTP surface still comes up without Python installed.
func newDetector(log *zap.Logger) detector.Detector {
	mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig())
	if err == nil {
		log.Info("using MediaPipe hand detection")
		return mp
	}
	log.Warn("MediaPipe unavailable, using mock detector", zap.Error(err))
	return detector.NewMockDetector()
}

// Package capture provides webcam frame acquisition and motion gating on
// top of GoCV (OpenCV).
package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// Default capture settings. The pipeline starts at the idle rate and raises
// it only while motion is present.
const (
	DefaultIdleFPS   = 5
	DefaultActiveFPS = 15
	DefaultWidth     = 640
	DefaultHeight    = 480
)

// ErrCameraNotOpen is returned when reading from a camera that is not open.
var ErrCameraNotOpen = errors.New("camera is not open")

// ErrFrameRead is returned when the device yields no usable frame.
var ErrFrameRead = errors.New("failed to read frame from camera")

// Config holds camera acquisition settings.
type Config struct {
	// DeviceID is the OpenCV capture device index.
	DeviceID int

	// Width and Height request the capture resolution.
	Width, Height int

	// FPS is the initial capture rate.
	FPS int

	// Mirror flips frames horizontally, matching what a user expects to
	// see of their own hand.
	Mirror bool
}

// DefaultCameraConfig returns the settings used by the reference pipeline.
func DefaultCameraConfig() Config {
	return Config{
		DeviceID: 0,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		FPS:      DefaultIdleFPS,
		Mirror:   true,
	}
}

// Camera abstracts a frame source so the pipeline can run against a real
// webcam or recorded frames in tests.
type Camera interface {
	Open() error
	Close() error

	// ReadFrame returns the next frame. The caller owns the Mat and must
	// close it.
	ReadFrame() (*gocv.Mat, error)

	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}

// webcam captures from a physical device via GoCV.
type webcam struct {
	config Config

	mu      sync.Mutex
	device  *gocv.VideoCapture
	fps     int
	running bool
}

// NewCamera creates a Camera for the given configuration. Zero-valued
// resolution or rate fields fall back to the defaults.
func NewCamera(config Config) Camera {
	if config.Width <= 0 {
		config.Width = DefaultWidth
	}
	if config.Height <= 0 {
		config.Height = DefaultHeight
	}
	if config.FPS <= 0 {
		config.FPS = DefaultIdleFPS
	}
	return &webcam{config: config, fps: config.FPS}
}

// Open opens the device and applies the configured resolution and rate.
// Opening an already-open camera is a no-op.
func (c *webcam) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	device, err := gocv.OpenVideoCapture(c.config.DeviceID)
	if err != nil {
		return err
	}

	device.Set(gocv.VideoCaptureFrameWidth, float64(c.config.Width))
	device.Set(gocv.VideoCaptureFrameHeight, float64(c.config.Height))
	device.Set(gocv.VideoCaptureFPS, float64(c.fps))

	c.device = device
	c.running = true
	return nil
}

// Close releases the device.
func (c *webcam) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.device == nil {
		c.running = false
		return nil
	}

	err := c.device.Close()
	c.device = nil
	c.running = false
	return err
}

// ReadFrame reads one frame, mirrored if configured.
func (c *webcam) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.device == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.device.Read(&mat); !ok {
		mat.Close()
		return nil, ErrFrameRead
	}
	if mat.Empty() {
		mat.Close()
		return nil, ErrFrameRead
	}

	if c.config.Mirror {
		gocv.Flip(mat, &mat, 1)
	}

	return &mat, nil
}

// SetFPS adjusts the capture rate. Non-positive values are ignored.
func (c *webcam) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fps = fps
	if c.device != nil {
		c.device.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

// FPS returns the current capture rate setting.
func (c *webcam) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}

// IsOpen reports whether the camera is open.
func (c *webcam) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

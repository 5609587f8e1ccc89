// Package metrics exposes Prometheus instrumentation for the gesture
// pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the pipeline. A private
// registry keeps the scrape surface limited to what the application itself
// registers.
type Metrics struct {
	registry           *prometheus.Registry
	framesTotal        prometheus.Counter
	handsDetectedTotal prometheus.Counter
	recognitionsTotal  *prometheus.CounterVec
	detectErrorsTotal  prometheus.Counter
	pipelineFPS        prometheus.Gauge
	wsClients          prometheus.Gauge
}

// New creates and registers the pipeline metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	framesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mudra_frames_processed_total",
		Help: "Total number of camera frames processed",
	})
	handsDetectedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mudra_hands_detected_total",
		Help: "Total number of hands detected across all frames",
	})
	recognitionsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mudra_recognitions_total",
		Help: "Total number of stable gesture transitions, by label",
	}, []string{"label"})
	detectErrorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mudra_detect_errors_total",
		Help: "Total number of detector failures",
	})
	pipelineFPS := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mudra_pipeline_fps",
		Help: "Rolling average frames per second of the pipeline",
	})
	wsClients := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mudra_websocket_clients",
		Help: "Number of connected WebSocket clients",
	})

	registry.MustRegister(
		framesTotal,
		handsDetectedTotal,
		recognitionsTotal,
		detectErrorsTotal,
		pipelineFPS,
		wsClients,
	)

	return &Metrics{
		registry:           registry,
		framesTotal:        framesTotal,
		handsDetectedTotal: handsDetectedTotal,
		recognitionsTotal:  recognitionsTotal,
		detectErrorsTotal:  detectErrorsTotal,
		pipelineFPS:        pipelineFPS,
		wsClients:          wsClients,
	}
}

// IncFrames increments the processed frame counter.
func (m *Metrics) IncFrames() {
	m.framesTotal.Inc()
}

// AddHandsDetected adds to the detected hand counter.
func (m *Metrics) AddHandsDetected(n int) {
	m.handsDetectedTotal.Add(float64(n))
}

// IncRecognitions increments the stable transition counter for a label.
func (m *Metrics) IncRecognitions(label string) {
	m.recognitionsTotal.WithLabelValues(label).Inc()
}

// IncDetectErrors increments the detector failure counter.
func (m *Metrics) IncDetectErrors() {
	m.detectErrorsTotal.Inc()
}

// SetPipelineFPS sets the pipeline FPS gauge.
func (m *Metrics) SetPipelineFPS(fps float64) {
	m.pipelineFPS.Set(fps)
}

// SetWSClients sets the connected WebSocket client gauge.
func (m *Metrics) SetWSClients(n int) {
	m.wsClients.Set(float64(n))
}

// Handler returns an http.Handler that serves the metrics. updateGauges is
// called before each scrape to refresh gauge values.
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}

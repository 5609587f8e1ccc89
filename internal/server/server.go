// Package server provides the HTTP surface of the gesture engine: REST
// resources, the MJPEG preview, the result WebSocket and Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/platform/metrics"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
)

// Config holds the server's collaborators. Nil fields disable the routes
// that need them.
type Config struct {
	Store     *store.Store
	Camera    capture.Camera
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
	StaticDir string
}

// Server is the HTTP server for the gesture engine.
type Server struct {
	config Config
	router chi.Router
	hub    *ResultHub
	logger *zap.Logger
	start  time.Time

	httpServer *http.Server
}

// New creates a Server and mounts its routes.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		config: config,
		router: chi.NewRouter(),
		hub:    NewResultHub(logger),
		logger: logger,
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// Hub returns the WebSocket hub the pipeline publishes into.
func (s *Server) Hub() *ResultHub {
	return s.hub
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Recoverer)

	s.router.Get("/api/health", s.handleHealth)

	if s.config.Metrics != nil {
		s.router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			s.config.Metrics.Handler(func() {
				s.config.Metrics.SetWSClients(s.hub.ClientCount())
			}).ServeHTTP(w, r)
		})
	}

	if s.config.Store != nil {
		sessions := api.NewSessionsHandler(s.config.Store)
		events := api.NewEventsHandler(s.config.Store)

		s.router.Route("/api/sessions", func(r chi.Router) {
			r.Get("/", sessions.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", sessions.Get)
				r.Get("/events", sessions.Events)
				r.Get("/stats", sessions.Stats)
				r.Delete("/", sessions.Delete)
			})
		})
		s.router.Get("/api/events", events.Recent)
	}

	if s.config.Camera != nil {
		s.router.Get("/api/stream", NewStreamHandler(s.config.Camera).ServeHTTP)
	}

	s.router.Get("/api/ws", s.hub.ServeHTTP)

	if s.config.StaticDir != "" {
		s.router.Handle("/*", http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ListenAndServe starts the server on addr and blocks until it stops.
func (s *Server) ListenAndServe(addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s}
	return s.httpServer.ListenAndServe()
}

// Shutdown drains connections and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

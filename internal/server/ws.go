package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/gesture"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local tool, same-origin UI
	},
}

// Update is one WebSocket broadcast: the per-slot classification results for
// a frame plus pipeline telemetry.
type Update struct {
	SessionID string           `json:"session_id"`
	Results   []gesture.Result `json:"results"`
	FPS       float64          `json:"fps"`
	Timestamp int64            `json:"timestamp_ms"`
}

// ResultHub fans classification updates out to WebSocket clients. The
// pipeline pushes with Publish; slow clients are dropped rather than allowed
// to stall the broadcast.
type ResultHub struct {
	logger *zap.Logger

	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
}

// NewResultHub creates an empty hub.
func NewResultHub(logger *zap.Logger) *ResultHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultHub{
		logger:  logger,
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP upgrades the connection and keeps it registered until the client
// goes away.
func (h *ResultHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Drain client messages to observe disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Publish sends an update to every connected client. Write failures evict
// the client.
func (h *ResultHub) Publish(u Update) {
	if u.Timestamp == 0 {
		u.Timestamp = time.Now().UnixMilli()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(u); err != nil {
			h.logger.Debug("dropping websocket client", zap.Error(err))
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *ResultHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

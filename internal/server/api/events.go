package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ayusman/mudra/internal/store"
)

// EventsHandler serves the cross-session event resources.
type EventsHandler struct {
	store *store.Store
}

// NewEventsHandler creates an EventsHandler backed by s.
func NewEventsHandler(s *store.Store) *EventsHandler {
	return &EventsHandler{store: s}
}

// eventResponse is the JSON shape of a recognition event.
type eventResponse struct {
	ID         int64     `json:"id"`
	SessionID  string    `json:"session_id"`
	Label      string    `json:"label"`
	Confidence float64   `json:"confidence"`
	Stability  float64   `json:"stability"`
	Handedness string    `json:"handedness,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toEventResponse(e *store.Event) eventResponse {
	return eventResponse{
		ID:         e.ID,
		SessionID:  e.SessionID,
		Label:      e.Label,
		Confidence: e.Confidence,
		Stability:  e.Stability,
		Handedness: e.Handedness,
		CreatedAt:  e.CreatedAt,
	}
}

// Recent handles GET /api/events?limit=N, newest first.
func (h *EventsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	events, err := h.store.Events().ListRecent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/platform/metrics"
	"github.com/ayusman/mudra/internal/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "server-test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return New(Config{
		Store:   st,
		Metrics: metrics.New(),
	})
}

func TestServer_Health(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
	if _, ok := body["uptime"]; !ok {
		t.Error("response missing uptime")
	}
}

func TestServer_MetricsEndpoint(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "mudra_websocket_clients") {
		t.Error("metrics output missing websocket client gauge")
	}
}

func TestServer_SessionsRouteMounted(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestServer_StreamDisabledWithoutCamera(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/stream", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 with no camera configured", rec.Code)
	}
}

func TestResultHub_PublishToClient(t *testing.T) {
	s := testServer(t)

	ts := httptest.NewServer(s)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Registration races the dial; wait for the hub to see the client.
	deadline := time.Now().Add(2 * time.Second)
	for s.Hub().ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	s.Hub().Publish(Update{
		SessionID: "test-session",
		Results: []gesture.Result{{
			Label:      gesture.Rock,
			Confidence: 0.95,
			Stable:     gesture.Rock,
			Stability:  1.0,
		}},
		FPS: 14.2,
	})

	var got Update
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.SessionID != "test-session" {
		t.Errorf("session_id = %q, want test-session", got.SessionID)
	}
	if len(got.Results) != 1 || got.Results[0].Stable != gesture.Rock {
		t.Errorf("results = %+v, want one stable ROCK", got.Results)
	}
	if got.Timestamp == 0 {
		t.Error("Publish should stamp the update")
	}
}

func TestResultHub_ClientCount(t *testing.T) {
	hub := NewResultHub(nil)
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount = %d, want 0", hub.ClientCount())
	}

	// Publishing with no clients must be a no-op, not a panic.
	hub.Publish(Update{SessionID: "empty"})
}

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/headtilt/internal/app"
	"github.com/ayusman/headtilt/internal/compositor"
	"github.com/ayusman/headtilt/internal/gesture"
	"github.com/ayusman/headtilt/internal/store"
	"github.com/ayusman/headtilt/internal/track"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { st.Close() })

	a, err := app.New(app.Config{
		Store:  st,
		Source: track.NewMockSource(nil),
		Client: compositor.NewMockClient(),
	})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}

	return New(Config{Store: st, App: a, Live: NewLiveHandler()}), st
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/health = %d, want 200", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/health", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /api/health = %d, want 405", rec.Code)
	}
}

func TestHandleStatus(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/status = %d, want 200", rec.Code)
	}

	var body struct {
		Enabled    bool               `json:"enabled"`
		Depth      int                `json:"depth"`
		WarmUp     int                `json:"warm_up"`
		Thresholds map[string]float64 `json:"thresholds"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if !body.Enabled {
		t.Error("enabled = false, want true")
	}
	if body.WarmUp != gesture.DefaultWarmUp {
		t.Errorf("warm_up = %d, want %d", body.WarmUp, gesture.DefaultWarmUp)
	}
	if body.Thresholds["yaw_rate"] != gesture.DefaultYawRate {
		t.Errorf("yaw_rate = %f, want %f", body.Thresholds["yaw_rate"], gesture.DefaultYawRate)
	}
}

func TestHandleEvents(t *testing.T) {
	srv, st := newTestServer(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := st.Events().Create(&store.Event{
			ID:        uuid.NewString(),
			Signal:    "left-column",
			Axis:      "yaw",
			Rate:      45,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("seed event: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events?limit=2", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/events = %d, want 200", rec.Code)
	}

	var events []store.Event
	if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("returned %d events, want 2", len(events))
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events?limit=zero", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid limit = %d, want 400", rec.Code)
	}
}

func TestHandleEvents_EmptyIsArray(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/events = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("empty event log rendered %q, want []", got)
	}
}

func TestLiveHandler_Broadcast(t *testing.T) {
	srv, _ := newTestServer(t)
	live := srv.config.Live

	ts := httptest.NewServer(srv)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	defer conn.Close()

	// Registration happens on the server goroutine.
	deadline := time.Now().Add(2 * time.Second)
	for live.Clients() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if live.Clients() != 1 {
		t.Fatal("client never registered")
	}

	rec := gesture.Record{
		Pose:     gesture.Pose{Yaw: 10},
		Velocity: gesture.Velocity{Yaw: 50},
		At:       time.Unix(1700000000, 0),
	}

	// Two rapid pose frames: the second is throttled away, so the next
	// message after the first frame is the signal.
	live.BroadcastRecord(rec)
	live.BroadcastRecord(rec)
	live.BroadcastSignal(gesture.SignalLeftColumn, rec)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var first map[string]interface{}
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read pose frame: %v", err)
	}
	if first["type"] != "pose" {
		t.Fatalf("first message type = %v, want pose", first["type"])
	}

	var second map[string]interface{}
	if err := conn.ReadJSON(&second); err != nil {
		t.Fatalf("read signal message: %v", err)
	}
	if second["type"] != "signal" {
		t.Errorf("second message type = %v, want signal", second["type"])
	}
	if second["signal"] != "left-column" {
		t.Errorf("signal = %v, want left-column", second["signal"])
	}
}

package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/ayusman/headtilt/internal/gesture"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// frameInterval throttles pose frames so a 100 Hz sensor does not flood
// every connected client; signals are never throttled.
const frameInterval = 33 * time.Millisecond

// vec is the wire form of a six-field pose or rate vector.
type vec struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
}

func poseVec(p gesture.Pose) vec {
	return vec{X: p.X, Y: p.Y, Z: p.Z, Yaw: p.Yaw, Pitch: p.Pitch, Roll: p.Roll}
}

func rateVec(v gesture.Velocity) vec {
	return vec{X: v.X, Y: v.Y, Z: v.Z, Yaw: v.Yaw, Pitch: v.Pitch, Roll: v.Roll}
}

// LiveHandler broadcasts real-time pose frames and classified signals via
// WebSocket.
type LiveHandler struct {
	clients   map[*websocket.Conn]bool
	mu        sync.RWMutex
	lastFrame time.Time
}

// NewLiveHandler creates a LiveHandler with no connected clients.
func NewLiveHandler() *LiveHandler {
	return &LiveHandler{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
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

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Clients returns the number of connected clients.
func (h *LiveHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastRecord sends a throttled pose frame to every connected client.
func (h *LiveHandler) BroadcastRecord(rec gesture.Record) {
	h.mu.Lock()
	if len(h.clients) == 0 || time.Since(h.lastFrame) < frameInterval {
		h.mu.Unlock()
		return
	}
	h.lastFrame = time.Now()
	h.mu.Unlock()

	h.send(map[string]interface{}{
		"type":      "pose",
		"pose":      poseVec(rec.Pose),
		"velocity":  rateVec(rec.Velocity),
		"accel":     rateVec(rec.Accel),
		"timestamp": rec.At.UnixMilli(),
	})
}

// BroadcastSignal sends a classified signal to every connected client.
func (h *LiveHandler) BroadcastSignal(sig gesture.Signal, rec gesture.Record) {
	h.send(map[string]interface{}{
		"type":      "signal",
		"signal":    sig.String(),
		"axis":      sig.Axis(),
		"timestamp": rec.At.UnixMilli(),
	})
}

// send marshals and writes one message to every client.
func (h *LiveHandler) send(msg interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("websocket write error: %v", err)
		}
	}
}

// Package server provides the HTTP status surface for the headtilt daemon.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ayusman/headtilt/internal/app"
	"github.com/ayusman/headtilt/internal/store"
)

// Config holds the server configuration.
type Config struct {
	Store *store.Store
	App   *app.App
	Live  *LiveHandler
}

// Server represents the HTTP server for the headtilt daemon.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.App != nil {
		s.mux.HandleFunc("/api/status", s.handleStatus)
	}
	if s.config.Store != nil {
		s.mux.HandleFunc("/api/events", s.handleEvents)
	}
	if s.config.Live != nil {
		s.mux.Handle("/api/live", s.config.Live)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	})
}

// handleStatus reports the detection toggle, warm-up depth and thresholds.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	a := s.config.App
	cfg := a.Classifier().Config()

	status := map[string]interface{}{
		"enabled": a.IsEnabled(),
		"depth":   a.Classifier().Depth(),
		"warm_up": cfg.WarmUp,
		"thresholds": map[string]float64{
			"yaw_rate":         cfg.YawRate,
			"pitch_up_rate":    cfg.PitchUpRate,
			"pitch_down_rate":  cfg.PitchDownRate,
			"monitor_yaw_rate": cfg.MonitorYawRate,
		},
	}

	if s.config.Store != nil {
		if counts, err := s.config.Store.Events().CountBySignal(); err == nil {
			status["signals"] = counts
		}
	}

	writeJSON(w, status)
}

// handleEvents returns the most recent classified gestures.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	events, err := s.config.Store.Events().ListRecent(limit)
	if err != nil {
		http.Error(w, "Failed to list events", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []*store.Event{}
	}

	writeJSON(w, events)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

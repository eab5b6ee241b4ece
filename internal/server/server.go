// Package server exposes the control signals, scene geometry, and camera
// preview over HTTP for the external renderer and UI.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/banyan/internal/capture"
	"github.com/ayusman/banyan/internal/scene"
	"github.com/ayusman/banyan/internal/server/api"
	"github.com/ayusman/banyan/internal/session"
	"github.com/ayusman/banyan/internal/store"
)

// Controller is the surface the server needs from the running app: the
// published control snapshot plus the two inbound UI operations. The server
// never mutates pipeline state directly.
type Controller interface {
	Snapshot() session.Snapshot
	FocusEntity(index int) bool
	SetCameraEnabled(enabled bool) error
	CameraEnabled() bool
	Layout() *scene.Layout
}

// Config holds the server configuration.
type Config struct {
	StaticDir  string
	Store      *store.Store
	Camera     capture.Camera
	Controller Controller
}

// Server is the HTTP server for the banyan daemon.
type Server struct {
	config  Config
	mux     *http.ServeMux
	control *ControlHandler
	start   time.Time
}

// New creates a Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Controller != nil {
		s.mux.HandleFunc("/api/state", s.handleState)
		s.mux.HandleFunc("/api/scene", s.handleScene)
		s.mux.HandleFunc("/api/focus", s.handleFocus)
		s.mux.HandleFunc("/api/camera", s.handleCamera)
		s.control = NewControlHandler(s.config.Controller)
		s.mux.Handle("/api/control", s.control)
	}

	if s.config.Store != nil {
		layoutHandler := api.NewLayoutHandler(s.config.Store)
		s.mux.Handle("/api/layouts", layoutHandler)
		s.mux.Handle("/api/layouts/", layoutHandler)
	}

	if s.config.Camera != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Camera))
	}

	if s.config.StaticDir != "" {
		s.mux.Handle("/", http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

// Close stops the server's background broadcast loop. It does not close
// in-flight HTTP connections.
func (s *Server) Close() {
	if s.control != nil {
		s.control.Close()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	})
}

// handleState serves the current control snapshot for pull-based clients.
// Renderers that need per-frame signals should use /api/control instead.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.config.Controller.Snapshot())
}

// handleScene serves the active layout: the fixed gathered and scattered
// anchors the renderer interpolates between.
func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	layout := s.config.Controller.Layout()
	if layout == nil {
		http.Error(w, "No layout loaded", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, layout)
}

// handleFocus applies a click-to-focus selection from the UI.
func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Index int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if !s.config.Controller.FocusEntity(req.Index) {
		writeJSON(w, http.StatusConflict, map[string]any{"focused": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"focused": true, "index": req.Index})
}

// handleCamera reads or toggles the camera state.
func (s *Server) handleCamera(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"enabled": s.config.Controller.CameraEnabled()})
	case http.MethodPost:
		var req struct {
			Enabled bool `json:"enabled"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := s.config.Controller.SetCameraEnabled(req.Enabled); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"enabled": req.Enabled})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Package api provides the REST handlers for scene layout resources.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/banyan/internal/scene"
	"github.com/ayusman/banyan/internal/store"
)

// LayoutHandler handles HTTP requests for layout resources.
type LayoutHandler struct {
	store *store.Store
}

// NewLayoutHandler creates a LayoutHandler backed by the given store.
func NewLayoutHandler(s *store.Store) *LayoutHandler {
	return &LayoutHandler{store: s}
}

// ServeHTTP routes collection and item requests.
// Paths: /api/layouts, /api/layouts/{id}, /api/layouts/{id}/photo.
func (h *LayoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/layouts")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if id, ok := strings.CutSuffix(path, "/photo"); ok {
		if r.Method != http.MethodPut {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.setPhoto(w, r, id)
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type createLayoutRequest struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Seed  int64  `json:"seed"`
}

type setPhotoRequest struct {
	Index int    `json:"index"`
	URL   string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/layouts (without entities).
func (h *LayoutHandler) list(w http.ResponseWriter, r *http.Request) {
	layouts, err := h.store.Layouts().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list layouts")
		return
	}
	if layouts == nil {
		layouts = []*scene.Layout{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"layouts": layouts})
}

// create handles POST /api/layouts: generate and persist a fresh layout.
func (h *LayoutHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if req.Count <= 0 {
		writeError(w, http.StatusBadRequest, "Count must be positive")
		return
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}

	layout := scene.Generate(req.Name, req.Count, req.Seed)
	if err := h.store.Layouts().Save(layout); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save layout")
		return
	}
	writeJSON(w, http.StatusCreated, layout)
}

// get handles GET /api/layouts/{id}, entities included.
func (h *LayoutHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	layout, err := h.store.Layouts().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Layout not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get layout")
		return
	}
	writeJSON(w, http.StatusOK, layout)
}

// delete handles DELETE /api/layouts/{id}.
func (h *LayoutHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Layouts().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Layout not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete layout")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// setPhoto handles PUT /api/layouts/{id}/photo: attach a photo URL to one
// entity of the layout.
func (h *LayoutHandler) setPhoto(w http.ResponseWriter, r *http.Request, id string) {
	var req setPhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.store.Layouts().SetPhotoURL(id, req.Index, req.URL); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Layout or entity not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to set photo")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// broadcastInterval is the control-signal push rate (~30 Hz), fast enough
// for the renderer to animate on without interpolation gaps.
const broadcastInterval = 33 * time.Millisecond

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// ControlHandler streams control snapshots to renderer clients over
// WebSocket and accepts focus/camera events back on the same connection.
type ControlHandler struct {
	controller Controller
	clients    map[*websocket.Conn]bool
	done       chan struct{}
	closeOnce  sync.Once
	mu         sync.RWMutex
}

// NewControlHandler creates a ControlHandler and starts its broadcast loop.
func NewControlHandler(c Controller) *ControlHandler {
	h := &ControlHandler{
		controller: c,
		clients:    make(map[*websocket.Conn]bool),
		done:       make(chan struct{}),
	}
	go h.broadcast()
	return h
}

// Close stops the broadcast loop. Connected clients keep their connections
// but receive no further snapshots. Safe to call more than once.
func (h *ControlHandler) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// clientEvent is an inbound UI message: a click-to-focus selection or a
// camera toggle.
type clientEvent struct {
	Type    string `json:"type"`
	Index   int    `json:"index"`
	Enabled bool   `json:"enabled"`
}

// ServeHTTP upgrades the connection and pumps inbound UI events.
func (h *ControlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var event clientEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			continue
		}
		switch event.Type {
		case "focus":
			h.controller.FocusEntity(event.Index)
		case "camera":
			if err := h.controller.SetCameraEnabled(event.Enabled); err != nil {
				log.Printf("camera toggle: %v", err)
			}
		}
	}
}

// broadcast pushes the current snapshot to every connected client until the
// handler is closed.
func (h *ControlHandler) broadcast() {
	ticker := time.NewTicker(broadcastInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
		}

		h.mu.RLock()
		idle := len(h.clients) == 0
		h.mu.RUnlock()
		if idle {
			continue
		}

		msg, err := json.Marshal(h.controller.Snapshot())
		if err != nil {
			continue
		}

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}

package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/banyan/internal/session"
)

func dialControl(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/control"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestControlHandler_BroadcastsSnapshots(t *testing.T) {
	fc := &fakeController{
		snapshot: session.Snapshot{PhaseLabel: "nebula", Explosion: 0.5, Tracking: true},
	}
	srv := httptest.NewServer(newTestServer(t, fc))
	defer srv.Close()

	conn := dialControl(t, srv)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var snap session.Snapshot
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if snap.PhaseLabel != "nebula" || snap.Explosion != 0.5 || !snap.Tracking {
		t.Errorf("snapshot = %+v, want the controller's values", snap)
	}

	// Broadcasts keep coming.
	if err := conn.ReadJSON(&snap); err != nil {
		t.Errorf("second ReadJSON: %v", err)
	}
}

func TestControlHandler_InboundFocusEvent(t *testing.T) {
	fc := &fakeController{focusAccepted: true}
	srv := httptest.NewServer(newTestServer(t, fc))
	defer srv.Close()

	conn := dialControl(t, srv)
	if err := conn.WriteJSON(map[string]any{"type": "focus", "index": 7}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for fc.lastFocusedIndex() != 7 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := fc.lastFocusedIndex(); got != 7 {
		t.Errorf("controller got index %d, want 7", got)
	}
}

func TestControlHandler_InboundCameraEvent(t *testing.T) {
	fc := &fakeController{}
	srv := httptest.NewServer(newTestServer(t, fc))
	defer srv.Close()

	conn := dialControl(t, srv)
	if err := conn.WriteJSON(map[string]any{"type": "camera", "enabled": true}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for !fc.CameraEnabled() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if !fc.CameraEnabled() {
		t.Error("controller was not asked to enable the camera")
	}
}

func TestControlHandler_CloseStopsBroadcast(t *testing.T) {
	fc := &fakeController{
		snapshot: session.Snapshot{PhaseLabel: "tree"},
	}
	server := New(Config{Controller: fc})
	srv := httptest.NewServer(server)
	defer srv.Close()

	conn := dialControl(t, srv)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var snap session.Snapshot
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("ReadJSON before close: %v", err)
	}

	server.Close()
	server.Close() // safe to repeat
	conn.Close()

	// A client connecting after Close never hears a broadcast.
	late := dialControl(t, srv)
	late.SetReadDeadline(time.Now().Add(10 * broadcastInterval))
	if err := late.ReadJSON(&snap); err == nil {
		t.Error("received a broadcast after Close")
	}
}

func TestControlHandler_IgnoresMalformedMessages(t *testing.T) {
	fc := &fakeController{focusAccepted: true}
	srv := httptest.NewServer(newTestServer(t, fc))
	defer srv.Close()

	conn := dialControl(t, srv)
	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	// The connection survives and still delivers broadcasts.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var snap session.Snapshot
	if err := conn.ReadJSON(&snap); err != nil {
		t.Errorf("ReadJSON after bad message: %v", err)
	}
}

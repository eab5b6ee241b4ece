// Package app orchestrates the banyan pipeline: camera, hand detector,
// gesture session, and persistence.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/banyan/internal/capture"
	"github.com/ayusman/banyan/internal/detector"
	"github.com/ayusman/banyan/internal/phase"
	"github.com/ayusman/banyan/internal/scene"
	"github.com/ayusman/banyan/internal/session"
	"github.com/ayusman/banyan/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active tracking.
	ActiveFPS = 15
	// IdleTimeout is how long without motion before dropping back to idle.
	IdleTimeout = 2 * time.Second
)

// Config holds application configuration.
type Config struct {
	Store        *store.Store
	Layout       *scene.Layout
	CameraID     int
	MotionThresh float64
	Session      session.Config
}

// App owns the per-frame pipeline and all state the server reads. The
// session is single-owner; every access goes through the app's mutex.
type App struct {
	config   Config
	camera   capture.Camera
	motion   *capture.MotionDetector
	detector detector.Detector
	session  *session.Session
	layout   *scene.Layout

	sessionID    string
	onTransition func(from, to phase.Phase)

	mu     sync.Mutex
	last   session.Snapshot
	stopCh chan struct{}
}

// New creates an App. Detector initialization failure is not fatal: the app
// runs degraded with tracking unavailable and the sculpture frozen at the
// tree until a detector becomes available.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}
	if config.Layout != nil {
		config.Session.EntityCount = len(config.Layout.Entities)
	}

	a := &App{
		config:    config,
		camera:    capture.NewCamera(config.CameraID),
		motion:    capture.NewMotionDetector(motionThreshold),
		session:   session.New(config.Session),
		layout:    config.Layout,
		sessionID: uuid.NewString(),
	}
	a.last = a.session.Snapshot(time.Now())

	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("Hand detection unavailable (%v), running degraded", err)
	}

	a.session.Machine().OnTransition(a.handleTransition)
	a.session.Machine().OnViewReset(func() {
		log.Println("View reset to initial framing")
	})

	return a
}

// SetDetector replaces the detection backend, used by tests and by a late
// detector recovery.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SessionID identifies this run in the event log.
func (a *App) SessionID() string {
	return a.sessionID
}

// OnTransition registers an observer for phase changes, fired after the
// event has been persisted. Used by the tray.
func (a *App) OnTransition(fn func(from, to phase.Phase)) {
	a.onTransition = fn
}

// Start opens the camera and begins the frame loop. Starting a running app
// is a no-op.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(IdleFPS)

	a.session.ResetTracking()
	a.motion.Reset()

	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Tracking pipeline started")
	return nil
}

// Stop halts the frame loop and releases the camera. No frame ticks run
// after Stop returns.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh == nil {
		return
	}
	close(a.stopCh)
	a.stopCh = nil

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Close()

	log.Println("Tracking pipeline stopped")
}

// CloseDetector shuts down the detection backend. Called once at exit.
func (a *App) CloseDetector() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}
}

// Camera returns the camera instance for the preview stream.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Layout returns the active scene layout.
func (a *App) Layout() *scene.Layout {
	return a.layout
}

// Snapshot samples the current control signals. Sampling advances the
// transition animations, so a collapse completes on schedule even when the
// camera delivers no frames.
func (a *App) Snapshot() session.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.last = a.session.Snapshot(time.Now())
	return a.last
}

// FocusEntity applies a click-to-focus selection from the UI.
func (a *App) FocusEntity(index int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.FocusEntity(index, time.Now())
}

// SetCameraEnabled starts or stops the whole tracking pipeline.
func (a *App) SetCameraEnabled(enabled bool) error {
	if enabled {
		return a.Start()
	}
	a.Stop()
	return nil
}

// CameraEnabled reports whether the tracking pipeline is running.
func (a *App) CameraEnabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stopCh != nil
}

// handleTransition records a phase change in the event log and notifies the
// registered observer. Runs while the session lock is held by the tick.
func (a *App) handleTransition(from, to phase.Phase) {
	if a.config.Store != nil {
		err := a.config.Store.Events().Append(&store.Event{
			SessionID: a.sessionID,
			FromPhase: from.String(),
			ToPhase:   to.String(),
			Explosion: a.last.Explosion,
		})
		if err != nil {
			log.Printf("Failed to record transition %s -> %s: %v", from, to, err)
		}
	}
	if a.onTransition != nil {
		a.onTransition(from, to)
	}
}

// Package tray provides the system tray interface for the banyan daemon.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray is the system tray menu: camera toggle, current phase readout, and
// quit.
type Tray struct {
	onToggle   func(enabled bool)
	onSettings func()
	onQuit     func()
	enabled    bool
	mu         sync.RWMutex

	menuToggle *systray.MenuItem
	menuPhase  *systray.MenuItem
}

// New creates a Tray with the camera enabled by default.
func New() *Tray {
	return &Tray{enabled: true}
}

// OnToggle sets the callback fired when the camera is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnSettings sets the callback fired when the settings item is clicked.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback fired when the quit item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray. Blocks until systray.Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetTitle("Banyan")
	systray.SetTooltip("Banyan gesture sculpture")

	t.menuToggle = systray.AddMenuItem("● Camera on", "Toggle hand tracking")
	systray.AddSeparator()

	t.menuPhase = systray.AddMenuItem("Phase: tree", "Current sculpture phase")
	t.menuPhase.Disable()
	systray.AddSeparator()

	menuSettings := systray.AddMenuItem("Open viewer...", "Open the sculpture in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Banyan")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if enabled {
		t.menuToggle.SetTitle("● Camera on")
	} else {
		t.menuToggle.SetTitle("○ Camera off")
	}
	callback := t.onToggle
	t.mu.Unlock()

	// Call outside the lock to prevent deadlocks.
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()
	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()
	if callback != nil {
		callback()
	}
	systray.Quit()
}

// SetPhase updates the phase readout in the menu.
func (t *Tray) SetPhase(name string) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.menuPhase != nil {
		t.menuPhase.SetTitle("Phase: " + name)
	}
}

// IsEnabled returns the current camera toggle state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

package app

import (
	"log"
	"time"

	"github.com/ayusman/banyan/internal/detector"
)

// runPipeline is the frame loop. It idles at a low frame rate until motion
// wakes it, runs hand detection while active, and feeds every frame's
// observations through the session.
//
// Per-frame failures (camera read, detector call) are logged and treated as
// "no observation this frame"; the loop itself never halts on them.
func (a *App) runPipeline(stopCh chan struct{}) {
	activeMode := false
	lastMotion := time.Now()

	interval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)
			if motionDetected {
				lastMotion = time.Now()
				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					ticker.Reset(time.Second / time.Duration(ActiveFPS))
					log.Println("Switched to active mode")
				}
			} else if activeMode && time.Since(lastMotion) > IdleTimeout {
				activeMode = false
				a.camera.SetFPS(IdleFPS)
				ticker.Reset(time.Second / time.Duration(IdleFPS))
				log.Println("Switched to idle mode")
			}

			// Idle frames skip detection entirely; the session holds
			// its state and transition animations finish on their own
			// clock when sampled.
			if !activeMode {
				frame.Close()
				continue
			}

			var hands []detector.HandObservation
			a.mu.Lock()
			det := a.detector
			a.mu.Unlock()

			if det != nil {
				hands, err = det.Detect(frame)
				if err != nil {
					log.Printf("Error detecting hands: %v", err)
					hands = nil
				}
			}
			frame.Close()

			a.tick(hands)
		}
	}
}

// tick runs one frame's observations through the session and publishes the
// resulting snapshot.
func (a *App) tick(hands []detector.HandObservation) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.last = a.session.Tick(hands, time.Now())
}

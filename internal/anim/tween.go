// Package anim provides deterministic timed interpolation for the
// sculpture's transition animations. A Tween is sampled with an explicit
// time value, so tests drive it with a fake clock instead of sleeping.
package anim

import "time"

// Easing maps normalized elapsed time t in [0,1] to animation progress.
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// EaseOutCubic decelerates toward the target. Used for the explosion
// spread, which should burst fast and settle gently.
func EaseOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// EaseInOutCubic accelerates then decelerates. Used for the collapse back
// into the tree.
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// Tween eases a scalar from a start value to a target over a fixed
// duration. Retargeting mid-flight captures the currently sampled value as
// the new start, so interruptions never skip or snap the progress value.
type Tween struct {
	start      float64
	target     float64
	startTime  time.Time
	duration   time.Duration
	easing     Easing
	fired      bool
	onComplete func()
}

// NewTween returns a settled Tween holding value. No completion is pending.
func NewTween(value float64) *Tween {
	return &Tween{
		start:  value,
		target: value,
		easing: Linear,
		fired:  true,
	}
}

// Go starts (or redirects) the animation toward target. Any completion
// callback still pending from the previous run is dropped: an interrupted
// transition never completes.
func (tw *Tween) Go(now time.Time, target float64, d time.Duration, easing Easing, onComplete func()) {
	if easing == nil {
		easing = Linear
	}
	tw.start = tw.ValueAt(now)
	tw.target = target
	tw.startTime = now
	tw.duration = d
	tw.easing = easing
	tw.fired = false
	tw.onComplete = onComplete
}

// ValueAt samples the eased value at the given time. Sampling is pure and
// may be called any number of times, in any order.
func (tw *Tween) ValueAt(now time.Time) float64 {
	if tw.duration <= 0 || !now.Before(tw.startTime.Add(tw.duration)) {
		return tw.target
	}
	if !now.After(tw.startTime) {
		return tw.start
	}
	t := float64(now.Sub(tw.startTime)) / float64(tw.duration)
	return tw.start + (tw.target-tw.start)*tw.easing(t)
}

// Target returns the value the tween is heading toward.
func (tw *Tween) Target() float64 {
	return tw.target
}

// Done reports whether the animation has run to completion at now.
func (tw *Tween) Done(now time.Time) bool {
	return !now.Before(tw.startTime.Add(tw.duration))
}

// Tick samples the tween and fires the completion callback if the run just
// finished. Completion is detected by duration, not by polled value, and
// fires exactly once per Go call.
func (tw *Tween) Tick(now time.Time) float64 {
	v := tw.ValueAt(now)
	if !tw.fired && tw.Done(now) {
		tw.fired = true
		if cb := tw.onComplete; cb != nil {
			tw.onComplete = nil
			cb()
		}
	}
	return v
}

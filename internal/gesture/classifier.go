// Package gesture turns raw per-frame hand observations into the discrete
// gesture signal and continuous control values that drive the sculpture.
package gesture

import (
	"math"

	"github.com/ayusman/banyan/internal/detector"
)

// PoseLabel is the discrete pose read from a single hand in a single frame.
type PoseLabel int

const (
	// PoseNeutral is anything that is neither clearly open nor clearly closed.
	PoseNeutral PoseLabel = iota
	// PoseOpenPalm means all five fingers read as extended.
	PoseOpenPalm
	// PoseClosedFist means at most one finger reads as extended.
	PoseClosedFist
)

// String returns a human-readable label for the pose.
func (p PoseLabel) String() string {
	switch p {
	case PoseOpenPalm:
		return "open_palm"
	case PoseClosedFist:
		return "closed_fist"
	default:
		return "neutral"
	}
}

// PinchThreshold is the planar thumb-to-index distance, in normalized frame
// units, below which (strictly) the hand counts as pinching.
const PinchThreshold = 0.05

// fingerJoints pairs each fingertip with the joint it is measured against.
// Non-thumb fingers compare against their PIP joint; the thumb is noisier
// and compares against its IP joint.
var fingerJoints = [5][2]int{
	{detector.ThumbTip, detector.ThumbIP},
	{detector.IndexTip, detector.IndexPIP},
	{detector.MiddleTip, detector.MiddlePIP},
	{detector.RingTip, detector.RingPIP},
	{detector.PinkyTip, detector.PinkyPIP},
}

// Classify reads one hand's landmarks and returns its pose plus whether the
// thumb and index tips are pinched together. It is a pure function of the
// frame: no temporal state.
//
// A finger counts as extended when its tip sits farther from the wrist than
// its reference joint does, using squared planar distance. The open-palm
// bar is strict (all five fingers) to avoid false positives from
// partially-open hands; the fist tolerates one stray finger because thumb
// detection is noisy.
func Classify(hand *detector.HandObservation) (PoseLabel, bool) {
	if hand == nil || !finite(hand) || degenerate(hand) {
		return PoseNeutral, false
	}

	wrist := hand.Points[detector.Wrist]

	extended := 0
	for _, fj := range fingerJoints {
		tip := hand.Points[fj[0]]
		joint := hand.Points[fj[1]]
		if planarSq(tip, wrist) > planarSq(joint, wrist) {
			extended++
		}
	}

	pose := PoseNeutral
	switch {
	case extended >= 5:
		pose = PoseOpenPalm
	case extended <= 1:
		pose = PoseClosedFist
	}

	// Pinch is independent of the pose and may fire while Neutral.
	thumb := hand.Points[detector.ThumbTip]
	index := hand.Points[detector.IndexTip]
	pinch := math.Sqrt(planarSq(thumb, index)) < PinchThreshold

	return pose, pinch
}

// planarSq is the squared distance between two points in the frame plane.
// Depth is ignored: the detector's Z estimate is far too noisy for pose
// thresholds.
func planarSq(a, b detector.Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// degenerate rejects observations whose landmarks all coincide, such as a
// zero-valued struct. Coincident landmarks would read as zero fingers
// extended and a zero pinch distance, turning a meaningless observation
// into a fist with a pinch.
func degenerate(hand *detector.HandObservation) bool {
	first := hand.Points[0]
	for _, p := range hand.Points[1:] {
		if p != first {
			return false
		}
	}
	return true
}

// finite rejects observations carrying NaN or infinite coordinates, which
// some detector backends emit on partially occluded hands.
func finite(hand *detector.HandObservation) bool {
	for i := range hand.Points {
		p := hand.Points[i]
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z) ||
			math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) || math.IsInf(p.Z, 0) {
			return false
		}
	}
	return true
}

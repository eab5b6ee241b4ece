package gesture

import (
	"math"
	"testing"
)

func TestSmoother_SingleStep(t *testing.T) {
	s := NewSmoother(0, PositionAlpha, 0)

	got := s.Update(1.0)
	want := 0.15
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Update(1.0) = %v, want %v", got, want)
	}
}

func TestSmoother_ConvergesMonotonically(t *testing.T) {
	s := NewPositionSmoother()

	prev := s.Value()
	for i := 0; i < 100; i++ {
		cur := s.Update(1.0)
		if cur <= prev && math.Abs(cur-1.0) > 1e-9 {
			t.Fatalf("step %d: value went from %v to %v, expected monotone approach to 1.0", i, prev, cur)
		}
		if cur > 1.0 {
			t.Fatalf("step %d: value %v overshot the target", i, cur)
		}
		prev = cur
	}
	if math.Abs(prev-1.0) > 0.001 {
		t.Errorf("after 100 steps value = %v, want within 0.001 of 1.0", prev)
	}
}

func TestSmoother_NeverOscillates(t *testing.T) {
	s := NewSmoother(0, PositionAlpha, 0)

	// A constant input must never push the value past it.
	for i := 0; i < 50; i++ {
		if v := s.Update(0.3); v > 0.3 {
			t.Fatalf("step %d: value %v exceeded constant input 0.3", i, v)
		}
	}
}

func TestRotationSmoother_Deadzone(t *testing.T) {
	s := NewRotationSmoother()

	// Inside the deadzone the raw reading snaps to zero, so the value
	// stays at rest.
	if v := s.Update(0.15); v != 0 {
		t.Errorf("Update(0.15) = %v, want 0 (deadzone)", v)
	}
	if v := s.Update(-0.19); v != 0 {
		t.Errorf("Update(-0.19) = %v, want 0 (deadzone)", v)
	}

	// Outside the deadzone the reading passes through untouched.
	got := s.Update(0.25)
	want := 0.25 * RotationAlpha
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Update(0.25) = %v, want %v", got, want)
	}
}

func TestRotationSmoother_DeadzoneDecaysTowardZero(t *testing.T) {
	s := NewRotationSmoother()

	// Build up some rotation, then hold the hand inside the deadzone:
	// the smoothed value must ease back to zero, not freeze.
	for i := 0; i < 20; i++ {
		s.Update(0.8)
	}
	high := s.Value()
	if high <= 0 {
		t.Fatalf("expected positive rotation after sustained input, got %v", high)
	}

	for i := 0; i < 200; i++ {
		s.Update(0.05)
	}
	if math.Abs(s.Value()) > 0.001 {
		t.Errorf("value = %v after sustained deadzone input, want near 0", s.Value())
	}
}

func TestSmoother_Reset(t *testing.T) {
	s := NewPositionSmoother()
	s.Update(1.0)
	s.Update(1.0)

	s.Reset()
	if v := s.Value(); v != 0.5 {
		t.Errorf("Value() after Reset = %v, want 0.5", v)
	}

	r := NewRotationSmoother()
	r.Update(0.9)
	r.Reset()
	if v := r.Value(); v != 0 {
		t.Errorf("rotation Value() after Reset = %v, want 0", v)
	}
}

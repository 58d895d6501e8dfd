package joystick

import (
	"math"
	"testing"
)

// TestDeriveSignal_FullDeflection verifies the axis extremes and the Y inversion.
func TestDeriveSignal_FullDeflection(t *testing.T) {
	if s := DeriveSignal(Vector{X: 45}, 45, Response{}); s != (Signal{X: 100, Y: 0}) {
		t.Fatalf("expected (100,0), got %v", s)
	}
	if s := DeriveSignal(Vector{Y: -45}, 45, Response{}); s != (Signal{X: 0, Y: 100}) {
		t.Fatalf("knob up: expected (0,100), got %v", s)
	}
	if s := DeriveSignal(Vector{Y: 45}, 45, Response{}); s != (Signal{X: 0, Y: -100}) {
		t.Fatalf("knob down: expected (0,-100), got %v", s)
	}
}

// TestDeriveSignal_ScaledDiagonal verifies the 45/50 scaled diagonal maps to (60,80).
func TestDeriveSignal_ScaledDiagonal(t *testing.T) {
	d := Vector{X: 30 * 45.0 / 50.0, Y: -40 * 45.0 / 50.0}
	if s := DeriveSignal(d, 45, Response{}); s != (Signal{X: 60, Y: 80}) {
		t.Fatalf("expected (60,80), got %v", s)
	}
}

// TestDeriveSignal_RoundsHalfUp verifies halves round toward positive infinity.
func TestDeriveSignal_RoundsHalfUp(t *testing.T) {
	// 1/8 of travel is exactly 12.5%.
	if s := DeriveSignal(Vector{X: 1, Y: 1}, 8, Response{}); s != (Signal{X: 13, Y: -12}) {
		t.Fatalf("expected (13,-12), got %v", s)
	}
}

// TestDeriveSignal_AlwaysInRange verifies reachable displacements stay in [-100,100].
func TestDeriveSignal_AlwaysInRange(t *testing.T) {
	const radius = 33.0
	for deg := 0; deg < 360; deg += 3 {
		a := float64(deg) * math.Pi / 180
		for _, f := range []float64{0, 0.1, 0.5, 0.999, 1} {
			d := Vector{X: radius * f * math.Cos(a), Y: radius * f * math.Sin(a)}
			for _, r := range []Response{{}, {Deadzone: 0.3, Expo: 1}, {InvertY: true}} {
				s := DeriveSignal(d, radius, r)
				if s.X < -SignalMax || s.X > SignalMax || s.Y < -SignalMax || s.Y > SignalMax {
					t.Fatalf("signal %v out of range for %+v", s, d)
				}
			}
		}
	}
}

// TestDeriveSignal_ZeroRadius verifies a widget without travel emits zero.
func TestDeriveSignal_ZeroRadius(t *testing.T) {
	if s := DeriveSignal(Vector{X: 10, Y: 10}, 0, Response{}); s != (Signal{}) {
		t.Fatalf("expected zero signal, got %v", s)
	}
}

package joystick

import (
	"math"
	"testing"

	"github.com/frudas24/rcpad/internal/layout"
)

// centeredRect returns a square of side size centered on (cx,cy).
func centeredRect(cx, cy, size float64) layout.Rect {
	return layout.Rect{X: cx - size/2, Y: cy - size/2, W: size, H: size}
}

// TestResolve_ClampsToRadius verifies a far point lands on the radius, angle preserved.
func TestResolve_ClampsToRadius(t *testing.T) {
	r := centeredRect(200, 300, 150)
	d := Resolve(r, layout.Point{X: 300, Y: 300}, true, true, 45)
	if d != (Vector{X: 45, Y: 0}) {
		t.Fatalf("expected (45,0), got %+v", d)
	}

	d = Resolve(r, layout.Point{X: 230, Y: 340}, true, true, 45)
	if math.Abs(d.X-27) > 1e-9 || math.Abs(d.Y-36) > 1e-9 {
		t.Fatalf("expected (27,36), got %+v", d)
	}
}

// TestResolve_InsideRadiusUnchanged verifies short offsets pass through.
func TestResolve_InsideRadiusUnchanged(t *testing.T) {
	r := centeredRect(0, 0, 150)
	d := Resolve(r, layout.Point{X: -10, Y: 20}, true, true, 45)
	if d != (Vector{X: -10, Y: 20}) {
		t.Fatalf("expected (-10,20), got %+v", d)
	}
}

// TestResolve_NormNeverExceedsRadius sweeps points far and near the center.
func TestResolve_NormNeverExceedsRadius(t *testing.T) {
	r := centeredRect(500, 500, 140)
	const radius = 42.0
	for _, dist := range []float64{0, 1, 41.9, 42, 42.1, 100, 1e6, 1e300} {
		for deg := 0; deg < 360; deg += 7 {
			a := float64(deg) * math.Pi / 180
			p := layout.Point{X: 500 + dist*math.Cos(a), Y: 500 + dist*math.Sin(a)}
			d := Resolve(r, p, true, true, radius)
			if n := d.Norm(); n > radius+1e-9 {
				t.Fatalf("dist=%v deg=%d: norm %v exceeds %v", dist, deg, n, radius)
			}
			if math.Abs(d.X) > radius+1e-9 || math.Abs(d.Y) > radius+1e-9 {
				t.Fatalf("dist=%v deg=%d: axis out of range %+v", dist, deg, d)
			}
		}
	}
}

// TestResolve_SingleAxis verifies disabled axes stay at zero.
func TestResolve_SingleAxis(t *testing.T) {
	r := centeredRect(0, 0, 150)
	p := layout.Point{X: 80, Y: -300}

	if d := Resolve(r, p, true, false, 45); d.Y != 0 || d.X != 45 {
		t.Fatalf("horizontal-only: expected (45,0), got %+v", d)
	}
	if d := Resolve(r, p, false, true, 45); d.X != 0 || d.Y != -45 {
		t.Fatalf("vertical-only: expected (0,-45), got %+v", d)
	}
	if d := Resolve(r, p, false, false, 45); d != (Vector{}) {
		t.Fatalf("no axes: expected zero, got %+v", d)
	}
}

// TestResolve_Degenerate verifies zero-area bounds and zero radius yield no displacement.
func TestResolve_Degenerate(t *testing.T) {
	p := layout.Point{X: 10, Y: 10}
	if d := Resolve(layout.Rect{X: 5, Y: 5}, p, true, true, 45); d != (Vector{}) {
		t.Fatalf("zero-area: expected zero, got %+v", d)
	}
	if d := Resolve(centeredRect(0, 0, 100), p, true, true, 0); d != (Vector{}) {
		t.Fatalf("zero radius: expected zero, got %+v", d)
	}
	if d := Resolve(centeredRect(0, 0, 100), layout.Point{}, true, true, 45); d != (Vector{}) {
		t.Fatalf("center: expected zero, got %+v", d)
	}
}

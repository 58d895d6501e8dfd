package joystick

import (
	"fmt"
	"math"
)

// SignalMax is the magnitude of a fully deflected axis.
const SignalMax = 100

// Signal is the normalized directional output of a widget. Y is positive
// when the knob is pushed up (forward), opposite to screen coordinates.
type Signal struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String formats the signal as (x,y).
func (s Signal) String() string {
	return fmt.Sprintf("(%d,%d)", s.X, s.Y)
}

// DeriveSignal scales a displacement to [-SignalMax, SignalMax] per axis,
// passing it through r first.
func DeriveSignal(d Vector, maxRadius float64, r Response) Signal {
	if maxRadius <= 0 {
		return Signal{}
	}
	x, y := r.Apply(d.X/maxRadius, -d.Y/maxRadius)
	return Signal{X: scaleAxis(x), Y: scaleAxis(y)}
}

// scaleAxis converts a unit value into a clamped integer percentage.
// Halves round toward positive infinity.
func scaleAxis(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	p := math.Floor(v*SignalMax + 0.5)
	if p > SignalMax {
		return SignalMax
	}
	if p < -SignalMax {
		return -SignalMax
	}
	return int(p)
}

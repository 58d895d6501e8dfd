// Package joystick tracks pointer and touch input against virtual joysticks
// and turns knob displacement into directional signals.
package joystick

import (
	"math"

	"github.com/frudas24/rcpad/internal/layout"
)

// Vector is a knob offset from the widget center, in layout units.
type Vector struct {
	X float64
	Y float64
}

// Norm returns the Euclidean length of the vector.
func (v Vector) Norm() float64 {
	return math.Hypot(v.X, v.Y)
}

// Resolve computes the knob displacement for a pointer at p over bounds.
// Disabled axes are forced to zero and the result is scaled down uniformly
// so its norm never exceeds maxRadius.
func Resolve(bounds layout.Rect, p layout.Point, horizontal, vertical bool, maxRadius float64) Vector {
	if bounds.Empty() || maxRadius <= 0 {
		return Vector{}
	}
	c := bounds.Center()

	var d Vector
	if horizontal {
		d.X = p.X - c.X
	}
	if vertical {
		d.Y = p.Y - c.Y
	}
	return clampRadius(d, maxRadius)
}

// clampRadius scales v onto the circle of radius r when it lies outside it.
func clampRadius(v Vector, r float64) Vector {
	n := v.Norm()
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return Vector{}
	}
	if n == 0 || n <= r {
		return v
	}
	scale := r / n
	return Vector{X: v.X * scale, Y: v.Y * scale}
}

package joystick

import "math"

// maxDeadzone keeps the rescale in Apply away from a division by zero.
const maxDeadzone = 0.95

// Response shapes the normalized stick vector before it is scaled to a
// Signal. The zero value is the identity.
type Response struct {
	// Deadzone is the radial fraction of travel, in [0,1), reported as center.
	Deadzone float64
	// Expo bends the magnitude curve: 0 is linear, 1 is cubic.
	Expo float64
	// InvertY flips the forward/back axis.
	InvertY bool
}

// IsIdentity reports whether Apply leaves every vector unchanged.
func (r Response) IsIdentity() bool {
	return r.Deadzone <= 0 && r.Expo <= 0 && !r.InvertY
}

// Apply maps a vector on the unit disk (y up) through the response curve.
func (r Response) Apply(x, y float64) (float64, float64) {
	if r.InvertY {
		y = -y
	}
	if r.Deadzone <= 0 && r.Expo <= 0 {
		return x, y
	}

	m := math.Hypot(x, y)
	if m == 0 {
		return 0, 0
	}
	if m > 1 {
		x, y = x/m, y/m
		m = 1
	}

	out := m
	if dz := math.Min(r.Deadzone, maxDeadzone); dz > 0 {
		if out <= dz {
			return 0, 0
		}
		out = (out - dz) / (1 - dz)
	}
	if r.Expo > 0 {
		out = math.Pow(out, 1+2*math.Min(r.Expo, 1))
	}

	scale := out / m
	return x * scale, y * scale
}

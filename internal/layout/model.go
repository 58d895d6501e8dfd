// Package layout describes on-screen widget geometry reported by the client.
package layout

// Point is a position in client (CSS pixel) coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect describes a rectangle using top-left origin and size.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Normalize returns a rectangle with non-negative width/height.
func Normalize(r Rect) Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	r = Normalize(r)
	return r.W <= 0 || r.H <= 0
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	r = Normalize(r)
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether a point is inside the rectangle (edges inclusive).
func Contains(r Rect, p Point) bool {
	r = Normalize(r)
	if r.W <= 0 || r.H <= 0 {
		return false
	}
	maxX := r.X + r.W
	maxY := r.Y + r.H
	return p.X >= r.X && p.X <= maxX && p.Y >= r.Y && p.Y <= maxY
}

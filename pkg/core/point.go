// Package core defines the shared types and contracts for vision-driven
// device automation: coordinates, results, statuses and the error taxonomy.
package core

// Point is a normalized screen coordinate. Both components are in [0, 1]
// with the origin at the top-left corner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Valid reports whether both components are within [0, 1].
func (p Point) Valid() bool {
	return p.X >= 0 && p.X <= 1 && p.Y >= 0 && p.Y <= 1
}

// ToPixels converts the normalized point to pixel coordinates on a screen of
// the given size. Results are clamped into screen bounds.
func (p Point) ToPixels(width, height int) PixelPoint {
	return PixelPoint{
		X: clamp(int(p.X*float64(width)), 0, width-1),
		Y: clamp(int(p.Y*float64(height)), 0, height-1),
	}
}

// PixelPoint is an absolute pixel coordinate on the device screen.
type PixelPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// In reports whether the point lies within a screen of the given size.
func (p PixelPoint) In(width, height int) bool {
	return p.X >= 0 && p.X < width && p.Y >= 0 && p.Y < height
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

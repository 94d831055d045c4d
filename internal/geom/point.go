// Package geom provides pixel-space point and bounds math for overlay
// placement. Geographic coordinates use orb.Point (lon, lat); this package
// covers the screen/container/layer pixel side of the conversion.
package geom

import (
	"fmt"
	"math"
)

// Point is a pixel-space point or vector (container, layer, or screen space).
type Point struct {
	X float64 `json:"x" doc:"Horizontal component in pixels"`
	Y float64 `json:"y" doc:"Vertical component in pixels"`
}

// Pt is shorthand for constructing a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p scaled by f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Round returns p with both components rounded to the nearest integer.
// Halves round toward +infinity, so -2.5 rounds to -2. Pixel-origin
// resets and pan deltas depend on this at pixel boundaries.
func (p Point) Round() Point {
	return Point{X: math.Floor(p.X + 0.5), Y: math.Floor(p.Y + 0.5)}
}

// IsZero reports whether both components are exactly zero.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

func (p Point) String() string {
	return fmt.Sprintf("Point(%g, %g)", p.X, p.Y)
}

// Size is a rendered width/height pair in pixels.
type Size struct {
	W float64 `json:"w" doc:"Width in pixels"`
	H float64 `json:"h" doc:"Height in pixels"`
}

// IsZero reports whether the size has no area, i.e. the element has not
// been laid out yet.
func (s Size) IsZero() bool {
	return s.W <= 0 || s.H <= 0
}

// Bounds is an axis-aligned pixel rectangle.
type Bounds struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// NewBounds returns the bounds spanned by two corner points in any order.
func NewBounds(a, b Point) Bounds {
	return Bounds{
		Min: Point{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Max: Point{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)},
	}
}

// Size returns the width/height of the bounds.
func (b Bounds) Size() Size {
	return Size{W: b.Max.X - b.Min.X, H: b.Max.Y - b.Min.Y}
}

// Contains reports whether p lies within the bounds (inclusive).
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

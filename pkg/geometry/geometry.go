package geometry

import (
	"errors"
	"math"
)

var ErrUnknownSize = errors.New("image size is unknown")

// Point is either a normalized position or a pixel position, depending on
// where it comes from.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Box is a rectangle in normalized page coordinates, origin top-left.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func (b Box) Origin() Point {
	return Point{X: b.X, Y: b.Y}
}

// Translate moves the box by delta without clamping.
func (b Box) Translate(delta Point) Box {
	b.X += delta.X
	b.Y += delta.Y
	return b
}

// ClampInside clamps each axis independently to [0, 1-size].
func (b Box) ClampInside() Box {
	b.X = Clamp(b.X, 0, 1-b.W)
	b.Y = Clamp(b.Y, 0, 1-b.H)
	return b
}

// Valid reports whether the box lies fully inside the unit square.
func (b Box) Valid() bool {
	for _, v := range []float64{b.X, b.Y, b.W, b.H} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 1 {
			return false
		}
	}
	return b.X+b.W <= 1 && b.Y+b.H <= 1
}

const edgeTolerance = 1e-9

// Contains reports whether the normalized point p is inside the box, edges
// included.
func (b Box) Contains(p Point) bool {
	return p.X >= b.X-edgeTolerance && p.X <= b.X+b.W+edgeTolerance &&
		p.Y >= b.Y-edgeTolerance && p.Y <= b.Y+b.H+edgeTolerance
}

// Size is a rendered image size in pixels.
type Size struct {
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Known reports whether both dimensions are positive.
func (s Size) Known() bool {
	return s.W > 0 && s.H > 0
}

// Normalize converts a pixel point relative to the image origin to
// normalized coordinates.
func (s Size) Normalize(p Point) (Point, error) {
	if !s.Known() {
		return Point{}, ErrUnknownSize
	}
	return Point{X: p.X / s.W, Y: p.Y / s.H}, nil
}

// Denormalize converts a normalized point to pixels.
func (s Size) Denormalize(p Point) Point {
	return Point{X: p.X * s.W, Y: p.Y * s.H}
}

// Clamp limits v to [lo, hi]. When hi < lo, lo wins.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

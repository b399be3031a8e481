// Package geom provides the small set of 2D types shared by the surface,
// the integrator and the renderers.
//
// Vectors are [r2.Vec] values from gonum; this package adds the sized
// rectangle used for surface frames and containment boundaries.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is a point or displacement in surface coordinates.
type Vec = r2.Vec

// Size is the extent of a surface.
type Size struct {
	Width  float64 `json:"width" toml:"width" bson:"width"`
	Height float64 `json:"height" toml:"height" bson:"height"`
}

// Max returns the larger of the two dimensions.
func (s Size) Max() float64 { return math.Max(s.Width, s.Height) }

// Valid reports whether both dimensions are finite and strictly positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0 && !math.IsInf(s.Width, 0) && !math.IsInf(s.Height, 0)
}

// Frame returns the rectangle anchored at the origin with this size.
func (s Size) Frame() Rect { return Rect{Width: s.Width, Height: s.Height} }

// Rect is an axis-aligned rectangle given by its origin and extent.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectAround returns the rectangle of the given extent centered on c.
func RectAround(c Vec, width, height float64) Rect {
	return Rect{X: c.X - width/2, Y: c.Y - height/2, Width: width, Height: height}
}

func (r Rect) MinX() float64 { return r.X }
func (r Rect) MinY() float64 { return r.Y }
func (r Rect) MaxX() float64 { return r.X + r.Width }
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec { return Vec{X: r.X + r.Width/2, Y: r.Y + r.Height/2} }

// Contains reports whether p lies inside or on the edge of r.
func (r Rect) Contains(p Vec) bool {
	return p.X >= r.MinX() && p.X <= r.MaxX() && p.Y >= r.MinY() && p.Y <= r.MaxY()
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vec) float64 { return r2.Norm(r2.Sub(a, b)) }

// IsZero reports whether v is the zero vector.
func IsZero(v Vec) bool { return v.X == 0 && v.Y == 0 }

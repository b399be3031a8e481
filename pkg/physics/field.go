package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Field is a radial gravity field pulling bodies toward Center.
//
// Bodies farther than Radius from the center are unaffected. Distances below
// MinimumRadius are clamped to it, which bounds the pull near the center.
type Field struct {
	Center        r2.Vec  `json:"center"`
	Radius        float64 `json:"radius"`
	MinimumRadius float64 `json:"minimum_radius"`
	Strength      float64 `json:"strength"`
}

// Enabled reports whether the field exerts any pull.
func (f Field) Enabled() bool { return f.Strength != 0 && f.Radius > 0 }

// acceleration returns the field's pull on a body at p in points/s². The pull
// is capped so that on its own it cannot carry the body past the center
// within one step of dt seconds.
func (f Field) acceleration(p r2.Vec, falloff, ppm, dt float64) r2.Vec {
	if !f.Enabled() {
		return r2.Vec{}
	}
	toCenter := r2.Sub(f.Center, p)
	d := r2.Norm(toCenter)
	if d == 0 || d > f.Radius {
		return r2.Vec{}
	}
	meters := math.Max(d, f.MinimumRadius) / ppm
	if meters <= 0 {
		meters = d / ppm
	}
	g := f.Strength / math.Pow(meters, falloff)
	k := g * ppm / d
	if dt > 0 {
		k = math.Min(k, 1/(dt*dt))
	}
	return r2.Scale(k, toCenter)
}

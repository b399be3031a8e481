package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/bubblecloud/pkg/geom"
)

// Default simulation parameters.
const (
	DefaultPointsPerMeter = 150.0
	DefaultDensity        = 1.0
	DefaultFalloff        = 2.0
	DefaultLinearDamping  = 2.0
	DefaultRestitution    = 0.2
	DefaultMaxSpeed       = 2000.0
	DefaultIterations     = 10

	// maxStep bounds dt so a stalled frame loop cannot tunnel bodies.
	maxStep = 1.0 / 20

	// overlapTolerance ends relaxation early once no pair overlaps by more
	// than this many points.
	overlapTolerance = 1e-3
)

// Config holds the tunable parameters of a [World].
// Zero values are replaced by the package defaults.
type Config struct {
	PointsPerMeter float64 `toml:"points_per_meter"`
	Density        float64 `toml:"density"`
	Falloff        float64 `toml:"falloff"`
	LinearDamping  float64 `toml:"linear_damping"`
	Restitution    float64 `toml:"restitution"`
	MaxSpeed       float64 `toml:"max_speed"`
	// Iterations caps the position relaxation passes run per step.
	Iterations int `toml:"iterations"`
}

// DefaultConfig returns the configuration used by [New] when none is given.
func DefaultConfig() Config {
	return Config{
		PointsPerMeter: DefaultPointsPerMeter,
		Density:        DefaultDensity,
		Falloff:        DefaultFalloff,
		LinearDamping:  DefaultLinearDamping,
		Restitution:    DefaultRestitution,
		MaxSpeed:       DefaultMaxSpeed,
		Iterations:     DefaultIterations,
	}
}

func (c *Config) setDefaults() {
	d := DefaultConfig()
	if c.PointsPerMeter <= 0 {
		c.PointsPerMeter = d.PointsPerMeter
	}
	if c.Density <= 0 {
		c.Density = d.Density
	}
	if c.Falloff < 0 {
		c.Falloff = d.Falloff
	}
	if c.LinearDamping < 0 {
		c.LinearDamping = d.LinearDamping
	}
	if c.Restitution < 0 || c.Restitution > 1 {
		c.Restitution = d.Restitution
	}
	if c.MaxSpeed < 0 {
		c.MaxSpeed = d.MaxSpeed
	}
	if c.Iterations <= 0 {
		c.Iterations = d.Iterations
	}
}

// World advances circular bodies under a radial field, pairwise collision
// and a rectangular containment boundary. It is not safe for concurrent use.
type World struct {
	cfg      Config
	field    Field
	boundary geom.Rect
	bounded  bool
}

// New creates a world with cfg; zero fields fall back to defaults.
func New(cfg Config) *World {
	cfg.setDefaults()
	return &World{cfg: cfg}
}

// Config returns the effective configuration.
func (w *World) Config() Config { return w.cfg }

// SetField replaces the gravity field.
func (w *World) SetField(f Field) { w.field = f }

// Field returns the current gravity field.
func (w *World) Field() Field { return w.field }

// SetBoundary replaces the containment boundary. An empty rectangle disables
// containment.
func (w *World) SetBoundary(r geom.Rect) {
	w.boundary = r
	w.bounded = !r.IsEmpty()
}

// Boundary returns the containment boundary.
func (w *World) Boundary() geom.Rect { return w.boundary }

// Mass returns the mass in kilograms of a body with radius r points.
func (w *World) Mass(r float64) float64 {
	m := r / w.cfg.PointsPerMeter
	return w.cfg.Density * math.Pi * m * m
}

// Step advances every body by dt seconds and clears their pending forces.
func (w *World) Step(bodies []Body, dt float64) {
	if dt <= 0 {
		for _, b := range bodies {
			b.ClearForce()
		}
		return
	}
	dt = math.Min(dt, maxStep)

	ppm := w.cfg.PointsPerMeter
	damping := math.Max(0, 1-w.cfg.LinearDamping*dt)

	for _, b := range bodies {
		mass := w.Mass(b.Radius())
		accel := w.field.acceleration(b.Position(), w.cfg.Falloff, ppm, dt)
		if f := b.Force(); !geom.IsZero(f) && mass > 0 {
			accel = r2.Add(accel, r2.Scale(ppm/mass, f))
		}
		b.ClearForce()

		v := r2.Scale(damping, r2.Add(b.Velocity(), r2.Scale(dt, accel)))
		if speed := r2.Norm(v); w.cfg.MaxSpeed > 0 && speed > w.cfg.MaxSpeed {
			v = r2.Scale(w.cfg.MaxSpeed/speed, v)
		}
		b.SetVelocity(v)
		b.SetPosition(r2.Add(b.Position(), r2.Scale(dt, v)))
	}

	// Restitution is exchanged once per step; relaxation below only moves
	// positions.
	w.resolveContacts(bodies)
	if w.bounded {
		for _, b := range bodies {
			w.bounce(b)
		}
	}

	predicted := make([]r2.Vec, len(bodies))
	for i, b := range bodies {
		predicted[i] = b.Position()
	}
	for range w.cfg.Iterations {
		worst := w.relax(bodies)
		if w.bounded {
			for _, b := range bodies {
				w.clamp(b)
			}
		}
		if worst <= overlapTolerance {
			break
		}
	}

	for i, b := range bodies {
		cancelOpposing(b, r2.Sub(b.Position(), predicted[i]))
	}
}

// resolveContacts exchanges a restitution impulse between every overlapping
// pair that is still approaching.
func (w *World) resolveContacts(bodies []Body) {
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			w.impulse(bodies[i], bodies[j])
		}
	}
}

// relax runs one position pass over all pairs and returns the deepest
// overlap it corrected.
func (w *World) relax(bodies []Body) float64 {
	var worst float64
	for i := 0; i < len(bodies); i++ {
		a := bodies[i]
		for j := i + 1; j < len(bodies); j++ {
			worst = math.Max(worst, w.separate(a, bodies[j]))
		}
	}
	return worst
}

// contact returns the unit normal from a to b and their overlap in points.
// ok is false when the circles do not overlap.
func contact(a, b Body) (normal r2.Vec, overlap float64, ok bool) {
	delta := r2.Sub(b.Position(), a.Position())
	dist := r2.Norm(delta)
	overlap = a.Radius() + b.Radius() - dist
	if overlap <= 0 {
		return r2.Vec{}, 0, false
	}
	normal = r2.Vec{X: 1}
	if dist > 0 {
		normal = r2.Scale(1/dist, delta)
	}
	return normal, overlap, true
}

func (w *World) inverseMasses(a, b Body) (invA, invB, invSum float64) {
	invA = 1 / w.Mass(a.Radius())
	invB = 1 / w.Mass(b.Radius())
	return invA, invB, invA + invB
}

// separate pushes an overlapping pair apart in proportion to inverse mass.
func (w *World) separate(a, b Body) float64 {
	normal, overlap, ok := contact(a, b)
	if !ok {
		return 0
	}
	invA, invB, invSum := w.inverseMasses(a, b)
	a.SetPosition(r2.Sub(a.Position(), r2.Scale(overlap*invA/invSum, normal)))
	b.SetPosition(r2.Add(b.Position(), r2.Scale(overlap*invB/invSum, normal)))
	return overlap
}

func (w *World) impulse(a, b Body) {
	normal, _, ok := contact(a, b)
	if !ok {
		return
	}
	rel := r2.Dot(r2.Sub(b.Velocity(), a.Velocity()), normal)
	if rel >= 0 {
		return
	}
	invA, invB, invSum := w.inverseMasses(a, b)
	j := -(1 + w.cfg.Restitution) * rel / invSum
	a.SetVelocity(r2.Sub(a.Velocity(), r2.Scale(j*invA, normal)))
	b.SetVelocity(r2.Add(b.Velocity(), r2.Scale(j*invB, normal)))
}

// cancelOpposing removes the velocity component that works against the
// correction relaxation applied to b, so a packed body does not keep pushing
// into its neighbours on the next step.
func cancelOpposing(b Body, correction r2.Vec) {
	n := r2.Norm(correction)
	if n == 0 {
		return
	}
	normal := r2.Scale(1/n, correction)
	v := b.Velocity()
	if vn := r2.Dot(v, normal); vn < 0 {
		b.SetVelocity(r2.Sub(v, r2.Scale(vn, normal)))
	}
}

// bounce clamps b inside the boundary, reflecting the clamped velocity
// component scaled by restitution.
func (w *World) bounce(b Body) {
	p, v, r := b.Position(), b.Velocity(), b.Radius()
	p.X, v.X = clampAxis(p.X, v.X, w.boundary.MinX()+r, w.boundary.MaxX()-r, w.cfg.Restitution)
	p.Y, v.Y = clampAxis(p.Y, v.Y, w.boundary.MinY()+r, w.boundary.MaxY()-r, w.cfg.Restitution)
	b.SetPosition(p)
	b.SetVelocity(v)
}

// clamp moves b inside the boundary without touching its velocity.
func (w *World) clamp(b Body) {
	p, r := b.Position(), b.Radius()
	p.X, _ = clampAxis(p.X, 0, w.boundary.MinX()+r, w.boundary.MaxX()-r, 0)
	p.Y, _ = clampAxis(p.Y, 0, w.boundary.MinY()+r, w.boundary.MaxY()-r, 0)
	b.SetPosition(p)
}

func clampAxis(p, v, lo, hi, restitution float64) (float64, float64) {
	if lo > hi {
		return (lo + hi) / 2, 0
	}
	switch {
	case p < lo:
		if v < 0 {
			v = -v * restitution
		}
		return lo, v
	case p > hi:
		if v > 0 {
			v = -v * restitution
		}
		return hi, v
	}
	return p, v
}

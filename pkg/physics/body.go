package physics

import "gonum.org/v1/gonum/spatial/r2"

// Body is a circular dynamic body the world can advance.
type Body interface {
	Position() r2.Vec
	SetPosition(r2.Vec)
	Velocity() r2.Vec
	SetVelocity(r2.Vec)
	Radius() float64

	// Force returns the force accumulated since the last step, in newtons.
	Force() r2.Vec
	ClearForce()
}

// Package physics is a small 2D integrator for circular bodies.
//
// It accepts a single radial gravity [Field], a rectangular containment
// boundary, and per-body forces accumulated between steps, and advances
// positions once per call to [World.Step]. The model follows the usual
// scene-kit conventions: distances are in points, 150 points make a meter,
// body mass is density times area in square meters, and field strength is
// expressed in m/s².
//
// # Step
//
// Each step runs, in order:
//
//  1. Force integration: pending force and field acceleration update the
//     velocity (semi-implicit Euler), then damping and the speed clamp apply.
//  2. Position update from the new velocity.
//  3. Contact response: approaching overlapping pairs exchange one
//     restitution impulse, and bodies outside the boundary are clamped with
//     their outward velocity reflected.
//  4. Relaxation: up to Iterations position-only passes push overlapping
//     circles apart in proportion to their inverse mass and clamp every body
//     back inside the boundary, stopping early once nothing overlaps.
//  5. Velocity cleanup: any velocity still pointing against the correction
//     relaxation applied to a body is removed.
//
// The world holds no reference to the bodies between steps; callers pass the
// full body set to every call.
package physics

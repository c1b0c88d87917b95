package core

import "math"

// RayEpsilon is the default minimum hit distance. Secondary rays start exactly on a
// surface and would otherwise re-hit it ("shadow acne").
const RayEpsilon = 1e-4

// Ray represents a ray with an origin, a direction and a valid hit interval [TMin, TMax].
// TMax is the only field mutated after construction: nearest-hit traversal narrows it
// each time a closer hit is committed.
type Ray struct {
	Origin       Vec3
	Direction    Vec3
	TMin         float64
	TMax         float64
	InvDirection Vec3 // precomputed for the slab test
}

// NewRay creates a ray with the default interval (RayEpsilon, +Inf)
func NewRay(origin, direction Vec3) Ray {
	return NewRayInterval(origin, direction, RayEpsilon, math.Inf(1))
}

// NewRayInterval creates a ray with an explicit hit interval
func NewRayInterval(origin, direction Vec3, tMin, tMax float64) Ray {
	return Ray{
		Origin:       origin,
		Direction:    direction,
		TMin:         tMin,
		TMax:         tMax,
		InvDirection: direction.Reciprocal(),
	}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

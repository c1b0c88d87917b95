package geometry

import "github.com/df07/go-progressive-pathtracer/pkg/core"

// Primitive is a shape the renderer can intersect. The set of implementations is closed:
// *Sphere and *Triangle.
type Primitive interface {
	BoundingBox() core.AABB
	Centroid() core.Vec3
	// Area returns the true surface area
	Area() float64
	// Intersect commits a hit to rec and narrows ray.TMax only when the hit lies inside
	// (ray.TMin, ray.TMax) and is nearer than rec.T. On rejection nothing is modified.
	Intersect(ray *core.Ray, rec *HitRecord) bool
	// Sample returns a point distributed uniformly over the surface and its outward normal
	Sample(sampler core.Sampler) (point, normal core.Vec3)
	MaterialID() int
	// Validate reports construction-time geometric errors
	Validate() error

	primitive()
}

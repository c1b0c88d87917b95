package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material int
	bbox     core.AABB
}

// NewSphere creates a new sphere referencing a material id of the scene material table
func NewSphere(center core.Vec3, radius float64, materialID int) *Sphere {
	r := core.NewVec3(radius, radius, radius)
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: materialID,
		bbox:     core.NewAABB(center.Subtract(r), center.Add(r)),
	}
}

// Intersect solves |o + t*d - c|² = r² and keeps the nearest root inside the ray interval
func (s *Sphere) Intersect(ray *core.Ray, rec *HitRecord) bool {
	oc := ray.Origin.Subtract(s.Center)

	a := ray.Direction.Dot(ray.Direction)
	b := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - a*c
	if discriminant < 0 || a == 0 {
		return false
	}

	sqrtD := math.Sqrt(discriminant)
	root := (-b - sqrtD) / a
	if !rec.accepts(ray, root) {
		root = (-b + sqrtD) / a
		if !rec.accepts(ray, root) {
			return false
		}
	}

	hitPoint := ray.At(root)
	outwardNormal := hitPoint.Subtract(s.Center).Multiply(1.0 / s.Radius)
	rec.commit(ray, root, outwardNormal, s)
	rec.UV = sphereUV(outwardNormal)
	rec.Barycentric = core.Vec2{}
	return true
}

// sphereUV maps a unit normal to spherical texture coordinates
func sphereUV(n core.Vec3) core.Vec2 {
	u := 0.5 + math.Atan2(n.Z, n.X)/(2*math.Pi)
	v := 0.5 - math.Asin(math.Max(-1, math.Min(1, n.Y)))/math.Pi
	return core.NewVec2(u, v)
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	return s.bbox
}

// Centroid returns the sphere center
func (s *Sphere) Centroid() core.Vec3 {
	return s.Center
}

// Area returns 4πr²
func (s *Sphere) Area() float64 {
	return 4 * math.Pi * s.Radius * s.Radius
}

// Sample picks a uniformly distributed point on the sphere surface
func (s *Sphere) Sample(sampler core.Sampler) (core.Vec3, core.Vec3) {
	normal := core.SampleOnUnitSphere(sampler.Get2D())
	return s.Center.Add(normal.Multiply(s.Radius)), normal
}

// MaterialID returns the id of the sphere's material
func (s *Sphere) MaterialID() int {
	return s.Material
}

// Validate rejects non-finite centers and non-positive radii
func (s *Sphere) Validate() error {
	if !s.Center.IsFinite() {
		return fmt.Errorf("%w: sphere center %v is not finite", ErrInvalidPrimitive, s.Center)
	}
	if !(s.Radius > 0) || math.IsInf(s.Radius, 0) {
		return fmt.Errorf("%w: sphere radius %g must be positive and finite", ErrInvalidPrimitive, s.Radius)
	}
	return nil
}

func (s *Sphere) primitive() {}

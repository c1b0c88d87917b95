package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// triangleEpsilon rejects rays (nearly) parallel to the triangle plane
const triangleEpsilon = 1e-9

// Default texture corners used when a triangle has no per-vertex UVs
var defaultTriangleUVs = [3]core.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3
	UVs        [3]core.Vec2
	Material   int

	edge1, edge2 core.Vec3 // Cached edges V1-V0 and V2-V0
	normal       core.Vec3 // Cached unit face normal
	area         float64
	bbox         core.AABB
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, materialID int) *Triangle {
	return NewTriangleWithUVs(v0, v1, v2, defaultTriangleUVs, materialID)
}

// NewTriangleWithUVs creates a triangle with explicit per-vertex texture coordinates
func NewTriangleWithUVs(v0, v1, v2 core.Vec3, uvs [3]core.Vec2, materialID int) *Triangle {
	t := &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		UVs:      uvs,
		Material: materialID,
	}

	t.edge1 = v1.Subtract(v0)
	t.edge2 = v2.Subtract(v0)
	cross := t.edge1.Cross(t.edge2)
	t.normal = cross.Normalize()
	t.area = 0.5 * cross.Length()
	t.bbox = core.NewAABBFromPoints(v0, v1, v2)

	return t
}

// Intersect tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Intersect(ray *core.Ray, rec *HitRecord) bool {
	p := ray.Direction.Cross(t.edge2)
	det := t.edge1.Dot(p)
	if math.Abs(det) < triangleEpsilon {
		return false
	}

	invDet := 1.0 / det
	s := ray.Origin.Subtract(t.V0)
	u := invDet * s.Dot(p)
	if u < 0.0 || u > 1.0 {
		return false
	}

	q := s.Cross(t.edge1)
	v := invDet * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return false
	}

	dist := invDet * t.edge2.Dot(q)
	if !rec.accepts(ray, dist) {
		return false
	}

	rec.commit(ray, dist, t.normal, t)
	rec.Barycentric = core.NewVec2(u, v)
	rec.UV = t.UVs[0].Multiply(1 - u - v).Add(t.UVs[1].Multiply(u)).Add(t.UVs[2].Multiply(v))
	return true
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// Centroid returns the average of the three vertices
func (t *Triangle) Centroid() core.Vec3 {
	return t.V0.Add(t.V1).Add(t.V2).Multiply(1.0 / 3.0)
}

// Area returns the triangle surface area
func (t *Triangle) Area() float64 {
	return t.area
}

// Normal returns the triangle's unit face normal
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

// Sample picks a uniformly distributed point on the triangle
func (t *Triangle) Sample(sampler core.Sampler) (core.Vec3, core.Vec3) {
	u, v := core.SampleUniformTriangle(sampler.Get2D())
	return t.V0.Add(t.edge1.Multiply(u)).Add(t.edge2.Multiply(v)), t.normal
}

// MaterialID returns the id of the triangle's material
func (t *Triangle) MaterialID() int {
	return t.Material
}

// Validate rejects non-finite vertices and zero-area triangles
func (t *Triangle) Validate() error {
	if !t.V0.IsFinite() || !t.V1.IsFinite() || !t.V2.IsFinite() {
		return fmt.Errorf("%w: triangle vertex is not finite", ErrInvalidPrimitive)
	}
	if !(t.area > 0) {
		return fmt.Errorf("%w: vertices %v %v %v", ErrDegenerateTriangle, t.V0, t.V1, t.V2)
	}
	return nil
}

func (t *Triangle) primitive() {}

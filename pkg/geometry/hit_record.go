package geometry

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// HitRecord accumulates the nearest intersection found while traversing the scene.
// Primitives only overwrite it with a strictly nearer hit.
type HitRecord struct {
	T           float64   // Distance along the ray, +Inf when nothing was hit
	Point       core.Vec3 // Point of intersection
	Normal      core.Vec3 // Outward geometric normal at the intersection
	UV          core.Vec2 // Texture coordinates
	Barycentric core.Vec2 // (u, v) for triangle hits
	FrontFace   bool      // Whether the ray arrived from the outside
	MaterialID  int
	Primitive   Primitive
}

// NewHitRecord returns a record with no hit
func NewHitRecord() HitRecord {
	return HitRecord{T: math.Inf(1)}
}

// Reset restores the record to "no hit"
func (h *HitRecord) Reset() {
	*h = NewHitRecord()
}

// Hit reports whether the record holds a hit
func (h *HitRecord) Hit() bool {
	return !math.IsInf(h.T, 1)
}

// commit stores a hit at distance t and narrows the ray interval to it
func (h *HitRecord) commit(ray *core.Ray, t float64, outwardNormal core.Vec3, prim Primitive) {
	h.T = t
	h.Point = ray.At(t)
	h.Normal = outwardNormal
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	h.MaterialID = prim.MaterialID()
	h.Primitive = prim
	ray.TMax = t
}

// accepts reports whether t lies in the open ray interval and is nearer than the current hit
func (h *HitRecord) accepts(ray *core.Ray, t float64) bool {
	return t > ray.TMin && t < ray.TMax && t < h.T
}

package core

import "math"

// AABB represents an axis-aligned bounding box. The center and area are computed once by
// the constructors; build boxes with NewAABB, NewAABBFromPoints or Union.
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner

	center Vec3
	area   float64
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	size := max.Subtract(min)
	return AABB{
		Min:    min,
		Max:    max,
		center: min.Add(size.Multiply(0.5)),
		area:   size.X*size.Y + size.Y*size.Z + size.Z*size.X,
	}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return NewAABB(Vec3{}, Vec3{})
	}

	min := points[0]
	max := points[0]
	for _, point := range points[1:] {
		min = min.Min(point)
		max = max.Max(point)
	}

	return NewAABB(min, max)
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.center
}

// Area returns the splitting heuristic value of the box: half of its surface area.
// Only meaningful relative to other boxes.
func (aabb AABB) Area() float64 {
	return aabb.area
}

// Less orders boxes by Area
func (aabb AABB) Less(other AABB) bool {
	return aabb.area < other.area
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return NewAABB(aabb.Min.Min(other.Min), aabb.Max.Max(other.Max))
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X > size.Y && size.X > size.Z {
		return 0
	}
	if size.Y > size.Z {
		return 1
	}
	return 2
}

// Hit tests if a ray intersects this AABB within [ray.TMin, ray.TMax] using the slab method
func (aabb AABB) Hit(ray *Ray) bool {
	_, _, ok := aabb.slabs(ray)
	return ok
}

// Distance returns the entry distance of the ray into the box. The exit point must lie in
// front of the ray origin.
func (aabb AABB) Distance(ray *Ray) (float64, bool) {
	tEnter, tExit, ok := aabb.slabs(ray)
	if !ok || tExit < 0 {
		return 0, false
	}
	return tEnter, true
}

// slabs clips [ray.TMin, ray.TMax] against the three slabs. Axes where the ray direction
// is exactly zero are handled without the reciprocal: the origin must lie inside the slab.
func (aabb AABB) slabs(ray *Ray) (float64, float64, bool) {
	tEnter := ray.TMin
	tExit := ray.TMax

	for axis := 0; axis < 3; axis++ {
		origin := ray.Origin.Axis(axis)
		min := aabb.Min.Axis(axis)
		max := aabb.Max.Axis(axis)

		if ray.Direction.Axis(axis) == 0 {
			if origin < min || origin > max {
				return 0, 0, false
			}
			continue
		}

		invDirection := ray.InvDirection.Axis(axis)
		t1 := (min - origin) * invDirection
		t2 := (max - origin) * invDirection
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tEnter = math.Max(tEnter, t1)
		tExit = math.Min(tExit, t2)
		if tEnter > tExit {
			return 0, 0, false
		}
	}

	return tEnter, tExit, true
}

package material

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Material describes how a surface emits and scatters light
type Material interface {
	// Emission returns the radiance emitted by the surface, zero for non-emitters
	Emission() core.Vec3

	// Albedo returns the surface color at the given texture coordinates
	Albedo(uv core.Vec2) core.Vec3

	// Sample picks an outgoing direction for a ray arriving along incoming at a surface with
	// the given outward normal. The returned weight multiplies the albedo; a zero weight or
	// zero direction means the path is absorbed.
	Sample(incoming, normal core.Vec3, sampler core.Sampler) (weight float64, outgoing core.Vec3)
}

// emission is embedded by every material so any of them can act as a light
type emission struct {
	Emit core.Vec3 // Emitted radiance
}

// Emission returns the emitted radiance
func (e emission) Emission() core.Vec3 {
	return e.Emit
}

// IsEmissive reports whether the material emits light
func IsEmissive(m Material) bool {
	return !m.Emission().IsZero()
}

// reflect mirrors v around the normal n: v - 2(v·n)n
func reflect(v, n core.Vec3) core.Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

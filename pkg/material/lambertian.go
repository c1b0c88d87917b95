package material

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	emission
	Texture Texture // Base color/reflectance (can be solid or textured)
}

// NewLambertian creates a new lambertian material with solid color
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Texture: NewSolidColor(albedo)}
}

// NewTexturedLambertian creates a new lambertian material with texture
func NewTexturedLambertian(texture Texture) *Lambertian {
	return &Lambertian{Texture: texture}
}

// NewEmissive creates a diffuse light: black albedo, constant emitted radiance
func NewEmissive(radiance core.Vec3) *Lambertian {
	l := NewLambertian(core.Vec3{})
	l.Emit = radiance
	return l
}

// Albedo samples the texture
func (l *Lambertian) Albedo(uv core.Vec2) core.Vec3 {
	return l.Texture.Sample(uv)
}

// Sample draws a cosine-weighted direction on the side of the surface the ray came from.
// The cosine term cancels against the pdf, so the weight is always 1.
func (l *Lambertian) Sample(incoming, normal core.Vec3, sampler core.Sampler) (float64, core.Vec3) {
	if incoming.Dot(normal) > 0 {
		normal = normal.Negate()
	}
	return 1, core.SampleCosineHemisphere(normal, sampler.Get2D())
}

package material

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Refractive is a smooth dielectric boundary between an outside medium with index Nc and
// an inside medium with index Nt
type Refractive struct {
	emission
	Tint core.Vec3
	Nc   float64 // Index of refraction outside the surface
	Nt   float64 // Index of refraction inside the surface
}

// NewRefractive creates glass-like material seen from air
func NewRefractive(tint core.Vec3, refractiveIndex float64) *Refractive {
	return &Refractive{Tint: tint, Nc: 1.0, Nt: refractiveIndex}
}

// Albedo returns the tint
func (r *Refractive) Albedo(uv core.Vec2) core.Vec3 {
	return r.Tint
}

// Sample chooses between reflection and refraction. Total internal reflection always
// reflects with weight 1. Otherwise the branch is picked with probability
// P = 1/4 + Re/2 and weighted so that the expectation equals the Fresnel split.
func (r *Refractive) Sample(incoming, normal core.Vec3, sampler core.Sampler) (float64, core.Vec3) {
	d := incoming.Normalize()
	reflected := reflect(d, normal)

	into := d.Dot(normal) < 0
	nl := normal
	eta := r.Nc / r.Nt
	if !into {
		nl = normal.Negate()
		eta = r.Nt / r.Nc
	}

	ddn := d.Dot(nl)
	cos2t := 1 - eta*eta*(1-ddn*ddn)
	if cos2t < 0 {
		return 1, reflected
	}

	refracted := d.Multiply(eta).Subtract(nl.Multiply(ddn*eta + math.Sqrt(cos2t))).Normalize()

	re := schlick(r.Nc, r.Nt, into, ddn, refracted.Dot(normal))
	p := 0.25 + 0.5*re
	if sampler.Get1D() < p {
		return re / p, reflected
	}
	return (1 - re) / (1 - p), refracted
}

// schlick approximates the Fresnel reflectance, using the cosine on the outer side of the
// boundary
func schlick(nc, nt float64, into bool, ddn, cosTransmitted float64) float64 {
	a := nt - nc
	b := nt + nc
	r0 := a * a / (b * b)

	c := 1 - cosTransmitted
	if into {
		c = 1 + ddn
	}
	return r0 + (1-r0)*math.Pow(c, 5)
}

package material

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Specular is a perfect mirror
type Specular struct {
	emission
	Tint core.Vec3
}

// NewSpecular creates a mirror with the given tint
func NewSpecular(tint core.Vec3) *Specular {
	return &Specular{Tint: tint}
}

// Albedo returns the tint
func (s *Specular) Albedo(uv core.Vec2) core.Vec3 {
	return s.Tint
}

// Sample returns the mirror direction with weight 1
func (s *Specular) Sample(incoming, normal core.Vec3, sampler core.Sampler) (float64, core.Vec3) {
	return 1, reflect(incoming, normal)
}

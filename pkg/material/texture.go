package material

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Texture provides spatially-varying colors for materials
type Texture interface {
	// Sample returns the color at the given UV coordinates
	Sample(uv core.Vec2) core.Vec3
}

// SolidColor provides uniform color
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a new solid color texture
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Sample returns the solid color regardless of UV
func (s *SolidColor) Sample(uv core.Vec2) core.Vec3 {
	return s.Color
}

// Checker is a procedural checkerboard with Scale squares per unit of UV
type Checker struct {
	Even  core.Vec3
	Odd   core.Vec3
	Scale float64
}

// NewChecker creates a checkerboard alternating between two colors
func NewChecker(scale float64, even, odd core.Vec3) *Checker {
	return &Checker{Even: even, Odd: odd, Scale: scale}
}

// Sample returns the color of the square containing uv
func (c *Checker) Sample(uv core.Vec2) core.Vec3 {
	cell := int(math.Floor(uv.X*c.Scale)) + int(math.Floor(uv.Y*c.Scale))
	if cell%2 == 0 {
		return c.Even
	}
	return c.Odd
}

package scene

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// Environment supplies the radiance of rays that leave the scene
type Environment interface {
	Radiance(direction core.Vec3) core.Vec3
}

// EnvironmentFunc adapts a plain function to Environment
type EnvironmentFunc func(direction core.Vec3) core.Vec3

// Radiance calls f
func (f EnvironmentFunc) Radiance(direction core.Vec3) core.Vec3 {
	return f(direction)
}

// UniformEnvironment emits the same radiance in every direction
type UniformEnvironment struct {
	Emission core.Vec3
}

// NewUniformEnvironment creates a constant environment
func NewUniformEnvironment(emission core.Vec3) *UniformEnvironment {
	return &UniformEnvironment{Emission: emission}
}

// Radiance returns the constant emission
func (u *UniformEnvironment) Radiance(direction core.Vec3) core.Vec3 {
	return u.Emission
}

// GradientEnvironment blends linearly from BottomColor straight down to TopColor straight up
type GradientEnvironment struct {
	TopColor    core.Vec3
	BottomColor core.Vec3
}

// NewGradientEnvironment creates a sky gradient
func NewGradientEnvironment(topColor, bottomColor core.Vec3) *GradientEnvironment {
	return &GradientEnvironment{TopColor: topColor, BottomColor: bottomColor}
}

// Radiance interpolates by the height of the direction
func (g *GradientEnvironment) Radiance(direction core.Vec3) core.Vec3 {
	t := 0.5 * (direction.Normalize().Y + 1.0)
	return g.BottomColor.Multiply(1.0 - t).Add(g.TopColor.Multiply(t))
}

// TextureEnvironment looks up an equirectangular (latitude/longitude) texture. The top of
// the texture is straight up.
type TextureEnvironment struct {
	Texture material.Texture
	Scale   float64
}

// NewTextureEnvironment wraps a texture as an environment
func NewTextureEnvironment(texture material.Texture, scale float64) *TextureEnvironment {
	return &TextureEnvironment{Texture: texture, Scale: scale}
}

// Radiance returns the scaled texel seen in the given direction
func (e *TextureEnvironment) Radiance(direction core.Vec3) core.Vec3 {
	d := direction.Normalize()
	u := 0.5 + math.Atan2(d.Z, d.X)/(2*math.Pi)
	v := 0.5 + math.Asin(math.Max(-1, math.Min(1, d.Y)))/math.Pi
	return e.Texture.Sample(core.NewVec2(u, v)).Multiply(e.Scale)
}

package integrator

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the radiance arriving along ray. The scene must be preprocessed.
	// The sampler belongs to the calling goroutine.
	RayColor(ray core.Ray, scene *scene.Scene, sampler core.Sampler) core.Vec3
}

// Config controls path termination and light sampling
type Config struct {
	MaxDepth             int  // Hard cap on the number of bounces
	RussianRouletteDepth int  // Bounce count after which paths are randomly terminated
	NextEventEstimation  bool // Sample lights directly at diffuse hits
}

// DefaultConfig returns the default integrator configuration
func DefaultConfig() Config {
	return Config{
		MaxDepth:             150,
		RussianRouletteDepth: 5,
		NextEventEstimation:  false,
	}
}

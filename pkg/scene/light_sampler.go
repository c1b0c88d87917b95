package scene

import (
	"fmt"
	"sort"
	"strings"
)

// LightSelection chooses how next event estimation picks a light
type LightSelection int

const (
	// UniformLights picks every light with equal probability
	UniformLights LightSelection = iota
	// PowerLights picks lights proportionally to area times emitted luminance
	PowerLights
)

// ParseLightSelection parses "uniform" or "power"
func ParseLightSelection(name string) (LightSelection, error) {
	switch strings.ToLower(name) {
	case "", "uniform":
		return UniformLights, nil
	case "power":
		return PowerLights, nil
	}
	return UniformLights, fmt.Errorf("unknown light selection %q", name)
}

func (l LightSelection) String() string {
	if l == PowerLights {
		return "power"
	}
	return "uniform"
}

// LightSampler picks one of the scene lights with fixed probabilities. Lights are
// primitive indices into Scene.Primitives.
type LightSampler struct {
	lights  []int
	weights []float64 // normalized selection probabilities
	cdf     []float64
}

// NewLightSampler creates a sampler over lights with the given non-negative weights. All
// zero weights fall back to uniform selection.
func NewLightSampler(lights []int, weights []float64) (*LightSampler, error) {
	if len(lights) != len(weights) {
		return nil, fmt.Errorf("lights length (%d) must match weights length (%d)", len(lights), len(weights))
	}

	total := 0.0
	for _, weight := range weights {
		if weight < 0 {
			return nil, fmt.Errorf("light weight %g is negative", weight)
		}
		total += weight
	}

	ls := &LightSampler{
		lights:  append([]int(nil), lights...),
		weights: make([]float64, len(weights)),
		cdf:     make([]float64, len(weights)),
	}
	cumulative := 0.0
	for i, weight := range weights {
		if total > 0 {
			ls.weights[i] = weight / total
		} else {
			ls.weights[i] = 1 / float64(len(weights))
		}
		cumulative += ls.weights[i]
		ls.cdf[i] = cumulative
	}
	return ls, nil
}

// NewUniformLightSampler creates a sampler with equal weights for all lights
func NewUniformLightSampler(lights []int) *LightSampler {
	ls, _ := NewLightSampler(lights, make([]float64, len(lights)))
	return ls
}

// Sample selects a light from u in [0, 1). It returns the primitive index and its
// selection probability, or -1 when there are no lights.
func (ls *LightSampler) Sample(u float64) (int, float64) {
	if len(ls.lights) == 0 {
		return -1, 0
	}
	i := sort.Search(len(ls.cdf), func(i int) bool { return ls.cdf[i] > u })
	// The last cdf entry may round below 1
	for i >= len(ls.lights) || ls.weights[i] == 0 {
		i--
	}
	return ls.lights[i], ls.weights[i]
}

// Count returns the number of lights
func (ls *LightSampler) Count() int {
	return len(ls.lights)
}

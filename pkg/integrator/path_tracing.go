package integrator

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
)

// shadowEpsilon shortens shadow rays relative to their length so they stop short of the
// sampled light point
const shadowEpsilon = 1e-4

// PathTracingIntegrator implements unidirectional path tracing
type PathTracingIntegrator struct {
	config Config
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config Config) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		config: config,
	}
}

// Config returns the integrator configuration
func (pt *PathTracingIntegrator) Config() Config {
	return pt.config
}

// RayColor follows one path iteratively. The result is finite and non-negative in every
// channel.
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Vec3 {
	if s.BVH == nil {
		return core.Vec3{}
	}

	radiance := core.Vec3{}
	throughput := core.NewVec3(1, 1, 1)
	countEmission := true
	rec := geometry.NewHitRecord()

	for depth := 0; depth < pt.config.MaxDepth; depth++ {
		rec.Reset()
		if !s.BVH.Hit(&ray, &rec) {
			radiance = radiance.Add(throughput.MultiplyVec(s.BackgroundRadiance(ray.Direction)))
			break
		}

		m := s.Material(rec.MaterialID)
		if material.IsEmissive(m) {
			if countEmission {
				radiance = radiance.Add(throughput.MultiplyVec(m.Emission()))
			}
			break
		}

		weight, direction := m.Sample(ray.Direction, rec.Normal, sampler)
		if !(weight > 0) || math.IsInf(weight, 0) || direction.IsZero() || !direction.IsFinite() {
			break
		}

		albedo := m.Albedo(rec.UV)
		_, diffuse := m.(*material.Lambertian)
		if pt.config.NextEventEstimation && diffuse {
			direct := pt.sampleDirectLight(s, &rec, albedo, sampler)
			radiance = radiance.Add(throughput.MultiplyVec(direct))
		}
		// Lights reached from a diffuse bounce were already counted by the light sample
		countEmission = !(pt.config.NextEventEstimation && diffuse)

		throughput = throughput.MultiplyVec(albedo).Multiply(weight)
		if !throughput.IsFinite() {
			break
		}

		if depth >= pt.config.RussianRouletteDepth {
			survival := math.Min(1, throughput.MaxComponent())
			if !(survival > 0) || sampler.Get1D() >= survival {
				break
			}
			throughput = throughput.Multiply(1 / survival)
		}

		ray = core.NewRay(rec.Point, direction.Normalize())
	}

	return sanitize(radiance)
}

// sampleDirectLight estimates the radiance reflected toward the path by one light chosen
// by the scene's light sampler, sampled by area and tested for visibility with a shadow ray
func (pt *PathTracingIntegrator) sampleDirectLight(s *scene.Scene, rec *geometry.HitRecord, albedo core.Vec3, sampler core.Sampler) core.Vec3 {
	if s.LightSampler == nil || s.LightSampler.Count() == 0 {
		return core.Vec3{}
	}

	index, selectionPdf := s.LightSampler.Sample(sampler.Get1D())
	if !(selectionPdf > 0) {
		return core.Vec3{}
	}
	light := s.Primitives[index]
	point, lightNormal := light.Sample(sampler)

	toLight := point.Subtract(rec.Point)
	distanceSquared := toLight.LengthSquared()
	if !(distanceSquared > 0) {
		return core.Vec3{}
	}
	distance := math.Sqrt(distanceSquared)
	wi := toLight.Multiply(1 / distance)

	normal := rec.Normal
	if !rec.FrontFace {
		normal = normal.Negate()
	}
	cosSurface := wi.Dot(normal)
	cosLight := math.Abs(wi.Dot(lightNormal))
	if cosSurface <= 0 || cosLight <= 0 {
		return core.Vec3{}
	}

	shadow := core.NewRayInterval(rec.Point, wi, core.RayEpsilon, distance*(1-shadowEpsilon))
	if s.BVH.HitAny(shadow) {
		return core.Vec3{}
	}

	// pdf of picking this point: the light's selection probability times 1/area
	pdfArea := selectionPdf / light.Area()
	emission := s.Material(light.MaterialID()).Emission()
	geometryTerm := cosSurface * cosLight / (distanceSquared * pdfArea)

	return albedo.Multiply(1 / math.Pi).MultiplyVec(emission).Multiply(geometryTerm)
}

// sanitize maps NaN, infinite and negative channels to zero
func sanitize(v core.Vec3) core.Vec3 {
	clean := func(x float64) float64 {
		if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
			return 0
		}
		return x
	}
	return core.NewVec3(clean(v.X), clean(v.Y), clean(v.Z))
}

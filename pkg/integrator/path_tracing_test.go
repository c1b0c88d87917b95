package integrator

import (
	"math"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
)

func testCamera() geometry.CameraConfig {
	return geometry.CameraConfig{
		Center:      core.NewVec3(-5, 0, 0),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: 1,
		VFov:        45,
	}
}

// newSphereScene creates a single sphere of radius 1 at the origin
func newSphereScene(t *testing.T, m material.Material, env scene.Environment) *scene.Scene {
	t.Helper()
	s := scene.New(testCamera())
	s.AddSphere(core.NewVec3(0, 0, 0), 1, m)
	s.Environment = env
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	return s
}

func estimate(pt *PathTracingIntegrator, s *scene.Scene, ray core.Ray, n int, seed int64) core.Vec3 {
	sampler := core.NewSeededSampler(seed)
	sum := core.Vec3{}
	for i := 0; i < n; i++ {
		sum = sum.Add(pt.RayColor(ray, s, sampler))
	}
	return sum.Multiply(1 / float64(n))
}

func upperHemisphereSky(direction core.Vec3) core.Vec3 {
	if direction.Y > 0 {
		return core.NewVec3(1, 1, 1)
	}
	return core.Vec3{}
}

func TestPathTracing_ConvergesToAnalyticValue(t *testing.T) {
	// A diffuse sphere of albedo 0.5 under a sky that is 1 above the horizon and 0 below.
	// Half of the cosine-weighted bounces from (-1,0,0) escape upward: 0.5 * 0.5.
	s := newSphereScene(t, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)), scene.EnvironmentFunc(upperHemisphereSky))
	pt := NewPathTracingIntegrator(DefaultConfig())
	ray := core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0))

	const n = 10000
	mean := estimate(pt, s, ray, n, 42)

	// Samples are 0 or 0.5, so the standard deviation is 0.25; allow five standard errors
	tolerance := 5 * 0.25 / math.Sqrt(n)
	for _, channel := range []float64{mean.X, mean.Y, mean.Z} {
		if math.Abs(channel-0.25) > tolerance {
			t.Errorf("Expected 0.25 ± %f, got %f", tolerance, channel)
		}
	}
}

func TestPathTracing_MissReturnsBackground(t *testing.T) {
	s := newSphereScene(t, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)), nil)
	s.Background = core.NewVec3(0.2, 0.3, 0.4)
	pt := NewPathTracingIntegrator(DefaultConfig())

	ray := core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(0, 1, 0))
	got := pt.RayColor(ray, s, core.NewSeededSampler(1))
	if got != s.Background {
		t.Errorf("Expected background %v, got %v", s.Background, got)
	}
}

func TestPathTracing_EmissiveHit(t *testing.T) {
	s := newSphereScene(t, material.NewEmissive(core.NewVec3(3, 2, 1)), scene.NewUniformEnvironment(core.NewVec3(1, 1, 1)))
	pt := NewPathTracingIntegrator(DefaultConfig())

	ray := core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0))
	got := pt.RayColor(ray, s, core.NewSeededSampler(1))
	if got != core.NewVec3(3, 2, 1) {
		t.Errorf("Expected emission (3,2,1), got %v", got)
	}
}

func TestPathTracing_DepthCap(t *testing.T) {
	s := newSphereScene(t, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)), scene.NewUniformEnvironment(core.NewVec3(1, 1, 1)))
	ray := core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0))

	tests := []struct {
		name     string
		maxDepth int
		expected float64
	}{
		{"no bounces allowed", 0, 0},
		{"cut off after the first hit", 1, 0},
		{"one bounce then escape", 2, 0.5},
		{"deep cap", 150, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pt := NewPathTracingIntegrator(Config{MaxDepth: tt.maxDepth, RussianRouletteDepth: 1000})
			got := pt.RayColor(ray, s, core.NewSeededSampler(3))
			if math.Abs(got.X-tt.expected) > 1e-12 {
				t.Errorf("Expected %f, got %v", tt.expected, got)
			}
		})
	}
}

func TestPathTracing_RussianRouletteUnbiased(t *testing.T) {
	// Roulette from the first bounce: survivors are reweighted by 1/0.5
	s := newSphereScene(t, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)), scene.NewUniformEnvironment(core.NewVec3(1, 1, 1)))
	pt := NewPathTracingIntegrator(Config{MaxDepth: 150, RussianRouletteDepth: 0})
	ray := core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0))

	const n = 10000
	sampler := core.NewSeededSampler(5)
	sum, zeros := 0.0, 0
	for i := 0; i < n; i++ {
		c := pt.RayColor(ray, s, sampler)
		if c.X == 0 {
			zeros++
		} else if math.Abs(c.X-1) > 1e-12 {
			t.Fatalf("Survivors should carry weight 1, got %f", c.X)
		}
		sum += c.X
	}

	if mean := sum / n; math.Abs(mean-0.5) > 5*0.5/math.Sqrt(n) {
		t.Errorf("Expected mean 0.5, got %f", mean)
	}
	if zeros == 0 || zeros == n {
		t.Errorf("Expected a mix of terminated and surviving paths, got %d zeros", zeros)
	}
}

func TestPathTracing_MirrorChainRespectsDepthCap(t *testing.T) {
	// Two facing mirrors trap the ray; only the depth cap stops it
	s := scene.New(testCamera())
	mirror := material.NewSpecular(core.NewVec3(1, 1, 1))
	s.AddQuad(core.NewVec3(-1, -1, -1), core.NewVec3(0, 2, 0), core.NewVec3(0, 0, 2), mirror)
	s.AddQuad(core.NewVec3(1, -1, -1), core.NewVec3(0, 0, 2), core.NewVec3(0, 2, 0), mirror)
	s.Background = core.NewVec3(1, 1, 1)
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	pt := NewPathTracingIntegrator(Config{MaxDepth: 20, RussianRouletteDepth: 1000})
	ray := core.NewRay(core.NewVec3(0, 0.1, 0.2), core.NewVec3(1, 0, 0))
	got := pt.RayColor(ray, s, core.NewSeededSampler(1))
	if got != (core.Vec3{}) {
		t.Errorf("Trapped path should return nothing, got %v", got)
	}
}

// brokenMaterial returns degenerate samples
type brokenMaterial struct {
	weight    float64
	direction core.Vec3
	albedo    core.Vec3
}

func (b brokenMaterial) Emission() core.Vec3            { return core.Vec3{} }
func (b brokenMaterial) Albedo(uv core.Vec2) core.Vec3 { return b.albedo }
func (b brokenMaterial) Sample(incoming, normal core.Vec3, sampler core.Sampler) (float64, core.Vec3) {
	return b.weight, b.direction
}

func TestPathTracing_DegenerateSamples(t *testing.T) {
	sky := scene.NewUniformEnvironment(core.NewVec3(1, 1, 1))
	ray := core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0))
	away := core.NewVec3(-1, 0, 0)

	tests := []struct {
		name     string
		material brokenMaterial
		expected core.Vec3
	}{
		{"nan weight", brokenMaterial{math.NaN(), away, core.NewVec3(1, 1, 1)}, core.Vec3{}},
		{"infinite weight", brokenMaterial{math.Inf(1), away, core.NewVec3(1, 1, 1)}, core.Vec3{}},
		{"zero direction", brokenMaterial{1, core.Vec3{}, core.NewVec3(1, 1, 1)}, core.Vec3{}},
		{"nan direction", brokenMaterial{1, core.NewVec3(math.NaN(), 0, 0), core.NewVec3(1, 1, 1)}, core.Vec3{}},
		{"negative albedo", brokenMaterial{1, away, core.NewVec3(-1, 0.5, 1)}, core.NewVec3(0, 0.5, 1)},
		{"nan albedo", brokenMaterial{1, away, core.NewVec3(math.NaN(), 0.5, 1)}, core.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSphereScene(t, tt.material, sky)
			pt := NewPathTracingIntegrator(DefaultConfig())
			got := pt.RayColor(ray, s, core.NewSeededSampler(1))
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestPathTracing_UnprocessedScene(t *testing.T) {
	s := scene.New(testCamera())
	pt := NewPathTracingIntegrator(DefaultConfig())
	got := pt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(1, 0, 0)), s, core.NewSeededSampler(1))
	if got != (core.Vec3{}) {
		t.Errorf("Expected black for an unprocessed scene, got %v", got)
	}
}

// newLitFloorScene puts a diffuse floor of albedo 0.5 under a spherical light of radius 1
// and radiance 25 centered 5 units above the origin. The light subtends sin²α = 1/25, so
// the floor at the origin reflects 0.5 * 25 / 25 = 0.5.
func newLitFloorScene(t *testing.T) *scene.Scene {
	t.Helper()
	s := scene.New(testCamera())
	s.AddQuad(core.NewVec3(-50, 0, 50), core.NewVec3(100, 0, 0), core.NewVec3(0, 0, -100),
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	s.AddSphereLight(core.NewVec3(0, 5, 0), 1, core.NewVec3(25, 25, 25))
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	return s
}

func TestPathTracing_NextEventEstimationMatchesBrdfSampling(t *testing.T) {
	s := newLitFloorScene(t)
	ray := core.NewRay(core.NewVec3(0, 1, -1), core.NewVec3(0, -1, 1).Normalize())

	withoutNEE := NewPathTracingIntegrator(Config{MaxDepth: 10, RussianRouletteDepth: 1000})
	withNEE := NewPathTracingIntegrator(Config{MaxDepth: 10, RussianRouletteDepth: 1000, NextEventEstimation: true})

	// BRDF sampling: 12.5 with probability 1/25, standard deviation about 2.45
	const n = 40000
	plain := estimate(withoutNEE, s, ray, n, 11)
	if math.Abs(plain.X-0.5) > 5*2.45/math.Sqrt(n) {
		t.Errorf("Expected 0.5 without NEE, got %f", plain.X)
	}

	direct := estimate(withNEE, s, ray, n, 12)
	if math.Abs(direct.X-0.5) > 0.025 {
		t.Errorf("Expected 0.5 with NEE, got %f", direct.X)
	}
}

func TestPathTracing_NextEventEstimationOnBackFace(t *testing.T) {
	// Same floor as newLitFloorScene with its outward normal pointing down, away from the light
	s := scene.New(testCamera())
	s.AddQuad(core.NewVec3(-50, 0, -50), core.NewVec3(100, 0, 0), core.NewVec3(0, 0, 100),
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	s.AddSphereLight(core.NewVec3(0, 5, 0), 1, core.NewVec3(25, 25, 25))
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	pt := NewPathTracingIntegrator(Config{MaxDepth: 10, RussianRouletteDepth: 1000, NextEventEstimation: true})
	ray := core.NewRay(core.NewVec3(0, 1, -1), core.NewVec3(0, -1, 1).Normalize())
	const n = 40000
	if got := estimate(pt, s, ray, n, 14); math.Abs(got.X-0.5) > 0.025 {
		t.Errorf("Expected 0.5 with NEE on a back face, got %f", got.X)
	}
}

func TestPathTracing_NextEventEstimationShadowed(t *testing.T) {
	s := scene.New(testCamera())
	s.AddQuad(core.NewVec3(-50, 0, 50), core.NewVec3(100, 0, 0), core.NewVec3(0, 0, -100),
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	s.AddSphereLight(core.NewVec3(0, 5, 0), 1, core.NewVec3(25, 25, 25))
	// Occluder between the floor point and the light
	s.AddSphere(core.NewVec3(0, 2, 0), 1.5, material.NewLambertian(core.Vec3{}))
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	pt := NewPathTracingIntegrator(Config{MaxDepth: 10, RussianRouletteDepth: 1000, NextEventEstimation: true})
	ray := core.NewRay(core.NewVec3(0, 0.1, -1), core.NewVec3(0, -0.1, 1).Normalize())
	if got := estimate(pt, s, ray, 1000, 13); got != (core.Vec3{}) {
		t.Errorf("Fully shadowed point should be black, got %v", got)
	}
}

func TestPathTracing_PowerLightSelectionIsUnbiased(t *testing.T) {
	build := func(selection scene.LightSelection) *scene.Scene {
		s := scene.New(testCamera())
		s.AddQuad(core.NewVec3(-50, 0, 50), core.NewVec3(100, 0, 0), core.NewVec3(0, 0, -100),
			material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
		s.AddSphereLight(core.NewVec3(0, 5, 0), 1, core.NewVec3(25, 25, 25))
		s.AddSphereLight(core.NewVec3(10, 5, 10), 0.5, core.NewVec3(2, 2, 2))
		s.LightSelection = selection
		if err := s.Preprocess(); err != nil {
			t.Fatalf("Preprocess failed: %v", err)
		}
		return s
	}

	pt := NewPathTracingIntegrator(Config{MaxDepth: 10, RussianRouletteDepth: 1000, NextEventEstimation: true})
	ray := core.NewRay(core.NewVec3(0, 1, -1), core.NewVec3(0, -1, 1).Normalize())

	const n = 40000
	uniform := estimate(pt, build(scene.UniformLights), ray, n, 21)
	power := estimate(pt, build(scene.PowerLights), ray, n, 22)
	if math.Abs(uniform.X-power.X) > 0.05 {
		t.Errorf("Light selection changed the estimate: uniform %f, power %f", uniform.X, power.X)
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config.MaxDepth != 150 || config.RussianRouletteDepth != 5 || config.NextEventEstimation {
		t.Errorf("Unexpected defaults: %+v", config)
	}
}

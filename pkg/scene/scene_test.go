package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

func testCamera() geometry.CameraConfig {
	return geometry.CameraConfig{
		Center:      core.NewVec3(0, 0, 5),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: 1,
		VFov:        45,
	}
}

func TestScene_PreprocessErrors(t *testing.T) {
	tests := []struct {
		name   string
		build  func() *Scene
		target error
	}{
		{
			name:   "no camera",
			build:  func() *Scene { return &Scene{} },
			target: ErrNoCamera,
		},
		{
			name: "invalid camera",
			build: func() *Scene {
				config := testCamera()
				config.LookAt = config.Center
				s := New(config)
				s.AddSphere(core.NewVec3(0, 0, 0), 1, material.NewLambertian(core.NewVec3(1, 1, 1)))
				return s
			},
			target: geometry.ErrInvalidCamera,
		},
		{
			name: "zero field of view",
			build: func() *Scene {
				config := testCamera()
				config.VFov = 0
				s := New(config)
				s.AddSphere(core.NewVec3(0, 0, 0), 1, material.NewLambertian(core.NewVec3(1, 1, 1)))
				return s
			},
			target: geometry.ErrInvalidCamera,
		},
		{
			name: "lambertian without texture",
			build: func() *Scene {
				s := New(testCamera())
				s.AddSphere(core.NewVec3(0, 0, 0), 1, &material.Lambertian{})
				return s
			},
			target: material.ErrInvalidMaterial,
		},
		{
			name: "refractive without indices",
			build: func() *Scene {
				s := New(testCamera())
				s.AddSphere(core.NewVec3(0, 0, 0), 1, &material.Refractive{Tint: core.NewVec3(1, 1, 1)})
				return s
			},
			target: material.ErrInvalidMaterial,
		},
		{
			name: "negative emission",
			build: func() *Scene {
				s := New(testCamera())
				s.AddSphere(core.NewVec3(0, 0, 0), 1, material.NewEmissive(core.NewVec3(-1, 0, 0)))
				return s
			},
			target: material.ErrInvalidMaterial,
		},
		{
			name:   "no primitives",
			build:  func() *Scene { return New(testCamera()) },
			target: ErrNoPrimitives,
		},
		{
			name: "unknown material",
			build: func() *Scene {
				s := New(testCamera())
				s.Add(geometry.NewSphere(core.NewVec3(0, 0, 0), 1, 42))
				return s
			},
			target: ErrUnknownMaterial,
		},
		{
			name: "invalid sphere",
			build: func() *Scene {
				s := New(testCamera())
				s.AddSphere(core.NewVec3(0, 0, 0), -1, material.NewLambertian(core.NewVec3(1, 1, 1)))
				return s
			},
			target: geometry.ErrInvalidPrimitive,
		},
		{
			name: "degenerate triangle",
			build: func() *Scene {
				s := New(testCamera())
				id := s.AddMaterial(material.NewLambertian(core.NewVec3(1, 1, 1)))
				s.Add(geometry.NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(2, 0, 0), id))
				return s
			},
			target: geometry.ErrDegenerateTriangle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.build()
			err := s.Preprocess()
			if !errors.Is(err, tt.target) {
				t.Fatalf("Expected %v, got %v", tt.target, err)
			}
			if s.Preprocessed() {
				t.Error("Failed preprocessing must not leave a BVH behind")
			}
		})
	}
}

func TestScene_PreprocessCollectsLights(t *testing.T) {
	s := New(testCamera())
	s.AddSphere(core.NewVec3(0, 0, 0), 1, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	s.AddSphereLight(core.NewVec3(0, 5, 0), 1, core.NewVec3(4, 4, 4))
	s.AddQuadLight(core.NewVec3(-1, 6, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), core.NewVec3(1, 1, 1))

	if err := s.Preprocess(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Sphere light plus the two triangles of the quad light
	expected := []int{1, 2, 3}
	if len(s.Lights) != len(expected) {
		t.Fatalf("Expected lights %v, got %v", expected, s.Lights)
	}
	for i, index := range expected {
		if s.Lights[i] != index {
			t.Errorf("Expected lights %v, got %v", expected, s.Lights)
		}
	}
	if s.BVH.Stats().Primitives != 4 {
		t.Errorf("Expected BVH over 4 primitives, got %d", s.BVH.Stats().Primitives)
	}
}

func TestScene_AddMaterialIDs(t *testing.T) {
	s := New(testCamera())
	s.Materials[1] = material.NewLambertian(core.NewVec3(1, 1, 1))

	first := s.AddMaterial(material.NewLambertian(core.NewVec3(0, 0, 0)))
	second := s.AddMaterial(material.NewLambertian(core.NewVec3(0, 0, 0)))

	if first == 1 || second == 1 || first == second {
		t.Errorf("AddMaterial must not reuse ids: got %d and %d", first, second)
	}
	if len(s.Materials) != 3 {
		t.Errorf("Expected 3 materials, got %d", len(s.Materials))
	}
}

func TestScene_AddQuadNormal(t *testing.T) {
	s := New(testCamera())
	s.AddQuad(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, -1), material.NewLambertian(core.NewVec3(1, 1, 1)))

	if len(s.Primitives) != 2 {
		t.Fatalf("Expected 2 triangles, got %d", len(s.Primitives))
	}
	for _, prim := range s.Primitives {
		normal := prim.(*geometry.Triangle).Normal()
		if math.Abs(normal.Y-1) > 1e-9 {
			t.Errorf("Expected normal u × v = (0,1,0), got %v", normal)
		}
	}
	if math.Abs(s.Primitives[0].Area()+s.Primitives[1].Area()-1) > 1e-9 {
		t.Error("Quad triangles should cover the unit square")
	}
}

func TestScene_SphereLightHit(t *testing.T) {
	s := NewSphereLightScene()
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	ray := core.NewRay(core.NewVec3(0, 0, -50), core.NewVec3(0, 0, 1))
	rec := geometry.NewHitRecord()
	if !s.BVH.Hit(&ray, &rec) {
		t.Fatal("Expected hit on the sphere")
	}
	if math.Abs(rec.T-40) > 1e-6 {
		t.Errorf("Expected distance 40, got %f", rec.T)
	}
	if math.Abs(rec.Normal.Z+1) > 1e-6 || math.Abs(rec.Normal.X) > 1e-6 || math.Abs(rec.Normal.Y) > 1e-6 {
		t.Errorf("Expected normal (0,0,-1), got %v", rec.Normal)
	}
	if material.IsEmissive(s.Material(rec.MaterialID)) {
		t.Error("Expected the diffuse sphere, got the light")
	}
	if len(s.Lights) != 1 {
		t.Errorf("Expected one light, got %d", len(s.Lights))
	}
}

func TestScene_BackgroundRadiance(t *testing.T) {
	s := New(testCamera())
	s.Background = core.NewVec3(0.1, 0.2, 0.3)

	if got := s.BackgroundRadiance(core.NewVec3(0, 1, 0)); got != s.Background {
		t.Errorf("Expected flat background, got %v", got)
	}

	s.Environment = EnvironmentFunc(func(direction core.Vec3) core.Vec3 {
		if direction.Y > 0 {
			return core.NewVec3(1, 1, 1)
		}
		return core.Vec3{}
	})
	if got := s.BackgroundRadiance(core.NewVec3(0, 1, 0)); got != core.NewVec3(1, 1, 1) {
		t.Errorf("Expected environment lookup, got %v", got)
	}
	if got := s.BackgroundRadiance(core.NewVec3(0, -1, 0)); got != (core.Vec3{}) {
		t.Errorf("Expected black below the horizon, got %v", got)
	}
}

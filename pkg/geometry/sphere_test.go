package geometry

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

func vecNear(a, b core.Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

func TestSphere_Intersect_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, 0)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))
	rec := NewHitRecord()

	if sphere.Intersect(&ray, &rec) {
		t.Errorf("Expected miss, but got hit at t=%f", rec.T)
	}
	if rec.Hit() {
		t.Error("Record should be untouched on a miss")
	}
	if !math.IsInf(ray.TMax, 1) {
		t.Errorf("Ray interval should be untouched on a miss, got TMax=%f", ray.TMax)
	}
}

func TestSphere_Intersect_FromFarAway(t *testing.T) {
	// A radius 10 sphere at the origin seen from 50 units away along -z
	sphere := NewSphere(core.NewVec3(0, 0, 0), 10, 0)
	ray := core.NewRay(core.NewVec3(0, 0, -50), core.NewVec3(0, 0, 1))
	rec := NewHitRecord()

	if !sphere.Intersect(&ray, &rec) {
		t.Fatal("Expected hit, but got miss")
	}
	if math.Abs(rec.T-40) > 1e-6 {
		t.Errorf("Expected distance 40, got %f", rec.T)
	}
	if !vecNear(rec.Normal, core.NewVec3(0, 0, -1), 1e-6) {
		t.Errorf("Expected normal (0,0,-1), got %v", rec.Normal)
	}
	if !rec.FrontFace {
		t.Error("Expected front face hit")
	}
	if ray.TMax != rec.T {
		t.Errorf("Expected ray TMax narrowed to %f, got %f", rec.T, ray.TMax)
	}
	if rec.Primitive != sphere {
		t.Error("Expected record to reference the sphere")
	}
}

func TestSphere_Intersect_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, 0)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			// Normal stays outward; only FrontFace reports the inside hit
			name:           "hit from inside",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			rec := NewHitRecord()

			if !sphere.Intersect(&ray, &rec) {
				t.Fatal("Expected hit, but got miss")
			}
			if math.Abs(rec.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, rec.T)
			}
			if rec.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, rec.FrontFace)
			}
			if !vecNear(rec.Normal, tt.expectedNormal, 1e-9) {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, rec.Normal)
			}
		})
	}
}

func TestSphere_Intersect_RespectsInterval(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, 0)

	// Entry at t=2 is excluded by TMin so the exit at t=4 is reported
	ray := core.NewRayInterval(core.NewVec3(0, 0, -3), core.NewVec3(0, 0, 1), 2.5, math.Inf(1))
	rec := NewHitRecord()
	if !sphere.Intersect(&ray, &rec) {
		t.Fatal("Expected hit on the far side")
	}
	if math.Abs(rec.T-4) > 1e-9 {
		t.Errorf("Expected t=4, got %f", rec.T)
	}

	// Both roots beyond TMax
	ray = core.NewRayInterval(core.NewVec3(0, 0, -3), core.NewVec3(0, 0, 1), core.RayEpsilon, 1.5)
	rec = NewHitRecord()
	if sphere.Intersect(&ray, &rec) {
		t.Error("Expected miss when both roots exceed TMax")
	}
}

func TestSphere_Intersect_KeepsNearerRecord(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, 0)
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))

	rec := NewHitRecord()
	rec.T = 2
	rec.MaterialID = 7

	if sphere.Intersect(&ray, &rec) {
		t.Fatal("A hit at t=4 must not replace a record at t=2")
	}
	if rec.T != 2 || rec.MaterialID != 7 {
		t.Errorf("Record was modified: %+v", rec)
	}
}

func TestSphere_Intersect_PointOnSurface(t *testing.T) {
	random := rand.New(rand.NewSource(7))
	sphere := NewSphere(core.NewVec3(1, -2, 3), 2.5, 0)

	hits := 0
	for i := 0; i < 500; i++ {
		origin := core.NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
		target := sphere.Center.Add(core.NewVec3(random.Float64()*4-2, random.Float64()*4-2, random.Float64()*4-2))
		ray := core.NewRay(origin, target.Subtract(origin).Normalize())
		rec := NewHitRecord()

		if !sphere.Intersect(&ray, &rec) {
			continue
		}
		hits++

		distance := rec.Point.Subtract(sphere.Center).Length()
		if math.Abs(distance-sphere.Radius) > 1e-6*sphere.Radius {
			t.Fatalf("Hit point %v is %f from the center, want %f", rec.Point, distance, sphere.Radius)
		}
		if math.Abs(rec.Normal.Length()-1) > 1e-9 {
			t.Fatalf("Normal %v is not unit length", rec.Normal)
		}
		if rec.UV.X < 0 || rec.UV.X > 1 || rec.UV.Y < 0 || rec.UV.Y > 1 {
			t.Fatalf("UV %v out of [0,1]", rec.UV)
		}
	}

	if hits == 0 {
		t.Fatal("Expected at least some rays to hit")
	}
}

func TestSphere_UV(t *testing.T) {
	tests := []struct {
		name   string
		normal core.Vec3
		uv     core.Vec2
	}{
		{"north pole", core.NewVec3(0, 1, 0), core.NewVec2(0.5, 0)},
		{"south pole", core.NewVec3(0, -1, 0), core.NewVec2(0.5, 1)},
		{"plus x", core.NewVec3(1, 0, 0), core.NewVec2(0.5, 0.5)},
		{"plus z", core.NewVec3(0, 0, 1), core.NewVec2(0.75, 0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uv := sphereUV(tt.normal)
			if math.Abs(uv.X-tt.uv.X) > 1e-9 || math.Abs(uv.Y-tt.uv.Y) > 1e-9 {
				t.Errorf("Expected uv %v, got %v", tt.uv, uv)
			}
		})
	}
}

func TestSphere_SampleOnSurface(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 5, 0), 3, 0)
	sampler := core.NewSeededSampler(3)

	for i := 0; i < 100; i++ {
		point, normal := sphere.Sample(sampler)
		if math.Abs(point.Subtract(sphere.Center).Length()-3) > 1e-9 {
			t.Fatalf("Sample %v not on surface", point)
		}
		expected := point.Subtract(sphere.Center).Multiply(1.0 / 3)
		if !vecNear(normal, expected, 1e-9) {
			t.Fatalf("Expected outward normal %v, got %v", expected, normal)
		}
	}

	if math.Abs(sphere.Area()-36*math.Pi) > 1e-9 {
		t.Errorf("Expected area 36π, got %f", sphere.Area())
	}
}

func TestSphere_Validate(t *testing.T) {
	tests := []struct {
		name    string
		sphere  *Sphere
		wantErr bool
	}{
		{"valid", NewSphere(core.NewVec3(0, 0, 0), 1, 0), false},
		{"zero radius", NewSphere(core.NewVec3(0, 0, 0), 0, 0), true},
		{"negative radius", NewSphere(core.NewVec3(0, 0, 0), -1, 0), true},
		{"nan radius", NewSphere(core.NewVec3(0, 0, 0), math.NaN(), 0), true},
		{"infinite center", NewSphere(core.NewVec3(math.Inf(1), 0, 0), 1, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sphere.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidPrimitive) {
				t.Errorf("Expected ErrInvalidPrimitive, got %v", err)
			}
		})
	}
}

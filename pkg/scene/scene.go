package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/log"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

var (
	ErrNoPrimitives    = errors.New("scene: no primitives")
	ErrUnknownMaterial = errors.New("scene: unknown material id")
	ErrNoCamera        = errors.New("scene: no camera")
)

var logger = log.New("scene")

// Scene contains all the elements needed for rendering. Populate it, then call Preprocess
// once; afterwards it is read-only and may be shared by any number of render goroutines.
type Scene struct {
	Camera       *geometry.Camera
	CameraConfig geometry.CameraConfig

	Primitives []geometry.Primitive
	Materials  map[int]material.Material

	Background  core.Vec3   // Radiance for rays leaving the scene when Environment is nil
	Environment Environment // Optional direction-dependent background

	// LightSelection picks the light sampling strategy built by Preprocess
	LightSelection LightSelection

	BVH          *geometry.BVH // Built by Preprocess
	Lights       []int         // Indices of emissive primitives, collected by Preprocess
	LightSampler *LightSampler // Built by Preprocess over Lights
}

// New creates an empty scene looking through the given camera
func New(cameraConfig geometry.CameraConfig) *Scene {
	return &Scene{
		Camera:       geometry.NewCamera(cameraConfig),
		CameraConfig: cameraConfig,
		Materials:    make(map[int]material.Material),
	}
}

// AddMaterial registers a material under the next free id and returns the id
func (s *Scene) AddMaterial(m material.Material) int {
	if s.Materials == nil {
		s.Materials = make(map[int]material.Material)
	}
	id := len(s.Materials)
	for {
		if _, taken := s.Materials[id]; !taken {
			break
		}
		id++
	}
	s.Materials[id] = m
	return id
}

// Add appends primitives to the scene
func (s *Scene) Add(prims ...geometry.Primitive) {
	s.Primitives = append(s.Primitives, prims...)
}

// AddSphere adds a sphere with the given material
func (s *Scene) AddSphere(center core.Vec3, radius float64, m material.Material) {
	s.Add(geometry.NewSphere(center, radius, s.AddMaterial(m)))
}

// AddSphereLight adds a spherical diffuse light
func (s *Scene) AddSphereLight(center core.Vec3, radius float64, emission core.Vec3) {
	s.AddSphere(center, radius, material.NewEmissive(emission))
}

// AddQuad adds the parallelogram corner, corner+u, corner+u+v, corner+v as two triangles.
// The face normal is u × v.
func (s *Scene) AddQuad(corner, u, v core.Vec3, m material.Material) {
	id := s.AddMaterial(m)
	p1 := corner.Add(u)
	p2 := corner.Add(u).Add(v)
	p3 := corner.Add(v)
	s.Add(
		geometry.NewTriangleWithUVs(corner, p1, p2, [3]core.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}, id),
		geometry.NewTriangleWithUVs(corner, p2, p3, [3]core.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}, id),
	)
}

// AddQuadLight adds a rectangular diffuse light
func (s *Scene) AddQuadLight(corner, u, v core.Vec3, emission core.Vec3) {
	s.AddQuad(corner, u, v, material.NewEmissive(emission))
}

// AddMesh flattens a triangle mesh into the primitive list
func (s *Scene) AddMesh(mesh *geometry.TriangleMesh) {
	s.Add(mesh.Primitives()...)
}

// Material returns the material of a primitive's material id
func (s *Scene) Material(id int) material.Material {
	return s.Materials[id]
}

// BackgroundRadiance returns the radiance arriving along a ray that left the scene
func (s *Scene) BackgroundRadiance(direction core.Vec3) core.Vec3 {
	if s.Environment != nil {
		return s.Environment.Radiance(direction)
	}
	return s.Background
}

// Preprocess validates the scene, builds the BVH and collects the lights. It fails on the
// first invalid element and leaves the scene unprocessed.
func (s *Scene) Preprocess() error {
	if s.Camera == nil {
		return ErrNoCamera
	}
	if err := s.Camera.Config().Validate(); err != nil {
		return fmt.Errorf("scene camera: %w", err)
	}
	if len(s.Primitives) == 0 {
		return ErrNoPrimitives
	}
	if err := s.validateMaterials(); err != nil {
		return err
	}

	var lights []int
	for i, prim := range s.Primitives {
		if err := prim.Validate(); err != nil {
			return fmt.Errorf("primitive %d: %w", i, err)
		}
		m, ok := s.Materials[prim.MaterialID()]
		if !ok || m == nil {
			return fmt.Errorf("%w: primitive %d references material %d", ErrUnknownMaterial, i, prim.MaterialID())
		}
		if material.IsEmissive(m) {
			lights = append(lights, i)
		}
	}

	lightSampler, err := s.newLightSampler(lights)
	if err != nil {
		return err
	}

	s.BVH = geometry.NewBVH(s.Primitives)
	s.Lights = lights
	s.LightSampler = lightSampler

	stats := s.BVH.Stats()
	logger.Debugf("built BVH over %d primitives: %d nodes, %d leaves, max depth %d",
		stats.Primitives, stats.Nodes, stats.Leaves, stats.MaxDepth)
	logger.Debugf("scene has %d lights (%s selection), %d materials",
		len(s.Lights), s.LightSelection, len(s.Materials))

	return nil
}

// validateMaterials checks every registered material in id order so the reported error is stable
func (s *Scene) validateMaterials() error {
	ids := make([]int, 0, len(s.Materials))
	for id := range s.Materials {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if s.Materials[id] == nil {
			continue
		}
		if err := material.Validate(s.Materials[id]); err != nil {
			return fmt.Errorf("material %d: %w", id, err)
		}
	}
	return nil
}

func (s *Scene) newLightSampler(lights []int) (*LightSampler, error) {
	if s.LightSelection != PowerLights {
		return NewUniformLightSampler(lights), nil
	}
	weights := make([]float64, len(lights))
	for i, index := range lights {
		prim := s.Primitives[index]
		weights[i] = prim.Area() * s.Materials[prim.MaterialID()].Emission().Luminance()
	}
	return NewLightSampler(lights, weights)
}

// Preprocessed reports whether Preprocess has completed
func (s *Scene) Preprocessed() bool {
	return s.BVH != nil
}

// PrimitiveCount returns the total number of primitives in the scene
func (s *Scene) PrimitiveCount() int {
	return len(s.Primitives)
}

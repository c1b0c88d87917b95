package scene

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// NewMeshScene creates a scene showcasing triangle mesh geometry
func NewMeshScene(cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	defaultCameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(0, 2, 6), // Position camera to see the meshes
		LookAt:        core.NewVec3(0, 1, 0), // Look at the center of the scene
		Up:            core.NewVec3(0, 1, 0),
		AspectRatio:   16.0 / 9.0,
		VFov:          45.0,
		Aperture:      0.02, // Slight depth of field
		FocusDistance: 0.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := New(cameraConfig)
	s.Environment = NewGradientEnvironment(core.NewVec3(0.5, 0.7, 1.0), core.NewVec3(1.0, 1.0, 1.0))

	// Warm overhead light and a cool fill light
	s.AddSphereLight(core.NewVec3(2, 6, 3), 1.5, core.NewVec3(12.0, 11.0, 10.0))
	s.AddSphereLight(core.NewVec3(-3, 4, 2), 0.8, core.NewVec3(6.0, 7.0, 8.0))

	groundSize := 100.0
	s.AddQuad(
		core.NewVec3(-groundSize/2, 0, groundSize/2),
		core.NewVec3(groundSize, 0, 0),
		core.NewVec3(0, 0, -groundSize),
		material.NewLambertian(core.NewVec3(0.7, 0.7, 0.7)),
	)

	box, err := createBoxMesh(
		core.NewVec3(-2, 0.5, 0),      // center (sitting on ground)
		core.NewVec3(1, 1, 1),         // size
		core.NewVec3(0, math.Pi/6, 0), // 30° around Y
		s.AddMaterial(material.NewSpecular(core.NewVec3(0.8, 0.2, 0.2))),
	)
	if err != nil {
		return nil, err
	}
	s.AddMesh(box)

	pyramid, err := createPyramidMesh(
		core.NewVec3(0, 1, 0),         // center
		1.5,                           // base size
		2.0,                           // height
		core.NewVec3(0, math.Pi/4, 0), // 45° around Y
		s.AddMaterial(material.NewLambertian(core.NewVec3(0.2, 0.3, 0.8))),
	)
	if err != nil {
		return nil, err
	}
	s.AddMesh(pyramid)

	icosahedron, err := createIcosahedronMesh(
		core.NewVec3(2, 0.8, 0),       // center
		0.8,                           // radius
		core.NewVec3(0, math.Pi/3, 0), // 60° around Y
		s.AddMaterial(material.NewRefractive(core.NewVec3(0.9, 1.0, 0.9), 1.5)),
	)
	if err != nil {
		return nil, err
	}
	s.AddMesh(icosahedron)

	return s, nil
}

// createBoxMesh creates a triangle mesh representing a box
func createBoxMesh(center, size, rotation core.Vec3, materialID int) (*geometry.TriangleMesh, error) {
	halfSize := size.Multiply(0.5)
	vertices := []core.Vec3{
		center.Add(core.NewVec3(-halfSize.X, -halfSize.Y, -halfSize.Z)), // 0: left-bottom-back
		center.Add(core.NewVec3(+halfSize.X, -halfSize.Y, -halfSize.Z)), // 1: right-bottom-back
		center.Add(core.NewVec3(+halfSize.X, +halfSize.Y, -halfSize.Z)), // 2: right-top-back
		center.Add(core.NewVec3(-halfSize.X, +halfSize.Y, -halfSize.Z)), // 3: left-top-back
		center.Add(core.NewVec3(-halfSize.X, -halfSize.Y, +halfSize.Z)), // 4: left-bottom-front
		center.Add(core.NewVec3(+halfSize.X, -halfSize.Y, +halfSize.Z)), // 5: right-bottom-front
		center.Add(core.NewVec3(+halfSize.X, +halfSize.Y, +halfSize.Z)), // 6: right-top-front
		center.Add(core.NewVec3(-halfSize.X, +halfSize.Y, +halfSize.Z)), // 7: left-top-front
	}

	// Two triangles per face, wound outward
	faces := []int{
		0, 2, 1, 0, 3, 2, // back (Z-)
		4, 5, 6, 4, 6, 7, // front (Z+)
		0, 4, 7, 0, 7, 3, // left (X-)
		1, 2, 6, 1, 6, 5, // right (X+)
		0, 1, 5, 0, 5, 4, // bottom (Y-)
		3, 7, 6, 3, 6, 2, // top (Y+)
	}

	return geometry.NewTriangleMesh(vertices, faces, materialID, &geometry.TriangleMeshOptions{
		Rotation: &rotation,
		Center:   &center,
	})
}

// createPyramidMesh creates a triangle mesh representing a square pyramid
func createPyramidMesh(center core.Vec3, baseSize, height float64, rotation core.Vec3, materialID int) (*geometry.TriangleMesh, error) {
	halfBase := baseSize * 0.5
	halfHeight := height * 0.5

	vertices := []core.Vec3{
		center.Add(core.NewVec3(-halfBase, -halfHeight, -halfBase)), // 0: left-back
		center.Add(core.NewVec3(+halfBase, -halfHeight, -halfBase)), // 1: right-back
		center.Add(core.NewVec3(+halfBase, -halfHeight, +halfBase)), // 2: right-front
		center.Add(core.NewVec3(-halfBase, -halfHeight, +halfBase)), // 3: left-front
		center.Add(core.NewVec3(0, +halfHeight, 0)),                 // 4: apex
	}

	faces := []int{
		0, 1, 2, 0, 2, 3, // base
		0, 4, 1, // back
		1, 4, 2, // right
		2, 4, 3, // front
		3, 4, 0, // left
	}

	return geometry.NewTriangleMesh(vertices, faces, materialID, &geometry.TriangleMeshOptions{
		Rotation: &rotation,
		Center:   &center,
	})
}

// createIcosahedronMesh creates a triangle mesh representing a regular icosahedron
func createIcosahedronMesh(center core.Vec3, radius float64, rotation core.Vec3, materialID int) (*geometry.TriangleMesh, error) {
	phi := (1.0 + math.Sqrt(5)) / 2.0

	// The canonical vertices lie at distance sqrt(1 + phi²) from the origin
	vertices := []core.Vec3{
		core.NewVec3(-1, phi, 0),
		core.NewVec3(1, phi, 0),
		core.NewVec3(-1, -phi, 0),
		core.NewVec3(1, -phi, 0),
		core.NewVec3(0, -1, phi),
		core.NewVec3(0, 1, phi),
		core.NewVec3(0, -1, -phi),
		core.NewVec3(0, 1, -phi),
		core.NewVec3(phi, 0, -1),
		core.NewVec3(phi, 0, 1),
		core.NewVec3(-phi, 0, -1),
		core.NewVec3(-phi, 0, 1),
	}

	faces := []int{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	origin := core.Vec3{}
	return geometry.NewTriangleMesh(vertices, faces, materialID, &geometry.TriangleMeshOptions{
		Scale:       radius / math.Sqrt(1+phi*phi),
		Rotation:    &rotation,
		Center:      &origin,
		Translation: &center,
	})
}

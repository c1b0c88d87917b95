package scene

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// NewDefaultScene creates a default scene with spheres, ground, and camera
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(0, 0.75, 2), // Position camera higher and farther back
		LookAt:        core.NewVec3(0, 0.5, -1), // Look at the sphere center
		Up:            core.NewVec3(0, 1, 0),
		AspectRatio:   16.0 / 9.0,
		VFov:          40.0,
		Aperture:      0.05,
		FocusDistance: 0.0, // Focus on LookAt
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := New(cameraConfig)

	lambertianBlue := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	lambertianRed := material.NewLambertian(core.NewVec3(0.65, 0.25, 0.2))
	mirrorSilver := material.NewSpecular(core.NewVec3(0.8, 0.8, 0.8))
	mirrorGold := material.NewSpecular(core.NewVec3(0.8, 0.6, 0.2))
	glass := material.NewRefractive(core.NewVec3(1, 1, 1), 1.5)
	ground := material.NewTexturedLambertian(material.NewChecker(
		10000, // one unit squares
		core.NewVec3(0.8, 0.8, 0.0).Multiply(0.6),
		core.NewVec3(0.3, 0.3, 0.3),
	))

	s.AddSphere(core.NewVec3(0, 0.5, -1), 0.5, lambertianRed)
	s.AddSphere(core.NewVec3(-1, 0.5, -1), 0.5, mirrorSilver)
	s.AddSphere(core.NewVec3(1, 0.5, -1), 0.5, mirrorGold)
	s.AddSphere(core.NewVec3(0.5, 0.25, -0.5), 0.25, glass)

	// Glass shell around a blue core
	s.AddSphere(core.NewVec3(-0.5, 0.25, -0.5), 0.25, glass)
	s.AddSphere(core.NewVec3(-0.5, 0.25, -0.5), 0.20, lambertianBlue)

	// Large but finite ground so the scene has proper bounds
	groundSize := 10000.0
	s.AddQuad(
		core.NewVec3(-groundSize/2, 0, groundSize/2),
		core.NewVec3(groundSize, 0, 0),
		core.NewVec3(0, 0, -groundSize),
		ground,
	)

	s.AddSphereLight(
		core.NewVec3(30, 30.5, 15),     // position
		10,                             // radius
		core.NewVec3(15.0, 14.0, 13.0), // emission
	)

	s.Environment = NewGradientEnvironment(
		core.NewVec3(0.5, 0.7, 1.0), // blue sky
		core.NewVec3(1.0, 1.0, 1.0), // white horizon
	)

	return s
}

package scene

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// NewSphereLightScene creates a single white diffuse sphere lit by a huge spherical light
// high above it
func NewSphereLightScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(0, 0, -50),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: 1.0,
		VFov:        30.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := New(cameraConfig)

	s.AddSphere(core.NewVec3(0, 0, 0), 10, material.NewLambertian(core.NewVec3(1, 1, 1)))
	s.AddSphereLight(core.NewVec3(0, 1200, 0), 600, core.NewVec3(1, 1, 1))

	return s
}

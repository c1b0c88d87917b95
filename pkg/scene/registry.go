package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
)

var ErrUnknownScene = errors.New("scene: unknown built-in scene")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	Name        string
	Description string
	build       func(...geometry.CameraConfig) (*Scene, error)
}

func infallible(build func(...geometry.CameraConfig) *Scene) func(...geometry.CameraConfig) (*Scene, error) {
	return func(overrides ...geometry.CameraConfig) (*Scene, error) {
		return build(overrides...), nil
	}
}

var builtins = map[string]SceneInfo{
	"default": {
		Name:        "default",
		Description: "Diffuse, mirror and glass spheres on a checkered ground under a sky gradient",
		build:       infallible(NewDefaultScene),
	},
	"cornell": {
		Name:        "cornell",
		Description: "Cornell box with a ceiling area light, a mirror sphere and a glass sphere",
		build:       infallible(NewCornellScene),
	},
	"sphere-light": {
		Name:        "sphere-light",
		Description: "White diffuse sphere lit by one huge overhead spherical light",
		build:       infallible(NewSphereLightScene),
	},
	"mesh": {
		Name:        "mesh",
		Description: "Box, pyramid and icosahedron triangle meshes",
		build:       NewMeshScene,
	},
	"spheregrid": {
		Name:        "spheregrid",
		Description: "20x20 grid of colored spheres, stresses the BVH",
		build:       infallible(NewSphereGridScene),
	},
}

// Builtins lists the built-in scenes sorted by name
func Builtins() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtins))
	for _, info := range builtins {
		scenes = append(scenes, info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes
}

// Load builds the named built-in scene. The returned scene still needs Preprocess.
func Load(name string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	info, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	s, err := info.build(cameraOverrides...)
	if err != nil {
		return nil, fmt.Errorf("building scene %q: %w", name, err)
	}
	return s, nil
}

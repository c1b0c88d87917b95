package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// CameraConfig describes a thin-lens perspective camera
type CameraConfig struct {
	Center        core.Vec3 // Camera position
	LookAt        core.Vec3 // Point the camera looks at
	Up            core.Vec3 // Up direction
	VFov          float64   // Vertical field of view in degrees
	AspectRatio   float64   // Width / height
	Aperture      float64   // Lens diameter, 0 for a pinhole
	FocusDistance float64   // Distance to the focus plane, 0 to focus on LookAt
}

// Camera generates primary rays for pixel coordinates
type Camera struct {
	config          CameraConfig
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3
	lensRadius      float64
}

// NewCamera creates a camera from the config. Call Validate on the config first if it
// comes from user input; an invalid config yields rays with non-finite directions.
func NewCamera(config CameraConfig) *Camera {
	focusDistance := config.FocusDistance
	if focusDistance <= 0 {
		focusDistance = config.LookAt.Subtract(config.Center).Length()
	}

	theta := config.VFov * math.Pi / 180
	viewportHeight := 2 * math.Tan(theta/2)
	viewportWidth := config.AspectRatio * viewportHeight

	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Multiply(focusDistance * viewportWidth)
	vertical := v.Multiply(focusDistance * viewportHeight)
	lowerLeftCorner := config.Center.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDistance))

	return &Camera{
		config:          config,
		origin:          config.Center,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture / 2,
	}
}

// Validate rejects configs that cannot produce a view
func (c CameraConfig) Validate() error {
	if !c.Center.IsFinite() || !c.LookAt.IsFinite() || !c.Up.IsFinite() {
		return fmt.Errorf("%w: non-finite position or direction", ErrInvalidCamera)
	}
	forward := c.LookAt.Subtract(c.Center)
	if forward.IsZero() {
		return fmt.Errorf("%w: center and look-at coincide", ErrInvalidCamera)
	}
	if c.Up.Cross(forward).IsZero() {
		return fmt.Errorf("%w: up is parallel to the view direction", ErrInvalidCamera)
	}
	if !(c.VFov > 0 && c.VFov < 180) {
		return fmt.Errorf("%w: vertical fov %g out of (0, 180)", ErrInvalidCamera, c.VFov)
	}
	if !(c.AspectRatio > 0) || math.IsInf(c.AspectRatio, 0) {
		return fmt.Errorf("%w: aspect ratio %g", ErrInvalidCamera, c.AspectRatio)
	}
	if c.Aperture < 0 || c.FocusDistance < 0 {
		return fmt.Errorf("%w: negative aperture or focus distance", ErrInvalidCamera)
	}
	return nil
}

// Config returns the config the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}

// GetRay returns a ray through a random point of pixel (x, y), y growing downwards, with
// a lens offset when the aperture is open
func (c *Camera) GetRay(x, y, width, height int, sampler core.Sampler) core.Ray {
	jitter := sampler.Get2D()
	s := (float64(x) + jitter.X) / float64(width)
	t := 1 - (float64(y)+jitter.Y)/float64(height)

	origin := c.origin
	if c.lensRadius > 0 {
		lens := core.SamplePointInUnitDisk(sampler.Get2D()).Multiply(c.lensRadius)
		origin = origin.Add(c.u.Multiply(lens.X)).Add(c.v.Multiply(lens.Y))
	}

	target := c.lowerLeftCorner.Add(c.horizontal.Multiply(s)).Add(c.vertical.Multiply(t))
	return core.NewRay(origin, target.Subtract(origin).Normalize())
}

// MergeCameraConfig overlays the non-zero fields of override onto base
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if !override.Center.IsZero() {
		result.Center = override.Center
	}
	if !override.LookAt.IsZero() {
		result.LookAt = override.LookAt
	}
	if !override.Up.IsZero() {
		result.Up = override.Up
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.Aperture != 0 {
		result.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}
	return result
}

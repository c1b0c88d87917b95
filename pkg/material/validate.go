package material

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// ErrInvalidMaterial is returned for materials that cannot be rendered
var ErrInvalidMaterial = errors.New("material: invalid material")

// Validate checks the emission of any material and, for the built-in materials, their
// parameters. Materials of other types only get the emission check.
func Validate(m Material) error {
	if m == nil {
		return fmt.Errorf("%w: nil material", ErrInvalidMaterial)
	}
	if err := checkColor("emission", m.Emission()); err != nil {
		return err
	}

	switch m := m.(type) {
	case *Lambertian:
		return validateTexture(m.Texture)
	case *Specular:
		return checkColor("tint", m.Tint)
	case *Refractive:
		if err := checkColor("tint", m.Tint); err != nil {
			return err
		}
		if !(m.Nc > 0) || !(m.Nt > 0) || math.IsInf(m.Nc, 0) || math.IsInf(m.Nt, 0) {
			return fmt.Errorf("%w: refractive indices %g and %g must be positive and finite", ErrInvalidMaterial, m.Nc, m.Nt)
		}
	}
	return nil
}

func validateTexture(texture Texture) error {
	switch t := texture.(type) {
	case nil:
		return fmt.Errorf("%w: missing texture", ErrInvalidMaterial)
	case *SolidColor:
		if t == nil {
			return fmt.Errorf("%w: missing texture", ErrInvalidMaterial)
		}
		return checkColor("albedo", t.Color)
	case *Checker:
		if t == nil {
			return fmt.Errorf("%w: missing texture", ErrInvalidMaterial)
		}
		if err := checkColor("checker even", t.Even); err != nil {
			return err
		}
		return checkColor("checker odd", t.Odd)
	case *ImageTexture:
		if t == nil {
			return fmt.Errorf("%w: missing texture", ErrInvalidMaterial)
		}
	}
	return nil
}

// checkColor rejects non-finite and negative channels
func checkColor(name string, c core.Vec3) error {
	if !c.IsFinite() || c.X < 0 || c.Y < 0 || c.Z < 0 {
		return fmt.Errorf("%w: %s %v must be finite and non-negative", ErrInvalidMaterial, name, c)
	}
	return nil
}

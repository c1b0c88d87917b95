package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"golang.org/x/image/math/f32"
)

// Framebuffer accumulates radiance per pixel across passes. Every pass adds exactly one
// sample to every pixel, so a single counter serves the whole buffer. Samples land in a
// pending buffer first and only reach the accumulated sums when the pass completes.
//
// Add may be called concurrently for distinct pixels. Reads are only meaningful between
// passes.
type Framebuffer struct {
	width, height int
	accum         []core.Vec3
	pending       []core.Vec3
	samples       int
}

// NewFramebuffer creates an empty framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		width:   width,
		height:  height,
		accum:   make([]core.Vec3, width*height),
		pending: make([]core.Vec3, width*height),
	}
}

// Width returns the framebuffer width in pixels
func (fb *Framebuffer) Width() int { return fb.width }

// Height returns the framebuffer height in pixels
func (fb *Framebuffer) Height() int { return fb.height }

// Add records the current pass's sample for pixel (x, y)
func (fb *Framebuffer) Add(x, y int, c core.Vec3) {
	i := y*fb.width + x
	fb.pending[i] = fb.pending[i].Add(c)
}

// completePass merges the pending samples and records that every pixel received one more
func (fb *Framebuffer) completePass() {
	for i, c := range fb.pending {
		fb.accum[i] = fb.accum[i].Add(c)
	}
	fb.clearPending()
	fb.samples++
}

// discardPass drops the samples of a pass that did not finish
func (fb *Framebuffer) discardPass() {
	fb.clearPending()
}

func (fb *Framebuffer) clearPending() {
	for i := range fb.pending {
		fb.pending[i] = core.Vec3{}
	}
}

// SampleCount returns the number of completed passes
func (fb *Framebuffer) SampleCount() int {
	return fb.samples
}

// Color returns the mean radiance of pixel (x, y), black before the first pass
func (fb *Framebuffer) Color(x, y int) core.Vec3 {
	if fb.samples == 0 {
		return core.Vec3{}
	}
	return fb.accum[y*fb.width+x].Multiply(1 / float64(fb.samples))
}

// Snapshot returns the mean radiance of every pixel, row-major from the top-left corner
func (fb *Framebuffer) Snapshot() []f32.Vec3 {
	out := make([]f32.Vec3, len(fb.accum))
	if fb.samples == 0 {
		return out
	}
	scale := 1 / float64(fb.samples)
	for i, c := range fb.accum {
		out[i] = f32.Vec3{float32(c.X * scale), float32(c.Y * scale), float32(c.Z * scale)}
	}
	return out
}

// ToRGBA tone maps the buffer into an 8-bit image: exposure scale, gamma 2, clamp
func (fb *Framebuffer) ToRGBA(exposure float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
	for y := 0; y < fb.height; y++ {
		for x := 0; x < fb.width; x++ {
			img.SetRGBA(x, y, vec3ToColor(fb.Color(x, y).Multiply(exposure)))
		}
	}
	return img
}

// AverageLuminance returns the mean luminance of the buffer
func (fb *Framebuffer) AverageLuminance() float64 {
	if fb.samples == 0 || len(fb.accum) == 0 {
		return 0
	}
	var total float64
	for _, c := range fb.accum {
		total += c.Luminance()
	}
	return total / float64(fb.samples*len(fb.accum))
}

func vec3ToColor(c core.Vec3) color.RGBA {
	c = c.GammaCorrect(2).Clamp(0, 1)
	return color.RGBA{
		R: uint8(255*c.X + 0.5),
		G: uint8(255*c.Y + 0.5),
		B: uint8(255*c.Z + 0.5),
		A: 255,
	}
}

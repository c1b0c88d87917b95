package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/df07/go-progressive-pathtracer/pkg/integrator"
	"github.com/df07/go-progressive-pathtracer/pkg/log"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
	"golang.org/x/image/math/f32"
)

var logger = log.New("renderer")

// ErrRendererClosed is returned when rendering after Close
var ErrRendererClosed = errors.New("renderer is closed")

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// ProgressiveRaytracer renders a scene one sample per pixel per pass, accumulating into a
// framebuffer so that the image refines the longer it runs
type ProgressiveRaytracer struct {
	scene       *scene.Scene
	integrator  integrator.Integrator
	config      Config
	tiles       []Tile
	framebuffer *Framebuffer
	workerPool  *WorkerPool

	mu     sync.Mutex // serializes passes
	closed bool
}

// NewProgressiveRaytracer creates a renderer for a preprocessed scene
func NewProgressiveRaytracer(s *scene.Scene, integ integrator.Integrator, config Config) (*ProgressiveRaytracer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if s == nil || !s.Preprocessed() || s.Camera == nil {
		return nil, ErrSceneNotPreprocessed
	}

	tiles := NewTileGrid(config.Width, config.Height, config.TileSize)
	framebuffer := NewFramebuffer(config.Width, config.Height)

	return &ProgressiveRaytracer{
		scene:       s,
		integrator:  integ,
		config:      config,
		tiles:       tiles,
		framebuffer: framebuffer,
		workerPool:  NewWorkerPool(s, integ, framebuffer, len(tiles), config.NumWorkers),
	}, nil
}

// Config returns the render configuration
func (pr *ProgressiveRaytracer) Config() Config {
	return pr.config
}

// Framebuffer returns the accumulation buffer. Read it only between passes.
func (pr *ProgressiveRaytracer) Framebuffer() *Framebuffer {
	return pr.framebuffer
}

// NumWorkers returns the number of parallel workers
func (pr *ProgressiveRaytracer) NumWorkers() int {
	return pr.workerPool.NumWorkers()
}

// RenderPass adds one sample to every pixel. It returns once every tile has finished; the
// samples are merged and the count incremented only after that join. A failed pass leaves
// the image unchanged. A pass cannot be interrupted.
func (pr *ProgressiveRaytracer) RenderPass() (RenderStats, error) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if pr.closed {
		return RenderStats{}, ErrRendererClosed
	}

	pr.workerPool.Start()
	start := time.Now()
	pass := pr.framebuffer.SampleCount()

	for _, tile := range pr.tiles {
		pr.workerPool.SubmitTask(TileTask{
			Tile: tile,
			Pass: pass,
			Seed: tileSeed(pr.config.Seed, pass, tile.ID),
		})
	}

	// Drain every result before reporting a failure so no worker is left mid-tile
	var errs []error
	for range pr.tiles {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			pr.framebuffer.discardPass()
			return RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			errs = append(errs, result.Error)
		}
	}
	if len(errs) > 0 {
		pr.framebuffer.discardPass()
		return RenderStats{}, errors.Join(errs...)
	}

	pr.framebuffer.completePass()
	stats := newRenderStats(pr.framebuffer, time.Since(start))
	logger.Infof("pass %d completed in %v (%.0f pixels/s, %d workers)",
		stats.Pass, stats.Duration, stats.PixelsPerSecond, pr.workerPool.NumWorkers())
	return stats, nil
}

// CurrentImage returns the mean radiance of every pixel, row-major
func (pr *ProgressiveRaytracer) CurrentImage() []f32.Vec3 {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	return pr.framebuffer.Snapshot()
}

// Image tone maps the current accumulation into an 8-bit image
func (pr *ProgressiveRaytracer) Image(exposure float64) *image.RGBA {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	return pr.framebuffer.ToRGBA(exposure)
}

// Render runs passes in the background until maxPasses have completed (forever when
// maxPasses <= 0) or ctx is cancelled. Cancellation is only observed between passes. A
// PassResult is emitted after every pass; the error channel receives at most one error.
// Both channels are closed when rendering stops.
func (pr *ProgressiveRaytracer) Render(ctx context.Context, maxPasses int) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)

		logger.Infof("starting progressive rendering of %dx%d, %d tiles",
			pr.config.Width, pr.config.Height, len(pr.tiles))

		for pass := 1; maxPasses <= 0 || pass <= maxPasses; pass++ {
			select {
			case <-ctx.Done():
				logger.Infof("rendering cancelled before pass %d", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			stats, err := pr.RenderPass()
			if err != nil {
				errChan <- err
				return
			}

			result := PassResult{
				PassNumber: pass,
				Image:      pr.Image(1),
				Stats:      stats,
				IsLast:     pass == maxPasses,
			}
			select {
			case passChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return passChan, errChan
}

// Close stops the workers. It waits for a running pass to finish.
func (pr *ProgressiveRaytracer) Close() {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	if pr.closed {
		return
	}
	pr.closed = true
	pr.workerPool.Stop()
}

package renderer

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/integrator"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
)

// TileTask asks a worker to add one sample to every pixel of a tile
type TileTask struct {
	Tile Tile
	Pass int
	Seed int64
}

// TileResult reports a finished tile task
type TileResult struct {
	TileID int
	Rays   int
	Error  error
}

// WorkerPool renders tile tasks in parallel into a shared framebuffer. Tiles never
// overlap, so workers write disjoint pixels.
type WorkerPool struct {
	scene       *scene.Scene
	camera      *geometry.Camera
	integrator  integrator.Integrator
	framebuffer *Framebuffer

	taskQueue   chan TileTask
	resultQueue chan TileResult
	numWorkers  int
	wg          sync.WaitGroup
	startOnce   sync.Once
	stopOnce    sync.Once
}

// NewWorkerPool creates a pool of numWorkers workers, runtime.NumCPU() when numWorkers <= 0
func NewWorkerPool(s *scene.Scene, integ integrator.Integrator, fb *Framebuffer, numTiles, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		scene:       s,
		camera:      s.Camera,
		integrator:  integ,
		framebuffer: fb,
		taskQueue:   make(chan TileTask, numTiles),
		resultQueue: make(chan TileResult, numTiles),
		numWorkers:  numWorkers,
	}
}

// Start launches the workers. Calling it again has no effect.
func (wp *WorkerPool) Start() {
	wp.startOnce.Do(func() {
		for i := 0; i < wp.numWorkers; i++ {
			wp.wg.Add(1)
			go wp.run()
		}
	})
}

// Stop waits for queued tasks to finish and shuts the workers down
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		close(wp.taskQueue)
		wp.wg.Wait()
		close(wp.resultQueue)
	})
}

// SubmitTask queues a tile task
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult blocks for the next finished task
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

func (wp *WorkerPool) run() {
	defer wp.wg.Done()
	for task := range wp.taskQueue {
		wp.resultQueue <- wp.renderTile(task)
	}
}

// renderTile traces one camera path per pixel of the tile. A panic in the integrator is
// reported as the task's error instead of taking down the process.
func (wp *WorkerPool) renderTile(task TileTask) (result TileResult) {
	result.TileID = task.Tile.ID
	defer func() {
		if r := recover(); r != nil {
			result.Error = fmt.Errorf("tile %d pass %d: %v", task.Tile.ID, task.Pass, r)
		}
	}()

	width, height := wp.framebuffer.Width(), wp.framebuffer.Height()
	sampler := core.NewSeededSampler(task.Seed)
	bounds := task.Tile.Bounds
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ray := wp.camera.GetRay(x, y, width, height, sampler)
			wp.framebuffer.Add(x, y, wp.integrator.RayColor(ray, wp.scene, sampler))
			result.Rays++
		}
	}
	return result
}

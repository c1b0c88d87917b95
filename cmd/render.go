package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"time"

	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/integrator"
	"github.com/df07/go-progressive-pathtracer/pkg/loaders"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// renderOptions collects the render command flags
type renderOptions struct {
	Scene    string
	Width    int
	Height   int // 0 derives the height from the scene camera aspect ratio
	Passes   int // 0 renders until interrupted
	Workers  int
	TileSize int
	Seed     int64
	MaxDepth int
	RRDepth  int
	NEE      bool
	Lights   string // light selection for NEE: uniform or power
	Exposure float64
	Env      string
	Out      string
}

// RenderScene renders a built-in scene progressively and writes the result as a PNG.
// An interrupt stops rendering after the current pass and still saves the image.
func RenderScene(ctx *cli.Context) error {
	setupLogging(ctx)

	opts := renderOptions{
		Scene:    ctx.String("scene"),
		Width:    ctx.Int("width"),
		Height:   ctx.Int("height"),
		Passes:   ctx.Int("passes"),
		Workers:  ctx.Int("workers"),
		TileSize: ctx.Int("tile-size"),
		Seed:     ctx.Int64("seed"),
		MaxDepth: ctx.Int("max-depth"),
		RRDepth:  ctx.Int("rr-depth"),
		NEE:      ctx.Bool("nee"),
		Lights:   ctx.String("light-selection"),
		Exposure: ctx.Float64("exposure"),
		Env:      ctx.String("env"),
		Out:      ctx.String("out"),
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stats, err := renderToFile(runCtx, opts)
	if err != nil {
		return err
	}

	logger.Noticef("pass statistics\n%s", formatPassStats(stats))
	return nil
}

func renderToFile(ctx context.Context, opts renderOptions) ([]renderer.RenderStats, error) {
	if opts.Width <= 0 || opts.Height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", renderer.ErrInvalidDimensions, opts.Width, opts.Height)
	}

	s, err := loadScene(&opts)
	if err != nil {
		return nil, err
	}
	if err := s.Preprocess(); err != nil {
		return nil, fmt.Errorf("preparing scene %q: %w", opts.Scene, err)
	}

	integratorConfig := integrator.Config{
		MaxDepth:             opts.MaxDepth,
		RussianRouletteDepth: opts.RRDepth,
		NextEventEstimation:  opts.NEE,
	}
	if opts.RRDepth <= 0 || opts.RRDepth >= opts.MaxDepth {
		logger.Notice("disabling russian roulette")
		integratorConfig.RussianRouletteDepth = opts.MaxDepth + 1
	}

	config := renderer.DefaultConfig()
	config.Width = opts.Width
	config.Height = opts.Height
	config.NumWorkers = opts.Workers
	config.Seed = opts.Seed
	if opts.TileSize > 0 {
		config.TileSize = opts.TileSize
	}

	pr, err := renderer.NewProgressiveRaytracer(s, integrator.NewPathTracingIntegrator(integratorConfig), config)
	if err != nil {
		return nil, err
	}
	defer pr.Close()

	if opts.Workers <= 0 {
		logger.Infof("using %d workers on %s", pr.NumWorkers(), cpuModel())
	}
	logger.Noticef("rendering scene %q at %dx%d", opts.Scene, opts.Width, opts.Height)

	start := time.Now()
	passChan, errChan := pr.Render(ctx, opts.Passes)
	var stats []renderer.RenderStats
	for result := range passChan {
		stats = append(stats, result.Stats)
	}
	if err := <-errChan; err != nil {
		if !errors.Is(err, context.Canceled) {
			return stats, err
		}
		logger.Noticef("render interrupted after %d passes", len(stats))
	}
	if len(stats) == 0 {
		return nil, errors.New("no pass completed")
	}
	logger.Noticef("rendered %d passes in %d ms", len(stats), time.Since(start).Milliseconds())

	if err := writePNG(opts.Out, pr, opts.Exposure); err != nil {
		return stats, err
	}
	return stats, nil
}

// loadScene builds the requested scene with a camera matching the output size, and attaches
// the optional environment map
func loadScene(opts *renderOptions) (*scene.Scene, error) {
	var s *scene.Scene
	var err error
	if opts.Height == 0 {
		if s, err = scene.Load(opts.Scene); err != nil {
			return nil, err
		}
		opts.Height = max(1, int(float64(opts.Width)/s.CameraConfig.AspectRatio+0.5))
	} else {
		aspect := geometry.CameraConfig{AspectRatio: float64(opts.Width) / float64(opts.Height)}
		if s, err = scene.Load(opts.Scene, aspect); err != nil {
			return nil, err
		}
	}

	selection, err := scene.ParseLightSelection(opts.Lights)
	if err != nil {
		return nil, err
	}
	s.LightSelection = selection

	if opts.Env != "" {
		texture, err := loaders.LoadImageTexture(opts.Env)
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		s.Environment = scene.NewTextureEnvironment(texture, 1)
	}
	return s, nil
}

func writePNG(filename string, pr *renderer.ProgressiveRaytracer, exposure float64) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	start := time.Now()
	if err := png.Encode(f, pr.Image(exposure)); err != nil {
		return fmt.Errorf("encoding png file: %w", err)
	}
	logger.Noticef("wrote frame to %s in %d ms", filename, time.Since(start).Milliseconds())
	return nil
}

func formatPassStats(stats []renderer.RenderStats) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Pass", "Samples/pixel", "Render time", "Pixels/s", "Avg luminance"})

	var total time.Duration
	for _, stat := range stats {
		total += stat.Duration
		table.Append([]string{
			strconv.Itoa(stat.Pass),
			strconv.Itoa(stat.SamplesPerPixel),
			stat.Duration.Round(time.Millisecond).String(),
			fmt.Sprintf("%.0f", stat.PixelsPerSecond),
			fmt.Sprintf("%.4f", stat.AvgLuminance),
		})
	}
	table.SetFooter([]string{"", "TOTAL", total.Round(time.Millisecond).String(), "", ""})

	table.Render()
	return buf.String()
}

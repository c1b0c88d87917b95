package renderer

import "fmt"

// Config contains the settings of a progressive render
type Config struct {
	Width      int   // Image width in pixels
	Height     int   // Image height in pixels
	TileSize   int   // Edge length of the square tiles handed to workers
	NumWorkers int   // Number of parallel workers, 0 for runtime.NumCPU()
	Seed       int64 // Base seed for the per-tile samplers
}

// DefaultConfig returns sensible defaults for progressive rendering
func DefaultConfig() Config {
	return Config{
		Width:      400,
		Height:     225,
		TileSize:   64,
		NumWorkers: 0,
		Seed:       1,
	}
}

// Validate rejects sizes the renderer cannot work with
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, c.Width, c.Height)
	}
	if c.TileSize <= 0 {
		return fmt.Errorf("%w: tile size %d", ErrInvalidDimensions, c.TileSize)
	}
	if c.NumWorkers < 0 {
		return fmt.Errorf("%w: %d workers", ErrInvalidDimensions, c.NumWorkers)
	}
	return nil
}

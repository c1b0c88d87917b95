package renderer

import "time"

// RenderStats describes one completed pass
type RenderStats struct {
	Pass            int           // 1-based pass number
	SamplesPerPixel int           // Samples accumulated in every pixel after the pass
	TotalPixels     int           // Pixels rendered by the pass
	Duration        time.Duration // Wall time of the pass
	PixelsPerSecond float64       // Throughput of the pass
	AvgLuminance    float64       // Mean luminance of the accumulated image
}

func newRenderStats(fb *Framebuffer, duration time.Duration) RenderStats {
	pixels := fb.Width() * fb.Height()
	stats := RenderStats{
		Pass:            fb.SampleCount(),
		SamplesPerPixel: fb.SampleCount(),
		TotalPixels:     pixels,
		Duration:        duration,
		AvgLuminance:    fb.AverageLuminance(),
	}
	if seconds := duration.Seconds(); seconds > 0 {
		stats.PixelsPerSecond = float64(pixels) / seconds
	}
	return stats
}

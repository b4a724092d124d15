package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels   int           // Total number of pixels rendered
	TotalSamples  int           // Total number of primary rays cast
	HitPixels     int           // Pixels whose central sample struck a surface
	InvalidPixels int           // Pixels replaced by the sentinel color
	Duration      time.Duration // Wall time of the render
}

// AverageSamples returns the mean number of primary rays per pixel
func (s RenderStats) AverageSamples() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.TotalSamples) / float64(s.TotalPixels)
}

// merge adds the counters of other into s
func (s *RenderStats) merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.TotalSamples += other.TotalSamples
	s.HitPixels += other.HitPixels
	s.InvalidPixels += other.InvalidPixels
}

// Package capture provides webcam frame capture for the exam monitor.
package capture

import "fmt"

// Config holds webcam capture parameters.
type Config struct {
	DeviceID  int `json:"device_id"` // V4L2 / AVFoundation device index
	Width     int `json:"width"`     // Frame width in pixels
	Height    int `json:"height"`    // Frame height in pixels
	Framerate int `json:"framerate"` // Target FPS
	Quality   int `json:"quality"`   // JPEG quality 1-100
}

// DefaultConfig returns the capture settings used by the exam monitor.
// 640x480 keeps per-frame estimation latency low on CPU-only machines.
func DefaultConfig() Config {
	return Config{
		DeviceID:  0,
		Width:     640,
		Height:    480,
		Framerate: 30,
		Quality:   85,
	}
}

// Validate checks that the config values are within sane ranges.
func (c Config) Validate() error {
	if c.DeviceID < 0 {
		return fmt.Errorf("device_id must be >= 0")
	}
	if c.Width < 160 || c.Width > 4096 {
		return fmt.Errorf("width must be between 160 and 4096")
	}
	if c.Height < 120 || c.Height > 2160 {
		return fmt.Errorf("height must be between 120 and 2160")
	}
	if c.Framerate < 1 || c.Framerate > 120 {
		return fmt.Errorf("framerate must be between 1 and 120")
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100")
	}
	return nil
}

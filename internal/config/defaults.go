package config

import (
	"github.com/opd-ai/livingcanvas/internal/render"
)

// Default values for configuration options.
const (
	// DefaultWidth is the default window width in pixels.
	DefaultWidth = 800
	// DefaultHeight is the default window height in pixels.
	DefaultHeight = 600
	// DefaultTitle is the default window title.
	DefaultTitle = "LivingCanvas"
	// DefaultTPS is the default main loop frame rate.
	DefaultTPS = 60
)

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			Title:      DefaultTitle,
			TPS:        DefaultTPS,
			Background: render.DefaultBackground,
		},
	}
}

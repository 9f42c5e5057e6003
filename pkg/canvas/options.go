package canvas

import (
	"fmt"
	"image/color"
	"time"
)

// Defaults applied by New for zero-valued Options fields.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
	DefaultTitle  = "LivingCanvas"
	// DefaultTPS is the fixed frame rate of the main loop.
	DefaultTPS = 60
)

// Options configures a Canvas. The zero value is valid.
type Options struct {
	// Width and Height are the requested window size in pixels.
	// Zero means 800x600.
	Width  int
	Height int

	// Title is the window title. Empty means "LivingCanvas".
	Title string

	// TPS is the frame rate of the main loop. Zero means 60.
	TPS int

	// Background is the colour every frame is cleared to before the
	// Frame handlers run. Nil means GreenYellow (#adff2f).
	Background color.Color

	// HUD draws an FPS and transform overlay on top of every frame.
	HUD bool

	// Above and Sticky request X11 window manager hints.
	Above  bool
	Sticky bool

	// Offscreen renders without a window through the software rasterizer.
	// Run then renders Frames frames and returns; use Snapshot to save the
	// last one.
	Offscreen bool
	// Frames is the number of frames Run renders in offscreen mode.
	// Zero means 1.
	Frames int

	// Elapsed overrides the canvas clock. It must return the time since
	// construction and never decrease. Nil means a monotonic stopwatch
	// started by New.
	Elapsed func() time.Duration

	// Logger receives lifecycle and diagnostic messages. Nil disables logging.
	Logger Logger

	// Metrics collects operational counters. Nil means a fresh Metrics.
	Metrics *Metrics
}

// withDefaults returns a copy of o with zero fields filled in.
func (o *Options) withDefaults() Options {
	var r Options
	if o != nil {
		r = *o
	}
	if r.Width == 0 {
		r.Width = DefaultWidth
	}
	if r.Height == 0 {
		r.Height = DefaultHeight
	}
	if r.Title == "" {
		r.Title = DefaultTitle
	}
	if r.TPS == 0 {
		r.TPS = DefaultTPS
	}
	if r.Frames <= 0 {
		r.Frames = 1
	}
	if r.Logger == nil {
		r.Logger = NopLogger()
	}
	if r.Metrics == nil {
		r.Metrics = NewMetrics()
	}
	return r
}

// validate checks resolved options.
func (o Options) validate() error {
	if o.Width < 0 || o.Height < 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", o.Width, o.Height)
	}
	if o.TPS < 0 {
		return fmt.Errorf("tps must be positive, got %d", o.TPS)
	}
	return nil
}

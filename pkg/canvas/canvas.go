package canvas

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/opd-ai/livingcanvas/internal/render"
)

// Transform maps logical canvas coordinates to physical window pixels.
type Transform = render.Transform

// State is the lifecycle state of a Canvas.
type State int

const (
	// StateConstructed is the state after New and before Run.
	StateConstructed State = iota
	// StateRunning is the state while Run is executing the main loop.
	StateRunning
	// StateClosed is the terminal state after the window was closed.
	StateClosed
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateRunning:
		return "running"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// FrameHandler is invoked once per frame with the elapsed time in seconds.
type FrameHandler func(c *Canvas, t float64)

// ClickEvent describes a primary pointer press.
type ClickEvent struct {
	// Time is the elapsed time in seconds when the press was observed.
	Time float64
	// X and Y are raw physical window pixels; they are not mapped into
	// logical canvas space.
	X, Y float64
}

// ClickHandler is invoked for every pointer press.
type ClickHandler func(c *Canvas, e ClickEvent)

// Canvas is a single-window immediate-mode drawing surface. All methods
// must be called from the goroutine that calls Run.
type Canvas struct {
	opts       Options
	host       *render.Host
	offscreen  *render.Offscreen
	logger     Logger
	metrics    *Metrics
	elapsed    func() time.Duration
	background color.RGBA

	state   State
	surface render.Surface

	paint       render.PaintState
	fillBrush   *render.Brush
	strokeBrush *render.Brush

	frameHandlers []FrameHandler
	clickHandlers []ClickHandler
}

// New creates a canvas and its window. A nil opts uses the defaults
// (800x600, 60 frames per second). The clock starts immediately.
func New(opts *Options) (*Canvas, error) {
	o := opts.withDefaults()
	if err := o.validate(); err != nil {
		return nil, fmt.Errorf("invalid canvas options: %w", err)
	}

	if o.Offscreen {
		off, err := render.NewOffscreen(o.Width, o.Height, o.Frames)
		if err != nil {
			return nil, fmt.Errorf("create offscreen target: %w", err)
		}
		c := newCanvas(o, off, off)
		c.offscreen = off
		return c, nil
	}

	win, backend, err := newWindow(o)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	return newCanvas(o, win, backend), nil
}

// newCanvas wires a canvas to the given host capabilities.
func newCanvas(o Options, win render.Window, backend render.Backend) *Canvas {
	c := &Canvas{
		opts:       o,
		logger:     o.Logger,
		metrics:    o.Metrics,
		background: render.ToRGBA(render.DefaultBackground),
	}
	if o.Background != nil {
		c.background = render.ToRGBA(o.Background)
	}

	if o.Elapsed != nil {
		c.elapsed = o.Elapsed
	} else {
		start := time.Now()
		c.elapsed = func() time.Duration { return time.Since(start) }
	}

	c.host = render.NewHost(win, backend, render.HostOptions{
		Logger:       o.Logger,
		Frame:        c.renderFrame,
		PointerPress: c.pointerPress,
		FrameSkipped: func(error) { c.metrics.recordSkip() },
		FrameRendered: func(d time.Duration) {
			c.metrics.recordFrame(d)
		},
		Resized: func(int, int, render.Transform) { c.metrics.recordResize() },
	})
	return c
}

// OnFrame registers a Frame handler. Handlers run in registration order.
func (c *Canvas) OnFrame(h FrameHandler) {
	if h != nil {
		c.frameHandlers = append(c.frameHandlers, h)
	}
}

// OnClick registers a Click handler. Handlers run in registration order.
func (c *Canvas) OnClick(h ClickHandler) {
	if h != nil {
		c.clickHandlers = append(c.clickHandlers, h)
	}
}

// Run starts the main loop and blocks until the window is closed.
// It returns nil on a normal close.
func (c *Canvas) Run() error {
	switch c.state {
	case StateRunning:
		return ErrAlreadyRunning
	case StateClosed:
		return ErrClosed
	}

	c.state = StateRunning
	c.metrics.setRunning(true)
	c.logger.Info("canvas running", "width", c.opts.Width, "height", c.opts.Height, "tps", c.opts.TPS)

	err := c.host.Run(c.opts.TPS)

	c.state = StateClosed
	c.metrics.setRunning(false)
	if err != nil {
		c.logger.Error("canvas stopped", "error", err)
		return fmt.Errorf("canvas main loop: %w", err)
	}
	c.logger.Info("canvas closed", "frames", c.metrics.Snapshot().FramesRendered)
	return nil
}

// Close asks the main loop to stop after the current frame. It is safe to
// call from any goroutine, including signal handlers; Run then returns nil.
func (c *Canvas) Close() {
	c.host.Close()
}

func (c *Canvas) renderFrame(s render.Surface) {
	c.surface = s
	defer func() { c.surface = nil }()

	s.Clear(c.background)
	t := c.Time()
	for _, h := range c.frameHandlers {
		h(c, t)
	}
}

func (c *Canvas) pointerPress(x, y float64) {
	c.metrics.recordClick()
	e := ClickEvent{Time: c.Time(), X: x, Y: y}
	for _, h := range c.clickHandlers {
		h(c, e)
	}
}

// Time returns the seconds elapsed since the canvas was created.
func (c *Canvas) Time() float64 {
	return c.elapsed().Seconds()
}

// State returns the lifecycle state.
func (c *Canvas) State() State {
	return c.state
}

// Transform returns the current logical-to-physical transform.
func (c *Canvas) Transform() Transform {
	return c.host.Transform()
}

// Size returns the physical framebuffer size.
func (c *Canvas) Size() (width, height int) {
	return c.host.Size()
}

// ToLogical maps physical window pixels, such as click coordinates,
// into logical canvas space.
func (c *Canvas) ToLogical(x, y float64) Vec2 {
	return c.host.Transform().Inverse(Vec2{X: x, Y: y})
}

// Metrics returns the canvas metrics collector.
func (c *Canvas) Metrics() *Metrics {
	return c.metrics
}

// Logger returns the canvas logger.
func (c *Canvas) Logger() Logger {
	return c.logger
}

// Snapshot writes the last rendered frame of an offscreen canvas to a PNG file.
func (c *Canvas) Snapshot(path string) error {
	if c.offscreen == nil {
		return errors.New("snapshot requires an offscreen canvas")
	}
	return c.offscreen.SavePNG(path)
}

// Fill sets the fill colour. A nil colour is the same as NoFill.
func (c *Canvas) Fill(col color.Color) {
	if col == nil {
		c.NoFill()
		return
	}
	rgba := render.ToRGBA(col)
	c.paint.Fill = &rgba
	c.updateBrushes()
}

// NoFill disables filling.
func (c *Canvas) NoFill() {
	c.paint.Fill = nil
	c.updateBrushes()
}

// Stroke sets the stroke colour. A nil colour is the same as NoStroke.
func (c *Canvas) Stroke(col color.Color) {
	if col == nil {
		c.NoStroke()
		return
	}
	rgba := render.ToRGBA(col)
	c.paint.Stroke = &rgba
	c.updateBrushes()
}

// NoStroke disables outlines.
func (c *Canvas) NoStroke() {
	c.paint.Stroke = nil
	c.updateBrushes()
}

// StrokeWidth sets the outline thickness, truncated to an integer.
// Outlines are only drawn when the width is at least 1.
func (c *Canvas) StrokeWidth(width float64) {
	if math.IsNaN(width) || width < 0 {
		width = 0
	}
	c.paint.StrokeWidth = int(math.Min(width, math.MaxInt32))
	c.updateBrushes()
}

func (c *Canvas) updateBrushes() {
	c.fillBrush, c.strokeBrush = c.paint.Brushes()
}

// Clear fills the whole frame with col. A nil colour clears to the
// background colour. Valid only inside a Frame handler.
func (c *Canvas) Clear(col color.Color) {
	s := c.mustSurface("Clear")
	if col == nil {
		s.Clear(c.background)
		return
	}
	s.Clear(render.ToRGBA(col))
}

// Rectangle draws a rectangle with its top-left corner at p and size s,
// both in logical units. The fill is drawn under the outline.
func (c *Canvas) Rectangle(p, s Vec2) {
	surface := c.mustSurface("Rectangle")
	t := c.host.Transform()
	p, s = t.Point(p), t.Size(s)
	if c.fillBrush != nil {
		surface.DrawRect(p.X, p.Y, s.X, s.Y, *c.fillBrush)
	}
	if c.strokeBrush != nil {
		surface.DrawRect(p.X, p.Y, s.X, s.Y, *c.strokeBrush)
	}
}

// Rect is Rectangle with separate components.
func (c *Canvas) Rect(x, y, w, h float64) {
	c.Rectangle(Vec2{X: x, Y: y}, Vec2{X: w, Y: h})
}

// Circle draws a circle centred at p with radius r, in logical units.
// The fill is drawn under the outline.
func (c *Canvas) Circle(p Vec2, r float64) {
	surface := c.mustSurface("Circle")
	t := c.host.Transform()
	p, r = t.Point(p), t.Scalar(r)
	if c.fillBrush != nil {
		surface.DrawCircle(p.X, p.Y, r, *c.fillBrush)
	}
	if c.strokeBrush != nil {
		surface.DrawCircle(p.X, p.Y, r, *c.strokeBrush)
	}
}

// CircleXY is Circle with separate components.
func (c *Canvas) CircleXY(x, y, r float64) {
	c.Circle(Vec2{X: x, Y: y}, r)
}

// mustSurface returns the bound surface or panics: drawing outside a
// Frame handler is a bug in the sketch.
func (c *Canvas) mustSurface(op string) render.Surface {
	if c.surface == nil {
		panic(fmt.Errorf("canvas: %s: %w", op, ErrNoSurface))
	}
	return c.surface
}

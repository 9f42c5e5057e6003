// Package window provides the Ebiten-backed window and rendering backend
// for living-canvas. A Driver is both the render.Window and the
// render.Backend: Ebiten owns the native window and GPU context, and the
// screen image handed to Draw is the framebuffer surfaces are bound to.
package window

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/opd-ai/livingcanvas/internal/render"
)

// ebitenStencilBits is the stencil depth Ebiten allocates for its
// framebuffers; vector paths are filled through the stencil buffer.
const ebitenStencilBits = 8

// Config holds the window creation options.
type Config struct {
	// Width is the requested window width in device-independent pixels.
	Width int
	// Height is the requested window height in device-independent pixels.
	Height int
	// Title is the window title.
	Title string
	// HUD draws an FPS and transform overlay on top of every frame.
	HUD bool
	// Above asks the window manager to keep the window above others (X11 only).
	Above bool
	// Sticky asks the window manager to show the window on all desktops (X11 only).
	Sticky bool
	// Logger receives window warnings. Nil discards them.
	Logger render.Logger
}

// applyWindowHints is replaced in tests.
var applyWindowHints = ApplyWindowHints

// Validate checks if the Config has valid values.
func (c Config) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("width must be positive, got %d", c.Width)
	}
	if c.Height <= 0 {
		return fmt.Errorf("height must be positive, got %d", c.Height)
	}
	return nil
}

// Driver implements render.Window and render.Backend over Ebiten. It also
// implements ebiten.Game; Ebiten calls it on the main goroutine.
type Driver struct {
	config   Config
	logger   render.Logger
	handlers render.Handlers
	hud      *HUD

	width, height int
	loaded        bool
	hintsApplied  bool

	screen   *ebiten.Image
	acquired bool
	closed   atomic.Bool
}

// New configures the Ebiten window. The native window and GPU context are
// created when Run starts the game loop.
func New(config Config) (*Driver, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid window config: %w", err)
	}

	ebiten.SetWindowSize(config.Width, config.Height)
	ebiten.SetWindowTitle(config.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	d := &Driver{
		config: config,
		logger: config.Logger,
		width:  config.Width,
		height: config.Height,
	}
	if d.logger == nil {
		d.logger = nopLogger{}
	}
	if config.HUD {
		hud, err := NewHUD()
		if err != nil {
			return nil, err
		}
		d.hud = hud
	}
	return d, nil
}

// Size implements render.Window.
func (d *Driver) Size() (int, int) {
	return d.width, d.height
}

// SetHandlers implements render.Window.
func (d *Driver) SetHandlers(h render.Handlers) {
	d.handlers = h
}

// Run implements render.Window. It blocks until the window is closed.
func (d *Driver) Run(tps int) error {
	ebiten.SetTPS(tps)
	defer CloseWindowHints()
	if err := ebiten.RunGame(d); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}

// Present implements render.Window. Ebiten swaps buffers after Draw
// returns, so there is nothing to do here.
func (d *Driver) Present() error {
	return nil
}

// Close implements render.Window. The game loop ends on the next tick.
func (d *Driver) Close() {
	d.closed.Store(true)
}

// Update implements ebiten.Game.Update.
func (d *Driver) Update() error {
	if d.closed.Load() {
		return ebiten.Termination
	}
	if !d.loaded {
		if d.handlers.Load != nil {
			if err := d.handlers.Load(); err != nil {
				return fmt.Errorf("load surface host: %w", err)
			}
		}
		d.loaded = true
	}
	if !d.hintsApplied {
		// The native window exists once the first tick runs.
		d.applyHints()
	}

	if d.handlers.PointerPress != nil {
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			x, y := ebiten.CursorPosition()
			d.handlers.PointerPress(float64(x), float64(y))
		}
		for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
			x, y := ebiten.TouchPosition(id)
			d.handlers.PointerPress(float64(x), float64(y))
		}
	}
	return nil
}

// applyHints sets the X11 window manager hints once. Failures are logged
// and the loop keeps running.
func (d *Driver) applyHints() {
	d.hintsApplied = true
	if err := applyWindowHints(d.config.Above, d.config.Sticky); err != nil {
		d.logger.Warn("window hints not applied", "above", d.config.Above, "sticky", d.config.Sticky, "error", err)
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Draw implements ebiten.Game.Draw. The screen image is bound as the
// framebuffer for the duration of the frame callback only.
func (d *Driver) Draw(screen *ebiten.Image) {
	if !d.loaded || d.handlers.Frame == nil {
		return
	}
	d.screen = screen
	d.handlers.Frame()
	if d.hud != nil {
		d.hud.Draw(screen, d.width, d.height)
	}
	d.screen = nil
}

// Layout implements ebiten.Game.Layout. The screen is laid out in
// physical pixels so the surface host sees the real framebuffer size.
func (d *Driver) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := physicalSize(outsideWidth, outsideHeight, ebiten.Monitor().DeviceScaleFactor())
	if w != d.width || h != d.height {
		d.width, d.height = w, h
		if d.loaded && d.handlers.Resize != nil {
			d.handlers.Resize(w, h)
		}
	}
	return w, h
}

// physicalSize converts an outside size in device-independent pixels to
// framebuffer pixels.
func physicalSize(outsideWidth, outsideHeight int, scale float64) (int, int) {
	if scale <= 0 {
		scale = 1
	}
	return int(math.Ceil(float64(outsideWidth) * scale)), int(math.Ceil(float64(outsideHeight) * scale))
}

// Framebuffer implements render.Backend.
func (d *Driver) Framebuffer() (render.FramebufferInfo, error) {
	return render.FramebufferInfo{ID: 0, StencilBits: ebitenStencilBits, Samples: 0}, nil
}

// AcquireSurface implements render.Backend.
func (d *Driver) AcquireSurface(t render.RenderTarget) (render.Surface, error) {
	if d.screen == nil {
		return nil, render.ErrNoFramebuffer
	}
	if d.acquired {
		return nil, errors.New("surface already acquired for this frame")
	}
	b := d.screen.Bounds()
	if b.Dx() != t.Width || b.Dy() != t.Height {
		return nil, fmt.Errorf("stale render target %dx%d for %dx%d screen", t.Width, t.Height, b.Dx(), b.Dy())
	}
	d.acquired = true
	return &surface{driver: d, dst: d.screen}, nil
}

// Flush implements render.Backend. Ebiten submits its command queue at the
// end of every frame.
func (d *Driver) Flush() error {
	return nil
}

package render

import (
	"fmt"
	"time"
)

// Logger is the structured logging interface used by the host.
// It follows the slog-style signature.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// HostOptions configures a Host.
type HostOptions struct {
	// Logger receives lifecycle and per-frame diagnostics. Nil discards them.
	Logger Logger
	// Frame renders one frame onto the acquired surface. The surface must
	// not be retained after Frame returns.
	Frame func(s Surface)
	// PointerPress receives raw physical pointer coordinates.
	PointerPress func(x, y float64)
	// FrameSkipped is called when a frame is dropped because no surface
	// could be acquired.
	FrameSkipped func(err error)
	// FrameRendered is called after a frame was presented, with the time
	// spent in RenderFrame.
	FrameRendered func(d time.Duration)
	// Resized is called after the transform was recomputed.
	Resized func(width, height int, t Transform)
}

// Host owns the window and rendering backend for the lifetime of the
// process and drives the per-frame render cycle. All methods run on the
// goroutine that owns the window.
type Host struct {
	window  Window
	backend Backend
	opts    HostOptions
	logger  Logger

	target    RenderTarget
	width     int
	height    int
	transform Transform
	loaded    bool
}

// NewHost creates a Host over an already created window and backend
// and registers its handlers with the window.
func NewHost(window Window, backend Backend, opts HostOptions) *Host {
	logger := opts.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	h := &Host{
		window:    window,
		backend:   backend,
		opts:      opts,
		logger:    logger,
		transform: Identity,
	}
	window.SetHandlers(Handlers{
		Load:   h.Load,
		Frame:  h.RenderFrame,
		Resize: h.Resize,
		PointerPress: func(x, y float64) {
			if h.opts.PointerPress != nil {
				h.opts.PointerPress(x, y)
			}
		},
	})
	return h
}

// Load caches the framebuffer attributes and computes the initial
// transform from the current window size. It is called once by the
// window after the context exists; later calls are no-ops.
func (h *Host) Load() error {
	if h.loaded {
		return nil
	}
	fb, err := h.backend.Framebuffer()
	if err != nil {
		return fmt.Errorf("query framebuffer: %w", err)
	}
	h.target.Framebuffer = fb
	h.loaded = true

	w, ht := h.window.Size()
	h.setSize(w, ht)
	h.logger.Debug("surface host loaded",
		"framebuffer", fb.ID, "stencil_bits", fb.StencilBits, "samples", fb.Samples,
		"width", w, "height", ht)
	return nil
}

// Resize records a new physical size and recomputes the transform.
func (h *Host) Resize(width, height int) {
	h.setSize(width, height)
	h.logger.Debug("surface resized", "width", width, "height", height,
		"offset_x", h.transform.Offset.X, "offset_y", h.transform.Offset.Y,
		"multiplier", h.transform.Multiplier)
}

func (h *Host) setSize(width, height int) {
	if width <= 0 || height <= 0 {
		// Minimized windows report 0x0; keep the last usable transform.
		return
	}
	h.width, h.height = width, height
	h.transform = Fit(width, height)
	if h.opts.Resized != nil {
		h.opts.Resized(width, height, h.transform)
	}
}

// RenderFrame acquires a surface for the current framebuffer, renders
// one frame into it, flushes and presents. A frame whose surface cannot
// be acquired is skipped. The surface is released on every return path,
// including a panic in the frame callback.
func (h *Host) RenderFrame() {
	start := time.Now()
	if !h.loaded {
		h.skip(ErrNoFramebuffer)
		return
	}

	h.target.Width = h.width
	h.target.Height = h.height

	surface, err := h.backend.AcquireSurface(h.target)
	if err != nil {
		h.skip(err)
		return
	}
	h.draw(surface)

	if err := h.backend.Flush(); err != nil {
		h.logger.Warn("context flush failed", "error", err)
	}
	if err := h.window.Present(); err != nil {
		h.logger.Warn("present failed", "error", err)
	}
	if h.opts.FrameRendered != nil {
		h.opts.FrameRendered(time.Since(start))
	}
}

func (h *Host) draw(surface Surface) {
	defer surface.Release()
	if h.opts.Frame != nil {
		h.opts.Frame(surface)
	}
	if err := surface.Flush(); err != nil {
		h.logger.Warn("surface flush failed", "error", err)
	}
}

func (h *Host) skip(err error) {
	h.logger.Warn("frame skipped", "error", err)
	if h.opts.FrameSkipped != nil {
		h.opts.FrameSkipped(err)
	}
}

// Run starts the window main loop and blocks until the window closes.
func (h *Host) Run(tps int) error {
	return h.window.Run(tps)
}

// Close asks the window to stop its main loop.
func (h *Host) Close() {
	h.window.Close()
}

// Transform returns the current logical-to-physical transform.
func (h *Host) Transform() Transform {
	return h.transform
}

// Size returns the cached physical size.
func (h *Host) Size() (width, height int) {
	return h.width, h.height
}

// Framebuffer returns the framebuffer attributes cached by Load.
func (h *Host) Framebuffer() FramebufferInfo {
	return h.target.Framebuffer
}

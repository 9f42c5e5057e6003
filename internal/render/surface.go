package render

import (
	"errors"
	"image/color"
)

// ErrNoFramebuffer is returned by a Backend that has no framebuffer bound yet.
var ErrNoFramebuffer = errors.New("no framebuffer bound")

// FramebufferInfo describes the framebuffer bound to the rendering context.
// It is queried once after context creation.
type FramebufferInfo struct {
	ID          int
	StencilBits int
	Samples     int
}

// RenderTarget is the descriptor used to acquire a surface for the
// current framebuffer.
type RenderTarget struct {
	Width       int
	Height      int
	Framebuffer FramebufferInfo
}

// Surface is a drawable 2D rendering surface valid for one frame.
type Surface interface {
	// Clear fills the whole surface with c.
	Clear(c color.RGBA)
	// DrawRect draws an axis-aligned rectangle in physical pixels.
	DrawRect(x, y, w, h float64, b Brush)
	// DrawCircle draws a circle in physical pixels.
	DrawCircle(cx, cy, r float64, b Brush)
	// Flush submits pending draw calls.
	Flush() error
	// Release reclaims the surface. It is called exactly once per acquisition.
	Release()
}

// Handlers are the callbacks a Window invokes on its owning goroutine.
type Handlers struct {
	// Load runs once after the window and context exist, before the first frame.
	Load func() error
	// Frame runs once per host tick.
	Frame func()
	// Resize runs when the physical framebuffer size changes.
	Resize func(width, height int)
	// PointerPress runs on a primary pointer press with physical coordinates.
	PointerPress func(x, y float64)
}

// Window is the host windowing capability.
type Window interface {
	// Size returns the current physical framebuffer size.
	Size() (width, height int)
	// SetHandlers registers the event callbacks.
	SetHandlers(h Handlers)
	// Run starts the main loop at tps ticks per second and blocks until
	// the window is closed.
	Run(tps int) error
	// Present swaps buffers.
	Present() error
	// Close asks the main loop to stop; Run returns after the current
	// frame. It is safe to call from any goroutine.
	Close()
}

// Backend is the 2D rendering backend capability.
type Backend interface {
	// Framebuffer reports the currently bound framebuffer attributes.
	Framebuffer() (FramebufferInfo, error)
	// AcquireSurface binds a surface to the framebuffer described by t.
	AcquireSurface(t RenderTarget) (Surface, error)
	// Flush flushes the rendering context.
	Flush() error
}

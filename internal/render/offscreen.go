package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"sync/atomic"

	"github.com/gogpu/gg"
)

// Offscreen is a headless Window and Backend backed by the gg software
// rasterizer. Run renders a fixed number of frames and returns, which
// makes it suitable for snapshots and pixel tests.
type Offscreen struct {
	width    int
	height   int
	frames   int
	handlers Handlers

	dc       *gg.Context
	acquired bool
	presents int
	closed   atomic.Bool

	// FailAcquire makes AcquireSurface fail, for exercising frame skipping.
	FailAcquire bool
}

// NewOffscreen creates an offscreen target of the given physical size that
// renders frames frames per Run call. frames < 1 is treated as 1.
func NewOffscreen(width, height, frames int) (*Offscreen, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("offscreen size must be positive, got %dx%d", width, height)
	}
	if frames < 1 {
		frames = 1
	}
	return &Offscreen{
		width:  width,
		height: height,
		frames: frames,
		dc:     gg.NewContext(width, height),
	}, nil
}

// Size implements Window.
func (o *Offscreen) Size() (int, int) {
	return o.width, o.height
}

// SetHandlers implements Window.
func (o *Offscreen) SetHandlers(h Handlers) {
	o.handlers = h
}

// Run implements Window. The tps argument is ignored; frames are rendered
// back to back.
func (o *Offscreen) Run(tps int) error {
	if o.handlers.Load != nil {
		if err := o.handlers.Load(); err != nil {
			return err
		}
	}
	for i := 0; i < o.frames && !o.closed.Load(); i++ {
		if o.handlers.Frame != nil {
			o.handlers.Frame()
		}
	}
	return nil
}

// Close implements Window. Run stops before the next frame.
func (o *Offscreen) Close() {
	o.closed.Store(true)
}

// Present implements Window.
func (o *Offscreen) Present() error {
	o.presents++
	return nil
}

// Presents returns how many frames were presented.
func (o *Offscreen) Presents() int {
	return o.presents
}

// Press simulates a primary pointer press at physical coordinates.
func (o *Offscreen) Press(x, y float64) {
	if o.handlers.PointerPress != nil {
		o.handlers.PointerPress(x, y)
	}
}

// Resize simulates a host resize. The backing image is reallocated.
func (o *Offscreen) Resize(width, height int) {
	o.width, o.height = width, height
	if width > 0 && height > 0 {
		o.dc = gg.NewContext(width, height)
	}
	if o.handlers.Resize != nil {
		o.handlers.Resize(width, height)
	}
}

// Framebuffer implements Backend. The software rasterizer has no stencil
// buffer and renders without multisampling.
func (o *Offscreen) Framebuffer() (FramebufferInfo, error) {
	return FramebufferInfo{}, nil
}

// AcquireSurface implements Backend.
func (o *Offscreen) AcquireSurface(t RenderTarget) (Surface, error) {
	if o.FailAcquire {
		return nil, errors.New("offscreen surface unavailable")
	}
	if o.acquired {
		return nil, errors.New("offscreen surface already acquired")
	}
	if t.Width != o.width || t.Height != o.height {
		return nil, fmt.Errorf("render target %dx%d does not match framebuffer %dx%d",
			t.Width, t.Height, o.width, o.height)
	}
	o.acquired = true
	return &ggSurface{owner: o, dc: o.dc}, nil
}

// Flush implements Backend.
func (o *Offscreen) Flush() error {
	return o.dc.FlushGPU()
}

// Image returns the last rendered frame.
func (o *Offscreen) Image() image.Image {
	return o.dc.Image()
}

// SavePNG writes the last rendered frame to path.
func (o *Offscreen) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := png.Encode(f, o.Image()); err != nil {
		f.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return f.Close()
}

type ggSurface struct {
	owner *Offscreen
	dc    *gg.Context
	// err is the first rasterizer error of the frame, reported by Flush.
	err error
}

func ggColor(c color.RGBA) gg.RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return gg.RGBA{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
		A: float64(n.A) / 255,
	}
}

func (s *ggSurface) Clear(c color.RGBA) {
	s.dc.ClearWithColor(ggColor(c))
}

func (s *ggSurface) DrawRect(x, y, w, h float64, b Brush) {
	s.dc.DrawRectangle(x, y, w, h)
	s.paint(b)
}

func (s *ggSurface) DrawCircle(cx, cy, r float64, b Brush) {
	s.dc.DrawCircle(cx, cy, r)
	s.paint(b)
}

func (s *ggSurface) paint(b Brush) {
	c := ggColor(b.Color)
	s.dc.SetRGBA(c.R, c.G, c.B, c.A)
	var err error
	if b.Style == BrushStroke {
		s.dc.SetLineWidth(b.Width)
		err = s.dc.Stroke()
	} else {
		err = s.dc.Fill()
	}
	s.record(err)
}

func (s *ggSurface) record(err error) {
	if err != nil && s.err == nil {
		s.err = err
	}
}

func (s *ggSurface) Flush() error {
	if err := s.dc.FlushGPU(); err != nil {
		s.record(err)
	}
	err := s.err
	s.err = nil
	if err != nil {
		return fmt.Errorf("offscreen render: %w", err)
	}
	return nil
}

func (s *ggSurface) Release() {
	s.owner.acquired = false
}

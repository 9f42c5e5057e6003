package render

import (
	"errors"
	"image/color"
	"testing"
	"time"
)

// fakeWindow implements Window for testing.
type fakeWindow struct {
	width, height int
	handlers      Handlers
	presents      int
	runTPS        int
	closed        bool
}

func (w *fakeWindow) Size() (int, int)       { return w.width, w.height }
func (w *fakeWindow) SetHandlers(h Handlers) { w.handlers = h }
func (w *fakeWindow) Present() error         { w.presents++; return nil }
func (w *fakeWindow) Close()                 { w.closed = true }
func (w *fakeWindow) Run(tps int) error {
	w.runTPS = tps
	if err := w.handlers.Load(); err != nil {
		return err
	}
	w.handlers.Frame()
	return nil
}

// fakeBackend implements Backend for testing.
type fakeBackend struct {
	fb         FramebufferInfo
	fbErr      error
	acquireErr error
	targets    []RenderTarget
	surfaces   []*fakeSurface
	flushes    int
}

func (b *fakeBackend) Framebuffer() (FramebufferInfo, error) { return b.fb, b.fbErr }
func (b *fakeBackend) Flush() error                          { b.flushes++; return nil }
func (b *fakeBackend) AcquireSurface(t RenderTarget) (Surface, error) {
	b.targets = append(b.targets, t)
	if b.acquireErr != nil {
		return nil, b.acquireErr
	}
	s := &fakeSurface{}
	b.surfaces = append(b.surfaces, s)
	return s, nil
}

// fakeSurface records draw calls.
type fakeSurface struct {
	calls    []string
	released int
	flushes  int
}

func (s *fakeSurface) Clear(c color.RGBA) {
	s.calls = append(s.calls, "clear")
}

func (s *fakeSurface) DrawRect(x, y, w, h float64, b Brush) {
	s.calls = append(s.calls, "rect:"+b.Style.String())
}

func (s *fakeSurface) DrawCircle(x, y, r float64, b Brush) {
	s.calls = append(s.calls, "circle:"+b.Style.String())
}

func (s *fakeSurface) Flush() error { s.flushes++; return nil }
func (s *fakeSurface) Release()     { s.released++ }

func TestHostLoadCachesFramebuffer(t *testing.T) {
	win := &fakeWindow{width: 1280, height: 720}
	backend := &fakeBackend{fb: FramebufferInfo{ID: 3, StencilBits: 8, Samples: 4}}
	h := NewHost(win, backend, HostOptions{})

	if err := h.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if h.Framebuffer() != backend.fb {
		t.Errorf("Framebuffer() = %+v, want %+v", h.Framebuffer(), backend.fb)
	}
	if h.Transform() != (Transform{Multiplier: 1}) {
		t.Errorf("Transform() after load = %+v, want identity", h.Transform())
	}
	if w, ht := h.Size(); w != 1280 || ht != 720 {
		t.Errorf("Size() = %dx%d, want 1280x720", w, ht)
	}
}

func TestHostLoadFailure(t *testing.T) {
	backend := &fakeBackend{fbErr: errors.New("no gl")}
	h := NewHost(&fakeWindow{width: 800, height: 600}, backend, HostOptions{})

	if err := h.Load(); err == nil {
		t.Fatal("Load() error = nil, want error")
	}
}

func TestHostResize(t *testing.T) {
	win := &fakeWindow{width: 1280, height: 720}
	var resized int
	h := NewHost(win, &fakeBackend{}, HostOptions{
		Resized: func(int, int, Transform) { resized++ },
	})
	if err := h.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	h.Resize(2560, 1440)
	if h.Transform() != (Transform{Multiplier: 2}) {
		t.Errorf("Transform() = %+v, want multiplier 2", h.Transform())
	}
	first := h.Transform()
	h.Resize(2560, 1440)
	if h.Transform() != first {
		t.Errorf("second Resize changed transform: %+v vs %+v", h.Transform(), first)
	}

	h.Resize(0, 0)
	if h.Transform() != first {
		t.Errorf("Resize(0, 0) changed transform to %+v", h.Transform())
	}
	if resized != 3 {
		t.Errorf("Resized hook called %d times, want 3", resized)
	}
}

func TestHostRenderFrame(t *testing.T) {
	win := &fakeWindow{width: 1280, height: 720}
	backend := &fakeBackend{fb: FramebufferInfo{ID: 1, StencilBits: 8}}

	var rendered time.Duration
	var got Surface
	h := NewHost(win, backend, HostOptions{
		Frame: func(s Surface) {
			got = s
			s.Clear(color.RGBA{})
		},
		FrameRendered: func(d time.Duration) { rendered = d + 1 },
	})
	if err := h.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	h.Resize(1920, 1080)
	h.RenderFrame()

	if len(backend.targets) != 1 {
		t.Fatalf("AcquireSurface called %d times, want 1", len(backend.targets))
	}
	target := backend.targets[0]
	if target.Width != 1920 || target.Height != 1080 {
		t.Errorf("target size = %dx%d, want 1920x1080", target.Width, target.Height)
	}
	if target.Framebuffer.ID != 1 {
		t.Errorf("target framebuffer = %d, want 1", target.Framebuffer.ID)
	}

	s := backend.surfaces[0]
	if got != s {
		t.Error("frame callback did not receive the acquired surface")
	}
	if s.released != 1 {
		t.Errorf("surface released %d times, want 1", s.released)
	}
	if s.flushes != 1 || backend.flushes != 1 || win.presents != 1 {
		t.Errorf("flushes surface=%d backend=%d presents=%d, want 1/1/1", s.flushes, backend.flushes, win.presents)
	}
	if rendered == 0 {
		t.Error("FrameRendered hook not called")
	}
}

func TestHostRenderFrameSkipsOnAcquireFailure(t *testing.T) {
	win := &fakeWindow{width: 800, height: 600}
	backend := &fakeBackend{acquireErr: errors.New("context lost")}

	var skipped []error
	frames := 0
	h := NewHost(win, backend, HostOptions{
		Frame:        func(Surface) { frames++ },
		FrameSkipped: func(err error) { skipped = append(skipped, err) },
	})
	if err := h.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	h.RenderFrame()
	if frames != 0 || win.presents != 0 {
		t.Errorf("frames=%d presents=%d after failed acquisition, want 0/0", frames, win.presents)
	}
	if len(skipped) != 1 {
		t.Fatalf("FrameSkipped called %d times, want 1", len(skipped))
	}

	// The next tick retries unconditionally.
	backend.acquireErr = nil
	h.RenderFrame()
	if frames != 1 || win.presents != 1 {
		t.Errorf("frames=%d presents=%d after recovery, want 1/1", frames, win.presents)
	}
}

func TestHostRenderFrameBeforeLoad(t *testing.T) {
	backend := &fakeBackend{}
	var skipErr error
	h := NewHost(&fakeWindow{width: 800, height: 600}, backend, HostOptions{
		FrameSkipped: func(err error) { skipErr = err },
	})

	h.RenderFrame()
	if !errors.Is(skipErr, ErrNoFramebuffer) {
		t.Errorf("skip error = %v, want ErrNoFramebuffer", skipErr)
	}
	if len(backend.targets) != 0 {
		t.Error("AcquireSurface called before Load")
	}
}

func TestHostReleasesSurfaceOnPanic(t *testing.T) {
	backend := &fakeBackend{}
	h := NewHost(&fakeWindow{width: 800, height: 600}, backend, HostOptions{
		Frame: func(Surface) { panic("sketch bug") },
	})
	if err := h.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Error("expected panic to propagate")
			}
		}()
		h.RenderFrame()
	}()

	if backend.surfaces[0].released != 1 {
		t.Errorf("surface released %d times after panic, want 1", backend.surfaces[0].released)
	}
}

func TestHostForwardsPointerPress(t *testing.T) {
	win := &fakeWindow{width: 800, height: 600}
	var gotX, gotY float64
	NewHost(win, &fakeBackend{}, HostOptions{
		PointerPress: func(x, y float64) { gotX, gotY = x, y },
	})

	win.handlers.PointerPress(150, 50)
	if gotX != 150 || gotY != 50 {
		t.Errorf("pointer = (%v, %v), want (150, 50)", gotX, gotY)
	}
}

func TestHostRun(t *testing.T) {
	win := &fakeWindow{width: 1280, height: 720}
	backend := &fakeBackend{}
	frames := 0
	h := NewHost(win, backend, HostOptions{Frame: func(Surface) { frames++ }})

	if err := h.Run(60); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if win.runTPS != 60 {
		t.Errorf("tps = %d, want 60", win.runTPS)
	}
	if frames != 1 {
		t.Errorf("frames = %d, want 1", frames)
	}
}

func TestHostClose(t *testing.T) {
	win := &fakeWindow{width: 800, height: 600}
	h := NewHost(win, &fakeBackend{}, HostOptions{})
	h.Close()
	if !win.closed {
		t.Error("Close() did not close the window")
	}
}

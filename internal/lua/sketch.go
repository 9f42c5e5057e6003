package lua

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	rt "github.com/arnodel/golua/runtime"
)

// Logger is the structured logging interface used by sketches.
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

// SketchOptions configures a Sketch.
type SketchOptions struct {
	// Runtime sets the resource limits and print output of each Lua runtime.
	// The zero value means DefaultConfig().
	Runtime *RuntimeConfig
	// Logger receives load, reload and script error messages.
	Logger Logger
	// OnError is called for every failed hook call or reload.
	OnError func(err error)
	// OnReload is called after a reload succeeded.
	OnReload func()
}

// Sketch is a loaded Lua sketch bound to a Painter. Frame and Click must
// be called from the render goroutine; RequestReload may be called from
// any goroutine and takes effect at the start of the next frame.
type Sketch struct {
	name    string
	path    string
	source  string
	painter Painter
	opts    SketchOptions
	logger  Logger

	runtime    *Runtime
	hooks      hookSet
	needsSetup bool

	reloadPending atomic.Bool
	watcher       *watcher
}

// LoadSketch loads the sketch file at path.
func LoadSketch(path string, p Painter, opts SketchOptions) (*Sketch, error) {
	s := newSketch(path, p, opts)
	s.path = path
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadSketchString loads a sketch from source. name is used in error
// messages. Such a sketch can not be reloaded from disk.
func LoadSketchString(name, source string, p Painter, opts SketchOptions) (*Sketch, error) {
	s := newSketch(name, p, opts)
	s.source = source
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func newSketch(name string, p Painter, opts SketchOptions) *Sketch {
	logger := opts.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	return &Sketch{name: name, painter: p, opts: opts, logger: logger}
}

func (s *Sketch) load() error {
	if s.painter == nil {
		return ErrNilPainter
	}
	r, hooks, err := s.compile()
	if err != nil {
		return err
	}
	s.swap(r, hooks)
	s.logger.Info("sketch loaded", "sketch", s.name, "click", hooks[HookClick], "setup", hooks[HookSetup])
	return nil
}

// compile builds a fresh runtime for the current source and runs its top
// level chunk.
func (s *Sketch) compile() (*Runtime, hookSet, error) {
	cfg := DefaultConfig()
	if s.opts.Runtime != nil {
		cfg = *s.opts.Runtime
	}
	r := NewRuntime(cfg)
	registerBindings(r, s.painter)

	var chunk *rt.Closure
	var err error
	if s.path != "" {
		chunk, err = r.LoadFile(s.path)
	} else {
		chunk, err = r.LoadString(s.name, s.source)
	}
	if err == nil {
		_, err = r.Execute(chunk)
	}
	if err != nil {
		r.Close()
		return nil, nil, fmt.Errorf("sketch %s: %w", s.name, err)
	}

	hooks := scanHooks(r)
	if !hooks[HookFrame] {
		r.Close()
		return nil, nil, fmt.Errorf("sketch %s: %w", s.name, ErrNoFrameFunction)
	}
	return r, hooks, nil
}

func (s *Sketch) swap(r *Runtime, hooks hookSet) {
	if s.runtime != nil {
		s.runtime.Close()
	}
	s.runtime = r
	s.hooks = hooks
	s.needsSetup = hooks[HookSetup]
}

// Name returns the sketch name or path.
func (s *Sketch) Name() string {
	return s.name
}

// Output returns the print output captured during the latest hook call,
// or during loading if no hook has run yet.
func (s *Sketch) Output() string {
	if s.runtime == nil {
		return ""
	}
	return s.runtime.Output()
}

// HasHook reports whether the loaded sketch defines hook h.
func (s *Sketch) HasHook(h HookType) bool {
	return s.hooks[h]
}

// Frame applies a pending reload, runs setup() once after each load, and
// then calls frame(t). It must be called while the painter accepts
// drawing, i.e. inside a canvas Frame handler.
func (s *Sketch) Frame(t float64) error {
	if s.reloadPending.Swap(false) {
		_ = s.Reload()
	}
	if s.runtime == nil {
		return ErrNilRuntime
	}

	if s.needsSetup {
		s.needsSetup = false
		if err := s.call(HookSetup); err != nil {
			return err
		}
	}
	return s.call(HookFrame, rt.FloatValue(t))
}

// Click calls click(t, x, y) if the sketch defines it.
func (s *Sketch) Click(t, x, y float64) error {
	if s.runtime == nil {
		return ErrNilRuntime
	}
	if !s.hooks[HookClick] {
		return nil
	}
	return s.call(HookClick, rt.FloatValue(t), rt.FloatValue(x), rt.FloatValue(y))
}

// call runs hook h. The print capture is reset first, so Output only
// holds what the latest hook printed.
func (s *Sketch) call(h HookType, args ...rt.Value) error {
	s.runtime.ClearOutput()
	if _, err := s.runtime.CallFunction(h.LuaFunctionName(), args...); err != nil {
		err = fmt.Errorf("sketch %s: hook %s: %w", s.name, h, err)
		s.fail(err)
		return err
	}
	return nil
}

func (s *Sketch) fail(err error) {
	s.logger.Error("sketch error", "sketch", s.name, "error", err)
	if s.opts.OnError != nil {
		s.opts.OnError(err)
	}
}

// Reload recompiles the sketch from disk. On failure the previous sketch
// stays active and the error is returned.
func (s *Sketch) Reload() error {
	if s.path == "" {
		return errors.New("sketch was not loaded from a file")
	}
	r, hooks, err := s.compile()
	if err != nil {
		err = fmt.Errorf("reload failed, keeping previous sketch: %w", err)
		s.fail(err)
		return err
	}
	s.swap(r, hooks)
	s.logger.Info("sketch reloaded", "sketch", s.name)
	if s.opts.OnReload != nil {
		s.opts.OnReload()
	}
	return nil
}

// RequestReload marks the sketch for reloading at the start of the next
// frame. It is safe to call from any goroutine.
func (s *Sketch) RequestReload() {
	s.reloadPending.Store(true)
}

// ReloadPending reports whether a reload has been requested but not applied.
func (s *Sketch) ReloadPending() bool {
	return s.reloadPending.Load()
}

// Watch starts watching the sketch file and requests a reload whenever it
// changes, after debounce has elapsed without further events. A
// non-positive debounce uses DefaultWatchDebounce.
func (s *Sketch) Watch(debounce time.Duration) error {
	if s.path == "" {
		return errors.New("sketch was not loaded from a file")
	}
	if s.watcher != nil {
		return nil
	}
	w, err := newWatcher(s.path, debounce, s.RequestReload, func(err error) {
		s.logger.Warn("sketch watcher error", "sketch", s.name, "error", err)
	})
	if err != nil {
		return fmt.Errorf("watch sketch %s: %w", s.path, err)
	}
	s.watcher = w
	w.Start()
	s.logger.Debug("watching sketch", "path", s.path)
	return nil
}

// Close stops the watcher and releases the Lua runtime.
func (s *Sketch) Close() error {
	if s.watcher != nil {
		s.watcher.Stop()
		s.watcher = nil
	}
	if s.runtime != nil {
		err := s.runtime.Close()
		s.runtime = nil
		return err
	}
	return nil
}

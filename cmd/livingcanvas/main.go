// Package main provides the livingcanvas command. It opens a canvas window
// and either draws the built-in orbit demo or runs a Lua sketch, optionally
// reloading it whenever the file changes.
package main

import (
	"context"
	"errors"
	"expvar"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opd-ai/livingcanvas/internal/config"
	"github.com/opd-ai/livingcanvas/internal/lua"
	"github.com/opd-ai/livingcanvas/internal/profiling"
	"github.com/opd-ai/livingcanvas/pkg/canvas"
)

// Version is the current version of livingcanvas.
// This default value can be overridden at build time using:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// cliFlags holds the parsed command line.
type cliFlags struct {
	configPath string
	sketchPath string
	watch      bool
	version    bool

	width, height, tps int
	hud                bool

	snapshot string
	at       float64

	metricsAddr string
	debug       bool
	logJSON     bool

	cpuProfile, memProfile, tracePath string

	// set records the flags given explicitly; they override the config file.
	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, error) {
	f := &cliFlags{set: make(map[string]bool)}
	fs := flag.NewFlagSet("livingcanvas", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&f.configPath, "c", "", "Path to Lua configuration file")
	fs.StringVar(&f.sketchPath, "s", "", "Path to Lua sketch (default: built-in orbit demo)")
	fs.BoolVar(&f.watch, "w", false, "Reload the sketch when the file changes")
	fs.BoolVar(&f.version, "v", false, "Print version and exit")
	fs.IntVar(&f.width, "width", config.DefaultWidth, "Window width in pixels")
	fs.IntVar(&f.height, "height", config.DefaultHeight, "Window height in pixels")
	fs.IntVar(&f.tps, "tps", config.DefaultTPS, "Frames per second")
	fs.BoolVar(&f.hud, "hud", false, "Draw the FPS and transform overlay")
	fs.StringVar(&f.snapshot, "snapshot", "", "Render one frame offscreen and write it to this PNG file")
	fs.Float64Var(&f.at, "at", 0, "Sketch time in seconds for -snapshot")
	fs.StringVar(&f.metricsAddr, "metrics", "", "Serve expvar metrics and pprof on this address (e.g. localhost:6060)")
	fs.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&f.logJSON, "log-json", false, "Log JSON lines instead of text")
	fs.StringVar(&f.cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	fs.StringVar(&f.memProfile, "memprofile", "", "Write memory profile to file")
	fs.StringVar(&f.tracePath, "trace", "", "Write execution trace to file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	f, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if f.version {
		fmt.Fprintf(stdout, "livingcanvas version %s\n", Version)
		return 0
	}

	logger := newLogger(stderr, f.debug, f.logJSON)

	cfg, err := loadConfig(f)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return 1
	}

	profConfig := profiling.Config{
		CPUProfilePath: f.cpuProfile,
		MemProfilePath: f.memProfile,
		TracePath:      f.tracePath,
	}
	profiler := profiling.New(profConfig)
	if profConfig.Enabled() {
		if err := profiler.Start(); err != nil {
			fmt.Fprintf(stderr, "Failed to start profiling: %v\n", err)
			return 1
		}
		defer func() {
			if err := profiler.Stop(); err != nil {
				fmt.Fprintf(stderr, "Warning: failed to stop profiling: %v\n", err)
			}
		}()
	}

	metrics := canvas.NewMetrics()
	if f.metricsAddr != "" {
		stop, err := serveMetrics(f.metricsAddr, metrics, logger)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to start metrics server: %v\n", err)
			return 1
		}
		defer stop()
	}

	opts := &canvas.Options{
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Title:      cfg.Window.Title,
		TPS:        cfg.Window.TPS,
		Background: cfg.Window.Background,
		HUD:        cfg.Window.HUD,
		Above:      cfg.Window.Above,
		Sticky:     cfg.Window.Sticky,
		Logger:     logger,
		Metrics:    metrics,
	}
	if f.snapshot != "" {
		at := time.Duration(f.at * float64(time.Second))
		opts.Offscreen = true
		opts.Frames = 1
		opts.Elapsed = func() time.Duration { return at }
	}

	c, err := canvas.New(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating canvas: %v\n", err)
		return 1
	}

	var sketch *lua.Sketch
	if cfg.Sketch.Path != "" {
		sketch, err = attachSketch(c, cfg.Sketch, logger, metrics)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading sketch: %v\n", err)
			return 1
		}
		defer sketch.Close()
	} else {
		c.OnFrame(orbitDemo)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)
	done := make(chan struct{})
	defer close(done)
	go handleSignals(sigCh, done, c, sketch, logger)

	if err := c.Run(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if f.snapshot != "" {
		if err := c.Snapshot(f.snapshot); err != nil {
			fmt.Fprintf(stderr, "Error writing snapshot: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "wrote %s\n", f.snapshot)
	}
	return 0
}

// handleSignals stops the canvas on SIGINT or SIGTERM and reloads the
// sketch on SIGHUP.
func handleSignals(sigCh <-chan os.Signal, done <-chan struct{}, c *canvas.Canvas, sketch *lua.Sketch, logger canvas.Logger) {
	for {
		select {
		case <-done:
			return
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				if sketch != nil {
					logger.Info("received SIGHUP, reloading sketch")
					sketch.RequestReload()
				}
				continue
			}
			logger.Info("shutting down", "signal", sig.String())
			c.Close()
		}
	}
}

// loadConfig merges defaults, the optional config file and explicit flags,
// in increasing order of precedence.
func loadConfig(f *cliFlags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if f.configPath != "" {
		parsed, err := config.ParseFile(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = *parsed
	}

	if f.set["width"] {
		cfg.Window.Width = f.width
	}
	if f.set["height"] {
		cfg.Window.Height = f.height
	}
	if f.set["tps"] {
		cfg.Window.TPS = f.tps
	}
	if f.set["hud"] {
		cfg.Window.HUD = f.hud
	}
	if f.set["s"] {
		cfg.Sketch.Path = f.sketchPath
	}
	if f.set["w"] {
		cfg.Sketch.Watch = f.watch
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// attachSketch loads the sketch and routes canvas events to it.
func attachSketch(c *canvas.Canvas, sc config.SketchConfig, logger canvas.Logger, metrics *canvas.Metrics) (*lua.Sketch, error) {
	sketch, err := lua.LoadSketch(sc.Path, c, lua.SketchOptions{
		Logger:   logger,
		OnError:  func(error) { metrics.IncrementScriptErrors() },
		OnReload: metrics.IncrementScriptReloads,
	})
	if err != nil {
		return nil, err
	}

	// Errors are logged and counted through OnError; the loop keeps running.
	c.OnFrame(func(_ *canvas.Canvas, t float64) {
		_ = sketch.Frame(t)
	})
	c.OnClick(func(_ *canvas.Canvas, e canvas.ClickEvent) {
		_ = sketch.Click(e.Time, e.X, e.Y)
	})

	if sc.Watch {
		if err := sketch.Watch(lua.DefaultWatchDebounce); err != nil {
			sketch.Close()
			return nil, err
		}
	}
	return sketch, nil
}

func newLogger(w io.Writer, debug, jsonOutput bool) canvas.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level, AddSource: debug}
	if jsonOutput {
		return canvas.NewSlogAdapter(slog.New(slog.NewJSONHandler(w, opts)))
	}
	return canvas.NewSlogAdapter(slog.New(slog.NewTextHandler(w, opts)))
}

// serveMetrics publishes the metrics with expvar and serves
// /debug/vars and /debug/pprof on addr. The returned function shuts the
// server down.
func serveMetrics(addr string, metrics *canvas.Metrics, logger canvas.Logger) (func(), error) {
	metrics.RegisterExpvar()
	expvar.NewString("livingcanvas_version").Set(Version)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	srv := &http.Server{
		Handler:           http.DefaultServeMux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("metrics server shutdown", "error", err)
		}
	}, nil
}

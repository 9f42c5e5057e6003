// Package config provides configuration data structures for livingcanvas.
// A configuration is a Lua file that assigns a global canvas table:
//
//	canvas = {
//	    width = 1280,
//	    height = 720,
//	    title = "orbit",
//	    background = "#262626",
//	    sketch = "orbit.lua",
//	    watch = true,
//	}
package config

import (
	"image/color"
)

// Config represents the complete livingcanvas configuration.
type Config struct {
	// Window contains window and main loop settings.
	Window WindowConfig
	// Sketch selects the Lua sketch to run.
	Sketch SketchConfig
}

// WindowConfig holds window-related configuration options.
type WindowConfig struct {
	// Width is the requested window width in pixels.
	Width int
	// Height is the requested window height in pixels.
	Height int
	// Title is the window title.
	Title string
	// TPS is the fixed frame rate of the main loop.
	TPS int
	// Background is the colour each frame is cleared to.
	Background color.NRGBA
	// HUD enables the FPS and transform overlay.
	HUD bool
	// Above keeps the window above others (X11 only).
	Above bool
	// Sticky shows the window on all desktops (X11 only).
	Sticky bool
}

// SketchConfig holds sketch selection settings.
type SketchConfig struct {
	// Path is the sketch file. Relative paths in a config file are
	// resolved against the config file's directory. Empty runs the
	// built-in demo.
	Path string
	// Watch reloads the sketch when the file changes.
	Watch bool
}

package lua

import "errors"

var (
	// ErrNilRuntime is returned when a nil runtime is passed to a function that requires one.
	ErrNilRuntime = errors.New("runtime cannot be nil")

	// ErrNilPainter is returned when a sketch is loaded without a painter.
	ErrNilPainter = errors.New("painter cannot be nil")

	// ErrNoFrameFunction is returned when a sketch does not define frame(t).
	ErrNoFrameFunction = errors.New("sketch does not define a frame function")

	// ErrResourceLimit is returned when a call exceeds its CPU or memory limit.
	ErrResourceLimit = errors.New("Lua resource limit exceeded")
)

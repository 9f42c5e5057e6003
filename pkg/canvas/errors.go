package canvas

import "errors"

var (
	// ErrNoSurface is the panic value (wrapped) raised when a drawing call is
	// made outside a Frame handler.
	ErrNoSurface = errors.New("no rendering surface bound: drawing is only valid inside a Frame handler")

	// ErrAlreadyRunning is returned by Run when the canvas is already running.
	ErrAlreadyRunning = errors.New("canvas is already running")

	// ErrClosed is returned by Run after the window has been closed.
	ErrClosed = errors.New("canvas is closed")
)

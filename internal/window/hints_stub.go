//go:build !linux

package window

// ApplyWindowHints is a no-op on non-Linux platforms.
func ApplyWindowHints(above, sticky bool) error {
	return nil
}

// CloseWindowHints is a no-op on non-Linux platforms.
func CloseWindowHints() {}

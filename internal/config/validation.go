package config

import (
	"fmt"
	"strings"
)

// Limits accepted by Validate.
const (
	maxDimension = 16384
	maxTPS       = 1000
)

// ValidationError represents a configuration validation error.
// It contains the field name and a description of the issue.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationErrors collects every problem found in a Config.
type ValidationErrors []ValidationError

// Error joins all messages.
func (ve ValidationErrors) Error() string {
	messages := make([]string, 0, len(ve))
	for _, e := range ve {
		messages = append(messages, e.Error())
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

// Validate checks that cfg describes a usable window. It returns
// ValidationErrors listing every invalid field, or nil.
func (cfg *Config) Validate() error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	w := cfg.Window
	if w.Width <= 0 || w.Width > maxDimension {
		add("canvas.width", "must be in 1..%d, got %d", maxDimension, w.Width)
	}
	if w.Height <= 0 || w.Height > maxDimension {
		add("canvas.height", "must be in 1..%d, got %d", maxDimension, w.Height)
	}
	if w.TPS <= 0 || w.TPS > maxTPS {
		add("canvas.tps", "must be in 1..%d, got %d", maxTPS, w.TPS)
	}
	if strings.TrimSpace(w.Title) == "" {
		add("canvas.title", "must not be empty")
	}
	if cfg.Sketch.Watch && cfg.Sketch.Path == "" {
		add("canvas.watch", "requires a sketch path")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

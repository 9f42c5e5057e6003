// Package render implements the surface host for living-canvas.
// It owns the window and rendering backend capabilities, acquires a
// drawable surface once per frame and maintains the logical-to-physical
// coordinate transform.
package render

import "math"

// Reference logical canvas size. Sketch code always draws in this space.
const (
	LogicalWidth  = 1280.0
	LogicalHeight = 720.0
)

// targetRatio is the aspect ratio of the logical canvas.
const targetRatio = LogicalWidth / LogicalHeight

// ratioTolerance is how close a window ratio must be to targetRatio to be
// treated as an exact fit.
const ratioTolerance = 0.01

// Vec2 is a 2D point or extent in float64 coordinates.
type Vec2 struct {
	X, Y float64
}

// Transform maps logical coordinates to physical pixels:
// physical = logical*Multiplier + Offset.
type Transform struct {
	Offset     Vec2
	Multiplier float64
}

// Identity is the transform of a window exactly the size of the logical canvas.
var Identity = Transform{Multiplier: 1}

// Fit computes the aspect-preserving transform that centers the logical
// canvas inside a physical framebuffer of width x height pixels, scaling
// uniformly and adding bars on one axis only.
func Fit(width, height int) Transform {
	w, h := float64(width), float64(height)
	ratio := w / h

	switch {
	case math.Abs(ratio-targetRatio) < ratioTolerance:
		return Transform{Multiplier: w / LogicalWidth}
	case ratio > targetRatio:
		// Wider than the canvas: bars left and right.
		hsub := h * targetRatio
		return Transform{
			Offset:     Vec2{X: (w - hsub) / 2},
			Multiplier: hsub / LogicalWidth,
		}
	default:
		// Taller: bars top and bottom.
		vsub := w / targetRatio
		return Transform{
			Offset:     Vec2{Y: (h - vsub) / 2},
			Multiplier: vsub / LogicalHeight,
		}
	}
}

// Point maps a logical position to physical pixels.
func (t Transform) Point(p Vec2) Vec2 {
	return Vec2{
		X: p.X*t.Multiplier + t.Offset.X,
		Y: p.Y*t.Multiplier + t.Offset.Y,
	}
}

// Size maps a logical extent to physical pixels. Offsets do not apply.
func (t Transform) Size(s Vec2) Vec2 {
	return Vec2{X: s.X * t.Multiplier, Y: s.Y * t.Multiplier}
}

// Scalar maps a logical length such as a radius to physical pixels.
func (t Transform) Scalar(v float64) float64 {
	return v * t.Multiplier
}

// Inverse maps a physical pixel position back into logical space.
// A zero multiplier yields the zero vector.
func (t Transform) Inverse(p Vec2) Vec2 {
	if t.Multiplier == 0 {
		return Vec2{}
	}
	return Vec2{
		X: (p.X - t.Offset.X) / t.Multiplier,
		Y: (p.Y - t.Offset.Y) / t.Multiplier,
	}
}

package render

import (
	"fmt"
	"image/color"
)

// BrushStyle selects whether a brush fills or outlines a shape.
type BrushStyle int

const (
	// BrushFill paints the interior of a shape.
	BrushFill BrushStyle = iota
	// BrushStroke paints the outline of a shape with Brush.Width.
	BrushStroke
)

// String returns the string representation of a BrushStyle.
func (s BrushStyle) String() string {
	switch s {
	case BrushFill:
		return "fill"
	case BrushStroke:
		return "stroke"
	default:
		return "unknown"
	}
}

// Brush is a resolved drawing style consumed by Surface draw calls.
// Anti-aliasing is always enabled.
type Brush struct {
	Color color.RGBA
	Style BrushStyle
	// Width is the stroke thickness in physical pixels. Zero for fills.
	Width float64
}

// String implements fmt.Stringer.
func (b Brush) String() string {
	if b.Style == BrushStroke {
		return fmt.Sprintf("stroke(%d,%d,%d,%d w=%g)", b.Color.R, b.Color.G, b.Color.B, b.Color.A, b.Width)
	}
	return fmt.Sprintf("fill(%d,%d,%d,%d)", b.Color.R, b.Color.G, b.Color.B, b.Color.A)
}

// PaintState is the user-visible paint configuration. Nil colors mean
// "no fill" and "no stroke".
type PaintState struct {
	Fill        *color.RGBA
	Stroke      *color.RGBA
	StrokeWidth int
}

// Brushes derives the fill and stroke brushes from a PaintState.
// The stroke brush exists only when a stroke color is set and StrokeWidth > 0.
func (ps PaintState) Brushes() (fill, stroke *Brush) {
	if ps.Fill != nil {
		fill = &Brush{Color: *ps.Fill, Style: BrushFill}
	}
	if ps.Stroke != nil && ps.StrokeWidth > 0 {
		stroke = &Brush{Color: *ps.Stroke, Style: BrushStroke, Width: float64(ps.StrokeWidth)}
	}
	return fill, stroke
}

// ToRGBA converts any color.Color to color.RGBA.
func ToRGBA(c color.Color) color.RGBA {
	if rgba, ok := c.(color.RGBA); ok {
		return rgba
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}

package canvas

import (
	"image/color"
	"math"

	"github.com/opd-ai/livingcanvas/internal/render"
)

// Vec2 is a 2D point or extent in logical canvas units.
type Vec2 = render.Vec2

// V2 returns the vector (x, y).
func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Vec3 is a 3-component vector, typically an RGB colour in 0..1.
type Vec3 struct {
	X, Y, Z float64
}

// V3 returns the vector (x, y, z).
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Color returns v as an opaque colour, reading X, Y and Z as red, green
// and blue.
func (v Vec3) Color() color.NRGBA {
	return render.UnitColor(v.X, v.Y, v.Z, 1)
}

// Vec4 is a 4-component vector, typically an RGBA colour in 0..1.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 returns the vector (x, y, z, w).
func V4(x, y, z, w float64) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

// Color returns v as a non-premultiplied colour with W as alpha.
func (v Vec4) Color() color.NRGBA {
	return render.UnitColor(v.X, v.Y, v.Z, v.W)
}

// Gray returns an opaque grey with all channels set to v in 0..1.
func Gray(v float64) color.NRGBA {
	return render.UnitColor(v, v, v, 1)
}

// RGB returns an opaque colour from components in 0..1.
func RGB(r, g, b float64) color.NRGBA {
	return render.UnitColor(r, g, b, 1)
}

// RGBA returns a colour from non-premultiplied components in 0..1.
func RGBA(r, g, b, a float64) color.NRGBA {
	return render.UnitColor(r, g, b, a)
}

// Hex parses a CSS colour name or #rrggbb / #rrggbbaa string.
func Hex(s string) (color.NRGBA, error) {
	return render.ParseColor(s)
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Min(math.Max(x, lo), hi)
}

// Fract returns the fractional part of x, always in [0, 1).
func Fract(x float64) float64 {
	return x - math.Floor(x)
}

// Lerp interpolates linearly from a to b by t.
func Lerp(a, b, t float64) float64 {
	return (b-a)*t + a
}

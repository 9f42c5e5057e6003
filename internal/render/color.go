package render

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Eight-bit CSS colours accepted by name in configs and sketches.
var NamedColors = map[string]color.NRGBA{
	"black":       {R: 0, G: 0, B: 0, A: 255},
	"white":       {R: 255, G: 255, B: 255, A: 255},
	"red":         {R: 255, G: 0, B: 0, A: 255},
	"green":       {R: 0, G: 128, B: 0, A: 255},
	"blue":        {R: 0, G: 0, B: 255, A: 255},
	"yellow":      {R: 255, G: 255, B: 0, A: 255},
	"cyan":        {R: 0, G: 255, B: 255, A: 255},
	"magenta":     {R: 255, G: 0, B: 255, A: 255},
	"gray":        {R: 128, G: 128, B: 128, A: 255},
	"grey":        {R: 128, G: 128, B: 128, A: 255},
	"orange":      {R: 255, G: 165, B: 0, A: 255},
	"purple":      {R: 128, G: 0, B: 128, A: 255},
	"pink":        {R: 255, G: 192, B: 203, A: 255},
	"lime":        {R: 0, G: 255, B: 0, A: 255},
	"navy":        {R: 0, G: 0, B: 128, A: 255},
	"teal":        {R: 0, G: 128, B: 128, A: 255},
	"gold":        {R: 255, G: 215, B: 0, A: 255},
	"crimson":     {R: 220, G: 20, B: 60, A: 255},
	"greenyellow": {R: 173, G: 255, B: 47, A: 255},
	"transparent": {R: 0, G: 0, B: 0, A: 0},
}

// DefaultBackground is the colour every frame is cleared to before the
// frame handlers run.
var DefaultBackground = NamedColors["greenyellow"]

// ParseColor parses a CSS colour name or a hex colour in #rgb, #rgba,
// #rrggbb or #rrggbbaa form. The leading '#' is optional for hex.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if c, ok := NamedColors[strings.ToLower(s)]; ok {
		return c, nil
	}

	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3, 4:
		// Shorthand: each digit is doubled.
		var sb strings.Builder
		for _, r := range hex {
			sb.WriteRune(r)
			sb.WriteRune(r)
		}
		hex = sb.String()
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("unrecognized color format: %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// UnitColor builds a colour from components in the 0..1 range,
// clamping out-of-range values.
func UnitColor(r, g, b, a float64) color.NRGBA {
	return color.NRGBA{R: unitByte(r), G: unitByte(g), B: unitByte(b), A: unitByte(a)}
}

func unitByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// ToHex formats c as #rrggbbaa.
func ToHex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}

package window

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/opd-ai/livingcanvas/internal/render"
)

const (
	hudFontSize = 13.0
	hudMargin   = 8.0
)

var hudColor = color.RGBA{R: 255, G: 255, B: 255, A: 230}

// HUD draws frame statistics over the canvas.
type HUD struct {
	face *text.GoTextFace
}

// NewHUD loads the embedded Go Mono font for the overlay.
func NewHUD() (*HUD, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		return nil, fmt.Errorf("load hud font: %w", err)
	}
	return &HUD{face: &text.GoTextFace{Source: src, Size: hudFontSize}}, nil
}

// Lines returns the overlay text for a framebuffer of the given size.
func (h *HUD) Lines(width, height int, fps, tps float64) []string {
	t := render.Fit(width, height)
	return []string{
		fmt.Sprintf("fps %.1f  tps %.1f", fps, tps),
		fmt.Sprintf("%dx%d  offset (%.1f, %.1f)  x%.3f", width, height, t.Offset.X, t.Offset.Y, t.Multiplier),
	}
}

// Draw renders the overlay in the top-left corner of screen.
func (h *HUD) Draw(screen *ebiten.Image, width, height int) {
	lineHeight := hudFontSize * 1.2
	for i, line := range h.Lines(width, height, ebiten.ActualFPS(), ebiten.ActualTPS()) {
		op := &text.DrawOptions{}
		op.GeoM.Translate(hudMargin, hudMargin+float64(i)*lineHeight)
		op.ColorScale.ScaleWithColor(hudColor)
		text.Draw(screen, line, h.face, op)
	}
}

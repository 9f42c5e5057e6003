//go:build !noebiten

package canvas

import (
	"github.com/opd-ai/livingcanvas/internal/render"
	"github.com/opd-ai/livingcanvas/internal/window"
)

// newWindow creates the Ebiten window driver, which serves as both the
// window and the rendering backend.
func newWindow(o Options) (render.Window, render.Backend, error) {
	d, err := window.New(window.Config{
		Width:  o.Width,
		Height: o.Height,
		Title:  o.Title,
		HUD:    o.HUD,
		Above:  o.Above,
		Sticky: o.Sticky,
		Logger: o.Logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return d, d, nil
}

//go:build noebiten

package canvas

import (
	"errors"

	"github.com/opd-ai/livingcanvas/internal/render"
)

// newWindow fails in noebiten builds; only Offscreen canvases are available.
func newWindow(Options) (render.Window, render.Backend, error) {
	return nil, nil, errors.New("built without a window backend (noebiten); use Options.Offscreen")
}

//go:build linux

package window

import (
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// hintApplier sets EWMH _NET_WM_STATE hints on the canvas window.
// It caches the X11 connection and interned atoms.
type hintApplier struct {
	mu    sync.Mutex
	conn  *xgb.Conn
	atoms map[string]xproto.Atom
}

var hints = &hintApplier{atoms: make(map[string]xproto.Atom)}

// ApplyWindowHints requests _NET_WM_STATE_ABOVE and/or _NET_WM_STATE_STICKY
// for the active window. It must run after the window has been mapped.
// Environments without an X server are silently ignored.
func ApplyWindowHints(above, sticky bool) error {
	var names []string
	if above {
		names = append(names, "_NET_WM_STATE_ABOVE")
	}
	if sticky {
		names = append(names, "_NET_WM_STATE_STICKY")
	}
	if len(names) == 0 {
		return nil
	}
	return hints.apply(names)
}

func (h *hintApplier) apply(names []string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.conn == nil {
		conn, err := xgb.NewConn()
		if err != nil {
			return nil // no X11, e.g. Wayland without XWayland
		}
		h.conn = conn
	}

	win, err := h.activeWindow()
	if err != nil || win == xproto.WindowNone {
		return nil
	}

	stateAtom, err := h.atom("_NET_WM_STATE")
	if err != nil {
		return nil
	}
	atomType, err := h.atom("ATOM")
	if err != nil {
		return nil
	}

	set, _ := h.windowState(win, stateAtom, atomType)
	seen := make(map[xproto.Atom]bool, len(set))
	for _, a := range set {
		seen[a] = true
	}
	for _, name := range names {
		a, err := h.atom(name)
		if err == nil && !seen[a] {
			set = append(set, a)
			seen[a] = true
		}
	}

	data := make([]byte, len(set)*4)
	for i, a := range set {
		xgb.Put32(data[i*4:], uint32(a))
	}
	xproto.ChangeProperty(h.conn, xproto.PropModeReplace, win,
		stateAtom, atomType, 32, uint32(len(set)), data)
	return nil
}

func (h *hintApplier) atom(name string) (xproto.Atom, error) {
	if a, ok := h.atoms[name]; ok {
		return a, nil
	}
	reply, err := xproto.InternAtom(h.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	h.atoms[name] = reply.Atom
	return reply.Atom, nil
}

// activeWindow returns _NET_ACTIVE_WINDOW, falling back to the input focus.
func (h *hintApplier) activeWindow() (xproto.Window, error) {
	setup := xproto.Setup(h.conn)
	if len(setup.Roots) == 0 {
		return xproto.WindowNone, nil
	}
	root := setup.Roots[0].Root

	if active, err := h.atom("_NET_ACTIVE_WINDOW"); err == nil {
		reply, err := xproto.GetProperty(h.conn, false, root, active, xproto.AtomWindow, 0, 1).Reply()
		if err == nil && reply != nil && len(reply.Value) >= 4 {
			return xproto.Window(xgb.Get32(reply.Value)), nil
		}
	}

	focus, err := xproto.GetInputFocus(h.conn).Reply()
	if err != nil {
		return xproto.WindowNone, err
	}
	return focus.Focus, nil
}

func (h *hintApplier) windowState(win xproto.Window, state, atomType xproto.Atom) ([]xproto.Atom, error) {
	reply, err := xproto.GetProperty(h.conn, false, win, state, atomType, 0, 256).Reply()
	if err != nil || reply == nil {
		return nil, err
	}
	atoms := make([]xproto.Atom, 0, len(reply.Value)/4)
	for i := 0; i+4 <= len(reply.Value); i += 4 {
		atoms = append(atoms, xproto.Atom(xgb.Get32(reply.Value[i:])))
	}
	return atoms, nil
}

// CloseWindowHints releases the X11 connection.
func CloseWindowHints() {
	hints.mu.Lock()
	defer hints.mu.Unlock()
	if hints.conn != nil {
		hints.conn.Close()
		hints.conn = nil
	}
	hints.atoms = make(map[string]xproto.Atom)
}

package lua

import (
	"fmt"
)

// HookType identifies a sketch callback.
type HookType int

const (
	// HookInvalid represents an invalid or unknown hook type.
	HookInvalid HookType = iota

	// HookSetup runs once after the sketch is loaded or reloaded, inside
	// the first frame so it may draw.
	HookSetup

	// HookFrame runs every frame as frame(t). It is required.
	HookFrame

	// HookClick runs on a pointer press as click(t, x, y) with raw window
	// coordinates.
	HookClick
)

// String returns the string representation of a HookType.
func (h HookType) String() string {
	switch h {
	case HookSetup:
		return "setup"
	case HookFrame:
		return "frame"
	case HookClick:
		return "click"
	case HookInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// LuaFunctionName returns the global Lua function name for a hook type.
func (h HookType) LuaFunctionName() string {
	return h.String()
}

// ParseHookType parses a string into a HookType.
// Returns HookInvalid and an error if the string is not a valid hook type.
func ParseHookType(s string) (HookType, error) {
	switch s {
	case "setup":
		return HookSetup, nil
	case "frame":
		return HookFrame, nil
	case "click":
		return HookClick, nil
	default:
		return HookInvalid, fmt.Errorf("unknown hook type: %s", s)
	}
}

// hookSet records which hooks a loaded sketch defines.
type hookSet map[HookType]bool

// scanHooks looks up the standard hook functions in r.
func scanHooks(r *Runtime) hookSet {
	hooks := hookSet{}
	for _, h := range []HookType{HookSetup, HookFrame, HookClick} {
		if r.HasFunction(h.LuaFunctionName()) {
			hooks[h] = true
		}
	}
	return hooks
}

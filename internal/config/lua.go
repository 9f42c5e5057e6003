package config

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/livingcanvas/internal/render"
)

// Resource limits for executing a configuration chunk.
const (
	configCPULimit    = 10_000_000
	configMemoryLimit = 50 * 1024 * 1024 // 50 MB
)

// LuaConfigParser parses Lua configuration files. It executes the file in
// a fresh golua runtime and reads the global canvas table.
type LuaConfigParser struct {
	runtime *rt.Runtime
	cleanup func()
	mu      sync.Mutex
}

// NewLuaConfigParser creates a new LuaConfigParser with a fresh Lua runtime.
func NewLuaConfigParser() (*LuaConfigParser, error) {
	return NewLuaConfigParserWithOutput(io.Discard)
}

// NewLuaConfigParserWithOutput creates a LuaConfigParser whose print
// output goes to stdout. A nil writer means os.Stdout.
func NewLuaConfigParserWithOutput(stdout io.Writer) (*LuaConfigParser, error) {
	if stdout == nil {
		stdout = os.Stdout
	}

	runtime := rt.New(stdout)
	cleanup := lib.LoadAll(runtime)

	return &LuaConfigParser{
		runtime: runtime,
		cleanup: cleanup,
	}, nil
}

// Parse executes content and extracts the configuration from the canvas
// table. Fields that are not set keep their defaults; a chunk that does not
// assign canvas at all yields DefaultConfig.
func (p *LuaConfigParser) Parse(content []byte) (cfg *Config, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// golua panics when a hard resource limit is exceeded.
	defer func() {
		if r := recover(); r != nil {
			cfg, err = nil, fmt.Errorf("failed to execute Lua configuration: %v", r)
		}
	}()

	p.runtime.GlobalEnv().Set(rt.StringValue("canvas"), rt.NilValue)

	closure, err := p.runtime.CompileAndLoadLuaChunk(
		"config",
		content,
		rt.TableValue(p.runtime.GlobalEnv()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile Lua configuration: %w", err)
	}

	ctx := rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    configCPULimit,
			Memory: configMemoryLimit,
		},
	}
	p.runtime.PushContext(ctx)
	defer p.runtime.PopContext()

	thread := p.runtime.MainThread()
	if _, err = rt.Call1(thread, rt.FunctionValue(closure)); err != nil {
		return nil, fmt.Errorf("failed to execute Lua configuration: %w", err)
	}

	return p.extractConfig()
}

func (p *LuaConfigParser) extractConfig() (*Config, error) {
	cfg := DefaultConfig()

	val := p.runtime.GlobalEnv().Get(rt.StringValue("canvas"))
	if val == rt.NilValue {
		return &cfg, nil
	}
	table, ok := val.TryTable()
	if !ok {
		return nil, fmt.Errorf("canvas is not a table")
	}

	if err := extractCanvasTable(&cfg, table); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func extractCanvasTable(cfg *Config, table *rt.Table) error {
	if v := getTableInt(table, "width"); v != nil {
		cfg.Window.Width = *v
	}
	if v := getTableInt(table, "height"); v != nil {
		cfg.Window.Height = *v
	}
	if v := getTableInt(table, "tps"); v != nil {
		cfg.Window.TPS = *v
	}
	if v := getTableString(table, "title"); v != nil {
		cfg.Window.Title = *v
	}
	if v := getTableBool(table, "hud"); v != nil {
		cfg.Window.HUD = *v
	}
	if v := getTableBool(table, "above"); v != nil {
		cfg.Window.Above = *v
	}
	if v := getTableBool(table, "sticky"); v != nil {
		cfg.Window.Sticky = *v
	}
	if v := getTableString(table, "background"); v != nil {
		c, err := render.ParseColor(ExpandEnv(*v))
		if err != nil {
			return fmt.Errorf("invalid background: %w", err)
		}
		cfg.Window.Background = c
	}
	if v := getTableString(table, "sketch"); v != nil {
		cfg.Sketch.Path = *v
	}
	if v := getTableBool(table, "watch"); v != nil {
		cfg.Sketch.Watch = *v
	}
	return nil
}

// Close releases resources associated with the parser's Lua runtime.
func (p *LuaConfigParser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cleanup != nil {
		p.cleanup()
		p.cleanup = nil
	}
	return nil
}

// getTableBool retrieves a boolean value from a Lua table.
// Returns nil if the key doesn't exist or is not a boolean.
func getTableBool(table *rt.Table, key string) *bool {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}

	if b, ok := val.TryBool(); ok {
		return &b
	}

	// Strings such as "${CANVAS_HUD:-no}" are expanded first.
	if s, ok := val.TryString(); ok {
		b := parseBool(ExpandEnv(s))
		return &b
	}

	return nil
}

// getTableString retrieves a string value from a Lua table.
// Returns nil if the key doesn't exist or is not a string.
func getTableString(table *rt.Table, key string) *string {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}

	if s, ok := val.TryString(); ok {
		return &s
	}

	return nil
}

// getTableInt retrieves an int value from a Lua table.
// Returns nil if the key doesn't exist or is not a number.
func getTableInt(table *rt.Table, key string) *int {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}

	if n, ok := val.TryInt(); ok {
		i := int(n)
		return &i
	}

	// Try float conversion (truncate)
	if f, ok := val.TryFloat(); ok {
		i := int(f)
		return &i
	}

	return nil
}

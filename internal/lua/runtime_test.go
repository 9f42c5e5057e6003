package lua

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	rt "github.com/arnodel/golua/runtime"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config.CPULimit != 10_000_000 {
		t.Errorf("expected CPULimit 10000000, got %d", config.CPULimit)
	}
	if config.MemoryLimit != 50*1024*1024 {
		t.Errorf("expected MemoryLimit %d, got %d", 50*1024*1024, config.MemoryLimit)
	}
}

func TestRuntimeExecuteString(t *testing.T) {
	r := NewRuntime(RuntimeConfig{CPULimit: 1_000_000, MemoryLimit: 10 * 1024 * 1024})
	defer r.Close()

	result, err := r.ExecuteString("sum", `
		local sum = 0
		for i = 1, 10 do sum = sum + i end
		return sum
	`)
	if err != nil {
		t.Fatalf("ExecuteString failed: %v", err)
	}
	if got, ok := rt.ToInt(result); !ok || got != 55 {
		t.Errorf("expected 55, got %v", result)
	}
}

func TestRuntimeErrors(t *testing.T) {
	r := NewRuntime(DefaultConfig())
	defer r.Close()

	tests := []struct {
		name string
		code string
	}{
		{"syntax", "function ("},
		{"runtime", "error('boom')"},
		{"nil call", "undefined_function()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.ExecuteString(tt.name, tt.code); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRuntimeOutput(t *testing.T) {
	var stdout bytes.Buffer
	r := NewRuntime(RuntimeConfig{Stdout: &stdout})
	defer r.Close()

	if _, err := r.ExecuteString("print", `print("hello canvas")`); err != nil {
		t.Fatalf("ExecuteString failed: %v", err)
	}
	if !strings.Contains(r.Output(), "hello canvas") {
		t.Errorf("captured output = %q", r.Output())
	}
	if !strings.Contains(stdout.String(), "hello canvas") {
		t.Errorf("stdout = %q", stdout.String())
	}

	r.ClearOutput()
	if r.Output() != "" {
		t.Errorf("output after clear = %q", r.Output())
	}
}

func TestRuntimeCallFunction(t *testing.T) {
	r := NewRuntime(DefaultConfig())
	defer r.Close()

	if _, err := r.ExecuteString("def", `function double(x) return x * 2 end`); err != nil {
		t.Fatalf("ExecuteString failed: %v", err)
	}
	if !r.HasFunction("double") {
		t.Fatal("double not defined")
	}

	result, err := r.CallFunction("double", rt.IntValue(21))
	if err != nil {
		t.Fatalf("CallFunction failed: %v", err)
	}
	if got, ok := rt.ToInt(result); !ok || got != 42 {
		t.Errorf("double(21) = %v, want 42", result)
	}

	if _, err := r.CallFunction("missing"); err == nil {
		t.Error("expected error for missing function")
	}
	if r.HasFunction("missing") {
		t.Error("HasFunction reported a missing function")
	}
}

func TestRuntimeGlobals(t *testing.T) {
	r := NewRuntime(DefaultConfig())
	defer r.Close()

	r.SetGlobal("answer", rt.IntValue(42))
	if got, ok := rt.ToInt(r.GetGlobal("answer")); !ok || got != 42 {
		t.Errorf("answer = %v", r.GetGlobal("answer"))
	}
}

func TestRuntimeResourceLimits(t *testing.T) {
	r := NewRuntime(RuntimeConfig{CPULimit: 100, MemoryLimit: 1024 * 1024})
	defer r.Close()

	_, err := r.ExecuteString("heavy", `
		local sum = 0
		for i = 1, 100000 do sum = sum + i end
		return sum
	`)
	if err == nil {
		t.Error("expected error from CPU limit")
	}
}

func TestRuntimeSetGoFunction(t *testing.T) {
	r := NewRuntime(DefaultConfig())
	defer r.Close()

	called := 0
	r.SetGoFunction("ping", func(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
		called++
		return c.PushingNext1(t.Runtime, rt.StringValue("pong")), nil
	}, 0, false)

	result, err := r.ExecuteString("ping", `return ping()`)
	if err != nil {
		t.Fatalf("ExecuteString failed: %v", err)
	}
	if s, _ := result.TryString(); s != "pong" || called != 1 {
		t.Errorf("ping() = %v, called %d times", result, called)
	}
}

func TestRuntimeLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunk.lua")
	if err := os.WriteFile(path, []byte("answer = 6 * 7"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRuntime(DefaultConfig())
	defer r.Close()

	chunk, err := r.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if _, err := r.Execute(chunk); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got, ok := rt.ToInt(r.GetGlobal("answer")); !ok || got != 42 {
		t.Errorf("answer = %v, want 42", got)
	}

	if _, err := r.LoadFile(filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Error("LoadFile of a missing file succeeded")
	}
}

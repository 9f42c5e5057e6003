package profiling

import (
	"os"
	"path/filepath"
	"testing"
)

func fileNotEmpty(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("%s: %v", filepath.Base(path), err)
		return
	}
	if info.Size() == 0 {
		t.Errorf("%s is empty", filepath.Base(path))
	}
}

func TestProfilerStartStop(t *testing.T) {
	dir := t.TempDir()
	config := Config{
		CPUProfilePath: filepath.Join(dir, "cpu.prof"),
		MemProfilePath: filepath.Join(dir, "mem.prof"),
		TracePath:      filepath.Join(dir, "trace.out"),
	}
	p := New(config)

	if err := p.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if !p.IsRunning() {
		t.Error("IsRunning() should return true after Start()")
	}
	if err := p.Start(); err == nil {
		t.Error("Start() should fail when already running")
	}

	if err := p.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if p.IsRunning() {
		t.Error("IsRunning() should return false after Stop()")
	}

	fileNotEmpty(t, config.CPUProfilePath)
	fileNotEmpty(t, config.MemProfilePath)
	fileNotEmpty(t, config.TracePath)
}

func TestProfilerStopWithoutStart(t *testing.T) {
	if err := New(Config{}).Stop(); err == nil {
		t.Error("Stop() should fail when profiler is not running")
	}
}

func TestProfilerNoProfiles(t *testing.T) {
	p := New(Config{})
	if err := p.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if err := p.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
}

func TestProfilerRestart(t *testing.T) {
	dir := t.TempDir()
	p := New(Config{CPUProfilePath: filepath.Join(dir, "cpu.prof")})
	for i := 0; i < 2; i++ {
		if err := p.Start(); err != nil {
			t.Fatalf("Start() #%d failed: %v", i, err)
		}
		if err := p.Stop(); err != nil {
			t.Fatalf("Stop() #%d failed: %v", i, err)
		}
	}
}

func TestProfilerInvalidPaths(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing", "out")

	tests := []struct {
		name   string
		config Config
	}{
		{"cpu", Config{CPUProfilePath: missing}},
		{"trace", Config{TracePath: missing}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.config)
			if err := p.Start(); err == nil {
				t.Error("Start() should fail for an invalid path")
			}
			if p.IsRunning() {
				t.Error("profiler running after failed Start()")
			}
		})
	}

	p := New(Config{MemProfilePath: missing})
	if err := p.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if err := p.Stop(); err == nil {
		t.Error("Stop() should fail for an invalid memory profile path")
	}
}

func TestTraceFailureStopsCPUProfile(t *testing.T) {
	dir := t.TempDir()
	p := New(Config{
		CPUProfilePath: filepath.Join(dir, "cpu.prof"),
		TracePath:      filepath.Join(dir, "missing", "trace.out"),
	})
	if err := p.Start(); err == nil {
		t.Fatal("Start() should fail")
	}

	// CPU profiling must have been stopped, so a new session can start it.
	p2 := New(Config{CPUProfilePath: filepath.Join(dir, "cpu2.prof")})
	if err := p2.Start(); err != nil {
		t.Fatalf("second Start() failed: %v", err)
	}
	if err := p2.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
}

func TestConfigEnabled(t *testing.T) {
	tests := []struct {
		config Config
		want   bool
	}{
		{Config{}, false},
		{Config{CPUProfilePath: "cpu"}, true},
		{Config{MemProfilePath: "mem"}, true},
		{Config{TracePath: "trace"}, true},
	}
	for _, tt := range tests {
		if got := tt.config.Enabled(); got != tt.want {
			t.Errorf("%+v.Enabled() = %v, want %v", tt.config, got, tt.want)
		}
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ParseFile reads, parses and validates a configuration file. Environment
// variables in string values are expanded and a relative sketch path is
// resolved against the directory of path.
func ParseFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	p, err := NewLuaConfigParser()
	if err != nil {
		return nil, fmt.Errorf("failed to create Lua parser: %w", err)
	}
	defer p.Close()

	cfg, err := p.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	ExpandEnvConfig(cfg)
	if cfg.Sketch.Path != "" && !filepath.IsAbs(cfg.Sketch.Path) {
		cfg.Sketch.Path = filepath.Join(filepath.Dir(path), cfg.Sketch.Path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// parseBool parses a boolean from a string ("yes", "true", "1" are true).
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true
	default:
		return false
	}
}

package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		modify     func(c *Config)
		wantFields []string
	}{
		{"defaults", func(c *Config) {}, nil},
		{"zero width", func(c *Config) { c.Window.Width = 0 }, []string{"canvas.width"}},
		{"huge height", func(c *Config) { c.Window.Height = 1 << 20 }, []string{"canvas.height"}},
		{"zero tps", func(c *Config) { c.Window.TPS = 0 }, []string{"canvas.tps"}},
		{"blank title", func(c *Config) { c.Window.Title = "  " }, []string{"canvas.title"}},
		{"watch without sketch", func(c *Config) { c.Sketch.Watch = true }, []string{"canvas.watch"}},
		{
			name: "multiple",
			modify: func(c *Config) {
				c.Window.Width = -1
				c.Window.TPS = 5000
			},
			wantFields: []string{"canvas.width", "canvas.tps"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()

			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("Validate() = %v, want ValidationErrors", err)
			}
			if len(verrs) != len(tt.wantFields) {
				t.Fatalf("errors = %v, want fields %v", verrs, tt.wantFields)
			}
			for i, f := range tt.wantFields {
				if verrs[i].Field != f {
					t.Errorf("error %d field = %q, want %q", i, verrs[i].Field, f)
				}
				if !strings.Contains(err.Error(), f) {
					t.Errorf("message %q does not mention %q", err.Error(), f)
				}
			}
		})
	}
}

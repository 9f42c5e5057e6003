package render

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		input   string
		want    color.NRGBA
		wantErr bool
	}{
		{"red", color.NRGBA{R: 255, A: 255}, false},
		{"GreenYellow", color.NRGBA{R: 173, G: 255, B: 47, A: 255}, false},
		{"#ff0000", color.NRGBA{R: 255, A: 255}, false},
		{"00ff00", color.NRGBA{G: 255, A: 255}, false},
		{"#0000ff80", color.NRGBA{B: 255, A: 128}, false},
		{"#fff", color.NRGBA{R: 255, G: 255, B: 255, A: 255}, false},
		{"#f008", color.NRGBA{R: 255, A: 0x88}, false},
		{"  #123456  ", color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 255}, false},
		{"", color.NRGBA{}, true},
		{"#12345", color.NRGBA{}, true},
		{"#gggggg", color.NRGBA{}, true},
		{"notacolor", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestUnitColor(t *testing.T) {
	tests := []struct {
		name       string
		r, g, b, a float64
		want       color.NRGBA
	}{
		{"black", 0, 0, 0, 1, color.NRGBA{A: 255}},
		{"white", 1, 1, 1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{"half", 0.5, 0.5, 0.5, 0.5, color.NRGBA{R: 128, G: 128, B: 128, A: 128}},
		{"clamped", -1, 2, 0, 1, color.NRGBA{G: 255, A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UnitColor(tt.r, tt.g, tt.b, tt.a); got != tt.want {
				t.Errorf("UnitColor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToHex(t *testing.T) {
	if got := ToHex(color.NRGBA{R: 0xad, G: 0xff, B: 0x2f, A: 0xff}); got != "#adff2fff" {
		t.Errorf("ToHex = %q, want #adff2fff", got)
	}
}

package render

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestFitMatchingRatio(t *testing.T) {
	tests := []struct {
		name           string
		width, height  int
		wantMultiplier float64
	}{
		{"reference size", 1280, 720, 1},
		{"double", 2560, 1440, 2},
		{"half", 640, 360, 0.5},
		{"full hd", 1920, 1080, 1.5},
		{"within tolerance", 1282, 720, 1282.0 / 1280},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := Fit(tt.width, tt.height)
			if tr.Offset != (Vec2{}) {
				t.Errorf("Offset = %+v, want zero", tr.Offset)
			}
			if !approxEqual(tr.Multiplier, tt.wantMultiplier) {
				t.Errorf("Multiplier = %v, want %v", tr.Multiplier, tt.wantMultiplier)
			}
		})
	}
}

func TestFitWiderWindow(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"ultrawide", 1920, 600},
		{"square-ish wide", 3000, 1000},
		{"tall bars", 2000, 720},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := Fit(tt.width, tt.height)
			if tr.Offset.Y != 0 {
				t.Errorf("Offset.Y = %v, want 0", tr.Offset.Y)
			}
			if tr.Offset.X <= 0 {
				t.Errorf("Offset.X = %v, want > 0", tr.Offset.X)
			}

			hsub := float64(tt.height) * targetRatio
			topLeft := tr.Point(Vec2{})
			bottomRight := tr.Point(Vec2{X: LogicalWidth, Y: LogicalHeight})

			wantLeft := (float64(tt.width) - hsub) / 2
			if !approxEqual(topLeft.X, wantLeft) || !approxEqual(topLeft.Y, 0) {
				t.Errorf("top-left = %+v, want (%v, 0)", topLeft, wantLeft)
			}
			if !approxEqual(bottomRight.X, wantLeft+hsub) || !approxEqual(bottomRight.Y, float64(tt.height)) {
				t.Errorf("bottom-right = %+v, want (%v, %d)", bottomRight, wantLeft+hsub, tt.height)
			}
		})
	}
}

func TestFitTallerWindow(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"portrait", 800, 900},
		{"classic 4:3", 800, 600},
		{"phone", 720, 1280},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := Fit(tt.width, tt.height)
			if tr.Offset.X != 0 {
				t.Errorf("Offset.X = %v, want 0", tr.Offset.X)
			}

			vsub := float64(tt.width) / targetRatio
			wantTop := (float64(tt.height) - vsub) / 2
			if !approxEqual(tr.Offset.Y, wantTop) {
				t.Errorf("Offset.Y = %v, want %v", tr.Offset.Y, wantTop)
			}
			if !approxEqual(tr.Multiplier, vsub/LogicalHeight) {
				t.Errorf("Multiplier = %v, want %v", tr.Multiplier, vsub/LogicalHeight)
			}

			bottomRight := tr.Point(Vec2{X: LogicalWidth, Y: LogicalHeight})
			if !approxEqual(bottomRight.X, float64(tt.width)) {
				t.Errorf("bottom-right X = %v, want %d", bottomRight.X, tt.width)
			}
			if !approxEqual(bottomRight.Y, wantTop+vsub) {
				t.Errorf("bottom-right Y = %v, want %v", bottomRight.Y, wantTop+vsub)
			}
		})
	}
}

func TestFitIsDeterministic(t *testing.T) {
	sizes := [][2]int{{1280, 720}, {1920, 600}, {800, 900}, {1, 1}, {4096, 2160}}
	for _, s := range sizes {
		first := Fit(s[0], s[1])
		second := Fit(s[0], s[1])
		if first != second {
			t.Errorf("Fit(%d, %d) not idempotent: %+v vs %+v", s[0], s[1], first, second)
		}
	}
}

func TestTransformMapping(t *testing.T) {
	tr := Transform{Offset: Vec2{X: 100, Y: 0}, Multiplier: 2}

	if got := tr.Point(Vec2{X: 25, Y: 25}); got != (Vec2{X: 150, Y: 50}) {
		t.Errorf("Point = %+v, want (150, 50)", got)
	}
	if got := tr.Size(Vec2{X: 10, Y: 20}); got != (Vec2{X: 20, Y: 40}) {
		t.Errorf("Size = %+v, want (20, 40)", got)
	}
	if got := tr.Scalar(7); got != 14 {
		t.Errorf("Scalar = %v, want 14", got)
	}
	if got := tr.Inverse(Vec2{X: 150, Y: 50}); got != (Vec2{X: 25, Y: 25}) {
		t.Errorf("Inverse = %+v, want (25, 25)", got)
	}
	if got := (Transform{}).Inverse(Vec2{X: 3, Y: 4}); got != (Vec2{}) {
		t.Errorf("Inverse with zero multiplier = %+v, want zero", got)
	}
}

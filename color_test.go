package adcanvas

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	def := color.NRGBA{R: 1, G: 2, B: 3, A: 4}

	tests := []struct {
		name string
		in   any
		want color.NRGBA
	}{
		{"hex six", "#FF0000", color.NRGBA{255, 0, 0, 255}},
		{"hex six lowercase", "#ff8800", color.NRGBA{255, 136, 0, 255}},
		{"hex three", "#F0A", color.NRGBA{255, 0, 170, 255}},
		{"hex eight", "#00FF0080", color.NRGBA{0, 255, 0, 128}},
		{"rgb", "rgb(10, 20, 30)", color.NRGBA{10, 20, 30, 255}},
		{"rgb percent", "rgb(100%, 0%, 50%)", color.NRGBA{255, 0, 128, 255}},
		{"rgba", "rgba(0, 0, 0, 0.5)", color.NRGBA{0, 0, 0, 128}},
		{"rgba alpha clamped", "rgba(1, 2, 3, 7.5)", color.NRGBA{1, 2, 3, 255}},
		{"rgb channel clamped", "rgb(300, 0, 0)", color.NRGBA{255, 0, 0, 255}},
		{"named", "white", color.NRGBA{255, 255, 255, 255}},
		{"named mixed case", " NaVy ", color.NRGBA{0, 0, 128, 255}},
		{"transparent", "transparent", color.NRGBA{0, 0, 0, 0}},
		{"tuple three", []any{float64(9), float64(8), float64(7)}, color.NRGBA{9, 8, 7, 255}},
		{"tuple four", []any{float64(1), float64(2), float64(3), float64(128)}, color.NRGBA{1, 2, 3, 128}},
		{"tuple clamped", []any{float64(999), float64(-5), float64(0)}, color.NRGBA{255, 0, 0, 255}},
		{"int tuple", []int{10, 20, 30}, color.NRGBA{10, 20, 30, 255}},
		{"garbage string", "not-a-color", def},
		{"bad hex", "#GGHHII", def},
		{"short tuple", []any{float64(1)}, def},
		{"nil", nil, def},
		{"unsupported type", 42, def},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseColor(tt.in, def)
			if got != tt.want {
				t.Errorf("ParseColor(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseColorNeverPanics(t *testing.T) {
	for _, v := range []any{"", "rgb()", "rgba(,,,)", "#", []any{}, map[string]any{}} {
		_ = ParseColor(v, color.NRGBA{})
	}
}

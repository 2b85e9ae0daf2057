package adcanvas

import (
	"image/color"
	"math"
	"testing"

	"github.com/disintegration/imaging"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	green = color.NRGBA{G: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

func TestCompositeEmpty(t *testing.T) {
	out := composite(nil, 50, 40, white)
	if got := out.Bounds(); got.Dx() != 50 || got.Dy() != 40 {
		t.Fatalf("bounds = %v, want 50x40", got)
	}
	if got := pixAt(out, 25, 20); got != white {
		t.Errorf("pixel = %v, want background %v", got, white)
	}
}

func TestCompositeStackingOrder(t *testing.T) {
	layers := []*Layer{
		solidLayer(10, 10, 30, 30, red, nil),
		solidLayer(20, 20, 30, 30, blue, nil),
	}
	out := composite(layers, 100, 100, white)

	if got := pixAt(out, 12, 12); got != red {
		t.Errorf("red-only region = %v, want %v", got, red)
	}
	// The overlap must show the later layer.
	if got := pixAt(out, 25, 25); got != blue {
		t.Errorf("overlap = %v, want later layer %v", got, blue)
	}
	if got := pixAt(out, 45, 45); got != blue {
		t.Errorf("blue-only region = %v, want %v", got, blue)
	}
	if got := pixAt(out, 60, 60); got != white {
		t.Errorf("uncovered region = %v, want background", got)
	}
}

func TestCompositeOutOfBoundsClipped(t *testing.T) {
	// A layer straddling the top-left corner: only its lower-right
	// quadrant lands on the canvas, at the correct position.
	layers := []*Layer{solidLayer(-50, -50, 100, 100, red, nil)}
	out := composite(layers, 100, 100, white)

	if got := pixAt(out, 10, 10); got != red {
		t.Errorf("inside clipped region = %v, want %v", got, red)
	}
	if got := pixAt(out, 60, 60); got != white {
		t.Errorf("outside clipped region = %v, want background", got)
	}

	// A layer entirely off-canvas leaves the background untouched.
	out = composite([]*Layer{solidLayer(500, 0, 10, 10, red, nil)}, 100, 100, white)
	for _, p := range [][2]int{{0, 0}, {99, 0}, {50, 50}, {99, 99}} {
		if got := pixAt(out, p[0], p[1]); got != white {
			t.Fatalf("pixel (%d,%d) = %v, want background", p[0], p[1], got)
		}
	}
}

func TestCompositeOpacityScalesExistingAlpha(t *testing.T) {
	// A layer with a per-pixel alpha gradient and opacity 0.5: every
	// output alpha must be half the original, within rounding.
	img := imaging.New(16, 1, color.NRGBA{})
	for x := 0; x < 16; x++ {
		img.SetNRGBA(x, 0, color.NRGBA{R: 255, A: uint8(x * 17)})
	}
	el := &Element{Opacity: fptr(0.5)}
	scaled := withScaledAlpha(img, el.opacity())
	for x := 0; x < 16; x++ {
		orig := float64(x * 17)
		got := float64(scaled.NRGBAAt(x, 0).A)
		if math.Abs(got-orig*0.5) > 1 {
			t.Errorf("alpha at x=%d: got %v, want %v +-1", x, got, orig*0.5)
		}
	}
}

func TestCompositeOpacityBlend(t *testing.T) {
	// Opaque red at 50% opacity over white blends to pink.
	el := &Element{Opacity: fptr(0.5)}
	layers := []*Layer{solidLayer(0, 0, 10, 10, red, el)}
	out := composite(layers, 10, 10, white)

	got := pixAt(out, 5, 5)
	if math.Abs(float64(got.R)-255) > 1 || math.Abs(float64(got.G)-127) > 2 || math.Abs(float64(got.B)-127) > 2 {
		t.Errorf("blended pixel = %v, want ~{255,127,127,255}", got)
	}
	if got.A != 255 {
		t.Errorf("alpha = %d, want 255 (opaque background)", got.A)
	}
}

func TestCompositeTransparentBackground(t *testing.T) {
	out := composite([]*Layer{solidLayer(0, 0, 5, 5, green, nil)}, 20, 20, color.NRGBA{})
	if got := pixAt(out, 2, 2); got != green {
		t.Errorf("layer pixel = %v, want %v", got, green)
	}
	if got := pixAt(out, 15, 15); got.A != 0 {
		t.Errorf("empty pixel alpha = %d, want 0", got.A)
	}
}

func TestCropToBox(t *testing.T) {
	content := imaging.New(4, 4, red)
	out := cropToBox(content, 8, 8, 2, 2)
	if got := out.Bounds(); got.Dx() != 8 || got.Dy() != 8 {
		t.Fatalf("bounds = %v, want 8x8", got)
	}
	if got := pixAt(out, 3, 3); got != red {
		t.Errorf("content pixel = %v, want %v", got, red)
	}
	if got := pixAt(out, 0, 0); got.A != 0 {
		t.Errorf("padding pixel alpha = %d, want 0", got.A)
	}

	// Negative offsets clip the content's leading edge.
	out = cropToBox(content, 2, 2, -2, -2)
	if got := pixAt(out, 0, 0); got != red {
		t.Errorf("clipped content pixel = %v, want %v", got, red)
	}
}

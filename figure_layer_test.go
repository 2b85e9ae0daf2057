package adcanvas

import (
	"strings"
	"testing"
)

func TestRenderFigureRect(t *testing.T) {
	r := testRenderer(nil)
	el := &Element{ID: "box", Type: "figure", SubType: "rect", X: 10, Y: 10, Width: 30, Height: 30, Fill: "#FF0000"}

	layer, err := r.renderFigure(el)
	if err != nil {
		t.Fatalf("renderFigure: %v", err)
	}
	if layer.width() != 30 || layer.height() != 30 {
		t.Errorf("layer = %dx%d, want 30x30", layer.width(), layer.height())
	}
	if layer.X != 10 || layer.Y != 10 {
		t.Errorf("position = (%d,%d), want (10,10)", layer.X, layer.Y)
	}
	if got := pixAt(layer.Image, 15, 15); got != red {
		t.Errorf("interior pixel = %v, want %v", got, red)
	}
}

func TestRenderFigureDefaultsToBlackRect(t *testing.T) {
	r := testRenderer(nil)
	layer, err := r.renderFigure(&Element{Type: "figure", Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("renderFigure: %v", err)
	}
	if got := pixAt(layer.Image, 5, 5); got != figureFillDefault {
		t.Errorf("unstyled figure pixel = %v, want solid black", got)
	}
}

func TestRenderFigureCircle(t *testing.T) {
	r := testRenderer(nil)
	layer, err := r.renderFigure(&Element{Type: "figure", SubType: "circle", Width: 40, Height: 40, Fill: "blue"})
	if err != nil {
		t.Fatalf("renderFigure: %v", err)
	}
	if got := pixAt(layer.Image, 20, 20); got.B != 255 || got.A != 255 {
		t.Errorf("center pixel = %v, want opaque blue", got)
	}
	if got := pixAt(layer.Image, 1, 1).A; got != 0 {
		t.Errorf("corner alpha = %d, want 0 outside the circle", got)
	}
}

func TestRenderFigureEllipse(t *testing.T) {
	r := testRenderer(nil)
	layer, err := r.renderFigure(&Element{Type: "figure", SubType: "ellipse", Width: 60, Height: 20, Fill: "#00FF00"})
	if err != nil {
		t.Fatalf("renderFigure: %v", err)
	}
	if got := pixAt(layer.Image, 30, 10); got.G != 255 {
		t.Errorf("center pixel = %v, want green", got)
	}
	if got := pixAt(layer.Image, 1, 1).A; got != 0 {
		t.Errorf("corner alpha = %d, want 0 outside the ellipse", got)
	}
}

func TestRenderFigureRoundedRect(t *testing.T) {
	r := testRenderer(nil)
	layer, err := r.renderFigure(&Element{Type: "figure", SubType: "rect", Width: 40, Height: 40, Fill: "red", CornerRadius: 15})
	if err != nil {
		t.Fatalf("renderFigure: %v", err)
	}
	if got := pixAt(layer.Image, 0, 0).A; got != 0 {
		t.Errorf("corner alpha = %d, want 0", got)
	}
	if got := pixAt(layer.Image, 20, 20); got != red {
		t.Errorf("center pixel = %v, want %v", got, red)
	}
}

func TestRenderFigureTemplateShape(t *testing.T) {
	r := testRenderer(nil)
	for _, sub := range []string{"star", "triangle", "diamond", "hexagon", "arrow-right", "heart"} {
		layer, err := r.renderFigure(&Element{Type: "figure", SubType: sub, Width: 60, Height: 60, Fill: "#FF0000"})
		if err != nil {
			t.Errorf("%s: unexpected error %v", sub, err)
			continue
		}
		if layer == nil || layer.width() != 60 || layer.height() != 60 {
			t.Errorf("%s: bad layer", sub)
			continue
		}
		// Every catalog shape covers the element center.
		if got := pixAt(layer.Image, 30, 30).A; got == 0 {
			t.Errorf("%s: center pixel transparent", sub)
		}
	}
}

func TestRenderFigureUnknownSubType(t *testing.T) {
	r := testRenderer(nil)
	layer, err := r.renderFigure(&Element{Type: "figure", SubType: "dodecahedron", Width: 10, Height: 10})
	if err == nil || !strings.Contains(err.Error(), "dodecahedron") {
		t.Fatalf("err = %v, want unknown subtype error naming it", err)
	}
	if layer != nil {
		t.Error("unknown subtype should not produce a layer")
	}
}

func TestRenderFigureCropZoomsShape(t *testing.T) {
	r := testRenderer(nil)
	// A circle drawn at double size and cropped to its top-left quarter:
	// the element's bottom-right corner sits at the circle center, so it
	// is filled while the top-left corner stays empty.
	el := &Element{Type: "figure", SubType: "circle", Width: 40, Height: 40, Fill: "red",
		CropWidth: fptr(0.5), CropHeight: fptr(0.5)}
	layer, err := r.renderFigure(el)
	if err != nil {
		t.Fatalf("renderFigure: %v", err)
	}
	if layer.width() != 40 || layer.height() != 40 {
		t.Fatalf("layer = %dx%d, want element box 40x40", layer.width(), layer.height())
	}
	if got := pixAt(layer.Image, 39, 39).A; got == 0 {
		t.Error("bottom-right pixel should be inside the zoomed circle")
	}
	if got := pixAt(layer.Image, 2, 2).A; got != 0 {
		t.Error("top-left pixel should be outside the zoomed circle")
	}
}

func TestRenderFigureNonPositiveSizeSkipped(t *testing.T) {
	r := testRenderer(nil)
	layer, err := r.renderFigure(&Element{Type: "figure", Width: -5, Height: 10})
	if layer != nil || err != nil {
		t.Errorf("got (%v, %v), want nil layer and nil error", layer, err)
	}
}

func TestRenderFigureStroke(t *testing.T) {
	r := testRenderer(nil)
	el := &Element{Type: "figure", SubType: "rect", Width: 30, Height: 30,
		Fill: "white", Stroke: "#FF0000", StrokeWidth: 4}
	layer, err := r.renderFigure(el)
	if err != nil {
		t.Fatalf("renderFigure: %v", err)
	}
	if got := pixAt(layer.Image, 15, 15); got != white {
		t.Errorf("interior = %v, want fill %v", got, white)
	}
	if got := pixAt(layer.Image, 15, 0); got.R != 255 || got.G > 50 {
		t.Errorf("edge = %v, want stroke red", got)
	}
}

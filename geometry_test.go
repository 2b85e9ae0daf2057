package adcanvas

import "testing"

func TestResolveScaleCropUnconstrained(t *testing.T) {
	w, h, ox, oy := resolveScaleCrop(300, 150, cropWindow{W: 1, H: 1}, 600, 300, false)
	if w != 300 || h != 150 {
		t.Errorf("target = %dx%d, want 300x150", w, h)
	}
	if ox != 0 || oy != 0 {
		t.Errorf("offset = (%d,%d), want (0,0)", ox, oy)
	}
}

func TestResolveScaleCropWidthConstrained(t *testing.T) {
	// Element 200 wide showing half of the source: the pre-crop width
	// must double to 400 and the height follows the source aspect.
	w, h, ox, oy := resolveScaleCrop(200, 100, cropWindow{X: 0.25, W: 0.5, H: 1}, 100, 50, false)
	if w != 400 {
		t.Errorf("targetW = %d, want 400", w)
	}
	if h != 200 {
		t.Errorf("targetH = %d, want 200", h)
	}
	if ox != -100 {
		t.Errorf("offX = %d, want -100 (=-0.25*400)", ox)
	}
	if oy != 0 {
		t.Errorf("offY = %d, want 0", oy)
	}
}

func TestResolveScaleCropHeightConstrained(t *testing.T) {
	w, h, _, oy := resolveScaleCrop(100, 200, cropWindow{Y: 0.5, W: 1, H: 0.5}, 50, 100, false)
	if h != 400 {
		t.Errorf("targetH = %d, want 400", h)
	}
	if w != 200 {
		t.Errorf("targetW = %d, want 200", w)
	}
	if oy != -200 {
		t.Errorf("offY = %d, want -200", oy)
	}
}

func TestResolveScaleCropBothConstrainedImage(t *testing.T) {
	// scaleW = 200/0.5/100 = 4, scaleH = 100/0.8/100 = 1.25; the larger
	// factor wins so both crop fractions can be revealed.
	w, h, _, _ := resolveScaleCrop(200, 100, cropWindow{W: 0.5, H: 0.8}, 100, 100, false)
	if w != 400 || h != 400 {
		t.Errorf("target = %dx%d, want 400x400", w, h)
	}
}

func TestResolveScaleCropBothConstrainedSquareFigure(t *testing.T) {
	w, h, _, _ := resolveScaleCrop(100, 100, cropWindow{W: 0.5, H: 0.25}, 0, 0, true)
	if w != 400 || h != 400 {
		t.Errorf("square figure target = %dx%d, want 400x400 (max of per-axis targets)", w, h)
	}
}

func TestResolveScaleCropBothConstrainedNonSquareFigure(t *testing.T) {
	w, h, _, _ := resolveScaleCrop(200, 100, cropWindow{W: 0.5, H: 0.25}, 0, 0, false)
	if w != 400 || h != 400 {
		t.Errorf("target = %dx%d, want 400x400 (independent per-axis)", w, h)
	}
}

func TestResolveScaleCropSingleAxisFigure(t *testing.T) {
	// Width-constrained square figure keeps a square target.
	w, h, _, _ := resolveScaleCrop(100, 100, cropWindow{W: 0.5, H: 1}, 0, 0, true)
	if w != 200 || h != 200 {
		t.Errorf("square figure target = %dx%d, want 200x200", w, h)
	}
	// Non-square keeps the element height on the free axis.
	w, h, _, _ = resolveScaleCrop(100, 60, cropWindow{W: 0.5, H: 1}, 0, 0, false)
	if w != 200 || h != 60 {
		t.Errorf("figure target = %dx%d, want 200x60", w, h)
	}
}

func TestSanitizeCrop(t *testing.T) {
	tests := []struct {
		name       string
		x, y, w, h float64
		want       cropWindow
	}{
		{"defaults", 0, 0, 0, 0, cropWindow{0, 0, 1, 1}},
		{"valid", 0.1, 0.2, 0.5, 0.6, cropWindow{0.1, 0.2, 0.5, 0.6}},
		{"width over one", 0, 0, 1.5, 1, cropWindow{0, 0, 1, 1}},
		{"negative height", 0, 0, 1, -0.3, cropWindow{0, 0, 1, 1}},
		{"origin clamped", -0.5, 2, 0.5, 0.5, cropWindow{0, 1, 0.5, 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeCrop(tt.x, tt.y, tt.w, tt.h)
			if got != tt.want {
				t.Errorf("sanitizeCrop(%v,%v,%v,%v) = %+v, want %+v", tt.x, tt.y, tt.w, tt.h, got, tt.want)
			}
		})
	}
}

func TestCropWindowConstrained(t *testing.T) {
	if (cropWindow{W: 1, H: 1}).constrained() {
		t.Error("unit window reported constrained")
	}
	if !(cropWindow{W: 0.5, H: 1}).constrained() {
		t.Error("half-width window not reported constrained")
	}
}

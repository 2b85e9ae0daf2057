package adcanvas

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

// lineHeightProbe is the reference glyph sequence whose bounding box
// defines a line's base height: an ascender plus two descenders.
const lineHeightProbe = "Agy"

// renderText produces the layer for one text element. Text is NFC
// normalized first so combining sequences in complex scripts render
// consistently regardless of input encoding. The element always yields a
// layer (possibly blank); only a non-positive element box skips it.
//
// When a background is enabled, each wrapped line gets its own rounded
// rectangle sized to that line's measured width plus padding. This
// per-line contract is deliberate: it is not one box behind the whole
// block. All backgrounds are drawn before any glyph so text stays on
// top.
func (r *Renderer) renderText(el *Element) *Layer {
	elemW := roundInt(el.Width)
	elemH := roundInt(el.Height)
	if elemW <= 0 || elemH <= 0 {
		logger().Debug("text element has non-positive size, skipping", "id", el.ID)
		return nil
	}

	text := norm.NFC.String(el.Text)
	if strings.TrimSpace(text) == "" {
		return &Layer{
			Image:   image.NewNRGBA(image.Rect(0, 0, elemW, elemH)),
			X:       roundInt(el.X),
			Y:       roundInt(el.Y),
			Element: el,
		}
	}

	fontSize := el.fontSize()
	face, source := r.Fonts.GetFont(el.FontFamily, el.FontWeight, el.FontStyle, fontSize)
	logger().Debug("resolved font", "id", el.ID, "family", el.FontFamily, "source", source)

	lines := wrapWords(text, elemW, func(s string) int { return r.Fonts.MeasureWidth(face, s) })

	probeTop, probeBottom := r.Fonts.GlyphBBox(face, lineHeightProbe)
	baseH := probeBottom - probeTop
	if baseH <= 0 {
		baseH = roundInt(fontSize)
	}
	lineH := float64(baseH) * el.lineHeight()
	ascent := face.Metrics().Ascent.Ceil()

	var pad float64
	if el.BackgroundEnabled {
		pad = el.BackgroundPadding * fontSize
	}
	margin := int(math.Ceil(pad))

	lineWidths := make([]int, len(lines))
	maxLineW := 0
	for i, ln := range lines {
		lineWidths[i] = r.Fonts.MeasureWidth(face, ln)
		if lineWidths[i] > maxLineW {
			maxLineW = lineWidths[i]
		}
	}

	// The layer extends past the element box by the background padding
	// and by any line wider than the box, so overflow survives until
	// global compositing instead of being clipped here.
	layerW := maxInt(elemW, maxLineW) + 2*margin
	layerH := elemH + 2*margin

	blockH := lineH * float64(len(lines))
	var startY float64
	switch el.VerticalAlign {
	case "middle":
		startY = (float64(elemH) - blockH) / 2
	case "bottom":
		startY = float64(elemH) - blockH
	default: // top
		startY = 0
	}

	type placedLine struct {
		text string
		x    float64
		top  float64
		w    int
	}
	var placed []placedLine
	y := startY
	for i, ln := range lines {
		if y > float64(elemH) {
			break
		}
		var x float64
		switch el.Align {
		case "center":
			x = float64(elemW-lineWidths[i]) / 2
		case "right":
			x = float64(elemW - lineWidths[i])
		default: // left
			x = 0
		}
		placed = append(placed, placedLine{text: ln, x: x, top: y, w: lineWidths[i]})
		y += lineH
	}

	var canvas *image.NRGBA
	if el.BackgroundEnabled && len(placed) > 0 {
		bg := ParseColor(el.BackgroundColor, color.NRGBA{A: 255})
		bg.A = uint8(math.Round(float64(bg.A) * el.backgroundOpacity()))
		radius := backgroundRadius(el.BackgroundCornerRadius, fontSize, pad, elemW, elemH)

		dc := gg.NewContext(layerW, layerH)
		dc.SetColor(bg)
		for _, pl := range placed {
			bx := float64(margin) + pl.x - pad
			by := float64(margin) + pl.top + float64(ascent+probeTop) - pad
			bw := float64(pl.w) + 2*pad
			bh := float64(baseH) + 2*pad
			if radius > 0 {
				dc.DrawRoundedRectangle(bx, by, bw, bh, radius)
			} else {
				dc.DrawRectangle(bx, by, bw, bh)
			}
			dc.Fill()
		}
		canvas = toNRGBA(dc.Image())
	} else {
		canvas = image.NewNRGBA(image.Rect(0, 0, layerW, layerH))
	}

	fg := ParseColor(el.Fill, color.NRGBA{A: 255})
	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(fg),
		Face: face,
	}
	for _, pl := range placed {
		d.Dot = fixed.Point26_6{
			X: floatToFixed(float64(margin) + pl.x),
			Y: floatToFixed(float64(margin) + pl.top + float64(ascent)),
		}
		d.DrawString(pl.text)
	}

	return &Layer{
		Image:   canvas,
		X:       roundInt(el.X) - margin,
		Y:       roundInt(el.Y) - margin,
		Element: el,
	}
}

// wrapWords greedily packs words into lines no wider than maxW pixels.
// A single word wider than maxW occupies its own line un-split.
func wrapWords(text string, maxW int, measure func(string) int) []string {
	words := strings.Fields(text)
	var lines []string
	current := ""
	for _, w := range words {
		candidate := w
		if current != "" {
			candidate = current + " " + w
		}
		if current == "" || measure(candidate) <= maxW {
			current = candidate
		} else {
			lines = append(lines, current)
			current = w
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// backgroundRadius derives the per-line background corner radius from
// its fontSize factor, capped so degenerate shapes cannot occur.
func backgroundRadius(factor, fontSize, pad float64, elemW, elemH int) float64 {
	radius := factor * fontSize * 0.6
	for _, limit := range []float64{0.8 * pad, fontSize / 3, float64(elemW) / 4, float64(elemH) / 4} {
		if radius > limit {
			radius = limit
		}
	}
	if radius < 0 {
		return 0
	}
	return radius
}

func floatToFixed(f float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(f * 64))
}

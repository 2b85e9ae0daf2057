package adcanvas

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

// figureFillDefault matches the template editor's behavior of drawing
// unstyled figures in solid black.
var figureFillDefault = color.NRGBA{A: 255}

// renderFigure produces the layer for one figure element. Subtypes found
// in the shape table rasterize their vector template directly at the
// scale-and-crop target size; everything else falls back to the
// rect/ellipse/circle primitives. A rasterizer failure yields a visibly
// distinct outlined-rectangle layer together with the error, so one bad
// template never takes down the document.
func (r *Renderer) renderFigure(el *Element) (*Layer, error) {
	finalW := roundInt(el.Width)
	finalH := roundInt(el.Height)
	if finalW <= 0 || finalH <= 0 {
		logger().Debug("figure element has non-positive size, skipping", "id", el.ID)
		return nil, nil
	}

	crop := el.crop()
	tw, th, ox, oy := resolveScaleCrop(finalW, finalH, crop, 0, 0, finalW == finalH)
	fill := ParseColor(el.Fill, figureFillDefault)
	stroke := ParseColor(el.Stroke, color.NRGBA{})

	var content *image.NRGBA
	var rasterErr error
	if tpl, ok := r.Shapes[el.SubType]; ok {
		content, rasterErr = rasterizeTemplate(tpl, tw, th, fill, stroke, el.StrokeWidth)
		if rasterErr != nil {
			content = fallbackOutline(tw, th, fill)
		}
	} else {
		switch el.SubType {
		case "rect", "":
			content = drawRect(tw, th, fill, stroke, el.StrokeWidth, el.CornerRadius)
		case "ellipse":
			content = drawEllipse(tw, th, fill, stroke, el.StrokeWidth)
		case "circle":
			content = drawCircle(tw, th, fill, stroke, el.StrokeWidth)
		default:
			return nil, fmt.Errorf("unknown figure subType %q", el.SubType)
		}
	}

	layer := &Layer{
		Image:   cropToBox(content, finalW, finalH, ox, oy),
		X:       roundInt(el.X),
		Y:       roundInt(el.Y),
		Element: el,
	}
	return layer, rasterErr
}

func drawRect(w, h int, fill, stroke color.NRGBA, strokeWidth, cornerRadius float64) *image.NRGBA {
	dc := gg.NewContext(w, h)
	// Corner radius can never exceed half the smaller dimension.
	maxRadius := float64(minInt(w, h)) / 2
	radius := clampFloat(cornerRadius, 0, maxRadius)
	if radius > 0 {
		dc.DrawRoundedRectangle(0, 0, float64(w), float64(h), radius)
	} else {
		dc.DrawRectangle(0, 0, float64(w), float64(h))
	}
	return fillAndStroke(dc, fill, stroke, strokeWidth)
}

func drawEllipse(w, h int, fill, stroke color.NRGBA, strokeWidth float64) *image.NRGBA {
	dc := gg.NewContext(w, h)
	dc.DrawEllipse(float64(w)/2, float64(h)/2, float64(w)/2, float64(h)/2)
	return fillAndStroke(dc, fill, stroke, strokeWidth)
}

func drawCircle(w, h int, fill, stroke color.NRGBA, strokeWidth float64) *image.NRGBA {
	dc := gg.NewContext(w, h)
	radius := float64(minInt(w, h)) / 2
	dc.DrawCircle(float64(w)/2, float64(h)/2, radius)
	return fillAndStroke(dc, fill, stroke, strokeWidth)
}

func fillAndStroke(dc *gg.Context, fill, stroke color.NRGBA, strokeWidth float64) *image.NRGBA {
	dc.SetColor(fill)
	if strokeWidth > 0 && stroke.A > 0 {
		dc.FillPreserve()
		dc.SetColor(stroke)
		dc.SetLineWidth(strokeWidth)
		dc.Stroke()
	} else {
		dc.Fill()
	}
	return toNRGBA(dc.Image())
}

// fallbackOutline is the placeholder drawn when a vector template fails
// to rasterize.
func fallbackOutline(w, h int, c color.NRGBA) *image.NRGBA {
	dc := gg.NewContext(w, h)
	dc.DrawRectangle(1, 1, float64(w)-2, float64(h)-2)
	dc.SetColor(c)
	dc.SetLineWidth(2)
	dc.Stroke()
	return toNRGBA(dc.Image())
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

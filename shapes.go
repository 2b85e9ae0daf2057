package adcanvas

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// ShapeTemplate is a parametric vector shape in a nominal 300x300 design
// space. The SVG carries substitution slots for fill, stroke, and stroke
// width, and preserveAspectRatio="none" so it stretches to any requested
// output size.
type ShapeTemplate struct {
	Name string
	SVG  string
}

// ShapeTable maps figure subtypes to their vector templates. It is
// loaded once and read-only thereafter.
type ShapeTable map[string]ShapeTemplate

// shapeSVG wraps a template body in the shared 300x300 document frame.
func shapeSVG(body string) string {
	return `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 300 300" preserveAspectRatio="none">` + body + `</svg>`
}

// slotAttrs is the shared attribute block every template body carries.
const slotAttrs = `fill="{{fill}}" fill-opacity="{{fillOpacity}}" stroke="{{stroke}}" stroke-opacity="{{strokeOpacity}}" stroke-width="{{strokeWidth}}"`

// DefaultShapeTable returns the built-in shape catalog. Subtypes not
// present here fall back to the rect/ellipse/circle primitives.
func DefaultShapeTable() ShapeTable {
	templates := []ShapeTemplate{
		{"star", shapeSVG(`<path d="M150 10 L186 105 L290 112 L210 180 L237 285 L150 225 L63 285 L90 180 L10 112 L114 105 Z" ` + slotAttrs + `/>`)},
		{"triangle", shapeSVG(`<path d="M150 15 L285 285 L15 285 Z" ` + slotAttrs + `/>`)},
		{"diamond", shapeSVG(`<path d="M150 10 L290 150 L150 290 L10 150 Z" ` + slotAttrs + `/>`)},
		{"hexagon", shapeSVG(`<path d="M225 20 L300 150 L225 280 L75 280 L0 150 L75 20 Z" ` + slotAttrs + `/>`)},
		{"arrow-right", shapeSVG(`<path d="M10 110 L190 110 L190 40 L290 150 L190 260 L190 190 L10 190 Z" ` + slotAttrs + `/>`)},
		{"heart", shapeSVG(`<path d="M150 280 C60 210 10 150 10 95 C10 45 50 15 90 15 C115 15 140 30 150 55 C160 30 185 15 210 15 C250 15 290 45 290 95 C290 150 240 210 150 280 Z" ` + slotAttrs + `/>`)},
	}
	table := make(ShapeTable, len(templates))
	for _, t := range templates {
		table[t.Name] = t
	}
	return table
}

// instantiate substitutes the color and stroke slots into the template's
// SVG source.
func (t ShapeTemplate) instantiate(fill, stroke color.NRGBA, strokeWidth float64) string {
	return strings.NewReplacer(
		"{{fill}}", svgHex(fill),
		"{{fillOpacity}}", svgOpacity(fill),
		"{{stroke}}", svgHex(stroke),
		"{{strokeOpacity}}", svgOpacity(stroke),
		"{{strokeWidth}}", fmt.Sprintf("%g", strokeWidth),
	).Replace(t.SVG)
}

// rasterizeTemplate renders the instantiated template at exactly the
// target size. Vector rasterization replaces scale-a-bitmap: there is no
// upscale-then-downscale step.
func rasterizeTemplate(t ShapeTemplate, targetW, targetH int, fill, stroke color.NRGBA, strokeWidth float64) (*image.NRGBA, error) {
	svg := t.instantiate(fill, stroke, strokeWidth)
	icon, err := oksvg.ReadIconStream(strings.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("shape template %q: %w", t.Name, err)
	}
	icon.SetTarget(0, 0, float64(targetW), float64(targetH))

	rgba := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	scanner := rasterx.NewScannerGV(targetW, targetH, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(targetW, targetH, scanner), 1.0)
	return toNRGBA(rgba), nil
}

func svgHex(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func svgOpacity(c color.NRGBA) string {
	return fmt.Sprintf("%.3f", float64(c.A)/255)
}

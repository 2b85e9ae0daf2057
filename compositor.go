package adcanvas

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// composite merges prepared layers into the final canvas.
//
// Element positions live in an unbounded coordinate space and layers may
// extend partially or fully outside the nominal canvas (bleed images,
// oversized backgrounds). Rather than computing exact overlap regions
// per layer, everything is pasted onto one working surface sized to the
// union bounding box of all layers, and the requested canvas window is
// cut out of that surface at the end. The result is pixel-identical
// regardless of element order or overflow geometry.
//
// Layers must arrive in document order: later layers draw over earlier
// ones, and that total order is the single source of truth for stacking.
func composite(layers []*Layer, finalW, finalH int, background color.NRGBA) *image.NRGBA {
	out := imaging.New(finalW, finalH, background)
	if len(layers) == 0 {
		return out
	}

	minX, minY := layers[0].X, layers[0].Y
	maxX, maxY := minX, minY
	for _, l := range layers {
		if l.X < minX {
			minX = l.X
		}
		if l.Y < minY {
			minY = l.Y
		}
		if r := l.X + l.width(); r > maxX {
			maxX = r
		}
		if b := l.Y + l.height(); b > maxY {
			maxY = b
		}
	}

	giant := image.NewNRGBA(image.Rect(0, 0, maxX-minX, maxY-minY))
	for _, l := range layers {
		img := l.Image
		if op := l.Element.opacity(); op < 1 {
			// Scale the layer's existing alpha rather than overwriting
			// it, so rounded corners and antialiased edges keep their
			// per-pixel variation.
			img = withScaledAlpha(img, op)
		}
		dst := image.Rect(0, 0, l.width(), l.height()).Add(image.Pt(l.X-minX, l.Y-minY))
		draw.Draw(giant, dst, img, img.Bounds().Min, draw.Over)
	}

	// The canvas window [0,finalW)x[0,finalH) expressed in giant-canvas
	// coordinates, clamped to what actually exists.
	request := image.Rect(-minX, -minY, finalW-minX, finalH-minY)
	src := request.Intersect(giant.Bounds())
	if src.Empty() {
		return out
	}
	// Clamping may have moved the window's origin; shift the paste
	// position so content still lands at its true canvas coordinates.
	dstMin := image.Pt(src.Min.X+minX, src.Min.Y+minY)
	draw.Draw(out, image.Rectangle{Min: dstMin, Max: dstMin.Add(src.Size())}, giant, src.Min, draw.Over)
	return out
}

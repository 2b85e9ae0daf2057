package adcanvas

import (
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
)

// Layer is one element rendered to a standalone transparent raster,
// tagged with its absolute position on the unbounded canvas. Layers
// exist only between the prepare and composite phases of a single
// render call.
type Layer struct {
	Image   *image.NRGBA
	X, Y    int
	Element *Element
}

func (l *Layer) width() int  { return l.Image.Bounds().Dx() }
func (l *Layer) height() int { return l.Image.Bounds().Dy() }

// withScaledAlpha returns a copy of img whose existing alpha channel is
// multiplied by opacity. The multiplication preserves per-pixel alpha
// variation (rounded corners, antialiased edges) rather than overwriting
// it with a flat value.
func withScaledAlpha(img *image.NRGBA, opacity float64) *image.NRGBA {
	out := imaging.Clone(img)
	scaleAlpha(out, opacity)
	return out
}

// scaleAlpha multiplies every pixel's alpha by opacity, in place.
func scaleAlpha(img *image.NRGBA, opacity float64) {
	if opacity >= 1 {
		return
	}
	if opacity < 0 {
		opacity = 0
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(math.Round(float64(img.Pix[i]) * opacity))
	}
}

// applyAlphaMask multiplies img's alpha channel by the mask's alpha,
// pixel for pixel. Both must have identical dimensions.
func applyAlphaMask(img *image.NRGBA, mask *image.Alpha) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y) + 3
			m := mask.AlphaAt(x, y).A
			img.Pix[i] = uint8(uint16(img.Pix[i]) * uint16(m) / 255)
		}
	}
}

// toNRGBA converts any image to the library's canonical non-premultiplied
// RGBA representation. Alpha is never dropped.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	return imaging.Clone(img)
}

// cropToBox pastes content onto a transparent finalW x finalH canvas at
// the given offset. Content outside the box is clipped, never wrapped or
// stretched.
func cropToBox(content *image.NRGBA, finalW, finalH, offX, offY int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, finalW, finalH))
	r := content.Bounds().Sub(content.Bounds().Min).Add(image.Pt(offX, offY))
	draw.Draw(out, r, content, content.Bounds().Min, draw.Over)
	return out
}

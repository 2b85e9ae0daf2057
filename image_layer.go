package adcanvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// renderImage produces the layer for one image element. The pipeline
// order is load, full-resolution filters, flips, scale-and-crop,
// rotation, rounded corners, then the remaining effects on the composed
// element canvas. A nil layer with nil error means the element resolved
// to nothing drawable and was skipped.
func (r *Renderer) renderImage(el *Element, canvasH int) (*Layer, error) {
	if el.Src == "" {
		return nil, errors.New("image element has no src")
	}
	data, err := r.Fetcher.Fetch(el.Src)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", el.Src, err)
	}
	img, err := decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("source %q: %w", el.Src, err)
	}

	// Filters run on the full-resolution source, before any scaling.
	for _, f := range el.Filters {
		switch f.Type {
		case "grayscale":
			img = grayscalePreservingAlpha(img)
		case "sepia":
			img = sepia(img)
		default:
			logger().Warn("unknown image filter", "filter", f.Type, "id", el.ID)
		}
	}

	if el.FlipX {
		img = imaging.FlipH(img)
	}
	if el.FlipY {
		img = imaging.FlipV(img)
	}

	finalW := roundInt(el.Width)
	finalH := roundInt(el.Height)
	if finalW <= 0 || finalH <= 0 {
		logger().Debug("image element has non-positive size, skipping", "id", el.ID)
		return nil, nil
	}

	crop := el.crop()
	natW := img.Bounds().Dx()
	natH := img.Bounds().Dy()
	if natW <= 0 || natH <= 0 {
		return nil, fmt.Errorf("source %q decoded to an empty image", el.Src)
	}

	switch {
	case r.Config.isBackgroundImage(el.ID):
		// Canvas background: fill the canvas height exactly, keeping
		// aspect ratio, regardless of the keep-ratio/crop settings.
		aspect := float64(natW) / float64(natH)
		newH := canvasH
		newW := maxInt(1, roundInt(float64(newH)*aspect))
		img = imaging.Resize(img, newW, newH, imaging.Lanczos)
	case crop.constrained():
		tw, th, ox, oy := resolveScaleCrop(finalW, finalH, crop, natW, natH, false)
		img = imaging.Resize(img, tw, th, imaging.Lanczos)
		img = cropToBox(img, finalW, finalH, ox, oy)
	case el.keepRatio():
		img = fitWithin(img, finalW, finalH)
	default:
		img = imaging.Resize(img, finalW, finalH, imaging.Lanczos)
	}

	if el.Rotation != 0 {
		img = imaging.Rotate(img, el.Rotation, color.NRGBA{})
	}
	if el.CornerRadius > 0 {
		img = roundCorners(img, el.CornerRadius)
	}
	img = applyEffects(img, el)

	return &Layer{Image: img, X: roundInt(el.X), Y: roundInt(el.Y), Element: el}, nil
}

// fitWithin resizes img to fit inside a w x h box preserving aspect
// ratio, upscaling if needed. The result may be smaller than the box on
// one axis.
func fitWithin(img *image.NRGBA, w, h int) *image.NRGBA {
	natW := img.Bounds().Dx()
	natH := img.Bounds().Dy()
	srcAspect := float64(natW) / float64(natH)
	boxAspect := float64(w) / float64(h)

	var newW, newH int
	if srcAspect > boxAspect {
		newW = w
		newH = roundInt(float64(newW) / srcAspect)
	} else {
		newH = h
		newW = roundInt(float64(newH) * srcAspect)
	}
	return imaging.Resize(img, maxInt(1, newW), maxInt(1, newH), imaging.Lanczos)
}

// roundCorners masks the image's alpha channel with an antialiased
// rounded rectangle covering the full image bounds.
func roundCorners(img *image.NRGBA, radius float64) *image.NRGBA {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	dc := gg.NewContext(w, h)
	dc.DrawRoundedRectangle(0, 0, float64(w), float64(h), radius)
	dc.SetRGB(1, 1, 1)
	dc.Fill()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	src := dc.Image().(*image.RGBA)
	for i := 0; i < w*h; i++ {
		mask.Pix[i] = src.Pix[i*4+3]
	}

	out := imaging.Clone(img)
	applyAlphaMask(out, mask)
	return out
}

// applyEffects applies blur and the brightness/contrast/saturation
// multipliers. Each is a no-op at its neutral value.
func applyEffects(img *image.NRGBA, el *Element) *image.NRGBA {
	if el.Blur > 0 {
		img = blurPreservingAlpha(img, el.Blur)
	}
	if b := el.imageBrightness(); b != 1 {
		img = imaging.AdjustBrightness(img, clampFloat((b-1)*100, -100, 100))
	}
	if c := el.contrast(); c != 1 {
		img = imaging.AdjustContrast(img, clampFloat((c-1)*100, -100, 100))
	}
	if s := el.saturate(); s != 1 {
		img = imaging.AdjustSaturation(img, clampFloat((s-1)*100, -100, 100))
	}
	return img
}

// blurPreservingAlpha blurs only the color channels. Blurring alpha too
// would bleed transparent fringe into rounded corners and rotated edges.
func blurPreservingAlpha(img *image.NRGBA, sigma float64) *image.NRGBA {
	alpha := make([]uint8, len(img.Pix)/4)
	for i := range alpha {
		alpha[i] = img.Pix[i*4+3]
	}
	out := imaging.Blur(img, sigma)
	for i, a := range alpha {
		out.Pix[i*4+3] = a
	}
	return out
}

// grayscalePreservingAlpha converts color channels to luminance while
// keeping the original alpha.
func grayscalePreservingAlpha(img *image.NRGBA) *image.NRGBA {
	alpha := make([]uint8, len(img.Pix)/4)
	for i := range alpha {
		alpha[i] = img.Pix[i*4+3]
	}
	out := imaging.Grayscale(img)
	for i, a := range alpha {
		out.Pix[i*4+3] = a
	}
	return out
}

// sepia applies the classic sepia tone matrix to the color channels.
func sepia(img *image.NRGBA) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 0; i < len(out.Pix); i += 4 {
		r := float64(out.Pix[i])
		g := float64(out.Pix[i+1])
		b := float64(out.Pix[i+2])
		tr := 0.393*r + 0.769*g + 0.189*b
		tg := 0.349*r + 0.686*g + 0.168*b
		tb := 0.272*r + 0.534*g + 0.131*b
		out.Pix[i] = uint8(math.Min(255, tr))
		out.Pix[i+1] = uint8(math.Min(255, tg))
		out.Pix[i+2] = uint8(math.Min(255, tb))
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

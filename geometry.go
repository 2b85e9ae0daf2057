package adcanvas

import "math"

// cropWindow is an element's fractional crop window. All four values lie
// in [0,1]; width/height of exactly 1 mean "no constraint" on that axis.
type cropWindow struct {
	X, Y, W, H float64
}

// constrained reports whether any axis carries a crop constraint.
func (c cropWindow) constrained() bool { return c.W < 1 || c.H < 1 }

// sanitizeCrop clamps crop fractions to [0,1] and substitutes the
// unconstrained defaults for missing or degenerate values. Out-of-range
// input recovers silently with a warning; it never aborts the element.
func sanitizeCrop(x, y float64, w, h float64) cropWindow {
	c := cropWindow{X: x, Y: y, W: w, H: h}
	if c.W <= 0 || c.W > 1 {
		if c.W != 0 {
			logger().Warn("crop width out of range, treating as unconstrained", "cropWidth", w)
		}
		c.W = 1
	}
	if c.H <= 0 || c.H > 1 {
		if c.H != 0 {
			logger().Warn("crop height out of range, treating as unconstrained", "cropHeight", h)
		}
		c.H = 1
	}
	if c.X < 0 || c.X > 1 {
		logger().Warn("crop x out of range, clamping", "cropX", x)
		c.X = clampFloat(c.X, 0, 1)
	}
	if c.Y < 0 || c.Y > 1 {
		logger().Warn("crop y out of range, clamping", "cropY", y)
		c.Y = clampFloat(c.Y, 0, 1)
	}
	return c
}

// resolveScaleCrop computes the pre-crop content size and paste offset
// for an element box of finalW x finalH with the given crop window.
//
// naturalW/naturalH are the source asset's intrinsic dimensions; pass
// zero for figures, which have no natural size (square then tells the
// figure branch whether the element box is square). The returned target
// dimensions are always large enough that the crop window, expressed as
// fractions of the visible output, can be revealed at full resolution
// even when that implies upscaling well beyond the element box.
//
// The paste offset is where the scaled content lands on the final
// transparent canvas: the negative rounded crop start on each axis.
func resolveScaleCrop(finalW, finalH int, c cropWindow, naturalW, naturalH int, square bool) (targetW, targetH, offX, offY int) {
	switch {
	case c.W < 1 && c.H == 1:
		// Width-constrained.
		targetW = roundInt(float64(finalW) / c.W)
		switch {
		case naturalW > 0:
			scale := float64(targetW) / float64(naturalW)
			targetH = roundInt(float64(naturalH) * scale)
		case square:
			targetH = targetW
		default:
			targetH = finalH
		}
	case c.H < 1 && c.W == 1:
		// Height-constrained.
		targetH = roundInt(float64(finalH) / c.H)
		switch {
		case naturalH > 0:
			scale := float64(targetH) / float64(naturalH)
			targetW = roundInt(float64(naturalW) * scale)
		case square:
			targetW = targetH
		default:
			targetW = finalW
		}
	case c.W < 1 && c.H < 1:
		// Both axes constrained.
		switch {
		case naturalW > 0 && naturalH > 0:
			// The larger scale factor satisfies both crop fractions.
			scaleW := float64(finalW) / c.W / float64(naturalW)
			scaleH := float64(finalH) / c.H / float64(naturalH)
			scale := math.Max(scaleW, scaleH)
			targetW = roundInt(float64(naturalW) * scale)
			targetH = roundInt(float64(naturalH) * scale)
		case square:
			t := roundInt(float64(finalW) / c.W)
			if th := roundInt(float64(finalH) / c.H); th > t {
				t = th
			}
			targetW, targetH = t, t
		default:
			targetW = roundInt(float64(finalW) / c.W)
			targetH = roundInt(float64(finalH) / c.H)
		}
	default:
		// Unconstrained: identity.
		targetW, targetH = finalW, finalH
	}

	offX = -roundInt(c.X * float64(targetW))
	offY = -roundInt(c.Y * float64(targetH))
	return targetW, targetH, offX, offY
}

func roundInt(f float64) int { return int(math.Round(f)) }

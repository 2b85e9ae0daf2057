package adcanvas

import (
	"errors"
	"fmt"
	"image/color"

	qrcode "github.com/skip2/go-qrcode"
)

// renderQR produces the layer for one qr element: its content encoded at
// medium error correction, sized to the smaller element dimension.
func (r *Renderer) renderQR(el *Element) (*Layer, error) {
	if el.Content == "" {
		return nil, errors.New("qr element has no content")
	}
	size := minInt(roundInt(el.Width), roundInt(el.Height))
	if size <= 0 {
		logger().Debug("qr element has non-positive size, skipping", "id", el.ID)
		return nil, nil
	}

	q, err := qrcode.New(el.Content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	q.ForegroundColor = ParseColor(el.Fill, color.NRGBA{A: 255})
	q.BackgroundColor = ParseColor(el.Background, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	return &Layer{
		Image:   toNRGBA(q.Image(size)),
		X:       roundInt(el.X),
		Y:       roundInt(el.Y),
		Element: el,
	}, nil
}

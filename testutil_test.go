package adcanvas

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

// fakeFetcher serves image bytes from memory so tests never touch the
// network.
type fakeFetcher struct {
	files map[string][]byte
}

func (f *fakeFetcher) Fetch(url string) ([]byte, error) {
	b, ok := f.files[url]
	if !ok {
		return nil, fmt.Errorf("no such resource: %s", url)
	}
	return b, nil
}

// testRenderer returns a renderer wired to an in-memory fetcher.
func testRenderer(files map[string][]byte) *Renderer {
	r := NewRenderer(DefaultConfig())
	r.Fetcher = &fakeFetcher{files: files}
	return r
}

// solidPNG encodes a solid-colored PNG for fake image sources.
func solidPNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := EncodePNG(&buf, imaging.New(w, h, c)); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

// solidLayer builds a layer of one uniform color for compositor tests.
func solidLayer(x, y, w, h int, c color.NRGBA, el *Element) *Layer {
	if el == nil {
		el = &Element{}
	}
	return &Layer{Image: imaging.New(w, h, c), X: x, Y: y, Element: el}
}

func pixAt(img *image.NRGBA, x, y int) color.NRGBA {
	return img.NRGBAAt(x, y)
}

func fptr(v float64) *float64 { return &v }
func bptr(v bool) *bool       { return &v }

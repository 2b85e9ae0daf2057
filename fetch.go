package adcanvas

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	"github.com/disintegration/imaging"
)

// ImageFetcher loads the raw bytes behind an image URL. Implementations
// must fail on network errors and non-2xx responses; the renderer treats
// any failure as a recoverable per-element error. Fetches are never
// retried here; retry policy belongs to the surrounding service.
type ImageFetcher interface {
	Fetch(url string) ([]byte, error)
}

// HTTPFetcher fetches images over HTTP(S) with a bounded timeout.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns a fetcher whose requests time out after the
// given duration (10s if non-positive).
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFetcher{Client: &http.Client{Timeout: timeout}}
}

func (f *HTTPFetcher) Fetch(url string) ([]byte, error) {
	resp, err := f.Client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// decodeImage decodes fetched bytes into the canonical NRGBA form.
func decodeImage(data []byte) (*image.NRGBA, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return toNRGBA(img), nil
}

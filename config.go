package adcanvas

import (
	"image/color"
	"time"
)

// Config holds rendering defaults and collaborator settings. A zero
// Config is not usable; start from DefaultConfig and override fields.
type Config struct {
	// DefaultWidth and DefaultHeight are used when the document declares
	// no canvas size (or a non-positive one).
	DefaultWidth  int
	DefaultHeight int

	// DefaultBackground fills the output canvas when neither the first
	// page nor the document declares a parseable background.
	DefaultBackground color.NRGBA

	// BackgroundImageIDs lists element ids whose images are scaled to
	// exactly fill the canvas height, preserving aspect ratio, instead
	// of the normal keep-ratio/crop sizing.
	BackgroundImageIDs []string

	// DefaultFontFamily is the family tried when an element names none,
	// or when the named family cannot be resolved.
	DefaultFontFamily string

	// FontDirs are extra directories scanned for font files in addition
	// to the OS font directories.
	FontDirs []string

	// FetchTimeout bounds each image download.
	FetchTimeout time.Duration

	// Workers sets the number of goroutines preparing element layers.
	// Values <= 1 prepare strictly in document order on the calling
	// goroutine. Compositing order is unaffected either way.
	Workers int
}

// DefaultConfig returns the stock configuration: a 1080x1080 opaque
// white canvas and serial layer preparation.
func DefaultConfig() *Config {
	return &Config{
		DefaultWidth:      1080,
		DefaultHeight:     1080,
		DefaultBackground: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		DefaultFontFamily: "Arial",
		FetchTimeout:      10 * time.Second,
		Workers:           1,
	}
}

// isBackgroundImage reports whether the element id is configured as a
// canvas background image.
func (c *Config) isBackgroundImage(id string) bool {
	for _, b := range c.BackgroundImageIDs {
		if b == id {
			return true
		}
	}
	return false
}

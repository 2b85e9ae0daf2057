package adcanvas

import (
	"encoding/json"
	"fmt"
	"os"
)

// Document is the top-level JSON template: a canvas size plus ordered
// pages of positioned elements. It is read-only input for one render
// call; nothing in it is mutated or retained across renders.
type Document struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Background any     `json:"background,omitempty"`
	// Pages being nil means the pages field was absent entirely, which
	// Combine treats as the one fatal structural error. An empty
	// non-nil slice is a valid document that renders to a plain
	// background canvas.
	Pages []Page `json:"pages"`
}

// Page groups child elements. Note the background quirk: a page-level
// background paints the whole canvas, not a per-page region; only the
// first page's background is honored (see Renderer.resolveBackground).
type Page struct {
	Background any       `json:"background,omitempty"`
	Children   []Element `json:"children"`
}

// Filter is a named full-image filter applied before scaling.
type Filter struct {
	Type string `json:"type"`
}

// Element is the tagged union of everything that can appear on a page.
// Type selects the variant ("image", "figure", "text", "qr"); fields
// not belonging to the variant are ignored. Optional fields whose zero
// value differs from their default are pointers so that absence can be
// told apart from an explicit zero.
type Element struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Width   float64  `json:"width"`
	Height  float64  `json:"height"`
	Visible *bool    `json:"visible,omitempty"`
	Opacity *float64 `json:"opacity,omitempty"`

	// image
	Src             string   `json:"src,omitempty"`
	CropX           float64  `json:"cropX,omitempty"`
	CropY           float64  `json:"cropY,omitempty"`
	CropWidth       *float64 `json:"cropWidth,omitempty"`
	CropHeight      *float64 `json:"cropHeight,omitempty"`
	KeepRatio       *bool    `json:"keepRatio,omitempty"`
	FlipX           bool     `json:"flipX,omitempty"`
	FlipY           bool     `json:"flipY,omitempty"`
	Rotation        float64  `json:"rotation,omitempty"`
	CornerRadius    float64  `json:"cornerRadius,omitempty"`
	Filters         []Filter `json:"filters,omitempty"`
	Blur            float64  `json:"blur,omitempty"`
	ImageBrightness *float64 `json:"imageBrightness,omitempty"`
	Contrast        *float64 `json:"contrast,omitempty"`
	Saturate        *float64 `json:"saturate,omitempty"`

	// figure
	SubType     string  `json:"subType,omitempty"`
	Fill        any     `json:"fill,omitempty"`
	Stroke      any     `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`

	// text
	Text                   string   `json:"text,omitempty"`
	FontSize               float64  `json:"fontSize,omitempty"`
	FontFamily             string   `json:"fontFamily,omitempty"`
	FontWeight             any      `json:"fontWeight,omitempty"` // "bold", "normal", or a numeric weight
	FontStyle              string   `json:"fontStyle,omitempty"`
	Align                  string   `json:"align,omitempty"`
	VerticalAlign          string   `json:"verticalAlign,omitempty"`
	LineHeight             *float64 `json:"lineHeight,omitempty"`
	BackgroundEnabled      bool     `json:"backgroundEnabled,omitempty"`
	BackgroundColor        any      `json:"backgroundColor,omitempty"`
	BackgroundOpacity      *float64 `json:"backgroundOpacity,omitempty"`
	BackgroundPadding      float64  `json:"backgroundPadding,omitempty"`      // factor of fontSize
	BackgroundCornerRadius float64  `json:"backgroundCornerRadius,omitempty"` // factor of fontSize

	// qr
	Content    string `json:"content,omitempty"`
	Background any    `json:"background,omitempty"`
}

// visible reports the element's visibility, defaulting to true.
func (e *Element) visible() bool {
	return e.Visible == nil || *e.Visible
}

// opacity returns the element opacity clamped to [0,1], defaulting to 1.
func (e *Element) opacity() float64 {
	if e.Opacity == nil {
		return 1
	}
	return clampFloat(*e.Opacity, 0, 1)
}

// crop returns the element's sanitized crop window.
func (e *Element) crop() cropWindow {
	w, h := 1.0, 1.0
	if e.CropWidth != nil {
		w = *e.CropWidth
	}
	if e.CropHeight != nil {
		h = *e.CropHeight
	}
	return sanitizeCrop(e.CropX, e.CropY, w, h)
}

// keepRatio defaults to true, matching the template editor's behavior.
func (e *Element) keepRatio() bool {
	return e.KeepRatio == nil || *e.KeepRatio
}

func (e *Element) fontSize() float64 {
	if e.FontSize > 0 {
		return e.FontSize
	}
	return 20
}

func (e *Element) lineHeight() float64 {
	if e.LineHeight != nil && *e.LineHeight > 0 {
		return *e.LineHeight
	}
	return 1.2
}

func (e *Element) backgroundOpacity() float64 {
	if e.BackgroundOpacity == nil {
		return 1
	}
	return clampFloat(*e.BackgroundOpacity, 0, 1)
}

// effect multipliers default to their neutral value 1.0.

func (e *Element) imageBrightness() float64 { return multiplierOrNeutral(e.ImageBrightness) }
func (e *Element) contrast() float64        { return multiplierOrNeutral(e.Contrast) }
func (e *Element) saturate() float64        { return multiplierOrNeutral(e.Saturate) }

func multiplierOrNeutral(p *float64) float64 {
	if p == nil {
		return 1
	}
	return *p
}

// ParseDocument decodes a JSON template. Decode errors and a missing
// pages field are both fatal; everything else is deferred to render
// time where failures stay scoped to single elements.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadDocument reads and parses a template file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return ParseDocument(data)
}

// Validate checks the document for the structural problems that make a
// render impossible. Per-element issues are not structural; they surface
// as element errors during Combine instead.
func (d *Document) Validate() error {
	if d == nil || d.Pages == nil {
		return ErrMissingPages
	}
	return nil
}

// Package adcanvas renders declarative JSON templates — pages of
// positioned image, figure, text, and qr elements — into composited
// raster images for marketing-asset generation.
//
// Each element is rendered to an independent transparent layer, then all
// layers are merged onto the final canvas through a union-bounding-box
// working surface, so elements may overflow the canvas freely. Per-
// element failures never abort a render: they accumulate as element
// errors alongside the finished image.
package adcanvas

import (
	"fmt"
	"image"
	"image/color"
	"sync"
)

// Renderer turns documents into raster images. Collaborators are plain
// fields so tests and services can substitute fakes; NewRenderer wires
// the production defaults.
type Renderer struct {
	Config  *Config
	Fetcher ImageFetcher
	Fonts   *FontResolver
	Shapes  ShapeTable
}

// NewRenderer creates a renderer with the production collaborators:
// an HTTP image fetcher, a font resolver over the OS font directories,
// and the built-in shape catalog. A nil cfg uses DefaultConfig.
func NewRenderer(cfg *Config) *Renderer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Renderer{
		Config:  cfg,
		Fetcher: NewHTTPFetcher(cfg.FetchTimeout),
		Fonts:   NewFontResolver(cfg.DefaultFontFamily, cfg.FontDirs...),
		Shapes:  DefaultShapeTable(),
	}
}

// renderJob pins an element to its document position for error
// reporting and order-preserving parallel preparation.
type renderJob struct {
	page  int
	index int
	el    *Element
}

type renderResult struct {
	layer *Layer
	err   error
}

// Combine renders the whole document: it walks pages and children in
// order, prepares one layer per visible element, and composites them
// onto a background-filled canvas of the document's declared size.
//
// The returned element errors are advisory: a non-empty list does not
// mean the job failed, only that some elements are absent from the
// image. The only fatal condition is a document without pages.
func (r *Renderer) Combine(doc *Document) (*image.NRGBA, []ElementError, error) {
	if err := doc.Validate(); err != nil {
		return nil, nil, err
	}

	canvasW := roundInt(doc.Width)
	canvasH := roundInt(doc.Height)
	if canvasW <= 0 {
		canvasW = r.Config.DefaultWidth
	}
	if canvasH <= 0 {
		canvasH = r.Config.DefaultHeight
	}
	background := r.resolveBackground(doc)

	var jobs []renderJob
	for p := range doc.Pages {
		for i := range doc.Pages[p].Children {
			el := &doc.Pages[p].Children[i]
			if !el.visible() {
				logger().Debug("element not visible, skipping", "id", el.ID)
				continue
			}
			jobs = append(jobs, renderJob{page: p, index: i, el: el})
		}
	}

	results := r.prepare(jobs, canvasH)

	var layers []*Layer
	var errs []ElementError
	for i, res := range results {
		if res.err != nil {
			errs = append(errs, ElementError{
				Page:  jobs[i].page,
				Index: jobs[i].index,
				ID:    jobs[i].el.ID,
				Type:  jobs[i].el.Type,
				Err:   res.err,
			})
		}
		if res.layer != nil {
			layers = append(layers, res.layer)
		}
	}

	logger().Debug("compositing", "layers", len(layers), "errors", len(errs), "canvas", fmt.Sprintf("%dx%d", canvasW, canvasH))
	return composite(layers, canvasW, canvasH, background), errs, nil
}

// CombineJSON parses a raw template and renders it.
func (r *Renderer) CombineJSON(data []byte) (*image.NRGBA, []ElementError, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, nil, err
	}
	return r.Combine(doc)
}

// prepare renders every job to a layer. With Workers <= 1 this runs
// serially in document order. With more workers the preparation fans
// out, but results land in an indexed slice so the composite step still
// consumes layers and errors in the original document order.
func (r *Renderer) prepare(jobs []renderJob, canvasH int) []renderResult {
	results := make([]renderResult, len(jobs))
	workers := r.Config.Workers
	if workers <= 1 || len(jobs) <= 1 {
		for i, job := range jobs {
			results[i].layer, results[i].err = r.renderElement(job.el, canvasH)
		}
		return results
	}

	if workers > len(jobs) {
		workers = len(jobs)
	}
	indices := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indices {
				results[i].layer, results[i].err = r.renderElement(jobs[i].el, canvasH)
			}
		}()
	}
	for i := range jobs {
		indices <- i
	}
	close(indices)
	wg.Wait()
	return results
}

// renderElement dispatches one element to its layer renderer.
func (r *Renderer) renderElement(el *Element, canvasH int) (*Layer, error) {
	switch el.Type {
	case "image":
		return r.renderImage(el, canvasH)
	case "figure":
		return r.renderFigure(el)
	case "text":
		return r.renderText(el), nil
	case "qr":
		return r.renderQR(el)
	default:
		return nil, fmt.Errorf("unknown element type %q", el.Type)
	}
}

// resolveBackground picks the canvas background: the first page's
// parseable background wins, then the document background, then the
// configured default. Page-level backgrounds beyond the first page have
// no defined semantics and are ignored with a warning.
func (r *Renderer) resolveBackground(doc *Document) color.NRGBA {
	bg := r.Config.DefaultBackground
	if doc.Background != nil {
		bg = ParseColor(doc.Background, bg)
	}
	if len(doc.Pages) > 0 && doc.Pages[0].Background != nil {
		bg = ParseColor(doc.Pages[0].Background, bg)
	}
	for p := 1; p < len(doc.Pages); p++ {
		if doc.Pages[p].Background != nil {
			logger().Warn("page background beyond first page is unsupported, ignoring", "page", p)
		}
	}
	return bg
}

package renderer

import (
	"context"
)

// Default request values. The virtual-time budget caps in-page script
// execution and layout settling, not the wall-clock lifetime of the
// renderer; callers wanting a hard deadline pass one on the context.
const (
	DefaultWidth    = 1400
	DefaultHeight   = 900
	DefaultBudgetMS = 5000
)

// Renderer rasterizes a single URL to an image file. Implementations do
// not validate the URL; a malformed target surfaces as a missing output
// file, which is the caller's success oracle.
type Renderer interface {
	Render(ctx context.Context, req *Request) (*Result, error)

	Close() error
}

// Request describes one capture attempt.
type Request struct {
	// URL is the page to render. Passed through unvalidated.
	URL string

	// OutputPath is where the image is written. The parent directory
	// must already exist; renderers do not create it.
	OutputPath string

	// Viewport dimensions in pixels.
	Width  int
	Height int

	// BudgetMS is the virtual-time budget in milliseconds granted to
	// in-page scripts before the screenshot is forced.
	BudgetMS int

	// HideScrollbars suppresses scrollbars in the rendered output.
	HideScrollbars bool
}

// Result carries whatever extra context a backend could recover from the
// rendered page. All fields are best-effort: the chrome process backend
// leaves HTML empty, the chromedp backend fills it.
type Result struct {
	// HTML is the rendered document's outer HTML, when available.
	HTML string
}

// ApplyDefaults fills zero or negative fields in place.
func (r *Request) ApplyDefaults() {
	if r.Width <= 0 {
		r.Width = DefaultWidth
	}
	if r.Height <= 0 {
		r.Height = DefaultHeight
	}
	if r.BudgetMS <= 0 {
		r.BudgetMS = DefaultBudgetMS
	}
}

// Package capture orchestrates a single screenshot: it hands the target to
// a renderer, then judges success solely by the presence of the output file.
package capture

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pagesnap/pagesnap/internal/history"
	"github.com/pagesnap/pagesnap/internal/logging"
	"github.com/pagesnap/pagesnap/internal/renderer"
	"github.com/pagesnap/pagesnap/internal/utils"
)

var (
	ErrMissingURL        = errors.New("capture: missing url")
	ErrMissingOutputPath = errors.New("capture: missing output path")
)

// CaptureError is the single coarse failure kind: the renderer ran (or
// failed to run) and no file exists at the output path afterward. Renderer
// crashes, timeouts, unreachable URLs and a missing browser binary all
// collapse into it; Cause carries whatever detail the renderer reported.
type CaptureError struct {
	URL        string
	OutputPath string
	Cause      error
}

func (e *CaptureError) Error() string {
	msg := fmt.Sprintf("capture of %s failed: no screenshot at %s", e.URL, e.OutputPath)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *CaptureError) Unwrap() error { return e.Cause }

// Recorder is the slice of the history store the capturer needs. Declared
// here so tests can substitute an in-memory double without a database.
type Recorder interface {
	Record(ctx context.Context, rec *history.Record) (*history.Record, error)
	LastByKey(ctx context.Context, key string) (*history.Record, error)
}

// Request is one capture. URL and OutputPath are required; zero dimensions
// and budget fall back to the renderer defaults.
type Request struct {
	URL        string
	OutputPath string
	Width      int
	Height     int
	BudgetMS   int
}

// Outcome is what a successful capture produced.
type Outcome struct {
	OutputPath string `json:"output_path"`

	// Title and Changed are filled only when a recorder is attached and
	// the backend returned rendered HTML.
	Title    string `json:"title,omitempty"`
	Changed  bool   `json:"changed"`
	RecordID string `json:"record_id,omitempty"`
}

// Capturer runs capture requests against a renderer.
type Capturer struct {
	renderer renderer.Renderer
	recorder Recorder
	logger   logging.Logger
	cfg      Config
}

// New creates a Capturer. recorder may be nil, in which case no history is
// kept.
func New(r renderer.Renderer, rec Recorder, logger logging.Logger, cfg Config) (*Capturer, error) {
	if r == nil {
		return nil, errors.New("capture: nil renderer")
	}
	return &Capturer{
		renderer: r,
		recorder: rec,
		logger:   logger,
		cfg:      cfg,
	}, nil
}

// Capture performs one capture. Required fields are checked before the
// renderer is invoked, so a usage-level mistake never spawns a browser.
// The success oracle is the file's existence after the renderer returns —
// the renderer's own error is attached to the failure but never consulted
// when the file is present.
func (c *Capturer) Capture(ctx context.Context, req *Request) (*Outcome, error) {
	if req == nil || strings.TrimSpace(req.URL) == "" {
		return nil, ErrMissingURL
	}
	if strings.TrimSpace(req.OutputPath) == "" {
		return nil, ErrMissingOutputPath
	}

	rreq := &renderer.Request{
		URL:            req.URL,
		OutputPath:     req.OutputPath,
		Width:          req.Width,
		Height:         req.Height,
		BudgetMS:       req.BudgetMS,
		HideScrollbars: c.cfg.HideScrollbars,
	}
	rreq.ApplyDefaults()

	res, rerr := c.renderer.Render(ctx, rreq)
	if rerr != nil && c.logger != nil {
		c.logger.Debug("renderer reported error",
			logging.Field{Key: "url", Value: req.URL},
			logging.Field{Key: "error", Value: rerr.Error()})
	}

	if _, err := os.Stat(req.OutputPath); err != nil {
		return nil, &CaptureError{URL: req.URL, OutputPath: req.OutputPath, Cause: rerr}
	}

	if c.cfg.Verify {
		if err := verifyImage(req.OutputPath); err != nil {
			return nil, &CaptureError{URL: req.URL, OutputPath: req.OutputPath, Cause: err}
		}
	}

	out := &Outcome{OutputPath: req.OutputPath}

	if c.recorder != nil {
		if res == nil {
			res = &renderer.Result{}
		}
		c.record(ctx, req, rreq, res, out)
	}

	return out, nil
}

// record appends the capture to history. History failures are logged, never
// promoted: the screenshot on disk is the deliverable.
func (c *Capturer) record(ctx context.Context, req *Request, rreq *renderer.Request, res *renderer.Result, out *Outcome) {
	key := utils.NormalizeKey(req.URL)

	rec := &history.Record{
		URL:        req.URL,
		URLKey:     key,
		OutputPath: req.OutputPath,
		Width:      rreq.Width,
		Height:     rreq.Height,
		BudgetMS:   rreq.BudgetMS,
	}

	if res.HTML != "" {
		rec.Title = extractTitle(res.HTML)
		rec.HTML = res.HTML
		sum := sha256.Sum256([]byte(res.HTML))
		rec.ContentHash = hex.EncodeToString(sum[:])

		prev, err := c.recorder.LastByKey(ctx, key)
		switch {
		case err == nil && prev.ContentHash != "":
			// Hashes decide "changed"; the diff runs only when they differ.
			if prev.ContentHash != rec.ContentHash {
				rec.Changed = true
				rec.CharsInserted, rec.CharsDeleted = history.DiffStats(prev.HTML, rec.HTML)
			}
		case err != nil && !errors.Is(err, history.ErrNotFound):
			if c.logger != nil {
				c.logger.Warn("history lookup failed", logging.Field{Key: "error", Value: err.Error()})
			}
		}
	}

	stored, err := c.recorder.Record(ctx, rec)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("history record failed", logging.Field{Key: "error", Value: err.Error()})
		}
		return
	}

	out.Title = stored.Title
	out.Changed = stored.Changed
	out.RecordID = stored.ID
}

// extractTitle pulls the document title out of rendered HTML.
func extractTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

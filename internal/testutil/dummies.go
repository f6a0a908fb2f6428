// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real browsers or I/O.
package testutil

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"sync"

	"github.com/pagesnap/pagesnap/internal/logging"
	"github.com/pagesnap/pagesnap/internal/renderer"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// ─── Renderer ──────────────────────────────────────────────────────────

// DummyRenderer implements renderer.Renderer and records every request it
// receives. When CreateFile is true it writes a small valid PNG to the
// requested output path; otherwise it touches nothing, which is how tests
// simulate a renderer that ran but produced no screenshot. When
// BlockUntilCancel is set, Render parks on the context and returns its
// error, standing in for a hung browser that only a cancellation or
// deadline can unstick.
type DummyRenderer struct {
	mu    sync.Mutex
	calls []renderer.Request

	CreateFile       bool
	BlockUntilCancel bool
	HTML             string
	Err              error
	Closed           bool
}

func (d *DummyRenderer) Render(ctx context.Context, req *renderer.Request) (*renderer.Result, error) {
	d.mu.Lock()
	d.calls = append(d.calls, *req)
	d.mu.Unlock()

	if d.BlockUntilCancel {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	if d.CreateFile {
		if err := WritePNG(req.OutputPath, req.Width, req.Height); err != nil {
			return nil, err
		}
	}
	if d.Err != nil {
		return nil, d.Err
	}
	return &renderer.Result{HTML: d.HTML}, nil
}

func (d *DummyRenderer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Closed = true
	return nil
}

// Calls returns a copy of the recorded requests.
func (d *DummyRenderer) Calls() []renderer.Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]renderer.Request, len(d.calls))
	copy(out, d.calls)
	return out
}

// CallCount returns how many times Render was invoked.
func (d *DummyRenderer) CallCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

// StubBackendConstructor wraps a DummyRenderer so it can be registered as a
// renderer backend under a test-chosen name.
func StubBackendConstructor(stub *DummyRenderer) renderer.BackendConstructor {
	return func(_ renderer.Config, _ logging.Logger) (renderer.Renderer, error) {
		return stub, nil
	}
}

// WritePNG writes a small valid PNG with the given dimensions. Dimensions
// are clamped to 1 so callers can pass request values straight through.
func WritePNG(path string, width, height int) error {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	// Keep the image tiny regardless of the requested viewport.
	if width > 8 {
		width = 8
	}
	if height > 8 {
		height = 8
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xff})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

package renderer

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/pagesnap/pagesnap/internal/logging"
)

// defaultChromeNames are tried in order when no explicit binary path is
// configured. Resolution happens per render so a missing binary surfaces
// the same way as any other failed capture, not as a construction error.
var defaultChromeNames = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
	"headless-shell",
}

// ChromeExecRenderer shells out to an installed Chrome/Chromium binary once
// per render. The child writes the screenshot itself via --screenshot; its
// exit status is reported but never trusted as the success signal.
type ChromeExecRenderer struct {
	chromePath string
	headless   bool
	logger     logging.Logger
}

// NewChromeExecRenderer builds the exec-based renderer. It deliberately does
// not probe for the binary here.
func NewChromeExecRenderer(cfg Config, logger logging.Logger) *ChromeExecRenderer {
	return &ChromeExecRenderer{
		chromePath: cfg.ChromePath,
		headless:   cfg.Headless,
		logger:     logger,
	}
}

// resolveBinary picks the configured path, or the first conventional name
// present on PATH, or the first conventional name as-is so the exec failure
// carries a recognizable command name.
func (r *ChromeExecRenderer) resolveBinary() string {
	if r.chromePath != "" {
		return r.chromePath
	}
	for _, name := range defaultChromeNames {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	return defaultChromeNames[0]
}

func (r *ChromeExecRenderer) commandArgs(req *Request) []string {
	args := []string{
		"--disable-gpu",
		"--no-sandbox",
		"--disable-dev-shm-usage",
	}
	if r.headless {
		args = append([]string{"--headless"}, args...)
	}
	if req.HideScrollbars {
		args = append(args, "--hide-scrollbars")
	}
	args = append(args,
		fmt.Sprintf("--window-size=%d,%d", req.Width, req.Height),
		fmt.Sprintf("--virtual-time-budget=%d", req.BudgetMS),
		fmt.Sprintf("--screenshot=%s", req.OutputPath),
		req.URL,
	)
	return args
}

// Render spawns the browser and blocks until it exits or ctx is done. The
// child's stderr is buffered and attached to the returned error; callers
// only surface it when the output file turns out to be missing.
func (r *ChromeExecRenderer) Render(ctx context.Context, req *Request) (*Result, error) {
	bin := r.resolveBinary()
	args := r.commandArgs(req)

	if r.logger != nil {
		r.logger.Debug("spawning browser",
			logging.Field{Key: "binary", Value: bin},
			logging.Field{Key: "url", Value: req.URL},
			logging.Field{Key: "output", Value: req.OutputPath})
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("browser process: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("browser process: %w", err)
	}

	return &Result{}, nil
}

func (r *ChromeExecRenderer) Close() error {
	return nil
}

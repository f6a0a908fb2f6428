package cli

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pagesnap/pagesnap/internal/renderer"
)

// Args are the parsed command-line arguments for a single capture run.
type Args struct {
	// URL is the page to capture (required).
	URL string

	// OutputPath is where the screenshot lands (required; parent
	// directory must exist).
	OutputPath string

	// Viewport dimensions; defaults applied here so the renderer sees
	// explicit values.
	Width  int
	Height int

	// Backend selects the renderer backend.
	Backend string

	// BudgetMS is the virtual-time budget for in-page scripts.
	BudgetMS int

	// Timeout is an optional wall-clock cap on the whole capture;
	// zero means none.
	Timeout time.Duration

	// Verify enables the PNG header check after capture.
	Verify bool

	// HistoryDir enables the capture history when non-empty.
	HistoryDir string

	// ChromePath pins the browser binary.
	ChromePath string

	// Quiet suppresses diagnostic logging.
	Quiet bool

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

const usageText = `usage: pagesnap [flags] <url> <output_path> [width] [height]

Renders <url> in a headless browser and writes a screenshot to
<output_path>. Width and height default to 1400x900.

flags:
  -backend string    renderer backend: chrome|chromedp (default "chrome")
  -budget int        virtual-time budget in milliseconds (default 5000)
  -timeout duration  wall-clock cap for the capture, e.g. 30s (default none)
  -verify            require a decodable PNG with positive dimensions
  -history string    directory for the capture history database
  -chrome-path string  path to the browser binary
  -quiet             suppress diagnostic logging
`

// Usage returns the usage message printed on argument errors.
func Usage() string { return usageText }

// ParseArgs parses a slice of args and returns Args. Use in tests by passing
// arbitrary slices. The function is deterministic and does not read os.Args.
// Any returned error is a usage error: nothing has been spawned or written.
func ParseArgs(args []string) (*Args, error) {
	fs := flag.NewFlagSet("pagesnap", flag.ContinueOnError)
	var (
		backend    = fs.String("backend", renderer.BackendChrome, "renderer backend: chrome|chromedp")
		budget     = fs.Int("budget", renderer.DefaultBudgetMS, "virtual-time budget in milliseconds")
		timeout    = fs.Duration("timeout", 0, "wall-clock cap for the capture (0 = none)")
		verify     = fs.Bool("verify", false, "require a decodable PNG with positive dimensions")
		historyDir = fs.String("history", "", "directory for the capture history database")
		chromePath = fs.String("chrome-path", "", "path to the browser binary")
		quiet      = fs.Bool("quiet", false, "suppress diagnostic logging")
	)

	// Ensure Parse doesn't write to stdout/stderr in tests
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	rest := fs.Args()
	if len(rest) < 1 || strings.TrimSpace(rest[0]) == "" {
		return nil, fmt.Errorf("missing required <url> argument")
	}
	if len(rest) < 2 || strings.TrimSpace(rest[1]) == "" {
		return nil, fmt.Errorf("missing required <output_path> argument")
	}
	if len(rest) > 4 {
		return nil, fmt.Errorf("unexpected extra arguments: %v", rest[4:])
	}

	width := renderer.DefaultWidth
	height := renderer.DefaultHeight
	if len(rest) >= 3 {
		w, err := parseDimension(rest[2], "width")
		if err != nil {
			return nil, err
		}
		width = w
	}
	if len(rest) == 4 {
		h, err := parseDimension(rest[3], "height")
		if err != nil {
			return nil, err
		}
		height = h
	}

	if *budget <= 0 {
		return nil, fmt.Errorf("-budget must be a positive number of milliseconds")
	}

	return &Args{
		URL:        rest[0],
		OutputPath: rest[1],
		Width:      width,
		Height:     height,
		Backend:    *backend,
		BudgetMS:   *budget,
		Timeout:    *timeout,
		Verify:     *verify,
		HistoryDir: *historyDir,
		ChromePath: *chromePath,
		Quiet:      *quiet,
		RawArgs:    args,
	}, nil
}

func parseDimension(raw, name string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an integer", name, raw)
	}
	if v <= 0 {
		return 0, fmt.Errorf("invalid %s %d: must be positive", name, v)
	}
	return v, nil
}

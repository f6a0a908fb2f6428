// pagesnap renders a URL in a headless browser and writes a screenshot to a
// file. The file's presence after the attempt is the success signal.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pagesnap/pagesnap/internal/capture"
	"github.com/pagesnap/pagesnap/internal/cli"
	"github.com/pagesnap/pagesnap/internal/history"
	"github.com/pagesnap/pagesnap/internal/logging"
	"github.com/pagesnap/pagesnap/internal/renderer"
)

// Exit codes: 0 capture succeeded, 1 capture failed, 2 usage error.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	renderer.RegisterDefaultBackends()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is the whole CLI; split out from main so tests can drive it with
// arbitrary args and writers.
func run(args []string, stdout, stderr io.Writer) int {
	parsed, err := cli.ParseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "pagesnap: %v\n\n%s", err, cli.Usage())
		return exitUsage
	}

	// Diagnostics go to stderr; stdout carries only the result message.
	var logger logging.Logger
	if !parsed.Quiet {
		logger = logging.NewWriterLogger(stderr, "pagesnap")
	}

	rend, err := renderer.NewRenderer(renderer.Config{
		Backend:    parsed.Backend,
		ChromePath: parsed.ChromePath,
		Headless:   true,
	}, logger)
	if err != nil {
		fmt.Fprintf(stderr, "pagesnap: %v\n", err)
		return exitFailure
	}
	defer rend.Close()

	var recorder capture.Recorder
	if parsed.HistoryDir != "" {
		store, herr := history.NewStore(logger, history.Config{Dir: parsed.HistoryDir})
		if herr != nil {
			fmt.Fprintf(stderr, "pagesnap: %v\n", herr)
			return exitFailure
		}
		defer store.Close()
		recorder = store
	}

	captureCfg := capture.DefaultConfig()
	captureCfg.Verify = parsed.Verify

	capturer, err := capture.New(rend, recorder, logger, captureCfg)
	if err != nil {
		fmt.Fprintf(stderr, "pagesnap: %v\n", err)
		return exitFailure
	}

	ctx := context.Background()
	if parsed.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, parsed.Timeout)
		defer cancel()
	}

	outcome, err := capturer.Capture(ctx, &capture.Request{
		URL:        parsed.URL,
		OutputPath: parsed.OutputPath,
		Width:      parsed.Width,
		Height:     parsed.Height,
		BudgetMS:   parsed.BudgetMS,
	})
	if err != nil {
		fmt.Fprintf(stderr, "pagesnap: %v\n", err)
		return exitFailure
	}

	fmt.Fprintf(stdout, "Screenshot saved to %s\n", outcome.OutputPath)
	if outcome.Title != "" {
		fmt.Fprintf(stdout, "Page title: %s\n", outcome.Title)
	}
	if outcome.Changed {
		fmt.Fprintln(stdout, "Page content changed since the previous capture.")
	}
	return exitOK
}

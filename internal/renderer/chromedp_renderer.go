package renderer

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/pagesnap/pagesnap/internal/logging"
)

// idleAfter is how long the network must stay quiet before the page is
// considered settled. The request's virtual-time budget caps the total wait.
const idleAfter = 500 * time.Millisecond

// ChromedpRenderer drives a headless Chrome over the DevTools protocol.
// Unlike the exec backend it writes the screenshot bytes itself and can
// hand back the rendered HTML for history metadata.
type ChromedpRenderer struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	logger      logging.Logger
}

// NewChromedpRenderer sets up the browser allocator. The browser itself is
// launched lazily on the first Render.
func NewChromedpRenderer(cfg Config, logger logging.Logger) (*ChromedpRenderer, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromedpRenderer{
		allocCtx:    allocCtx,
		allocCancel: cancel,
		logger:      logger,
	}, nil
}

// waitNetworkIdle returns a channel that is closed once the page's network
// activity has been quiet for idleAfter.
func waitNetworkIdle(ctx context.Context, idleAfter time.Duration) chan struct{} {
	idleChan := make(chan struct{})
	var activeReqs int32
	var timer *time.Timer
	var timerMutex sync.Mutex
	var once sync.Once

	startTimer := func() {
		timerMutex.Lock()
		defer timerMutex.Unlock()

		if timer != nil {
			timer.Stop()
		}

		timer = time.AfterFunc(idleAfter, func() {
			if atomic.LoadInt32(&activeReqs) == 0 {
				once.Do(func() {
					close(idleChan)
				})
			}
		})
	}

	// Arm immediately in case the page issues no subresource requests.
	startTimer()

	chromedp.ListenTarget(ctx,
		func(ev any) {
			switch ev.(type) {
			case *network.EventRequestWillBeSent:
				atomic.AddInt32(&activeReqs, 1)
			case *network.EventLoadingFinished, *network.EventLoadingFailed:
				if atomic.AddInt32(&activeReqs, -1) <= 0 {
					startTimer()
				}
			}
		})

	return idleChan
}

// Render navigates to the URL, waits for the page to settle (bounded by the
// virtual-time budget), captures the viewport and writes it to the request's
// output path. The parent directory is not created.
func (r *ChromedpRenderer) Render(ctx context.Context, req *Request) (*Result, error) {
	tabCtx, cancel := chromedp.NewContext(r.allocCtx)
	defer cancel()

	// Honor a caller-supplied deadline; there is no internal wall-clock cap.
	if deadline, ok := ctx.Deadline(); ok {
		var dcancel context.CancelFunc
		tabCtx, dcancel = context.WithDeadline(tabCtx, deadline)
		defer dcancel()
	}

	idleChan := waitNetworkIdle(tabCtx, idleAfter)

	err := chromedp.Run(tabCtx,
		network.Enable(),
		chromedp.EmulateViewport(int64(req.Width), int64(req.Height)),
		chromedp.Navigate(req.URL),
	)
	if err != nil {
		return nil, fmt.Errorf("navigate %s: %w", req.URL, err)
	}

	budget := time.Duration(req.BudgetMS) * time.Millisecond
	select {
	case <-idleChan:
	case <-time.After(budget):
		if r.logger != nil {
			r.logger.Debug("budget elapsed before network idle",
				logging.Field{Key: "url", Value: req.URL},
				logging.Field{Key: "budget_ms", Value: req.BudgetMS})
		}
	case <-tabCtx.Done():
		return nil, fmt.Errorf("render canceled: %w", tabCtx.Err())
	}

	var buf []byte
	var html string
	err = chromedp.Run(tabCtx,
		chromedp.CaptureScreenshot(&buf),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}

	if err := os.WriteFile(req.OutputPath, buf, 0644); err != nil {
		return nil, fmt.Errorf("write screenshot: %w", err)
	}

	return &Result{HTML: html}, nil
}

// Close tears down the browser allocator and any remaining tabs.
func (r *ChromedpRenderer) Close() error {
	r.allocCancel()
	return nil
}

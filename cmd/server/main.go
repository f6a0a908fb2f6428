// Command server runs the pagesnap HTTP/WebSocket capture API.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pagesnap/pagesnap/internal/app"
	"github.com/pagesnap/pagesnap/internal/logging"
	"github.com/pagesnap/pagesnap/internal/renderer"
	"github.com/pagesnap/pagesnap/internal/server"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "listen address")
		storage    = flag.String("storage", "~/.config/pagesnap", "storage root for the capture history")
		backend    = flag.String("backend", renderer.BackendChromedp, "renderer backend: chrome|chromedp")
		chromePath = flag.String("chrome-path", "", "path to the browser binary")
		verify     = flag.Bool("verify", false, "require decodable PNGs with positive dimensions")
	)
	flag.Parse()

	logger := logging.NewStdoutLogger("Server")
	renderer.RegisterDefaultBackends()

	cfg := app.DefaultConfig()
	cfg.StorageRoot = *storage
	cfg.ListenAddr = *addr
	cfg.RendererCfg.Backend = *backend
	cfg.RendererCfg.ChromePath = *chromePath
	cfg.CaptureCfg.Verify = *verify

	srv, err := server.New(server.Config{
		Addr:      *addr,
		AppConfig: cfg,
		Logger:    logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
	defer srv.Close()

	if err := srv.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

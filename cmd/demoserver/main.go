// Command demoserver serves a few pages worth screenshotting, for trying
// the capture pipeline locally:
//
//	demoserver -port 3000 &
//	pagesnap http://localhost:3000/ /tmp/out.png
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pagesnap/pagesnap/internal/demoserver"
)

func main() {
	cfg := demoserver.DefaultConfig()
	flag.IntVar(&cfg.Port, "port", cfg.Port, "port to listen on")
	flag.Parse()

	srv := demoserver.NewDemoServer(cfg)
	if err := srv.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "demoserver: %v\n", err)
		os.Exit(1)
	}
}

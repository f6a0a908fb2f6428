package demoserver

import (
	"fmt"
	"net/http"
)

// DemoServer is a simple HTTP server exposing pages worth screenshotting,
// used for demos and manual verification of the capture pipeline.
type DemoServer struct {
	cfg   Config
	pages map[string]PageDefinition
}

// NewDemoServer creates a new demo server instance.
func NewDemoServer(cfg Config) *DemoServer {
	pages := GetAllPages()
	pageMap := make(map[string]PageDefinition)
	for _, p := range pages {
		pageMap[p.Path] = p
	}
	return &DemoServer{cfg: cfg, pages: pageMap}
}

// Handler returns the mux so tests can mount it on httptest.
func (s *DemoServer) Handler() http.Handler {
	mux := http.NewServeMux()
	for path := range s.pages {
		p := path // capture for closure
		mux.HandleFunc(p, s.pageHandler(p))
	}
	return mux
}

// Start starts the demo server.
func (s *DemoServer) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	fmt.Printf("Demo server starting on http://localhost%s\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// pageHandler returns a handler for a specific page path.
func (s *DemoServer) pageHandler(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := s.pages[path]
		if !ok || (path == "/" && r.URL.Path != "/") {
			http.NotFound(w, r)
			return
		}

		contentType := page.ContentType
		if contentType == "" {
			contentType = "text/html"
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(page.HTML))
	}
}

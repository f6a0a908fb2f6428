package renderer

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/pagesnap/pagesnap/internal/logging"
)

// BackendConstructor constructs a Renderer given the config and logger.
type BackendConstructor func(cfg Config, logger logging.Logger) (Renderer, error)

var (
	mu       sync.RWMutex
	registry = map[string]BackendConstructor{}
)

// RegisterBackend registers a named backend constructor. Name is lower-cased
// internally. Calling RegisterBackend with the same name overwrites the
// previous constructor.
func RegisterBackend(name string, ctor BackendConstructor) {
	if name == "" || ctor == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(name)] = ctor
}

// NewRenderer constructs the configured Renderer backend. It returns an
// error if the named backend has not been registered.
func NewRenderer(cfg Config, logger logging.Logger) (Renderer, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = BackendChrome
	}

	mu.RLock()
	ctor, ok := registry[backend]
	mu.RUnlock()
	if !ok || ctor == nil {
		return nil, fmt.Errorf("renderer backend %q not registered: available backends=%v", backend, ListBackends())
	}

	r, err := ctor(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to construct renderer backend %q: %w", backend, err)
	}
	if r == nil {
		return nil, errors.New("renderer constructor returned nil")
	}
	return r, nil
}

// ListBackends returns the list of registered backend names.
func ListBackends() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	return out
}

// RegisterDefaultBackends registers the chrome and chromedp backends.
// Call this from init() or early in main() to make backends available to
// NewRenderer.
func RegisterDefaultBackends() {
	RegisterBackend(BackendChrome, func(cfg Config, logger logging.Logger) (Renderer, error) {
		r := NewChromeExecRenderer(cfg, logger)
		if logger != nil {
			logger.Debug("created chrome exec renderer", logging.Field{Key: "chrome_path", Value: cfg.ChromePath})
		}
		return r, nil
	})

	RegisterBackend(BackendChromedp, func(cfg Config, logger logging.Logger) (Renderer, error) {
		r, err := NewChromedpRenderer(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("create chromedp renderer: %w", err)
		}
		if logger != nil {
			logger.Debug("created chromedp renderer")
		}
		return r, nil
	})
}

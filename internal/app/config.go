package app

import (
	"os"
	"path/filepath"

	"github.com/pagesnap/pagesnap/internal/capture"
	"github.com/pagesnap/pagesnap/internal/history"
	"github.com/pagesnap/pagesnap/internal/renderer"
)

// Config contains the runtime configuration shared by the CLI and the API
// server. We intentionally keep this small — add fields as modules need
// them.
type Config struct {
	// StorageRoot is the base path for the capture history database.
	StorageRoot string

	// ListenAddr is the API server's listen address.
	ListenAddr string

	// Renderer configuration
	RendererCfg renderer.Config

	// Capture configuration
	CaptureCfg capture.Config

	// History configuration; HistoryCfg.Dir empty means history disabled.
	HistoryCfg history.Config
}

// DefaultConfig returns a Config populated with sensible development defaults.
func DefaultConfig() *Config {
	storageRoot := "~/.config/pagesnap"
	return &Config{
		StorageRoot: storageRoot,
		ListenAddr:  ":8080",
		RendererCfg: renderer.DefaultConfig(),
		CaptureCfg:  capture.DefaultConfig(),
		HistoryCfg: history.Config{
			Dir: "", // Needs to be set to enable history
		},
	}
}

// ExpandPath resolves a leading ~ against the user's home directory.
func ExpandPath(p string) (string, error) {
	if len(p) > 0 && p[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, p[1:]), nil
	}
	return p, nil
}

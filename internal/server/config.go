package server

import (
	"github.com/pagesnap/pagesnap/internal/app"
	"github.com/pagesnap/pagesnap/internal/logging"
)

type Config struct {
	// Addr is the HTTP listen address for the API server.
	Addr string

	// AppConfig supplies renderer/capture/history settings; nil means
	// app.DefaultConfig().
	AppConfig *app.Config

	// Logger is optional; nil gets a stdout logger.
	Logger logging.Logger
}

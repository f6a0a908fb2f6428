package demoserver

// Config controls the demo server.
type Config struct {
	// Port to listen on.
	Port int
}

// DefaultConfig returns the default demo server settings.
func DefaultConfig() Config {
	return Config{Port: 3000}
}

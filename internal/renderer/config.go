package renderer

// Backend names understood by RegisterDefaultBackends.
const (
	BackendChrome   = "chrome"
	BackendChromedp = "chromedp"
)

// Config is the minimal configuration required for constructing a Renderer.
type Config struct {
	// Backend selects the registered backend. Empty means "chrome".
	Backend string

	// ChromePath pins the browser binary. Empty means the chrome backend
	// searches conventional names at render time and the chromedp backend
	// lets the library discover an installation.
	ChromePath string

	// Headless is true by default; set false only for local debugging.
	Headless bool
}

// DefaultConfig returns a Config suitable for restricted or containerized
// environments.
func DefaultConfig() Config {
	return Config{
		Backend:  BackendChrome,
		Headless: true,
	}
}

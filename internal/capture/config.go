package capture

// Config controls runtime settings for the capturer.
type Config struct {
	// Verify enables the stricter oracle: after the file-existence check,
	// decode the PNG header and require positive dimensions. Off by
	// default so scripts that only rely on file existence keep working.
	Verify bool

	// HideScrollbars is forwarded to the renderer. On by default.
	HideScrollbars bool
}

// DefaultConfig returns the default capture behavior.
func DefaultConfig() Config {
	return Config{
		Verify:         false,
		HideScrollbars: true,
	}
}

package capture

import (
	"fmt"
	"image/png"
	"os"
)

// verifyImage is the opt-in stronger oracle: the file must be non-empty and
// carry a decodable PNG header with positive dimensions. It reads only the
// header, not the full pixel data.
func verifyImage(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("verify: %s is empty", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("verify: %s is not a valid PNG: %w", path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("verify: %s has degenerate dimensions %dx%d", path, cfg.Width, cfg.Height)
	}
	return nil
}

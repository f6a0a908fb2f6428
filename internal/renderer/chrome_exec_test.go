package renderer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestChromeExec_CommandArgs(t *testing.T) {
	t.Parallel()
	r := NewChromeExecRenderer(Config{Headless: true}, nil)

	req := &Request{
		URL:            "http://localhost:3000",
		OutputPath:     "/tmp/out.png",
		Width:          390,
		Height:         844,
		BudgetMS:       5000,
		HideScrollbars: true,
	}
	args := r.commandArgs(req)

	want := []string{
		"--headless",
		"--disable-gpu",
		"--no-sandbox",
		"--disable-dev-shm-usage",
		"--hide-scrollbars",
		"--window-size=390,844",
		"--virtual-time-budget=5000",
		"--screenshot=/tmp/out.png",
	}
	for _, w := range want {
		found := false
		for _, a := range args {
			if a == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("commandArgs missing %q in %v", w, args)
		}
	}

	// The URL must be the final argument.
	if args[len(args)-1] != req.URL {
		t.Errorf("last arg = %q, want the url", args[len(args)-1])
	}
}

func TestChromeExec_CommandArgsOmitsScrollbarFlagWhenOff(t *testing.T) {
	t.Parallel()
	r := NewChromeExecRenderer(Config{Headless: true}, nil)
	args := r.commandArgs(&Request{URL: "http://x", OutputPath: "o.png", Width: 1400, Height: 900, BudgetMS: 5000})

	for _, a := range args {
		if a == "--hide-scrollbars" {
			t.Fatal("--hide-scrollbars present without HideScrollbars")
		}
	}
}

func TestChromeExec_ResolveBinaryPrefersConfiguredPath(t *testing.T) {
	t.Parallel()
	r := NewChromeExecRenderer(Config{ChromePath: "/opt/custom/chrome"}, nil)
	if got := r.resolveBinary(); got != "/opt/custom/chrome" {
		t.Errorf("resolveBinary = %q, want the configured path", got)
	}
}

func TestChromeExec_RenderWithFakeBrowser(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("fake browser script requires a POSIX shell")
	}

	// A stand-in binary that writes the screenshot path it was given,
	// mimicking the only side effect the real browser has that we rely on.
	dir := t.TempDir()
	fake := filepath.Join(dir, "fake-chrome")
	script := `#!/bin/sh
for arg in "$@"; do
  case "$arg" in
    --screenshot=*) printf 'png' > "${arg#--screenshot=}" ;;
  esac
done
`
	if err := os.WriteFile(fake, []byte(script), 0755); err != nil {
		t.Fatalf("writing fake browser: %v", err)
	}

	r := NewChromeExecRenderer(Config{ChromePath: fake, Headless: true}, nil)
	out := filepath.Join(dir, "out.png")
	if _, err := r.Render(context.Background(), &Request{
		URL: "http://localhost:3000", OutputPath: out, Width: 1400, Height: 900, BudgetMS: 5000,
	}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if _, err := os.Stat(out); err != nil {
		t.Fatalf("fake browser produced no file: %v", err)
	}
}

func TestChromeExec_RenderSurfacesStderrOnFailure(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("fake browser script requires a POSIX shell")
	}

	dir := t.TempDir()
	fake := filepath.Join(dir, "broken-chrome")
	script := "#!/bin/sh\necho 'renderer crashed hard' >&2\nexit 21\n"
	if err := os.WriteFile(fake, []byte(script), 0755); err != nil {
		t.Fatalf("writing fake browser: %v", err)
	}

	r := NewChromeExecRenderer(Config{ChromePath: fake, Headless: true}, nil)
	_, err := r.Render(context.Background(), &Request{
		URL: "http://x", OutputPath: filepath.Join(dir, "out.png"), Width: 1400, Height: 900, BudgetMS: 5000,
	})
	if err == nil {
		t.Fatal("Render succeeded with a failing browser")
	}
	if !strings.Contains(err.Error(), "renderer crashed hard") {
		t.Errorf("error %q does not carry the child's stderr", err)
	}
}

func TestChromeExec_MissingBinarySurfacesAsRenderError(t *testing.T) {
	t.Parallel()
	r := NewChromeExecRenderer(Config{ChromePath: fmt.Sprintf("/nonexistent/browser-%d", os.Getpid()), Headless: true}, nil)

	dir := t.TempDir()
	_, err := r.Render(context.Background(), &Request{
		URL: "http://x", OutputPath: filepath.Join(dir, "out.png"), Width: 1400, Height: 900, BudgetMS: 5000,
	})
	if err == nil {
		t.Fatal("Render succeeded with a missing binary")
	}
}

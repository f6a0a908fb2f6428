package cli_test

import (
	"testing"
	"time"

	"github.com/pagesnap/pagesnap/internal/cli"
)

func TestParseArgs_Defaults(t *testing.T) {
	t.Parallel()
	args, err := cli.ParseArgs([]string{"http://localhost:3000", "/tmp/out.png"})
	if err != nil {
		t.Fatalf("ParseArgs returned error: %v", err)
	}

	if args.URL != "http://localhost:3000" {
		t.Errorf("URL = %q", args.URL)
	}
	if args.OutputPath != "/tmp/out.png" {
		t.Errorf("OutputPath = %q", args.OutputPath)
	}
	if args.Width != 1400 || args.Height != 900 {
		t.Errorf("dimensions = %dx%d, want 1400x900", args.Width, args.Height)
	}
	if args.BudgetMS != 5000 {
		t.Errorf("BudgetMS = %d, want 5000", args.BudgetMS)
	}
	if args.Backend != "chrome" {
		t.Errorf("Backend = %q, want chrome", args.Backend)
	}
	if args.Timeout != 0 {
		t.Errorf("Timeout = %v, want 0", args.Timeout)
	}
}

func TestParseArgs_ExplicitDimensions(t *testing.T) {
	t.Parallel()
	args, err := cli.ParseArgs([]string{"http://localhost:3000/mobile", "/tmp/mobile.png", "390", "844"})
	if err != nil {
		t.Fatalf("ParseArgs returned error: %v", err)
	}
	if args.Width != 390 || args.Height != 844 {
		t.Errorf("dimensions = %dx%d, want 390x844", args.Width, args.Height)
	}
}

func TestParseArgs_Flags(t *testing.T) {
	t.Parallel()
	args, err := cli.ParseArgs([]string{
		"-backend", "chromedp",
		"-budget", "12000",
		"-timeout", "30s",
		"-verify",
		"-history", "/tmp/hist",
		"-quiet",
		"http://example.com", "out.png",
	})
	if err != nil {
		t.Fatalf("ParseArgs returned error: %v", err)
	}
	if args.Backend != "chromedp" {
		t.Errorf("Backend = %q", args.Backend)
	}
	if args.BudgetMS != 12000 {
		t.Errorf("BudgetMS = %d", args.BudgetMS)
	}
	if args.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", args.Timeout)
	}
	if !args.Verify || !args.Quiet {
		t.Errorf("Verify/Quiet = %v/%v, want true/true", args.Verify, args.Quiet)
	}
	if args.HistoryDir != "/tmp/hist" {
		t.Errorf("HistoryDir = %q", args.HistoryDir)
	}
}

func TestParseArgs_UsageErrors(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"missing output", []string{"http://example.com"}},
		{"empty url", []string{"", "/tmp/out.png"}},
		{"non-numeric width", []string{"http://example.com", "out.png", "wide"}},
		{"zero width", []string{"http://example.com", "out.png", "0"}},
		{"negative height", []string{"http://example.com", "out.png", "390", "-1"}},
		{"too many positionals", []string{"http://example.com", "out.png", "390", "844", "extra"}},
		{"bad budget", []string{"-budget", "0", "http://example.com", "out.png"}},
		{"unknown flag", []string{"-frobnicate", "http://example.com", "out.png"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := cli.ParseArgs(tc.args); err == nil {
				t.Fatalf("ParseArgs(%v) succeeded, want usage error", tc.args)
			}
		})
	}
}

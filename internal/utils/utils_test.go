package utils_test

import (
	"testing"

	"github.com/pagesnap/pagesnap/internal/utils"
)

func TestNormalizeKey(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases scheme and host", "HTTP://Example.COM/Path", "http://example.com/Path"},
		{"strips default http port", "http://example.com:80/a", "http://example.com/a"},
		{"strips default https port", "https://example.com:443/a", "https://example.com/a"},
		{"keeps explicit port", "http://localhost:3000/", "http://localhost:3000"},
		{"drops fragment", "http://example.com/a#section", "http://example.com/a"},
		{"trims trailing slash", "http://example.com/a/", "http://example.com/a"},
		{"idna host", "http://bücher.example/", "http://xn--bcher-kva.example"},
		{"not a url is its own key", "not a url at all", "not a url at all"},
		{"whitespace trimmed", "  http://example.com  ", "http://example.com"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := utils.NormalizeKey(tc.in); got != tc.want {
				t.Errorf("NormalizeKey(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeKey_SameKeyForEquivalentURLs(t *testing.T) {
	t.Parallel()
	a := utils.NormalizeKey("HTTP://Example.com:80/page/")
	b := utils.NormalizeKey("http://example.com/page")
	if a != b {
		t.Errorf("equivalent URLs got different keys: %q vs %q", a, b)
	}
}

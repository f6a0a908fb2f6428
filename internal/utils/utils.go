package utils

import (
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// NormalizeKey produces a stable lookup key for a target URL so repeated
// captures of the same page land on the same history row. It never rejects
// input: the capture path passes URLs through to the renderer unvalidated,
// and a string that does not parse is simply its own key.
func NormalizeKey(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.TrimSpace(raw)
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	// Internationalized hostnames keyed in their ASCII form.
	if host := u.Hostname(); host != "" {
		if ascii, aerr := idna.Lookup.ToASCII(host); aerr == nil && ascii != host {
			port := u.Port()
			if port != "" {
				u.Host = ascii + ":" + port
			} else {
				u.Host = ascii
			}
		}
	}

	if (u.Scheme == "http" && strings.HasSuffix(u.Host, ":80")) ||
		(u.Scheme == "https" && strings.HasSuffix(u.Host, ":443")) {
		u.Host, _, _ = strings.Cut(u.Host, ":")
	}

	u.Path = strings.TrimRight(u.Path, "/")

	return u.String()
}

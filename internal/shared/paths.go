// Utilities for parsing file paths dropped or pasted into a terminal.
package shared

import (
	"net/url"
	"runtime"
	"strings"
)

// ParseDroppedPaths splits terminal drop/paste text into individual file paths.
//
// Terminals emit dropped files as whitespace-separated paths, quoting or backslash-escaping spaces,
// and some emit file:// URIs (one per line).
func ParseDroppedPaths(text string) []string {
	var (
		paths   []string
		current strings.Builder
		quote   rune
		escaped bool
		started bool
	)

	flush := func() {
		if started {
			paths = append(paths, normalizeDroppedPath(current.String()))
		}
		current.Reset()
		started = false
	}

	for _, r := range text {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'' && runtime.GOOS != "windows":
			escaped = true
			started = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			started = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			current.WriteRune(r)
			started = true
		}
	}
	flush()

	out := paths[:0]
	for _, p := range paths {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizeDroppedPath converts file:// URIs to local paths.
func normalizeDroppedPath(p string) string {
	if !strings.HasPrefix(p, "file://") {
		return p
	}
	u, err := url.Parse(p)
	if err != nil {
		return strings.TrimPrefix(p, "file://")
	}
	return u.Path
}

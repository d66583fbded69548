package shared

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

var getRuntime = func() string { return runtime.GOOS }

// browserCommands maps a GOOS to the command that opens a URL with the default handler.
var browserCommands = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open"},
	"freebsd": {"xdg-open"},
	"windows": {"rundll32", "url.dll,FileProtocolHandler"},
}

// browserCommand returns the command line that opens url on platform.
func browserCommand(platform, url string) ([]string, error) {
	base, ok := browserCommands[platform]
	if !ok {
		return nil, fmt.Errorf("unsupported platform: %s", platform)
	}
	return append(append([]string{}, base...), url), nil
}

// OpenBrowser opens url in the default system browser without waiting for it to exit.
func OpenBrowser(url string) error {
	argv, err := browserCommand(getRuntime(), url)
	if err != nil {
		return err
	}

	if err := exec.Command(argv[0], argv[1:]...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

// JoinURL appends an absolute route to a base URL without doubling the slash.
func JoinURL(base, route string) string {
	if route == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(route, "/")
}

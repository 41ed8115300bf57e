package shared

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

var getRuntime = func() string { return runtime.GOOS }

// startCommand is swapped out in tests so no browser is launched.
var startCommand = func(cmd *exec.Cmd) error { return cmd.Start() }

// browserCommands maps GOOS to the launcher argv; the URL is appended.
var browserCommands = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open"},
	"freebsd": {"xdg-open"},
	"openbsd": {"xdg-open"},
	"windows": {"rundll32", "url.dll,FileProtocolHandler"},
}

// OpenBrowser opens url with $BROWSER when set, otherwise with the platform launcher.
func OpenBrowser(url string) error {
	argv := strings.Fields(os.Getenv("BROWSER"))
	if len(argv) == 0 {
		rt := getRuntime()
		launcher, ok := browserCommands[rt]
		if !ok {
			return fmt.Errorf("unsupported platform: %s", rt)
		}
		argv = launcher
	}

	args := append(append([]string{}, argv[1:]...), url)
	if err := startCommand(exec.Command(argv[0], args...)); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

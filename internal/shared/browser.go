package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

var currentOS = func() string { return runtime.GOOS }

// OpenBrowser launches the default browser at url so the user can approve
// the OAuth consent screen. The command is started without waiting; the
// callback server picks up the redirect.
func OpenBrowser(url string) error {
	var name string
	var args []string

	switch os := currentOS(); os {
	case "darwin":
		name = "open"
	case "linux":
		name = "xdg-open"
	case "windows":
		name, args = "cmd", []string{"/c", "start"}
	default:
		return fmt.Errorf("no browser launcher for platform %q", os)
	}

	args = append(args, url)
	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
